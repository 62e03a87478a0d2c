package core

import (
	"context"

	"github.com/nordmet/station-admin/pkg/errs"
	"github.com/nordmet/station-admin/pkg/service"
)

var _ service.SchemaService = &schemaService{}

type schemaService struct {
	schemaReader service.SchemaReader
}

func NewSchemaService(reader service.SchemaReader) *schemaService {
	return &schemaService{schemaReader: reader}
}

func (s *schemaService) GetSchema(ctx context.Context) (*service.Schema, error) {
	const op errs.Op = "schemaService.GetSchema"

	columns, err := s.schemaReader.Columns(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return &service.Schema{Columns: columns}, nil
}
