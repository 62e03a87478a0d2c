package handlers

import (
	"context"
	"net/http"

	"github.com/nordmet/station-admin/pkg/errs"
	"github.com/nordmet/station-admin/pkg/service"
)

type SchemaHandler struct {
	schemaService service.SchemaService
}

func (h *SchemaHandler) GetSchema(ctx context.Context, _ *http.Request, _ any) (*service.Schema, error) {
	const op errs.Op = "SchemaHandler.GetSchema"

	schema, err := h.schemaService.GetSchema(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return schema, nil
}

func NewSchemaHandler(service service.SchemaService) *SchemaHandler {
	return &SchemaHandler{schemaService: service}
}
