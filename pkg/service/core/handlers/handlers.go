package handlers

import (
	"github.com/nordmet/station-admin/pkg/service/core"
)

type Handlers struct {
	StationHandler *StationHandler
	SchemaHandler  *SchemaHandler
}

func NewHandlers(s *core.Services) *Handlers {
	return &Handlers{
		StationHandler: NewStationHandler(s.StationService),
		SchemaHandler:  NewSchemaHandler(s.SchemaService),
	}
}
