package core

import (
	"github.com/nordmet/station-admin/pkg/service"
)

type Services struct {
	StationService service.StationService
	SchemaService  service.SchemaService
}

func NewServices(stationStorage service.StationStorage, schemaReader service.SchemaReader) *Services {
	return &Services{
		StationService: NewStationService(stationStorage),
		SchemaService:  NewSchemaService(schemaReader),
	}
}
