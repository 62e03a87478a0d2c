package core

import (
	"context"

	"github.com/nordmet/station-admin/pkg/errs"
	"github.com/nordmet/station-admin/pkg/service"
)

var _ service.StationService = &stationService{}

type stationService struct {
	stationStorage service.StationStorage
}

func NewStationService(storage service.StationStorage) *stationService {
	return &stationService{stationStorage: storage}
}

func (s *stationService) ListStations(ctx context.Context) (*service.StationsList, error) {
	const op errs.Op = "stationService.ListStations"

	records, err := s.stationStorage.ListStations(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	if records == nil {
		records = []service.Record{}
	}

	return &service.StationsList{Stations: records}, nil
}

// CreateStation persists a new station from an arbitrary field map. The
// identity column is never client-writable and is dropped up front; the
// active flag defaults to true when the payload omits it.
func (s *stationService) CreateStation(ctx context.Context, fields service.Record) (*service.StationCreated, error) {
	const op errs.Op = "stationService.CreateStation"

	if len(fields) == 0 {
		return nil, errs.E(op, errs.Validation, "request body is empty")
	}

	fields = fields.Clone()
	fields.StripIdentity()

	if active, ok := fields[service.ActiveColumn]; ok {
		fields[service.ActiveColumn] = service.BoolValue(active.Truthy())
	} else {
		fields[service.ActiveColumn] = service.BoolValue(true)
	}

	record, err := s.stationStorage.CreateStation(ctx, fields)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return &service.StationCreated{Station: record}, nil
}

func (s *stationService) UpdateStation(ctx context.Context, id int64, fields service.Record) (*service.StationUpdated, error) {
	const op errs.Op = "stationService.UpdateStation"

	fields = fields.Clone()
	fields.StripIdentity()

	if len(fields) == 0 {
		return nil, errs.E(op, errs.Validation, "no updatable fields in request body")
	}

	record, err := s.stationStorage.UpdateStation(ctx, id, fields)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return &service.StationUpdated{Station: record}, nil
}

func (s *stationService) DeleteStation(ctx context.Context, id int64) error {
	const op errs.Op = "stationService.DeleteStation"

	if err := s.stationStorage.DeleteStation(ctx, id); err != nil {
		return errs.E(op, err)
	}

	return nil
}

// CloneStation copies an existing row into a new one. The source row is
// read by identity, stripped of it, and re-inserted through the same
// insert-returning-row statement used by create, so the new identity comes
// back atomically with the insert.
func (s *stationService) CloneStation(ctx context.Context, id int64) (*service.StationCreated, error) {
	const op errs.Op = "stationService.CloneStation"

	source, err := s.stationStorage.GetStation(ctx, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	fields := source.Clone()
	fields.StripIdentity()

	record, err := s.stationStorage.CreateStation(ctx, fields)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return &service.StationCreated{Station: record}, nil
}
