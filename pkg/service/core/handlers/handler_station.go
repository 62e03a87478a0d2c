package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/nordmet/station-admin/pkg/errs"
	"github.com/nordmet/station-admin/pkg/service"
	"github.com/nordmet/station-admin/pkg/service/core/transport"
)

type StationHandler struct {
	service service.StationService
}

func stationID(ctx context.Context, op errs.Op) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParamFromCtx(ctx, "id"), 10, 64)
	if err != nil {
		return 0, errs.E(errs.InvalidRequest, op, err)
	}

	return id, nil
}

func (h *StationHandler) ListStations(ctx context.Context, _ *http.Request, _ any) (*service.StationsList, error) {
	const op errs.Op = "StationHandler.ListStations"

	stations, err := h.service.ListStations(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return stations, nil
}

func (h *StationHandler) CreateStation(ctx context.Context, _ *http.Request, in service.Record) (*service.StationCreated, error) {
	const op errs.Op = "StationHandler.CreateStation"

	created, err := h.service.CreateStation(ctx, in)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return created, nil
}

func (h *StationHandler) UpdateStation(ctx context.Context, _ *http.Request, in service.Record) (*service.StationUpdated, error) {
	const op errs.Op = "StationHandler.UpdateStation"

	id, err := stationID(ctx, op)
	if err != nil {
		return nil, err
	}

	updated, err := h.service.UpdateStation(ctx, id, in)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return updated, nil
}

func (h *StationHandler) DeleteStation(ctx context.Context, _ *http.Request, _ any) (*transport.Empty, error) {
	const op errs.Op = "StationHandler.DeleteStation"

	id, err := stationID(ctx, op)
	if err != nil {
		return nil, err
	}

	err = h.service.DeleteStation(ctx, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return &transport.Empty{}, nil
}

func (h *StationHandler) CloneStation(ctx context.Context, _ *http.Request, _ any) (*service.StationCreated, error) {
	const op errs.Op = "StationHandler.CloneStation"

	id, err := stationID(ctx, op)
	if err != nil {
		return nil, err
	}

	clone, err := h.service.CloneStation(ctx, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return clone, nil
}

func NewStationHandler(service service.StationService) *StationHandler {
	return &StationHandler{service: service}
}
