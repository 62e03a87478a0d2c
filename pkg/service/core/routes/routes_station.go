package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/nordmet/station-admin/pkg/service/core/handlers"
	"github.com/nordmet/station-admin/pkg/service/core/transport"
)

type StationEndpoints struct {
	ListStations  http.HandlerFunc
	CreateStation http.HandlerFunc
	UpdateStation http.HandlerFunc
	DeleteStation http.HandlerFunc
	CloneStation  http.HandlerFunc
}

func NewStationEndpoints(log zerolog.Logger, h *handlers.StationHandler) *StationEndpoints {
	return &StationEndpoints{
		ListStations:  transport.For(h.ListStations).Build(log),
		CreateStation: transport.For(h.CreateStation).RequestFromJSON().Build(log),
		UpdateStation: transport.For(h.UpdateStation).RequestFromJSON().Build(log),
		DeleteStation: transport.For(h.DeleteStation).Build(log),
		CloneStation:  transport.For(h.CloneStation).Build(log),
	}
}

func NewStationRoutes(endpoints *StationEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/stations", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", endpoints.ListStations)
			r.Post("/", endpoints.CreateStation)
			r.Put("/{id}", endpoints.UpdateStation)
			r.Delete("/{id}", endpoints.DeleteStation)
			r.Post("/clone/{id}", endpoints.CloneStation)
		})
	}
}
