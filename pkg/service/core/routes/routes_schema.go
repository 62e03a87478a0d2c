package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/nordmet/station-admin/pkg/service/core/handlers"
	"github.com/nordmet/station-admin/pkg/service/core/transport"
)

type SchemaEndpoints struct {
	GetSchema http.HandlerFunc
}

func NewSchemaEndpoints(log zerolog.Logger, h *handlers.SchemaHandler) *SchemaEndpoints {
	return &SchemaEndpoints{
		GetSchema: transport.For(h.GetSchema).Build(log),
	}
}

func NewSchemaRoutes(endpoints *SchemaEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/schema", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", endpoints.GetSchema)
		})
	}
}
