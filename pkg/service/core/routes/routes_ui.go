package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/nordmet/station-admin/pkg/service/core/transport"
	"github.com/nordmet/station-admin/pkg/ui"
)

type UIEndpoints struct {
	GetAdminPage http.HandlerFunc
}

func NewUIEndpoints(log zerolog.Logger) *UIEndpoints {
	page := func(_ context.Context, _ *http.Request, _ any) (*transport.ByteWriter, error) {
		return transport.NewByteWriter("text/html; charset=utf-8", ui.AdminPage), nil
	}

	return &UIEndpoints{
		GetAdminPage: transport.For(page).Build(log),
	}
}

func NewUIRoutes(endpoints *UIEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Get("/ui", endpoints.GetAdminPage)
	}
}
