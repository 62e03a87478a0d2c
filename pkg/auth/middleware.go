package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nordmet/station-admin/pkg/errs"
)

// Trusted headers injected by the managed host's ingress. They carry the
// already-authenticated principal; we never see raw credentials.
const (
	PrincipalIDHeader     = "X-MS-CLIENT-PRINCIPAL-ID"
	PrincipalNameHeader   = "X-MS-CLIENT-PRINCIPAL-NAME"
	PrincipalTenantHeader = "X-MS-CLIENT-PRINCIPAL-TENANT-ID"
)

type contextKey int

const contextPrincipalKey contextKey = 1

// Principal identifies the caller as reported by the trusted headers.
type Principal struct {
	ID       string
	Name     string
	TenantID string
}

func GetPrincipal(ctx context.Context) *Principal {
	principal, _ := ctx.Value(contextPrincipalKey).(*Principal)
	return principal
}

func SetPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, principal)
}

// Middleware enforces the single-tenant identity check. Outside a managed
// environment every request passes, which is what local development runs
// on. On a managed host the principal header must be present and the
// tenant header must match the configured tenant. Every request is
// re-evaluated; there is no session state.
func Middleware(expectedTenantID string, managed bool, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op errs.Op = "auth.Middleware"

			if !managed {
				next.ServeHTTP(w, r)
				return
			}

			principalID := r.Header.Get(PrincipalIDHeader)
			if principalID == "" {
				errs.HTTPErrorResponse(w, logger,
					errs.E(op, errs.Unauthenticated, "Unauthorized - Please log in to access this application"))
				return
			}

			tenantID := r.Header.Get(PrincipalTenantHeader)
			if tenantID != expectedTenantID {
				errs.HTTPErrorResponse(w, logger,
					errs.E(op, errs.Unauthorized,
						fmt.Sprintf("Unauthorized - Only users from tenant %s are allowed to access this application", expectedTenantID)))
				return
			}

			principal := &Principal{
				ID:       principalID,
				Name:     r.Header.Get(PrincipalNameHeader),
				TenantID: tenantID,
			}

			next.ServeHTTP(w, r.WithContext(SetPrincipal(r.Context(), principal)))
		})
	}
}
