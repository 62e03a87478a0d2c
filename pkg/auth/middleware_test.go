package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordmet/station-admin/pkg/auth"
)

const expectedTenant = "11111111-2222-3333-4444-555555555555"

func authedHandler(t *testing.T, captured **auth.Principal) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = auth.GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware(t *testing.T) {
	testCases := []struct {
		name            string
		managed         bool
		headers         map[string]string
		expectStatus    int
		expectError     string
		expectPrincipal bool
	}{
		{
			name:         "local development passes without headers",
			managed:      false,
			expectStatus: http.StatusOK,
		},
		{
			name:         "managed without principal header is rejected",
			managed:      true,
			expectStatus: http.StatusUnauthorized,
			expectError:  "Unauthorized - Please log in to access this application",
		},
		{
			name:    "managed with wrong tenant is rejected",
			managed: true,
			headers: map[string]string{
				auth.PrincipalIDHeader:     "user-1",
				auth.PrincipalTenantHeader: "99999999-0000-0000-0000-000000000000",
			},
			expectStatus: http.StatusUnauthorized,
			expectError:  "Unauthorized - Only users from tenant " + expectedTenant + " are allowed to access this application",
		},
		{
			name:    "managed with matching tenant passes",
			managed: true,
			headers: map[string]string{
				auth.PrincipalIDHeader:     "user-1",
				auth.PrincipalNameHeader:   "Kari Nordmann",
				auth.PrincipalTenantHeader: expectedTenant,
			},
			expectStatus:    http.StatusOK,
			expectPrincipal: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var principal *auth.Principal

			handler := auth.Middleware(expectedTenant, tc.managed, zerolog.Nop())(authedHandler(t, &principal))

			req := httptest.NewRequest(http.MethodGet, "/stations", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectStatus, rec.Code)

			if tc.expectError != "" {
				var body struct {
					Error string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tc.expectError, body.Error)
			}

			if tc.expectPrincipal {
				require.NotNil(t, principal)
				assert.Equal(t, "user-1", principal.ID)
				assert.Equal(t, "Kari Nordmann", principal.Name)
				assert.Equal(t, expectedTenant, principal.TenantID)
			}
		})
	}
}
