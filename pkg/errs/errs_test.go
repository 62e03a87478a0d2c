package errs_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordmet/station-admin/pkg/errs"
)

func TestE(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		expectKind errs.Kind
		expectMsg  string
		expectOps  []string
	}{
		{
			name:       "kind and message",
			err:        errs.E(errs.Op("store.Create"), errs.Database, "no row returned"),
			expectKind: errs.Database,
			expectMsg:  "no row returned",
			expectOps:  []string{"store.Create"},
		},
		{
			name:       "wrapped error inherits kind",
			err:        errs.E(errs.Op("service.Create"), errs.E(errs.Op("store.Create"), errs.NotExist, "station not found")),
			expectKind: errs.NotExist,
			expectMsg:  "station not found",
			expectOps:  []string{"service.Create", "store.Create"},
		},
		{
			name:       "plain error",
			err:        errs.E(errs.Op("pool.Acquire"), errs.Database, errors.New("connection refused")),
			expectKind: errs.Database,
			expectMsg:  "connection refused",
			expectOps:  []string{"pool.Acquire"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.err)
			assert.True(t, errs.KindIs(tc.expectKind, tc.err))
			assert.Equal(t, tc.expectMsg, errs.Message(tc.err))
			assert.Equal(t, tc.expectOps, errs.OpStack(tc.err))
		})
	}
}

func TestKindIs(t *testing.T) {
	err := errs.E(errs.Op("outer"), errs.E(errs.Op("inner"), errs.Unauthenticated, "no principal header"))

	assert.True(t, errs.KindIs(errs.Unauthenticated, err))
	assert.False(t, errs.KindIs(errs.Database, err))
	assert.False(t, errs.KindIs(errs.Database, errors.New("plain")))
}

func TestHTTPErrorResponse(t *testing.T) {
	testCases := []struct {
		name         string
		err          error
		expectStatus int
		expectError  string
	}{
		{
			name:         "auth failure is a 401",
			err:          errs.E(errs.Unauthenticated, "Unauthorized - Please log in to access this application"),
			expectStatus: http.StatusUnauthorized,
			expectError:  "Unauthorized - Please log in to access this application",
		},
		{
			name:         "database failure is a 500",
			err:          errs.E(errs.Op("schema.Columns"), errs.Database, "no schema information found for StationTracking table"),
			expectStatus: http.StatusInternalServerError,
			expectError:  "no schema information found for StationTracking table",
		},
		{
			name:         "plain error is a 500",
			err:          errors.New("boom"),
			expectStatus: http.StatusInternalServerError,
			expectError:  "boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			errs.HTTPErrorResponse(rec, zerolog.Nop(), tc.err)

			assert.Equal(t, tc.expectStatus, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

			var body errs.ErrResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.expectError, body.Error)
		})
	}
}
