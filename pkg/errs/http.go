package errs

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// ErrResponse is the JSON body written for every failed request.
type ErrResponse struct {
	Error string `json:"error"`
}

// httpStatus maps an error kind to a response status. Authentication
// failures are the only distinguished client errors; everything else is a
// 500, matching the admin API's flat error surface.
func httpStatus(kind Kind) int {
	switch kind {
	case Unauthenticated, Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorResponse logs err and writes it to w as {"error": message} with
// a status derived from the error kind. A nil err is reported as an
// internal inconsistency.
func HTTPErrorResponse(w http.ResponseWriter, logger zerolog.Logger, err error) {
	if err == nil {
		logger.Error().Msg("nil error passed to HTTPErrorResponse")
		writeJSON(w, logger, http.StatusInternalServerError, ErrResponse{Error: "internal error"})
		return
	}

	var kind Kind
	var e *Error
	if errors.As(err, &e) {
		kind = topKind(err)
	}

	logger.Error().
		Err(err).
		Strs("ops", OpStack(err)).
		Str("kind", kind.String()).
		Msg("request failed")

	writeJSON(w, logger, httpStatus(kind), ErrResponse{Error: Message(err)})
}

// topKind returns the first non-Other kind in the chain.
func topKind(err error) Kind {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind != Other {
			return e.Kind
		}
		err = e.Err
	}
	return Other
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, body ErrResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("encoding error response")
	}
}
