package v1handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"govcheck/internal/session"
	"govcheck/internal/verifier"
	"govcheck/pkg/logger"
	"govcheck/pkg/serrors"

	"go.uber.org/zap"
)

// errorBody is the JSON error envelope for the v1 API.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusForKind maps semantic error kinds to HTTP status codes. Unknown
// errors fall through to 500.
func statusForKind(err error) (int, bool) {
	switch {
	case errors.Is(err, verifier.ErrEmptyInput),
		errors.Is(err, verifier.ErrMalformedURL),
		errors.Is(err, verifier.ErrUnsupportedScheme),
		errors.Is(err, verifier.ErrSsrfBlocked),
		errors.Is(err, serrors.ErrBadRequest):
		return http.StatusBadRequest, true
	case errors.Is(err, serrors.ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, session.ErrNotFound), errors.Is(err, serrors.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, session.ErrFinalized), errors.Is(err, serrors.ErrConflict):
		return http.StatusConflict, true
	case errors.Is(err, session.ErrExpired):
		return http.StatusGone, true
	case errors.Is(err, verifier.ErrCertUnavailable):
		return http.StatusBadGateway, true
	}

	return http.StatusInternalServerError, false
}

// writeError renders err as a JSON error response. Expected (semantic)
// errors expose their message; anything else is logged and replaced by a
// generic body so internals never leak to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, known := statusForKind(err)

	body := errorBody{Code: serrors.ErrInternal.Error(), Message: "verification failed"}
	if known {
		body.Message = err.Error()
		var k serrors.Kind
		if errors.As(err, &k) {
			body.Code = k.Error()
		}
	} else {
		logger.Error(r.Context(), "unexpected handler error", zap.Error(err))
	}

	writeJSON(w, status, body)
}

// writeJSON renders v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
