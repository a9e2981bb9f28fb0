package v1handler

import (
	"encoding/json"
	"net/http"

	"govcheck/pkg/domain"
	"govcheck/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CreateSessionRequest is the payload for POST /sessions.
type CreateSessionRequest struct {
	URL string `json:"url"`
}

// CreateSessionResponse carries the issued token and the string a caller
// encodes into a QR code.
type CreateSessionResponse struct {
	Token            string `json:"token"`
	QRPayload        string `json:"qrPayload"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// DecisionRequest is the payload for POST /sessions/{token}/decision.
type DecisionRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

// SessionStatusResponse reports a session's current state.
type SessionStatusResponse struct {
	Status domain.SessionStatus `json:"status"`
	Reason *string              `json:"reason,omitempty"`
}

// CreateSession issues a new pending verification session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	res, err := h.deps.Sessions.Create(r.Context(), req.URL)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		Token:            res.Session.Token,
		QRPayload:        res.QRPayload,
		ExpiresInSeconds: int(res.Session.TTL.Seconds()),
	})
}

// FinalizeSession records the companion's confirm/reject decision.
func (h *Handler) FinalizeSession(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	var decision domain.SessionStatus
	switch req.Decision {
	case "confirmed":
		decision = domain.SessionStatusConfirmed
	case "rejected":
		decision = domain.SessionStatusRejected
	default:
		writeError(w, r, serrors.With(serrors.ErrBadRequest, "decision must be confirmed or rejected"))

		return
	}

	ctx := r.Context()
	s, err := h.deps.Sessions.Finalize(ctx, chi.URLParam(r, "token"), decision, req.Reason)
	if err != nil {
		writeError(w, r, err)

		return
	}

	h.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(s.Status))))

	writeJSON(w, http.StatusOK, SessionStatusResponse{Status: s.Status, Reason: s.Reason})
}

// SessionStatus reports the state of a session, lazily expiring it when the
// TTL has lapsed.
func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	s, err := h.deps.Sessions.Status(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, SessionStatusResponse{Status: s.Status, Reason: s.Reason})
}
