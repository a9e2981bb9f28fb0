package v1handler

import (
	"net/http"

	"govcheck/pkg/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// VerifyResponse is the verdict plus the derived trust summary.
type VerifyResponse struct {
	domain.TrustVerdict

	// Trusted is the overall summary: gov.pl zone, allow-listed and a valid
	// certificate, with unknown signals counting as not trusted.
	Trusted bool `json:"trusted"`
}

// Verify runs the synchronous trust check for the url query parameter.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	verdict, err := h.deps.Verifier.Verify(ctx, r.URL.Query().Get("url"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	h.verifications.Add(ctx, 1, metric.WithAttributes(attribute.Bool("trusted", verdict.Trusted())))

	writeJSON(w, http.StatusOK, VerifyResponse{TrustVerdict: *verdict, Trusted: verdict.Trusted()})
}

// CertMetadata returns the certificate facts for the url query parameter.
func (h *Handler) CertMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.deps.Verifier.CertMetadata(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, meta)
}
