// Package v1handler implements the v1 HTTP API: synchronous trust
// verification, certificate metadata and the out-of-band session flow.
package v1handler

import (
	"net/http"
	"time"

	"govcheck/internal/session"
	"govcheck/internal/verifier"
	"govcheck/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Deps are the services the handlers delegate to.
type Deps struct {
	// Verifier runs the synchronous trust-determination pipeline.
	Verifier verifier.Service
	// Sessions manages out-of-band verification sessions.
	Sessions session.Engine
	// CompanionSecret signs the bearer tokens that authorize session decisions.
	CompanionSecret string
}

// Handler serves the v1 routes.
type Handler struct {
	deps Deps

	verifications metric.Int64Counter
	transitions   metric.Int64Counter
	latency       metric.Float64Histogram
}

// New creates a Handler with its instruments registered on the given meter
// provider.
func New(deps Deps, mp metric.MeterProvider) *Handler {
	meter := mp.Meter("govcheck/v1handler")

	verifications, _ := meter.Int64Counter("verifications_total",
		metric.WithDescription("URL verifications served, by trust summary"))
	transitions, _ := meter.Int64Counter("session_transitions_total",
		metric.WithDescription("Session finalizations served, by resulting status"))
	latency, _ := meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("Request handling latency, by route"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))

	return &Handler{
		deps:          deps,
		verifications: verifications,
		transitions:   transitions,
		latency:       latency,
	}
}

// Routes returns the chi router for the v1 API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.measure)

	r.Get("/verify", h.Verify)
	r.Get("/certificate", h.CertMetadata)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{token}", h.SessionStatus)
		r.Group(func(r chi.Router) {
			r.Use(RequireCompanion(h.deps.CompanionSecret))
			r.Post("/{token}/decision", h.FinalizeSession)
		})
	})

	return r
}

// measure records per-route handling latency.
func (h *Handler) measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		h.latency.Record(r.Context(), time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("route", chi.RouteContext(r.Context()).RoutePattern())))
	})
}

// maxBodyBytes caps JSON request bodies; session payloads are tiny.
const maxBodyBytes = 16 << 10

func limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
}
