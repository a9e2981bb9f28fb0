// Package verifier implements the trust-determination pipeline: URL
// normalization with SSRF screening, a real TLS handshake probe, certificate
// metadata extraction and the pure trust classifier.
package verifier

import (
	"context"
	"time"

	"govcheck/internal/config"
	"govcheck/pkg/domain"
	"govcheck/pkg/whitelist"
)

// Options configure input bounds and network deadlines for verification.
// These settings are typically derived from application configuration.
type Options struct {
	// MaxURLLength caps the accepted length of raw input.
	MaxURLLength int
	// HandshakeTimeout bounds the TLS handshake and the follow-up GET.
	HandshakeTimeout time.Duration
	// DNSTimeout bounds the SSRF guard's host resolution.
	DNSTimeout time.Duration
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxURLLength:     cfg.Verifier.MaxURLLength,
		HandshakeTimeout: cfg.Verifier.HandshakeTimeout,
		DNSTimeout:       cfg.Verifier.DNSTimeout,
	}
}

// service is the concrete implementation of the Service interface. Each
// verification runs independently; the only shared state is the read-only
// allow-list.
type service struct {
	normalizer *Normalizer
	prober     Prober
	// allow is nil when the allow-list failed to load at startup; verdicts
	// then carry Unknown membership.
	allow *whitelist.Set
}

// Verify normalizes rawURL, probes its TLS endpoint and classifies the
// combined result. Input errors (empty, malformed, unsupported scheme, SSRF
// blocked) are returned as semantic errors; a failed handshake is not an
// error but part of the verdict.
func (s service) Verify(ctx context.Context, rawURL string) (*domain.TrustVerdict, error) {
	u, err := s.normalizer.Normalize(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	outcome := s.prober.Outcome(ctx, u)
	verdict := Classify(u, s.allow, outcome)

	return &verdict, nil
}

// CertMetadata normalizes rawURL and extracts the certificate facts its host
// presents. Requires the https scheme.
func (s service) CertMetadata(ctx context.Context, rawURL string) (*domain.CertificateMetadata, error) {
	u, err := s.normalizer.Normalize(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	return s.prober.Metadata(ctx, u)
}

// New creates a Service backed by the given allow-list and prober. A nil
// prober selects the real TLS probe.
func New(allow *whitelist.Set, prober Prober, options Options) Service {
	if prober == nil {
		prober = NewProbe(options.HandshakeTimeout)
	}

	return &service{
		normalizer: NewNormalizer(options.MaxURLLength, options.DNSTimeout),
		prober:     prober,
		allow:      allow,
	}
}
