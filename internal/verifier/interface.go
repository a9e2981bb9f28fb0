package verifier

import (
	"context"

	"govcheck/pkg/domain"
)

// Service is the synchronous trust-determination entry point: it normalizes
// raw input, probes TLS and classifies the result.
type Service interface {
	// Verify runs the full pipeline and returns the trust verdict, or a
	// structured input error from normalization.
	Verify(ctx context.Context, rawURL string) (*domain.TrustVerdict, error)
	// CertMetadata returns displayable certificate facts for an https URL.
	CertMetadata(ctx context.Context, rawURL string) (*domain.CertificateMetadata, error)
}

// Prober abstracts the network-touching TLS probe so the orchestration and
// its tests stay free of real handshakes.
type Prober interface {
	Outcome(ctx context.Context, u domain.NormalizedURL) domain.TLSOutcome
	Metadata(ctx context.Context, u domain.NormalizedURL) (*domain.CertificateMetadata, error)
}
