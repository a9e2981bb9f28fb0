package session

import (
	"context"

	"govcheck/pkg/domain"
)

// Normalizer validates and canonicalizes raw URLs before a session is
// created. Satisfied by verifier.Normalizer.
type Normalizer interface {
	Normalize(ctx context.Context, raw string) (domain.NormalizedURL, error)
}

// CreateResult is returned by Create: the pending session plus the payload
// a caller encodes into a QR code.
type CreateResult struct {
	Session   domain.Session
	QRPayload string
}

// Engine issues, stores and transitions short-lived verification sessions.
type Engine interface {
	// Create validates rawURL, issues a fresh token and stores a pending
	// session. Fails the same way as the normalizer on bad input.
	Create(ctx context.Context, rawURL string) (*CreateResult, error)
	// Finalize transitions a pending session to Confirmed or Rejected.
	// Exactly one concurrent caller wins; the rest observe ErrFinalized.
	Finalize(ctx context.Context, token string, decision domain.SessionStatus, reason string) (*domain.Session, error)
	// Status returns the session for token, lazily expiring a pending
	// session whose TTL has lapsed.
	Status(ctx context.Context, token string) (*domain.Session, error)
	// Run sweeps reclaimed-eligible sessions until ctx is done.
	Run(ctx context.Context)
}
