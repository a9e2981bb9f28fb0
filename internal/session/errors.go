package session

import "govcheck/pkg/serrors"

// Error kinds raised by the session engine.
var (
	// ErrNotFound indicates the token was never issued or has been reclaimed.
	ErrNotFound = serrors.NewKind("SESSION_NOT_FOUND")
	// ErrFinalized indicates the session already reached a terminal decision;
	// the losing side of a decision race observes this, not a crash.
	ErrFinalized = serrors.NewKind("SESSION_ALREADY_FINALIZED")
	// ErrExpired indicates the session's TTL lapsed before any decision.
	ErrExpired = serrors.NewKind("SESSION_EXPIRED")
)
