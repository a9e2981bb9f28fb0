package domain

import "time"

// SessionStatus represents the lifecycle state of a verification session.
// Pending is the only non-terminal state.
type SessionStatus string

const (
	// SessionStatusPending indicates the session awaits an out-of-band decision.
	SessionStatusPending SessionStatus = "PENDING"
	// SessionStatusConfirmed indicates the companion confirmed the verification.
	SessionStatusConfirmed SessionStatus = "CONFIRMED"
	// SessionStatusRejected indicates the companion rejected the verification.
	SessionStatusRejected SessionStatus = "REJECTED"
	// SessionStatusExpired indicates the TTL lapsed before any decision.
	SessionStatusExpired SessionStatus = "EXPIRED"
)

// Terminal reports whether the status permits no further transitions.
func (s SessionStatus) Terminal() bool { return s != SessionStatusPending }

// Session is a short-lived, token-addressed verification awaiting an
// out-of-band confirmation. Once Status leaves Pending it is terminal.
type Session struct {
	// Token is the opaque, unguessable identifier of the session.
	Token string `json:"token"`
	// URL is the normalized URL under verification.
	URL NormalizedURL `json:"url"`
	// Status is the current lifecycle state.
	Status SessionStatus `json:"status"`
	// Reason optionally explains a confirm/reject decision.
	Reason *string `json:"reason,omitempty"`
	// CreatedAt is when the session was issued.
	CreatedAt time.Time `json:"createdAt"`
	// TTL is how long the session stays pending absent a decision.
	TTL time.Duration `json:"-"`
}

// ExpiresAt returns the instant after which a still-pending session counts
// as expired.
func (s Session) ExpiresAt() time.Time { return s.CreatedAt.Add(s.TTL) }
