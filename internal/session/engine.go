// Package session implements the out-of-band verification session engine: a
// concurrent, in-memory token store with per-token atomic transitions and
// read-time expiry. A process restart loses all sessions, an accepted
// trade-off given their short TTL.
package session

import (
	"context"
	"sync"
	"time"

	"govcheck/internal/config"
	"govcheck/pkg/domain"
	"govcheck/pkg/logger"
	"govcheck/pkg/serrors"

	"go.uber.org/zap"
)

// Options configure session lifetimes and the QR payload.
type Options struct {
	// TTL is how long a session stays pending absent a decision.
	TTL time.Duration
	// RetentionGrace is how long a terminal session stays readable before
	// the sweep reclaims it.
	RetentionGrace time.Duration
	// SweepInterval is how often the reclamation sweep runs.
	SweepInterval time.Duration
	// ConfirmBaseURL is the verification URL the token is appended to when
	// building the QR payload.
	ConfirmBaseURL string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		TTL:            cfg.Session.TTL,
		RetentionGrace: cfg.Session.RetentionGrace,
		SweepInterval:  cfg.Session.SweepInterval,
		ConfirmBaseURL: cfg.Session.ConfirmBaseURL,
	}
}

// entry guards one session. The per-entry mutex makes every transition an
// atomic compare-and-set on that token without serializing unrelated
// sessions.
type entry struct {
	mu sync.Mutex

	session domain.Session
	// terminalAt is when the session left Pending, used for retention.
	terminalAt time.Time
}

// engine is the concrete Engine implementation.
type engine struct {
	options    Options
	normalizer Normalizer

	// sessions maps token -> *entry. Tokens are never reused and callers
	// cannot delete entries; only the sweep reclaims them.
	sessions sync.Map

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// New creates an Engine backed by an empty in-memory store.
func New(normalizer Normalizer, options Options) Engine {
	return &engine{
		options:    options,
		normalizer: normalizer,
		now:        time.Now,
	}
}

// Create validates rawURL through the normalizer, issues a token and stores
// a pending session.
func (e *engine) Create(ctx context.Context, rawURL string) (*CreateResult, error) {
	u, err := e.normalizer.Normalize(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not create session")
	}

	s := domain.Session{
		Token:     token,
		URL:       u,
		Status:    domain.SessionStatusPending,
		CreatedAt: e.now(),
		TTL:       e.options.TTL,
	}
	e.sessions.Store(token, &entry{session: s})

	logger.Debug(ctx, "session created",
		zap.String("host", u.Host),
		zap.Duration("ttl", e.options.TTL),
	)

	return &CreateResult{
		Session:   s,
		QRPayload: e.options.ConfirmBaseURL + "?token=" + token,
	}, nil
}

// Finalize performs the atomic Pending -> {Confirmed, Rejected} transition.
// A TTL-lapsed pending session expires first and reports ErrExpired; an
// already-terminal session reports ErrFinalized.
func (e *engine) Finalize(
	ctx context.Context,
	token string,
	decision domain.SessionStatus,
	reason string) (*domain.Session, error) {
	if decision != domain.SessionStatusConfirmed && decision != domain.SessionStatusRejected {
		return nil, serrors.With(serrors.ErrBadRequest, "invalid decision %q", decision)
	}

	ent, err := e.lookup(token)
	if err != nil {
		return nil, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	now := e.now()
	e.expireLocked(ent, now)

	switch {
	case ent.session.Status == domain.SessionStatusExpired:
		return nil, serrors.With(ErrExpired, "session expired before a decision was made")
	case ent.session.Status.Terminal():
		return nil, serrors.With(ErrFinalized, "session already %s", ent.session.Status)
	}

	ent.session.Status = decision
	if reason != "" {
		ent.session.Reason = &reason
	}
	ent.terminalAt = now

	logger.Info(ctx, "session finalized",
		zap.String("status", string(decision)),
		zap.String("host", ent.session.URL.Host),
	)

	s := ent.session

	return &s, nil
}

// Status returns the session for token, enforcing expiry at read time.
func (e *engine) Status(_ context.Context, token string) (*domain.Session, error) {
	ent, err := e.lookup(token)
	if err != nil {
		return nil, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	e.expireLocked(ent, e.now())
	s := ent.session

	return &s, nil
}

// Run periodically reclaims sessions that have been terminal longer than the
// retention grace. It returns when ctx is done.
func (e *engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.options.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if reclaimed := e.sweep(); reclaimed > 0 {
				logger.Debug(ctx, "reclaimed sessions", zap.Int("count", reclaimed))
			}
		}
	}
}

// lookup fetches the entry for token.
func (e *engine) lookup(token string) (*entry, error) {
	v, ok := e.sessions.Load(token)
	if !ok {
		return nil, serrors.With(ErrNotFound, "unknown session token")
	}

	return v.(*entry), nil
}

// expireLocked lazily transitions a TTL-lapsed pending session to Expired.
// The caller must hold the entry mutex.
func (e *engine) expireLocked(ent *entry, now time.Time) {
	if ent.session.Status != domain.SessionStatusPending {
		return
	}
	if expiresAt := ent.session.ExpiresAt(); now.After(expiresAt) {
		ent.session.Status = domain.SessionStatusExpired
		ent.terminalAt = expiresAt
	}
}

// sweep removes entries whose retention grace has passed and returns how
// many were reclaimed.
func (e *engine) sweep() int {
	now := e.now()
	reclaimed := 0

	e.sessions.Range(func(key, value any) bool {
		ent := value.(*entry)

		ent.mu.Lock()
		e.expireLocked(ent, now)
		terminal := ent.session.Status.Terminal()
		terminalAt := ent.terminalAt
		ent.mu.Unlock()

		if terminal && now.Sub(terminalAt) > e.options.RetentionGrace {
			e.sessions.Delete(key)
			reclaimed++
		}

		return true
	})

	return reclaimed
}
