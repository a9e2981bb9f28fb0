package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"govcheck/pkg/domain"
	"govcheck/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// initialize the default logger so engine logging has a sink
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

// staticNormalizer returns a fixed NormalizedURL for any non-empty input.
type staticNormalizer struct {
	err error
}

func (n staticNormalizer) Normalize(_ context.Context, raw string) (domain.NormalizedURL, error) {
	if n.err != nil {
		return domain.NormalizedURL{}, n.err
	}

	return domain.NormalizedURL{Scheme: "https", Host: "elblag.piw.gov.pl", Raw: "https://elblag.piw.gov.pl"}, nil
}

// fakeClock is a settable clock for driving expiry deterministically.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestEngine(t *testing.T, opts Options) (*engine, *fakeClock) {
	t.Helper()

	if opts.TTL == 0 {
		opts.TTL = 120 * time.Second
	}
	if opts.RetentionGrace == 0 {
		opts.RetentionGrace = 3 * opts.TTL
	}
	if opts.ConfirmBaseURL == "" {
		opts.ConfirmBaseURL = "https://localhost:8080/v1/sessions"
	}

	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	e := New(staticNormalizer{}, opts).(*engine)
	e.now = clock.Now

	return e, clock
}

func TestCreate_PendingWithQRPayload(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res, err := e.Create(context.Background(), "elblag.piw.gov.pl")
	require.NoError(t, err)
	require.Equal(t, domain.SessionStatusPending, res.Session.Status)
	require.NotEmpty(t, res.Session.Token)
	require.Equal(t, "https://localhost:8080/v1/sessions?token="+res.Session.Token, res.QRPayload)
	require.Equal(t, 120*time.Second, res.Session.TTL)
}

func TestCreate_TokensUnique(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		res, err := e.Create(context.Background(), "x")
		require.NoError(t, err)
		require.False(t, seen[res.Session.Token], "token reuse")
		seen[res.Session.Token] = true
	}
}

func TestCreate_NormalizationErrorPropagates(t *testing.T) {
	wantErr := context.DeadlineExceeded
	e := New(staticNormalizer{err: wantErr}, Options{TTL: time.Minute}).(*engine)

	_, err := e.Create(context.Background(), "anything")
	require.ErrorIs(t, err, wantErr)
}

func TestStatus_ExpiryAtReadTime(t *testing.T) {
	e, clock := newTestEngine(t, Options{TTL: 120 * time.Second})

	res, err := e.Create(context.Background(), "x")
	require.NoError(t, err)
	token := res.Session.Token

	// strictly before createdAt+ttl the session is pending
	clock.Advance(119 * time.Second)
	s, err := e.Status(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStatusPending, s.Status)

	// strictly after it is expired
	clock.Advance(2 * time.Second)
	s, err = e.Status(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStatusExpired, s.Status)
}

func TestStatus_UnknownToken(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	_, err := e.Status(context.Background(), "never-issued")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFinalize_ConfirmAndRejectPaths(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res, err := e.Create(context.Background(), "x")
	require.NoError(t, err)

	s, err := e.Finalize(context.Background(), res.Session.Token, domain.SessionStatusConfirmed, "looks right")
	require.NoError(t, err)
	require.Equal(t, domain.SessionStatusConfirmed, s.Status)
	require.NotNil(t, s.Reason)
	require.Equal(t, "looks right", *s.Reason)

	// terminal states accept no further transitions
	_, err = e.Finalize(context.Background(), res.Session.Token, domain.SessionStatusRejected, "")
	require.ErrorIs(t, err, ErrFinalized)

	s, err = e.Status(context.Background(), res.Session.Token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStatusConfirmed, s.Status, "losing decision must not overwrite the winner")
}

func TestFinalize_InvalidDecision(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res, err := e.Create(context.Background(), "x")
	require.NoError(t, err)

	_, err = e.Finalize(context.Background(), res.Session.Token, domain.SessionStatusExpired, "")
	require.Error(t, err)

	_, err = e.Finalize(context.Background(), res.Session.Token, domain.SessionStatusPending, "")
	require.Error(t, err)
}

func TestFinalize_ExpiredSession(t *testing.T) {
	e, clock := newTestEngine(t, Options{TTL: time.Minute})

	res, err := e.Create(context.Background(), "x")
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = e.Finalize(context.Background(), res.Session.Token, domain.SessionStatusConfirmed, "")
	require.ErrorIs(t, err, ErrExpired)

	s, err := e.Status(context.Background(), res.Session.Token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStatusExpired, s.Status)
}

func TestFinalize_ConcurrentDecisionsOneWinner(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res, err := e.Create(context.Background(), "x")
	require.NoError(t, err)
	token := res.Session.Token

	const racers = 32
	decisions := []domain.SessionStatus{domain.SessionStatusConfirmed, domain.SessionStatusRejected}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		wins       []domain.SessionStatus
		loserErrs  []error
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(decision domain.SessionStatus) {
			defer wg.Done()

			s, err := e.Finalize(context.Background(), token, decision, "")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins = append(wins, s.Status)

				return
			}
			loserErrs = append(loserErrs, err)
		}(decisions[i%2])
	}
	wg.Wait()

	require.Len(t, wins, 1, "exactly one decision must win")
	require.Len(t, loserErrs, racers-1)
	for _, err := range loserErrs {
		require.ErrorIs(t, err, ErrFinalized)
	}

	s, err := e.Status(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, wins[0], s.Status, "final status must match the winner's decision")
}

func TestSweep_ReclaimsAfterGrace(t *testing.T) {
	e, clock := newTestEngine(t, Options{TTL: time.Minute, RetentionGrace: 3 * time.Minute})

	res, err := e.Create(context.Background(), "x")
	require.NoError(t, err)
	token := res.Session.Token

	// expired but still within the grace window: readable
	clock.Advance(2 * time.Minute)
	require.Zero(t, e.sweep())
	s, err := e.Status(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStatusExpired, s.Status)

	// past expiry + grace: reclaimed, token forgotten
	clock.Advance(3 * time.Minute)
	require.Equal(t, 1, e.sweep())
	_, err = e.Status(context.Background(), token)
	require.ErrorIs(t, err, ErrNotFound)
}
