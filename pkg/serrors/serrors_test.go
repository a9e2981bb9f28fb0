package serrors_test

import (
	"errors"
	"testing"

	"govcheck/pkg/serrors"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestGenericKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrNotFound,
		serrors.ErrUnauthorized,
		serrors.ErrBadRequest,
		serrors.ErrConflict,
		serrors.ErrInternal,
		serrors.ErrTimeout,
		serrors.ErrUnavailable,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("lookup failed")

	e1 := serrors.With(serrors.ErrNotFound, "session %q not found", "abc")
	require.Equal(t, `session "abc" not found`, e1.Error())

	e2 := serrors.Wrap(serrors.ErrNotFound, base, "reading session")
	require.Equal(t, "reading session: lookup failed", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrNotFound)
	require.Equal(t, "NOT_FOUND", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrConflict, base, "finalizing")

	require.ErrorIs(t, e, serrors.ErrConflict)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrNotFound, "errors.Is should not match a different kind")
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrBadRequest, base, "parsing")

	var k serrors.Kind
	require.ErrorAs(t, e, &k, "errors.As should extract Kind")
	require.Equal(t, serrors.ErrBadRequest, k)

	var ce *customError
	require.ErrorAs(t, e, &ce, "errors.As should extract wrapped error type")
	require.Equal(t, base, ce)
}

func TestNewKindMatchesThroughWrap(t *testing.T) {
	custom := serrors.NewKind("SSRF_BLOCKED")
	e := serrors.With(custom, "host resolves to a private address")

	require.ErrorIs(t, e, custom)
	require.NotErrorIs(t, e, serrors.ErrBadRequest)
	require.Equal(t, custom, e.Kind())
	require.Equal(t, "host resolves to a private address", e.Message())
}
