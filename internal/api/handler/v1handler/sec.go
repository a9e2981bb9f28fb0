package v1handler

import (
	"net/http"
	"strings"

	"govcheck/pkg/serrors"

	"github.com/golang-jwt/jwt/v5"
)

// RequireCompanion returns a middleware that admits only requests carrying a
// bearer JWT signed with the companion secret (HS256). Session decisions come
// from the trusted companion application, never from anonymous callers.
func RequireCompanion(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeError(w, r, serrors.With(serrors.ErrUnauthorized, "companion auth is not configured"))

				return
			}

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeError(w, r, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

				return
			}

			_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				writeError(w, r, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid bearer token"))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
