package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/cloo-solutions/quarry/internal/api"
)

type contextKey string

// APIKeyAuth rejects requests that do not carry the configured API key in the
// X-API-Key header. An empty configured key disables the check.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				api.Error(w, http.StatusUnauthorized, "missing api key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				api.Error(w, http.StatusUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
