// Package middleware holds scan-service-specific HTTP middleware:
// API-key authentication and per-key rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/crosscheck-io/crosscheck/internal/auth/apikey"
	"github.com/crosscheck-io/crosscheck/pkg/logger"
)

type keyInfoContextKey struct{}

// KeyInfoFromContext returns the authenticated key info, if any.
func KeyInfoFromContext(ctx context.Context) (*apikey.KeyInfo, bool) {
	info, ok := ctx.Value(keyInfoContextKey{}).(*apikey.KeyInfo)
	return info, ok
}

// Auth returns middleware that validates the request's API key against
// the store and attaches the KeyInfo to the context. A nil store
// disables authentication entirely.
func Auth(store *apikey.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractKey(r)
			if raw == "" {
				unauthorized(w, "missing api key")
				return
			}
			info, err := store.Validate(r.Context(), raw)
			if err != nil {
				logger.FromContext(r.Context()).Warn("api key rejected", "error", err)
				unauthorized(w, "invalid api key")
				return
			}
			ctx := context.WithValue(r.Context(), keyInfoContextKey{}, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractKey pulls the API key from, in order, the Authorization Bearer
// header, the X-API-Key header, or the api_key query parameter.
func extractKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("api_key")
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
