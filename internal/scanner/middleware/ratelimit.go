package middleware

import (
	"net/http"
	"strconv"

	"github.com/crosscheck-io/crosscheck/internal/auth/ratelimit"
)

// RateLimit returns middleware enforcing each authenticated key's
// per-minute rate. Requests without key info pass through.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, ok := KeyInfoFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(strconv.FormatInt(info.ID, 10), info.RateLimit) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
