package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crosscheck-io/crosscheck/internal/auth/apikey"
	"github.com/crosscheck-io/crosscheck/internal/auth/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthNilStorePassesThrough(t *testing.T) {
	h := Auth(nil)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", rec.Code)
	}
}

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{
			name:  "bearer token",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc123") },
			want:  "abc123",
		},
		{
			name:  "x-api-key header",
			setup: func(r *http.Request) { r.Header.Set("X-API-Key", "key456") },
			want:  "key456",
		},
		{
			name:  "query parameter",
			setup: func(r *http.Request) { r.URL.RawQuery = "api_key=qkey" },
			want:  "qkey",
		},
		{
			name:  "none",
			setup: func(r *http.Request) {},
			want:  "",
		},
		{
			name: "bearer takes precedence",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer first")
				r.Header.Set("X-API-Key", "second")
			},
			want: "first",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			if got := extractKey(req); got != tt.want {
				t.Errorf("extractKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimitWithoutKeyInfoPassesThrough(t *testing.T) {
	h := RateLimit(ratelimit.NewLimiter())(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for unauthenticated request", rec.Code)
	}
}

func TestRateLimitEnforcesKeyRate(t *testing.T) {
	h := RateLimit(ratelimit.NewLimiter())(okHandler())
	info := &apikey.KeyInfo{ID: 7, Name: "test", RateLimit: 2}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), keyInfoContextKey{}, info))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}
