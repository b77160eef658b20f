// Package ratelimit implements a per-key token bucket limiter.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is one key's token state.
type bucket struct {
	tokens   float64
	lastFill time.Time
}

// Limiter rate-limits by key using token buckets. Each bucket refills at
// ratePerMinute tokens per minute up to a burst of the same size.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewLimiter creates an empty Limiter.
func NewLimiter() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow reports whether the key may proceed under its per-minute rate.
// A non-positive rate means unlimited.
func (l *Limiter) Allow(key string, ratePerMinute int) bool {
	if ratePerMinute <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(ratePerMinute), lastFill: now}
		l.buckets[key] = b
	}

	rate := float64(ratePerMinute)
	elapsed := now.Sub(b.lastFill).Minutes()
	b.tokens += elapsed * rate
	if b.tokens > rate {
		b.tokens = rate
	}
	b.lastFill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
