// Package resilience provides a circuit breaker used to shield the scan
// path from a misbehaving cache backend.
package resilience

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrOpen is returned when the breaker is rejecting calls.
var ErrOpen = errors.New("circuit open")

// State is the current phase of a Breaker.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

// BreakerConfig controls when the breaker trips and how it recovers.
// Zero values fall back to defaults.
type BreakerConfig struct {
	// Threshold is the number of consecutive failures that trips the
	// breaker open.
	Threshold int
	// Cooldown is how long the breaker stays open before allowing a
	// probe call.
	Cooldown time.Duration
	// Probes is the number of calls allowed through while half-open.
	Probes int
}

// Breaker trips after Threshold consecutive failures and rejects calls
// for Cooldown, then lets Probes calls through to test recovery.
type Breaker struct {
	name   string
	cfg    BreakerConfig
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probes   int
}

// NewBreaker creates a Breaker, filling in defaults for zero config
// values (threshold 5, cooldown 30s, one probe).
func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.Probes <= 0 {
		cfg.Probes = 1
	}
	return &Breaker{
		name:   name,
		cfg:    cfg,
		logger: slog.Default().With("component", "breaker", "name", name),
	}
}

// Do runs fn if the breaker allows it, recording the outcome. When the
// breaker is open it returns an error wrapping ErrOpen without calling fn.
func (b *Breaker) Do(fn func() error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := fn()
	b.record(err)
	return err
}

// State returns the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case Closed:
		return nil
	case Open:
		if time.Since(b.openedAt) < b.cfg.Cooldown {
			return fmt.Errorf("%w: %s", ErrOpen, b.name)
		}
		b.state = HalfOpen
		b.probes = 0
		b.logger.Info("breaker half-open", "cooldown", b.cfg.Cooldown)
		fallthrough
	case HalfOpen:
		if b.probes >= b.cfg.Probes {
			return fmt.Errorf("%w: %s (probe limit)", ErrOpen, b.name)
		}
		b.probes++
		return nil
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		if b.state == HalfOpen {
			b.logger.Info("breaker closed after successful probe")
		}
		b.state = Closed
		b.failures = 0
		return
	}
	b.failures++
	b.openedAt = time.Now()
	if b.state == HalfOpen || b.failures >= b.cfg.Threshold {
		if b.state != Open {
			b.logger.Warn("breaker opened",
				"failures", b.failures,
				"threshold", b.cfg.Threshold,
			)
		}
		b.state = Open
	}
}

// Reset forces the breaker back to Closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Closed
	b.failures = 0
	b.probes = 0
}
