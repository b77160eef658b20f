package resilience

import (
	"errors"
	"testing"
	"time"
)

var errBackend = errors.New("backend down")

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	b := NewBreaker("test", BreakerConfig{Threshold: 2})
	for i := 0; i < 10; i++ {
		if err := b.Do(func() error { return nil }); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if b.State() != Closed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	b := NewBreaker("test", BreakerConfig{Threshold: 3, Cooldown: time.Hour})
	for i := 0; i < 3; i++ {
		if err := b.Do(func() error { return errBackend }); !errors.Is(err, errBackend) {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if b.State() != Open {
		t.Fatalf("state = %v, want open", b.State())
	}

	called := false
	err := b.Do(func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Errorf("open breaker returned %v, want ErrOpen", err)
	}
	if called {
		t.Error("open breaker must not invoke the function")
	}
}

func TestBreakerRecoversThroughProbe(t *testing.T) {
	b := NewBreaker("test", BreakerConfig{Threshold: 1, Cooldown: 10 * time.Millisecond})
	b.Do(func() error { return errBackend })
	if b.State() != Open {
		t.Fatalf("state = %v, want open", b.State())
	}

	time.Sleep(20 * time.Millisecond)
	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("probe call failed: %v", err)
	}
	if b.State() != Closed {
		t.Errorf("state = %v, want closed after successful probe", b.State())
	}
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	b := NewBreaker("test", BreakerConfig{Threshold: 1, Cooldown: 10 * time.Millisecond})
	b.Do(func() error { return errBackend })

	time.Sleep(20 * time.Millisecond)
	b.Do(func() error { return errBackend })
	if b.State() != Open {
		t.Errorf("state = %v, want open after failed probe", b.State())
	}
}

func TestBreakerReset(t *testing.T) {
	b := NewBreaker("test", BreakerConfig{Threshold: 1, Cooldown: time.Hour})
	b.Do(func() error { return errBackend })
	if b.State() != Open {
		t.Fatal("setup: breaker should be open")
	}
	b.Reset()
	if b.State() != Closed {
		t.Errorf("state = %v, want closed after Reset", b.State())
	}
	if err := b.Do(func() error { return nil }); err != nil {
		t.Errorf("call after reset: %v", err)
	}
}
