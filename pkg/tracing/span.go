// Package tracing provides a lightweight span tracer that propagates
// through Go contexts. Spans form parent-child trees and are emitted as
// structured slog records when a trace is logged.
package tracing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type contextKey struct{}

// Span is a timed operation within a trace.
type Span struct {
	Name      string
	TraceID   string
	StartTime time.Time
	Duration  time.Duration
	Children  []*Span
	Attrs     map[string]any
	mu        sync.Mutex
}

// StartSpan creates a root span and stores it in the returned context.
func StartSpan(ctx context.Context, name, traceID string) (context.Context, *Span) {
	span := &Span{
		Name:      name,
		TraceID:   traceID,
		StartTime: time.Now(),
		Attrs:     make(map[string]any),
	}
	return context.WithValue(ctx, contextKey{}, span), span
}

// StartChildSpan creates a span parented to the one in ctx. Without a
// parent the child is a detached root with no trace ID.
func StartChildSpan(ctx context.Context, name string) (context.Context, *Span) {
	child := &Span{
		Name:      name,
		StartTime: time.Now(),
		Attrs:     make(map[string]any),
	}
	if parent := FromContext(ctx); parent != nil {
		child.TraceID = parent.TraceID
		parent.mu.Lock()
		parent.Children = append(parent.Children, child)
		parent.mu.Unlock()
	}
	return context.WithValue(ctx, contextKey{}, child), child
}

// End records the span's duration.
func (s *Span) End() {
	s.Duration = time.Since(s.StartTime)
}

// SetAttr attaches a key-value attribute to the span.
func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	s.Attrs[key] = value
	s.mu.Unlock()
}

// FromContext returns the current Span in ctx, or nil.
func FromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(contextKey{}).(*Span)
	return span
}

// Log writes the span tree to slog at debug level, one record per span.
func (s *Span) Log() {
	type frame struct {
		span  *Span
		depth int
	}
	stack := []frame{{s, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		attrs := []any{
			"trace_id", f.span.TraceID,
			"span", f.span.Name,
			"duration_ms", f.span.Duration.Milliseconds(),
			"depth", f.depth,
		}
		for k, v := range f.span.Attrs {
			attrs = append(attrs, k, v)
		}
		slog.Debug("span", attrs...)

		for i := len(f.span.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.span.Children[i], f.depth + 1})
		}
	}
}
