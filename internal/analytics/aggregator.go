package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/crosscheck-io/crosscheck/pkg/kafka"
	"github.com/crosscheck-io/crosscheck/pkg/logger"
)

// maxLatencySamples bounds the latency reservoir used for percentiles.
const maxLatencySamples = 4096

// Summary is a point-in-time view of aggregated scan activity.
type Summary struct {
	TotalScans       int64   `json:"total_scans"`
	FailedScans      int64   `json:"failed_scans"`
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
	HighOverlapCount int64   `json:"high_overlap_count"`
	AvgScorePercent  float64 `json:"avg_score_percent"`
	P50LatencyMs     int64   `json:"p50_latency_ms"`
	P99LatencyMs     int64   `json:"p99_latency_ms"`
	ScansPerMinute   float64 `json:"scans_per_minute"`
}

// Aggregator consumes scan events and maintains rolling statistics.
type Aggregator struct {
	logger *slog.Logger

	mu          sync.RWMutex
	total       int64
	failed      int64
	cacheHits   int64
	cacheMisses int64
	highOverlap int64
	scoreSum    float64
	latencies   []int64
	startedAt   time.Time
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		logger:    logger.WithComponent("analytics-aggregator"),
		latencies: make([]int64, 0, maxLatencySamples),
		startedAt: time.Now(),
	}
}

// HandleMessage is a kafka.MessageHandler that folds one event into the
// aggregate state.
func (a *Aggregator) HandleMessage(_ context.Context, _ []byte, value []byte) error {
	event, err := kafka.DecodeJSON[ScanEvent](value)
	if err != nil {
		a.logger.Warn("skipping undecodable event", "error", err)
		return nil
	}
	a.apply(event)
	return nil
}

func (a *Aggregator) apply(event ScanEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch event.Type {
	case EventScanCompleted:
		a.total++
		a.scoreSum += event.ScorePercent
		if event.CacheHit {
			a.cacheHits++
		} else {
			a.cacheMisses++
		}
		if len(a.latencies) < maxLatencySamples {
			a.latencies = append(a.latencies, event.LatencyMs)
		} else {
			// Overwrite a pseudo-random slot to keep recent samples flowing in.
			a.latencies[int(a.total)%maxLatencySamples] = event.LatencyMs
		}
	case EventScanFailed:
		a.failed++
	case EventHighOverlap:
		a.highOverlap++
	}
}

// Summarize returns the current aggregate view.
func (a *Aggregator) Summarize() Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := Summary{
		TotalScans:       a.total,
		FailedScans:      a.failed,
		CacheHits:        a.cacheHits,
		CacheMisses:      a.cacheMisses,
		HighOverlapCount: a.highOverlap,
	}
	if a.total > 0 {
		s.AvgScorePercent = a.scoreSum / float64(a.total)
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		s.P50LatencyMs = sorted[len(sorted)/2]
		s.P99LatencyMs = sorted[(len(sorted)*99)/100]
	}
	if minutes := time.Since(a.startedAt).Minutes(); minutes > 0 {
		s.ScansPerMinute = float64(a.total) / minutes
	}
	return s
}
