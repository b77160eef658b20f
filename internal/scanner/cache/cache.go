// Package cache stores completed scan reports in Redis keyed by a digest
// of both documents and the engine parameters. Concurrent identical scans
// are collapsed with singleflight, and a circuit breaker keeps a failing
// Redis from stalling the scan path.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/crosscheck-io/crosscheck/internal/engine"
	"github.com/crosscheck-io/crosscheck/pkg/config"
	"github.com/crosscheck-io/crosscheck/pkg/logger"
	"github.com/crosscheck-io/crosscheck/pkg/metrics"
	"github.com/crosscheck-io/crosscheck/pkg/redis"
	"github.com/crosscheck-io/crosscheck/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "crosscheck:report:"

// ComputeFunc produces a report when the cache has no entry.
type ComputeFunc func(ctx context.Context) (*engine.Report, error)

// ReportCache is a read-through Redis cache for scan reports.
type ReportCache struct {
	client  *redis.Client
	breaker *resilience.Breaker
	group   singleflight.Group
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Breaker string `json:"breaker_state"`
}

// New creates a ReportCache. The client may be nil, in which case every
// lookup is a miss and the compute function always runs.
func New(client *redis.Client, cfg config.RedisConfig, m *metrics.Metrics) *ReportCache {
	return &ReportCache{
		client:  client,
		breaker: resilience.NewBreaker("report-cache", resilience.BreakerConfig{}),
		ttl:     cfg.CacheTTL,
		metrics: m,
		logger:  logger.WithComponent("report-cache"),
	}
}

// Key derives a deterministic cache key from both documents and the
// engine parameters that shape the result.
func Key(reference, suspect string, cfg config.EngineConfig) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%d|%d|%d|%d|", cfg.ShingleLen, cfg.WinnowWindow, cfg.TopK, cfg.BloomBits, cfg.IndexCapacity)
	fmt.Fprintf(h, "%d:", len(reference))
	h.Write([]byte(reference))
	h.Write([]byte(suspect))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// GetOrCompute returns the cached report for key, or runs compute and
// stores the result. The returned bool reports whether the value came
// from the cache. Cache failures degrade to computing directly.
func (c *ReportCache) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) (*engine.Report, bool, error) {
	if report, ok := c.lookup(ctx, key); ok {
		c.hits.Add(1)
		c.metrics.CacheHitsTotal.Inc()
		return report, true, nil
	}
	c.misses.Add(1)
	c.metrics.CacheMissesTotal.Inc()

	v, err, shared := c.group.Do(key, func() (any, error) {
		report, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, report)
		return report, nil
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		c.logger.Debug("scan result shared between concurrent requests", "key", key)
	}
	return v.(*engine.Report), false, nil
}

func (c *ReportCache) lookup(ctx context.Context, key string) (*engine.Report, bool) {
	if c.client == nil {
		return nil, false
	}
	var raw string
	err := c.breaker.Do(func() error {
		var err error
		raw, err = c.client.Get(ctx, key)
		if redis.IsNilError(err) {
			raw = ""
			return nil
		}
		return err
	})
	if err != nil || raw == "" {
		if err != nil {
			c.logger.Warn("cache lookup failed", "error", err)
		}
		return nil, false
	}
	var report engine.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		c.logger.Warn("discarding malformed cache entry", "key", key, "error", err)
		return nil, false
	}
	return &report, true
}

func (c *ReportCache) store(ctx context.Context, key string, report *engine.Report) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		c.logger.Error("failed to marshal report for cache", "error", err)
		return
	}
	err = c.breaker.Do(func() error {
		return c.client.Set(ctx, key, string(data), c.ttl)
	})
	if err != nil {
		c.logger.Warn("cache store failed", "error", err)
	}
}

// Invalidate removes all cached reports and returns how many keys were
// deleted.
func (c *ReportCache) Invalidate(ctx context.Context) (int64, error) {
	if c.client == nil {
		return 0, nil
	}
	return c.client.FlushByPattern(ctx, keyPrefix+"*")
}

// Snapshot returns current hit/miss counters and breaker state.
func (c *ReportCache) Snapshot() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Breaker: c.breaker.State().String(),
	}
}
