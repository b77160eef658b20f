// Package handler implements the scan service's HTTP endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/crosscheck-io/crosscheck/internal/analytics"
	"github.com/crosscheck-io/crosscheck/internal/engine"
	"github.com/crosscheck-io/crosscheck/internal/scanner/cache"
	"github.com/crosscheck-io/crosscheck/internal/scanner/validator"
	pkgerrors "github.com/crosscheck-io/crosscheck/pkg/errors"
	"github.com/crosscheck-io/crosscheck/pkg/logger"
	"github.com/crosscheck-io/crosscheck/pkg/metrics"
	"github.com/crosscheck-io/crosscheck/pkg/tracing"
)

// ScanResponse wraps a report with request metadata.
type ScanResponse struct {
	*engine.Report
	CacheHit  bool   `json:"cache_hit"`
	TookMs    int64  `json:"took_ms"`
	RequestID string `json:"request_id,omitempty"`
}

// Handler serves the scan, cache, and admin endpoints.
type Handler struct {
	engine    *engine.Engine
	cache     *cache.ReportCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler.
func New(e *engine.Engine, c *cache.ReportCache, col *analytics.Collector, m *metrics.Metrics) *Handler {
	return &Handler{
		engine:    e,
		cache:     c,
		collector: col,
		metrics:   m,
		logger:    logger.WithComponent("scan-handler"),
	}
}

// Scan handles POST /api/v1/scan: validates the two documents, runs the
// overlap scan (through the report cache), and returns the report.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx, span := tracing.StartSpan(r.Context(), "scan_request", logger.RequestID(r.Context()))
	defer span.Log()
	defer span.End()

	start := time.Now()
	var req validator.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ScansTotal.WithLabelValues("invalid_input").Inc()
		appErr := pkgerrors.New(pkgerrors.ErrInvalidInput, http.StatusBadRequest, "malformed JSON body")
		writeError(w, pkgerrors.HTTPStatusCode(appErr), appErr.Message)
		return
	}
	if err := validator.Validate(&req); err != nil {
		h.metrics.ScansTotal.WithLabelValues("invalid_input").Inc()
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": verr.Fields,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.Key(req.Reference, req.Suspect, h.engine.Config())
	report, cacheHit, err := h.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*engine.Report, error) {
		return h.engine.Scan(ctx, req.Reference, req.Suspect)
	})
	took := time.Since(start)
	if err != nil {
		h.recordFailure(r, err, took)
		status := pkgerrors.HTTPStatusCode(err)
		logger.FromContext(ctx).Error("scan failed", "status", status, "error", err)
		writeError(w, status, err.Error())
		return
	}

	h.recordSuccess(r, report, cacheHit, took)
	span.SetAttr("cache_hit", cacheHit)
	span.SetAttr("score_percent", report.ScorePercent)

	writeJSON(w, http.StatusOK, &ScanResponse{
		Report:    report,
		CacheHit:  cacheHit,
		TookMs:    took.Milliseconds(),
		RequestID: logger.RequestID(ctx),
	})
}

func (h *Handler) recordSuccess(r *http.Request, report *engine.Report, cacheHit bool, took time.Duration) {
	h.metrics.ScansTotal.WithLabelValues("ok").Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}
	h.metrics.ScanLatency.WithLabelValues(cacheStatus).Observe(took.Seconds())
	h.metrics.ScanScore.Observe(report.ScorePercent)
	h.metrics.ScanMatchesTotal.Add(float64(report.TotalMatches))
	h.metrics.BloomRejectsTotal.Add(float64(report.BloomRejects))

	event := analytics.ScanEvent{
		Type:         analytics.EventScanCompleted,
		ScorePercent: report.ScorePercent,
		TotalMatches: report.TotalMatches,
		LatencyMs:    took.Milliseconds(),
		CacheHit:     cacheHit,
		RequestID:    logger.RequestID(r.Context()),
		Timestamp:    time.Now().UTC(),
	}
	h.collector.Record(event)
	if report.ScorePercent >= analytics.HighOverlapThreshold {
		event.Type = analytics.EventHighOverlap
		h.collector.Record(event)
	}
}

func (h *Handler) recordFailure(r *http.Request, err error, took time.Duration) {
	outcome := "error"
	if errors.Is(err, pkgerrors.ErrCapacityExceeded) {
		outcome = "capacity_exceeded"
	}
	h.metrics.ScansTotal.WithLabelValues(outcome).Inc()
	h.collector.Record(analytics.ScanEvent{
		Type:      analytics.EventScanFailed,
		LatencyMs: took.Milliseconds(),
		RequestID: logger.RequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.cache.Snapshot())
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("cache invalidation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.logger.Info("cache invalidated", "deleted", deleted)
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
