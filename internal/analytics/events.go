// Package analytics publishes scan events to Kafka and aggregates them
// into rolling usage statistics.
package analytics

import "time"

// Event types emitted by the scan service.
const (
	EventScanCompleted = "scan_completed"
	EventScanFailed    = "scan_failed"
	EventHighOverlap   = "high_overlap"
)

// HighOverlapThreshold is the score above which a scan additionally
// emits an EventHighOverlap.
const HighOverlapThreshold = 25.0

// ScanEvent records one scan request outcome.
type ScanEvent struct {
	Type         string    `json:"type"`
	ScorePercent float64   `json:"score_percent"`
	TotalMatches int       `json:"total_matches"`
	LatencyMs    int64     `json:"latency_ms"`
	CacheHit     bool      `json:"cache_hit"`
	RequestID    string    `json:"request_id"`
	Timestamp    time.Time `json:"timestamp"`
}
