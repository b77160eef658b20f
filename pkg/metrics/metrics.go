// Package metrics defines the Prometheus collectors for the scan service
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	ScansTotal           *prometheus.CounterVec
	ScanLatency          *prometheus.HistogramVec
	ScanScore            prometheus.Histogram
	ScanMatchesTotal     prometheus.Counter
	BloomRejectsTotal    prometheus.Counter
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		ScansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scans_total",
				Help: "Total scans by outcome (ok, invalid_input, capacity_exceeded, error).",
			},
			[]string{"outcome"},
		),
		ScanLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scan_latency_seconds",
				Help:    "Scan latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		ScanScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scan_score_percent",
				Help:    "Distribution of overlap scores per scan.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 75, 100, 150},
			},
		),
		ScanMatchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scan_matches_total",
				Help: "Total confirmed shingle matches across all scans.",
			},
		),
		BloomRejectsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bloom_rejects_total",
				Help: "Total suspect shingles rejected by the bloom gate.",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total report-cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total report-cache misses.",
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ScansTotal,
		m.ScanLatency,
		m.ScanScore,
		m.ScanMatchesTotal,
		m.BloomRejectsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
