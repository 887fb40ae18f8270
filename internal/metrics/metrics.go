// Package metrics exposes the Prometheus collectors for Harbormaster.
// Collectors are package level and registered once at import through
// promauto; every label set is bounded to keep cardinality flat.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harbormaster_http_requests_total",
			Help: "Total HTTP requests processed by endpoint, method, and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harbormaster_http_request_duration_seconds",
			Help:    "HTTP request latency distribution in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method"},
	)
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "harbormaster_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Sync metrics
var (
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harbormaster_sync_runs_total",
			Help: "Total sync runs by run type and outcome",
		},
		[]string{"run_type", "status"},
	)
	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harbormaster_sync_duration_seconds",
			Help:    "Sync run execution time in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"run_type"},
	)
	ArticlesSynced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "harbormaster_articles_synced_total",
			Help: "Total article records written by sync runs",
		},
	)
	ArticlesNeedingReview = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "harbormaster_articles_needing_review",
			Help: "Current number of articles flagged for manual review",
		},
	)
)

// Push metrics
var (
	PushResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harbormaster_push_results_total",
			Help: "Total article pushes by outcome",
		},
		[]string{"status"},
	)
)

// Upstream API metrics
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harbormaster_upstream_requests_total",
			Help: "Total requests issued against the upstream ERP API by outcome code",
		},
		[]string{"code"},
	)
	UpstreamQuotaRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "harbormaster_upstream_quota_remaining",
			Help: "Most recently observed upstream rate-limit remaining count",
		},
	)
)
