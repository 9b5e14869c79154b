// Package metrics provides Prometheus metrics for wikifetch.
// It tracks API request counts, latencies, cache performance, and
// rendering time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "wikifetch"
)

var (
	// APIRequestsTotal counts MediaWiki API requests by action and status
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "api_requests_total",
		Help:      "Total MediaWiki API requests by action and status",
	}, []string{"action", "status"})

	// APIRequestDuration measures API request latency by action
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "api_request_duration_seconds",
		Help:      "MediaWiki API request latency distribution by action",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"action"})

	// PagesFetched counts pages successfully fetched
	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "pages_fetched_total",
		Help:      "Total number of pages fetched",
	})

	// RenderDuration measures wikitext rendering time by output format
	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "render_duration_seconds",
		Help:      "Wikitext render time distribution by output format",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"format"})

	// CacheHits counts cache hits
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "cache_hits_total",
		Help:      "Total cache hit count",
	})

	// CacheMisses counts cache misses
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "cache_misses_total",
		Help:      "Total cache miss count",
	})
)

// RecordAPICall records a completed API request with its duration and status
func RecordAPICall(action string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	APIRequestsTotal.WithLabelValues(action, status).Inc()
	APIRequestDuration.WithLabelValues(action).Observe(duration)
}

// RecordRender records a wikitext render with its duration
func RecordRender(format string, duration float64) {
	RenderDuration.WithLabelValues(format).Observe(duration)
}
