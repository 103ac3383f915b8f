// Package metrics provides Prometheus metrics for the Wishwell client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks outbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishwell",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound HTTP requests",
		},
		[]string{"method", "status_code"},
	)

	// HTTPRequestDuration tracks outbound HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wishwell",
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	// CacheReadsTotal tracks cache reads by entity family and outcome (hit, stale, miss)
	CacheReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishwell",
			Subsystem: "cache",
			Name:      "reads_total",
			Help:      "Total number of cache reads by outcome",
		},
		[]string{"family", "outcome"},
	)

	// CacheInvalidationsTotal tracks invalidated key prefixes by entity family
	CacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishwell",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Total number of cache prefix invalidations",
		},
		[]string{"family"},
	)

	// RefetchesTotal tracks background refetches of stale entries by result
	RefetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishwell",
			Subsystem: "cache",
			Name:      "refetches_total",
			Help:      "Total number of background refetches by result",
		},
		[]string{"family", "result"},
	)

	// SessionTeardownsTotal tracks forced session teardowns (401 responses)
	SessionTeardownsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wishwell",
			Subsystem: "session",
			Name:      "teardowns_total",
			Help:      "Total number of session teardowns triggered by 401 responses",
		},
	)
)
