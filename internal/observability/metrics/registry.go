// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track inbound request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Dependency metrics track outbound calls to the catalog and preferences services
var (
	// DependencyRequestsTotal counts outbound dependency calls by outcome.
	// Outcome is one of: success, http_error, transport_error, circuit_open.
	DependencyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dependency_requests_total",
			Help: "Total number of outbound dependency requests",
		},
		[]string{"dependency", "outcome"},
	)

	// DependencyRequestDuration measures outbound dependency call duration
	DependencyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dependency_request_duration_seconds",
			Help:    "Outbound dependency request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dependency"},
	)

	// CircuitBreakerState reflects the current breaker state per dependency
	// (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit"},
	)
)

// Cache metrics track response cache effectiveness
var (
	// CacheRequestsTotal counts cache lookups by result (hit or miss)
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"dependency", "result"},
	)
)

// Aggregation metrics track the fan-out endpoints
var (
	// AggregationsTotal counts aggregation operations by endpoint and outcome
	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregations_total",
			Help: "Total number of aggregation operations",
		},
		[]string{"endpoint", "outcome"},
	)

	// AggregationDuration measures end-to-end aggregation duration
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "End-to-end aggregation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// SecondaryFallbacksTotal counts secondary contexts replaced by their
	// default value because the source dependency failed
	SecondaryFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secondary_fallbacks_total",
			Help: "Total number of secondary contexts degraded to defaults",
		},
		[]string{"context"},
	)
)
