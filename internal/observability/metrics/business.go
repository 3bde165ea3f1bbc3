package metrics

import (
	"time"
)

// RecordDependencyRequest records one outbound dependency call.
// Outcome should be one of "success", "http_error", "transport_error",
// or "circuit_open".
func RecordDependencyRequest(dependency, outcome string, duration time.Duration) {
	DependencyRequestsTotal.WithLabelValues(dependency, outcome).Inc()
	DependencyRequestDuration.WithLabelValues(dependency).Observe(duration.Seconds())
}

// RecordCacheLookup records a response cache lookup result.
func RecordCacheLookup(dependency string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(dependency, result).Inc()
}

// SetCircuitBreakerState updates the breaker state gauge for a circuit.
// State values follow the breaker package: 0=closed, 1=open, 2=half-open.
func SetCircuitBreakerState(circuit string, state int) {
	CircuitBreakerState.WithLabelValues(circuit).Set(float64(state))
}

// RecordAggregation records one aggregation operation and its duration.
// Outcome should be "success" or "failure".
func RecordAggregation(endpoint string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	AggregationsTotal.WithLabelValues(endpoint, outcome).Inc()
	AggregationDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSecondaryFallback records a secondary context degraded to its
// default value because its source dependency failed.
func RecordSecondaryFallback(context string) {
	SecondaryFallbacksTotal.WithLabelValues(context).Inc()
}
