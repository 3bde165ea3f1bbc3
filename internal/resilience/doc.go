// Package resilience provides fault tolerance patterns for outbound
// dependency calls.
//
// The circuitbreaker subpackage implements a per-dependency breaker that
// fails fast while a dependency is unhealthy and probes for recovery.
// One breaker instance is created per dependency at startup and shared
// across all requests.
//
// Usage Example:
//
//	b := circuitbreaker.New(circuitbreaker.Config{
//	    Name:             "tmdb",
//	    FailureThreshold: 5,
//	    OpenTimeout:      60 * time.Second,
//	})
//	err := b.Execute(ctx, func(ctx context.Context) error {
//	    return callDependency(ctx)
//	})
package resilience
