// Package cache provides the response cache used to avoid redundant
// dependency calls for idempotent reads.
//
// Cache failures are never surfaced to callers: a failing backend degrades
// to a cache miss on reads and a no-op on writes, with the error logged.
package cache

import (
	"context"
	"strings"
	"time"
)

// Store is the response cache consumed by dependency clients.
//
// Implementations must be safe for concurrent use. All methods follow the
// swallow-errors policy: Get reports a miss and Set/Delete do nothing when
// the backing store fails.
type Store interface {
	// Get loads the value stored under key into dest and reports whether
	// an unexpired entry was found.
	Get(ctx context.Context, key string, dest any) bool

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration)

	// Delete removes the entry for key.
	Delete(ctx context.Context, key string)
}

// Key builds a deterministic cache key from its parts. Two logically
// identical requests always produce the same key; every parameter that
// affects the response must appear as a part.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Noop is the disabled-cache implementation: every Get is a miss and
// writes are discarded. Used when caching is turned off in configuration
// or when no backing store is reachable at startup.
type Noop struct{}

// Get always reports a miss.
func (Noop) Get(context.Context, string, any) bool { return false }

// Set discards the value.
func (Noop) Set(context.Context, string, any, time.Duration) {}

// Delete does nothing.
func (Noop) Delete(context.Context, string) {}
