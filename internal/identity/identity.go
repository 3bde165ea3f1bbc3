// Package identity carries the caller identity through request
// contexts. It sits below both the HTTP boundary (which resolves the
// identity) and the outbound clients (which forward it), so neither
// layer has to import the other.
package identity

import "context"

// Anonymous is the identity used when a request carries no usable
// credential.
const Anonymous = "demo-user-123"

type contextKey string

const userKey contextKey = "user_id"

// WithUser stores a caller identity in the context.
func WithUser(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey, id)
}

// FromContext returns the caller identity, or Anonymous when none has
// been stored.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userKey).(string); ok && id != "" {
		return id
	}
	return Anonymous
}
