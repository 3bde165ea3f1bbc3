// Package dashboard provides the aggregation use cases that combine the
// movie catalog with the caller's preference context into unified views.
package dashboard

import "errors"

// Sentinel errors for dashboard aggregation operations.
var (
	// ErrAggregationFailed indicates that the primary content dependency
	// failed, so no meaningful response could be assembled. Secondary
	// dependency failures never produce this error.
	ErrAggregationFailed = errors.New("aggregation failed")

	// ErrMovieNotFound indicates that the requested movie does not exist
	// in the catalog.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrInvalidQuery indicates that a search query is empty or otherwise
	// unusable.
	ErrInvalidQuery = errors.New("invalid search query")
)
