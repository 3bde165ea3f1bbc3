package client

import (
	"errors"
	"fmt"

	"movie-dashboard/internal/resilience/circuitbreaker"
)

// HTTPError is returned when a dependency responds with a non-success
// status. It counts toward the dependency's breaker failure count.
type HTTPError struct {
	Dependency string
	Status     int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Dependency, e.Status)
}

// TransportError is returned when a dependency could not be reached or
// its response could not be read. It counts toward the dependency's
// breaker failure count.
type TransportError struct {
	Dependency string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport failure: %v", e.Dependency, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is an HTTPError with the given status.
// Handlers use it to map a dependency 404 onto their own 404.
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}

func isHTTPError(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}

func isCircuitOpen(err error) bool {
	return errors.Is(err, circuitbreaker.ErrCircuitOpen)
}
