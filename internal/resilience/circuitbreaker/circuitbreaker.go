// Package circuitbreaker provides a per-dependency circuit breaker for
// outbound service calls. It fails fast while a dependency is unhealthy and
// probes for recovery after a configurable open window.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// contacting the dependency. Callers may retry after the open window
// elapses; the breaker never retries internally.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the current state of the circuit breaker.
type State int

const (
	// StateClosed allows all calls. This is the normal operating state.
	StateClosed State = iota

	// StateOpen rejects all calls immediately with ErrCircuitOpen.
	StateOpen

	// StateHalfOpen allows exactly one probe call to test recovery.
	StateHalfOpen
)

// String returns a string representation of the circuit state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Clock provides an abstraction for time operations to enable testing.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock implementation that uses the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name identifies the protected dependency in logs and metrics.
	Name string

	// FailureThreshold is the number of recorded failures required to
	// open the circuit. Default: 5.
	FailureThreshold int

	// OpenTimeout is how long the circuit stays open after the last
	// failure before a recovery probe is allowed. Default: 60 seconds.
	OpenTimeout time.Duration

	// Disabled bypasses all state tracking: every call is executed
	// directly against the dependency.
	Disabled bool

	// Clock provides time operations. Default: SystemClock.
	Clock Clock

	// OnStateChange is invoked after every state transition.
	// Optional; used to keep the state gauge in metrics current.
	OnStateChange func(name string, from, to State)
}

// Status is a point-in-time snapshot of a breaker, safe to expose on
// health endpoints.
type Status struct {
	Name        string     `json:"name"`
	State       string     `json:"state"`
	Failures    int        `json:"failures"`
	LastFailure *time.Time `json:"last_failure,omitempty"`
}

// Breaker implements a count-based circuit breaker.
//
// State machine:
//   - Closed: calls are executed. Each failure increments the failure
//     counter and records the failure time; reaching FailureThreshold
//     opens the circuit. Successes leave the counter untouched: a
//     flapping dependency accumulates failures until a half-open probe
//     succeeds.
//   - Open: calls are rejected with ErrCircuitOpen until OpenTimeout has
//     elapsed since the last failure, at which point the next call is
//     admitted as a half-open probe.
//   - HalfOpen: exactly one in-flight probe. Probe success closes the
//     circuit and resets the counter; probe failure reopens it and
//     restarts the open window from the new failure time.
//
// All state mutations are guarded by a mutex; one Breaker instance per
// dependency is shared across requests.
type Breaker struct {
	cfg Config

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probing     bool
}

// New creates a new circuit breaker with the given configuration.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = &SystemClock{}
	}
	return &Breaker{cfg: cfg, state: StateClosed}
}

// Execute runs the given operation through the circuit breaker.
//
// It returns ErrCircuitOpen without invoking the operation while the
// circuit is open (or while another caller holds the half-open probe).
// Otherwise the operation's own error is propagated and counted.
func (b *Breaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	if b.cfg.Disabled {
		return op(ctx)
	}

	if err := b.admit(); err != nil {
		return err
	}

	err := op(ctx)
	b.record(err)
	return err
}

// admit decides whether a call may proceed, transitioning Open to
// HalfOpen when the open window has elapsed.
func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if b.cfg.Clock.Now().Sub(b.lastFailure) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.transition(StateHalfOpen)
		b.probing = true
		return nil
	case StateHalfOpen:
		// A probe is already in flight; reject everyone else.
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
		return nil
	default:
		return nil
	}
}

// record applies a call outcome to the breaker state.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasProbe := b.state == StateHalfOpen
	if wasProbe {
		b.probing = false
	}

	if err == nil {
		if wasProbe {
			b.failures = 0
			b.transition(StateClosed)
		}
		// Closed-state successes do not reset the failure counter.
		return
	}

	b.failures++
	b.lastFailure = b.cfg.Clock.Now()

	switch {
	case wasProbe:
		b.transition(StateOpen)
	case b.state == StateClosed && b.failures >= b.cfg.FailureThreshold:
		b.transition(StateOpen)
	default:
		slog.Warn("circuit breaker recorded failure",
			slog.String("circuit", b.cfg.Name),
			slog.Int("failures", b.failures),
			slog.Int("threshold", b.cfg.FailureThreshold))
	}
}

// transition changes state and emits the state-change log. Callers must
// hold b.mu.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to

	slog.Warn("circuit breaker state changed",
		slog.String("circuit", b.cfg.Name),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.Int("failures", b.failures))

	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}

// State returns the current state of the circuit breaker.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Name returns the name of the protected dependency.
func (b *Breaker) Name() string {
	return b.cfg.Name
}

// Reset forces the breaker back to the closed state and clears all
// failure tracking. Intended for administrative recovery, not for the
// steady-state protocol.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.lastFailure = time.Time{}
	b.probing = false
	b.transition(StateClosed)
}

// Snapshot returns a point-in-time view of the breaker for health checks.
func (b *Breaker) Snapshot() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := Status{
		Name:     b.cfg.Name,
		State:    b.state.String(),
		Failures: b.failures,
	}
	if !b.lastFailure.IsZero() {
		t := b.lastFailure
		st.LastFailure = &t
	}
	return st
}
