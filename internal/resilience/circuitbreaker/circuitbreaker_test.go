package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced Clock for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errBoom = errors.New("boom")

func newTestBreaker(clock Clock) *Breaker {
	return New(Config{
		Name:             "test-dependency",
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
		Clock:            clock,
	})
}

func failing() func(context.Context) error {
	return func(context.Context) error { return errBoom }
}

func succeeding() func(context.Context) error {
	return func(context.Context) error { return nil }
}

func TestNew_Defaults(t *testing.T) {
	b := New(Config{Name: "defaults"})

	if b.cfg.FailureThreshold != 5 {
		t.Errorf("expected default threshold=5, got %d", b.cfg.FailureThreshold)
	}
	if b.cfg.OpenTimeout != 60*time.Second {
		t.Errorf("expected default open timeout=60s, got %v", b.cfg.OpenTimeout)
	}
	if b.State() != StateClosed {
		t.Errorf("expected initial state=closed, got %v", b.State())
	}
}

func TestExecute_Success(t *testing.T) {
	b := newTestBreaker(newFakeClock())

	if err := b.Execute(context.Background(), succeeding()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("expected state=closed after success, got %v", b.State())
	}
}

func TestExecute_OpensAtThreshold(t *testing.T) {
	b := newTestBreaker(newFakeClock())

	for i := 0; i < 3; i++ {
		if err := b.Execute(context.Background(), failing()); !errors.Is(err, errBoom) {
			t.Fatalf("attempt %d: expected operation error, got %v", i+1, err)
		}
	}

	if b.State() != StateOpen {
		t.Fatalf("expected state=open after threshold failures, got %v", b.State())
	}

	// Open circuit rejects without invoking the operation.
	invoked := false
	err := b.Execute(context.Background(), func(context.Context) error {
		invoked = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if invoked {
		t.Error("operation must not be invoked while circuit is open")
	}
}

func TestExecute_ClosedSuccessKeepsFailureCount(t *testing.T) {
	b := newTestBreaker(newFakeClock())

	// Two failures, then a success: the partial count must survive so a
	// flapping dependency still trips the breaker.
	_ = b.Execute(context.Background(), failing())
	_ = b.Execute(context.Background(), failing())
	if err := b.Execute(context.Background(), succeeding()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := b.Snapshot().Failures; got != 2 {
		t.Fatalf("expected failure count to persist at 2, got %d", got)
	}

	// One more failure reaches the threshold of 3.
	_ = b.Execute(context.Background(), failing())
	if b.State() != StateOpen {
		t.Errorf("expected state=open, got %v", b.State())
	}
}

func TestExecute_HalfOpenProbeSuccessCloses(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), failing())
	}
	if b.State() != StateOpen {
		t.Fatalf("expected open, got %v", b.State())
	}

	clock.Advance(30 * time.Second)

	if err := b.Execute(context.Background(), succeeding()); err != nil {
		t.Fatalf("expected probe to run and succeed, got %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("expected state=closed after probe success, got %v", b.State())
	}
	if got := b.Snapshot().Failures; got != 0 {
		t.Errorf("expected failure count reset to 0, got %d", got)
	}
}

func TestExecute_HalfOpenProbeFailureReopens(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), failing())
	}
	clock.Advance(30 * time.Second)

	if err := b.Execute(context.Background(), failing()); !errors.Is(err, errBoom) {
		t.Fatalf("expected probe failure to propagate, got %v", err)
	}
	if b.State() != StateOpen {
		t.Fatalf("expected state=open after probe failure, got %v", b.State())
	}

	// The open window restarts from the probe failure, not the original trip.
	clock.Advance(29 * time.Second)
	if err := b.Execute(context.Background(), succeeding()); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen before restarted window elapses, got %v", err)
	}

	clock.Advance(1 * time.Second)
	if err := b.Execute(context.Background(), succeeding()); err != nil {
		t.Errorf("expected probe after restarted window, got %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("expected state=closed, got %v", b.State())
	}
}

func TestExecute_SingleProbeAdmission(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), failing())
	}
	clock.Advance(30 * time.Second)

	probeStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- b.Execute(context.Background(), func(context.Context) error {
			close(probeStarted)
			<-release
			return nil
		})
	}()

	<-probeStarted

	// While the probe is in flight, other callers are rejected.
	if err := b.Execute(context.Background(), succeeding()); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected concurrent caller rejection during probe, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("expected state=closed after probe, got %v", b.State())
	}
}

func TestExecute_Disabled(t *testing.T) {
	b := New(Config{
		Name:             "disabled",
		FailureThreshold: 1,
		Disabled:         true,
	})

	// Far past the threshold, yet every call still reaches the operation.
	for i := 0; i < 10; i++ {
		if err := b.Execute(context.Background(), failing()); !errors.Is(err, errBoom) {
			t.Fatalf("expected operation error, got %v", err)
		}
	}
	if b.State() != StateClosed {
		t.Errorf("disabled breaker must not track state, got %v", b.State())
	}
}

func TestReset(t *testing.T) {
	b := newTestBreaker(newFakeClock())

	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), failing())
	}
	if b.State() != StateOpen {
		t.Fatalf("expected open, got %v", b.State())
	}

	b.Reset()

	st := b.Snapshot()
	if st.State != "closed" {
		t.Errorf("expected state=closed after reset, got %s", st.State)
	}
	if st.Failures != 0 {
		t.Errorf("expected failures=0 after reset, got %d", st.Failures)
	}
	if st.LastFailure != nil {
		t.Errorf("expected last failure cleared, got %v", st.LastFailure)
	}

	if err := b.Execute(context.Background(), succeeding()); err != nil {
		t.Errorf("expected call after reset to run, got %v", err)
	}
}

func TestExecute_ConcurrentFailures(t *testing.T) {
	b := New(Config{
		Name:             "concurrent",
		FailureThreshold: 50,
		OpenTimeout:      time.Minute,
		Clock:            newFakeClock(),
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Execute(context.Background(), failing())
		}()
	}
	wg.Wait()

	if b.State() != StateOpen {
		t.Errorf("expected open after 50 concurrent failures, got %v", b.State())
	}
	if got := b.Snapshot().Failures; got != 50 {
		t.Errorf("expected exactly 50 recorded failures, got %d", got)
	}
}

func TestSnapshot(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)

	st := b.Snapshot()
	if st.Name != "test-dependency" || st.State != "closed" || st.Failures != 0 || st.LastFailure != nil {
		t.Errorf("unexpected initial snapshot: %+v", st)
	}

	_ = b.Execute(context.Background(), failing())

	st = b.Snapshot()
	if st.Failures != 1 {
		t.Errorf("expected failures=1, got %d", st.Failures)
	}
	if st.LastFailure == nil || !st.LastFailure.Equal(clock.Now()) {
		t.Errorf("expected last failure at %v, got %v", clock.Now(), st.LastFailure)
	}
}
