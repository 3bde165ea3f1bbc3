package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"movie-dashboard/internal/resilience/circuitbreaker"
)

func TestHealthHandler(t *testing.T) {
	tmdbBreaker := circuitbreaker.New(circuitbreaker.Config{Name: "tmdb", FailureThreshold: 2})
	usersBreaker := circuitbreaker.New(circuitbreaker.Config{Name: "users", FailureThreshold: 2})

	// tmdbブレーカーを開いた状態にする
	fail := func(context.Context) error { return errors.New("boom") }
	for i := 0; i < 2; i++ {
		_ = tmdbBreaker.Execute(context.Background(), fail)
	}

	h := &HealthHandler{
		Version:      "test",
		Breakers:     []*circuitbreaker.Breaker{tmdbBreaker, usersBreaker},
		CacheEnabled: true,
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 even with an open breaker, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy status, got %q", resp.Status)
	}
	if resp.Version != "test" {
		t.Errorf("expected version test, got %q", resp.Version)
	}

	breakers, ok := resp.Checks["circuit_breakers"]
	if !ok {
		t.Fatal("expected circuit_breakers check")
	}
	raw, err := json.Marshal(breakers.Details["tmdb"])
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var snap circuitbreaker.Status
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.State != "open" {
		t.Errorf("expected tmdb breaker OPEN, got %q", snap.State)
	}
	if snap.Failures != 2 {
		t.Errorf("expected 2 recorded failures, got %d", snap.Failures)
	}
}

func TestHealthHandler_CacheDisabled(t *testing.T) {
	h := &HealthHandler{Version: "test", CacheEnabled: false}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Checks["cache"].Status != "degraded" {
		t.Errorf("expected degraded cache check, got %+v", resp.Checks["cache"])
	}
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "alive" {
		t.Errorf("expected body alive, got %q", rec.Body.String())
	}
}
