package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"movie-dashboard/internal/cache"
	"movie-dashboard/internal/identity"
	"movie-dashboard/internal/resilience/circuitbreaker"
)

// memoryStore is a minimal in-process Store for exercising the cache path
// without a Redis backend.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string][]byte{}}
}

func (s *memoryStore) Get(_ context.Context, key string, dest any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.entries[key]
	if !ok {
		return false
	}
	*(dest.(*testPayload)) = testPayload{Value: string(raw)}
	return true
}

func (s *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	s.entries[key] = []byte(value.(*testPayload).Value)
}

func (s *memoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

type testPayload struct {
	Value string `json:"value"`
}

func newTestClient(baseURL string, store cache.Store, breakerCfg circuitbreaker.Config) *Client {
	if breakerCfg.Name == "" {
		breakerCfg.Name = "test-dep"
	}
	return New(Config{
		Name:    "test-dep",
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, circuitbreaker.New(breakerCfg), store)
}

func TestGetJSON_DecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected Accept header, got %q", got)
		}
		w.Write([]byte(`{"value":"hello"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, cache.Noop{}, circuitbreaker.Config{})

	var out testPayload
	if err := c.GetJSON(context.Background(), "/thing", nil, "", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value != "hello" {
		t.Errorf("expected value=hello, got %q", out.Value)
	}
}

func TestGetJSON_SendsBearerAndQuery(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Config{
		Name:        "test-dep",
		BaseURL:     srv.URL,
		BearerToken: "token-123",
	}, circuitbreaker.New(circuitbreaker.Config{Name: "test-dep"}), cache.Noop{})

	q := url.Values{}
	q.Set("page", "2")
	var out testPayload
	if err := c.GetJSON(context.Background(), "/list", q, "", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotQuery != "page=2" {
		t.Errorf("expected query page=2, got %q", gotQuery)
	}
}

func TestGetJSON_ForwardsCallerIdentity(t *testing.T) {
	var gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get("X-User-ID")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Config{
		Name:            "test-dep",
		BaseURL:         srv.URL,
		ForwardIdentity: true,
	}, circuitbreaker.New(circuitbreaker.Config{Name: "test-dep"}), cache.Noop{})

	ctx := identity.WithUser(context.Background(), "user-42")
	var out testPayload
	if err := c.GetJSON(ctx, "/favorites", nil, "", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUser != "user-42" {
		t.Errorf("expected forwarded identity, got %q", gotUser)
	}

	// 未設定時は匿名IDが転送される
	if err := c.GetJSON(context.Background(), "/favorites", nil, "", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUser != identity.Anonymous {
		t.Errorf("expected anonymous identity, got %q", gotUser)
	}
}

func TestGetJSON_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, cache.Noop{}, circuitbreaker.Config{})

	var out testPayload
	err := c.GetJSON(context.Background(), "/missing", nil, "", &out)

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if he.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", he.Status)
	}
	if !IsStatus(err, http.StatusNotFound) {
		t.Error("IsStatus should match the wrapped status")
	}
}

func TestGetJSON_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := newTestClient(srv.URL, cache.Noop{}, circuitbreaker.Config{})

	var out testPayload
	err := c.GetJSON(context.Background(), "/x", nil, "", &out)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
}

func TestGetJSON_CacheHitSkipsNetworkAndBreaker(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"value":"fresh"}`))
	}))
	defer srv.Close()

	store := newMemoryStore()
	c := newTestClient(srv.URL, store, circuitbreaker.Config{})

	var first testPayload
	if err := c.GetJSON(context.Background(), "/thing", nil, "k", &first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || store.sets != 1 {
		t.Fatalf("expected 1 call and 1 cache set, got %d/%d", calls, store.sets)
	}

	var second testPayload
	if err := c.GetJSON(context.Background(), "/thing", nil, "k", &second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected cache hit to skip network, got %d calls", calls)
	}
	if second.Value != "fresh" {
		t.Errorf("expected cached value, got %q", second.Value)
	}
}

func TestGetJSON_DisabledCacheInvokesDependencyTwice(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"value":"v"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, cache.Noop{}, circuitbreaker.Config{})

	var out testPayload
	for i := 0; i < 2; i++ {
		if err := c.GetJSON(context.Background(), "/thing", nil, "same-key", &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("disabled cache must hit the dependency every time, got %d calls", calls)
	}
}

func TestGetJSON_BreakerOpensAndFastFails(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, cache.Noop{}, circuitbreaker.Config{
		Name:             "test-dep",
		FailureThreshold: 2,
		OpenTimeout:      time.Hour,
	})

	var out testPayload
	for i := 0; i < 2; i++ {
		if err := c.GetJSON(context.Background(), "/x", nil, "", &out); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 dependency calls before trip, got %d", calls)
	}

	err := c.GetJSON(context.Background(), "/x", nil, "", &out)
	if !errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls != 2 {
		t.Errorf("open breaker must not contact the dependency, got %d calls", calls)
	}
}

func TestGetJSON_FailedCallNotCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	store := newMemoryStore()
	c := newTestClient(srv.URL, store, circuitbreaker.Config{})

	var out testPayload
	if err := c.GetJSON(context.Background(), "/x", nil, "k", &out); err == nil {
		t.Fatal("expected error")
	}
	if store.sets != 0 {
		t.Errorf("failed responses must not be cached, got %d sets", store.sets)
	}
}
