// Package client provides the generic outbound dependency client. It is
// the single point of contact with one external HTTP service, composing
// bearer authentication, the per-dependency circuit breaker, and the
// response cache for idempotent reads.
package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"movie-dashboard/internal/cache"
	"movie-dashboard/internal/identity"
	"movie-dashboard/internal/observability/metrics"
	"movie-dashboard/internal/resilience/circuitbreaker"
)

// maxErrorBodyBytes bounds how much of an error response is kept for
// logging.
const maxErrorBodyBytes = 512

// Config holds the configuration for one dependency client.
type Config struct {
	// Name identifies the dependency in logs, metrics, and errors.
	Name string

	// BaseURL is the root of the dependency API, without trailing slash.
	BaseURL string

	// BearerToken is sent as the Authorization header when non-empty.
	BearerToken string

	// Timeout bounds every outbound call. Exceeding it is a transport
	// failure and counts toward the breaker. Default: 30 seconds.
	Timeout time.Duration

	// CacheTTL is the expiry applied to cached responses. Default: 5 minutes.
	CacheTTL time.Duration

	// Limiter optionally throttles outbound calls to respect the
	// dependency's rate limits.
	Limiter *rate.Limiter

	// ForwardIdentity sends the caller identity from the request context
	// as the X-User-ID header. Used for user-scoped dependencies.
	ForwardIdentity bool
}

// Client wraps one outbound HTTP dependency. Every call runs through the
// circuit breaker; cacheable reads additionally consult the response
// cache before the network and populate it after a success.
type Client struct {
	name       string
	baseURL    string
	bearer     string
	httpClient *http.Client
	breaker    *circuitbreaker.Breaker
	store      cache.Store
	cacheTTL   time.Duration
	limiter    *rate.Limiter
	forwardID  bool
}

// New creates a dependency client. The breaker must be the dependency's
// own instance, shared across requests; the store may be cache.Noop{}
// when caching is disabled.
func New(cfg Config, breaker *circuitbreaker.Breaker, store cache.Store) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Client{
		name:       cfg.Name,
		baseURL:    cfg.BaseURL,
		bearer:     cfg.BearerToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		store:      store,
		cacheTTL:   cfg.CacheTTL,
		limiter:    cfg.Limiter,
		forwardID:  cfg.ForwardIdentity,
	}
}

// Name returns the dependency name.
func (c *Client) Name() string {
	return c.name
}

// Breaker returns the dependency's circuit breaker, for health snapshots.
func (c *Client) Breaker() *circuitbreaker.Breaker {
	return c.breaker
}

// GetJSON performs a GET against the dependency and decodes the JSON
// response into out.
//
// When cacheKey is non-empty the response cache is consulted first; a hit
// returns without contacting the breaker or the network, and a successful
// fetch is stored under the key before returning. Pass an empty cacheKey
// for non-cacheable reads.
//
// Failures are returned as *HTTPError, *TransportError, or
// circuitbreaker.ErrCircuitOpen.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, cacheKey string, out any) error {
	if cacheKey != "" {
		if c.store.Get(ctx, cacheKey, out) {
			metrics.RecordCacheLookup(c.name, true)
			slog.Debug("cache hit",
				slog.String("dependency", c.name),
				slog.String("key", cacheKey))
			return nil
		}
		metrics.RecordCacheLookup(c.name, false)
	}

	start := time.Now()
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.fetch(ctx, path, query, out)
	})
	metrics.RecordDependencyRequest(c.name, outcomeLabel(err), time.Since(start))

	if err != nil {
		return err
	}

	if cacheKey != "" {
		c.store.Set(ctx, cacheKey, out, c.cacheTTL)
	}
	return nil
}

// fetch performs the actual network call. It runs inside the breaker, so
// every returned error counts as a dependency failure.
func (c *Client) fetch(ctx context.Context, path string, query url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Dependency: c.name, Err: err}
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{Dependency: c.name, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	if c.forwardID {
		req.Header.Set("X-User-ID", identity.FromContext(ctx))
	}

	slog.Debug("dependency request",
		slog.String("dependency", c.name),
		slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Dependency: c.name, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body",
				slog.String("dependency", c.name),
				slog.Any("error", err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &HTTPError{
			Dependency: c.name,
			Status:     resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Dependency: c.name, Err: err}
	}
	return nil
}

// outcomeLabel maps a call result to its metrics label.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case isCircuitOpen(err):
		return "circuit_open"
	case isHTTPError(err):
		return "http_error"
	default:
		return "transport_error"
	}
}
