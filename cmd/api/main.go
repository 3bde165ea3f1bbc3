package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"movie-dashboard/internal/cache"
	"movie-dashboard/internal/client"
	"movie-dashboard/internal/client/tmdb"
	"movie-dashboard/internal/client/users"
	"movie-dashboard/internal/config"
	"movie-dashboard/internal/observability/logging"
	"movie-dashboard/internal/observability/metrics"
	"movie-dashboard/internal/resilience/circuitbreaker"
	dashUC "movie-dashboard/internal/usecase/dashboard"

	hhttp "movie-dashboard/internal/handler/http"
	"movie-dashboard/internal/handler/http/auth"
	hdash "movie-dashboard/internal/handler/http/dashboard"
	"movie-dashboard/internal/handler/http/requestid"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg := config.Load()
	if cfg.TMDB.BearerToken == "" {
		logger.Warn("TMDB_API_TOKEN is not set, catalog requests will be rejected upstream")
	}

	store := initCache(logger, cfg)

	tmdbBreaker := newBreaker("tmdb", cfg.Breaker)
	usersBreaker := newBreaker("users", cfg.Breaker)

	catalog := tmdb.New(client.New(client.Config{
		Name:        "tmdb",
		BaseURL:     cfg.TMDB.BaseURL,
		BearerToken: cfg.TMDB.BearerToken,
		Timeout:     cfg.TMDB.Timeout,
		CacheTTL:    cfg.Cache.TTL,
		Limiter:     rate.NewLimiter(rate.Limit(cfg.TMDBRateLimit), int(cfg.TMDBRateLimit)),
	}, tmdbBreaker, store))

	prefs := users.New(client.New(client.Config{
		Name:            "users",
		BaseURL:         cfg.Users.BaseURL,
		BearerToken:     cfg.Users.BearerToken,
		Timeout:         cfg.Users.Timeout,
		ForwardIdentity: true,
	}, usersBreaker, cache.Noop{}))

	svc := &dashUC.Service{Catalog: catalog, Prefs: prefs}

	handler := setupRoutes(logger, cfg, svc, []*circuitbreaker.Breaker{tmdbBreaker, usersBreaker})

	runServer(logger, cfg, handler)
}

// initCache connects to Redis, falling back to the disabled cache when
// the backend is unreachable. The service stays up either way; a dead
// cache only costs upstream calls.
func initCache(logger *slog.Logger, cfg config.Config) cache.Store {
	if !cfg.Cache.Enabled {
		logger.Info("response cache disabled by configuration")
		return cache.Noop{}
	}

	rdb, err := cache.NewRedisClient(cfg.Cache.RedisAddr)
	if err != nil {
		logger.Warn("redis unreachable, running without response cache",
			slog.String("addr", cfg.Cache.RedisAddr),
			slog.Any("error", err))
		return cache.Noop{}
	}

	logger.Info("response cache enabled",
		slog.String("addr", cfg.Cache.RedisAddr),
		slog.Duration("ttl", cfg.Cache.TTL))
	return cache.NewRedisStore(rdb)
}

// newBreaker builds one dependency's circuit breaker and wires its
// state transitions into the metrics gauge.
func newBreaker(name string, cfg config.Breaker) *circuitbreaker.Breaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Name:             name,
		FailureThreshold: cfg.FailureThreshold,
		OpenTimeout:      cfg.OpenTimeout,
		Disabled:         !cfg.Enabled,
		OnStateChange: func(circuit string, from, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(circuit, int(to))
		},
	})
}

// setupRoutes registers all HTTP routes and wraps them in the
// middleware chain.
func setupRoutes(logger *slog.Logger, cfg config.Config, svc hdash.Service, breakers []*circuitbreaker.Breaker) http.Handler {
	mux := http.NewServeMux()

	hdash.Register(mux, svc, logger)

	mux.Handle("GET    /healthz", &hhttp.HealthHandler{
		Version:      cfg.Version,
		Breakers:     breakers,
		CacheEnabled: cfg.Cache.Enabled,
	})
	mux.Handle("GET    /live", &hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	// Innermost to outermost: metrics, identity, logging, recovery,
	// request ID.
	var handler http.Handler = mux
	handler = hhttp.MetricsMiddleware(handler)
	handler = auth.Identity([]byte(cfg.IdentitySecret))(handler)
	handler = hhttp.Logging(logger)(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = requestid.Middleware(handler)

	return handler
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg config.Config, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
