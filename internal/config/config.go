// Package config loads the application configuration from environment
// variables. Every value has a default suitable for local development;
// only the TMDB API token is genuinely required to reach the real
// catalog.
package config

import (
	"time"

	pkgcfg "movie-dashboard/pkg/config"
)

// Config holds the full application configuration.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// Version is reported by the health endpoint.
	Version string

	// IdentitySecret verifies inbound bearer tokens when non-empty.
	// Empty means tokens are trusted as already verified by a gateway.
	IdentitySecret string

	// TMDB is the movie catalog dependency.
	TMDB Dependency
	// Users is the user preferences dependency.
	Users Dependency

	// TMDBRateLimit throttles outbound catalog calls, in requests per
	// second with the same value as burst.
	TMDBRateLimit float64

	// Cache configures the shared response cache.
	Cache Cache

	// Breaker configures the per-dependency circuit breakers.
	Breaker Breaker
}

// Dependency is the connection configuration for one upstream service.
type Dependency struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
}

// Cache is the response cache configuration.
type Cache struct {
	Enabled   bool
	RedisAddr string
	TTL       time.Duration
}

// Breaker is the circuit breaker configuration, shared by all
// dependencies.
type Breaker struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Addr:           pkgcfg.GetEnvString("ADDR", ":8080"),
		Version:        pkgcfg.GetEnvString("VERSION", "dev"),
		IdentitySecret: pkgcfg.GetEnvString("IDENTITY_JWT_SECRET", ""),
		TMDB: Dependency{
			BaseURL:     pkgcfg.GetEnvString("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			BearerToken: pkgcfg.GetEnvString("TMDB_API_TOKEN", ""),
			Timeout:     pkgcfg.GetEnvDuration("TMDB_TIMEOUT", 30*time.Second),
		},
		Users: Dependency{
			BaseURL:     pkgcfg.GetEnvString("USERS_BASE_URL", "http://localhost:8001"),
			BearerToken: pkgcfg.GetEnvString("USERS_API_TOKEN", ""),
			Timeout:     pkgcfg.GetEnvDuration("USERS_TIMEOUT", 10*time.Second),
		},
		TMDBRateLimit: pkgcfg.GetEnvFloat("TMDB_RATE_LIMIT", 40),
		Cache: Cache{
			Enabled:   pkgcfg.GetEnvBool("CACHE_ENABLED", true),
			RedisAddr: pkgcfg.GetEnvString("REDIS_ADDR", "localhost:6379"),
			TTL:       pkgcfg.GetEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		Breaker: Breaker{
			Enabled:          pkgcfg.GetEnvBool("CIRCUIT_BREAKER_ENABLED", true),
			FailureThreshold: pkgcfg.GetEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			OpenTimeout:      pkgcfg.GetEnvDuration("CIRCUIT_BREAKER_OPEN_TIMEOUT", 60*time.Second),
		},
	}
}
