package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"movie-dashboard/internal/resilience/circuitbreaker"
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthHandler reports the operational state of the aggregation
// service: per-dependency circuit breaker snapshots and cache status.
//
// An open breaker is reported but does not make the service unhealthy.
// The whole point of the breaker is that the service stays up while a
// dependency is down; readiness-based restarts would make that worse.
type HealthHandler struct {
	Version      string
	Breakers     []*circuitbreaker.Breaker
	CacheEnabled bool
}

// ServeHTTP returns the service health status. Always 200 while the
// process is able to respond; dependency state is informational.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	breakerDetails := make(map[string]interface{}, len(h.Breakers))
	for _, b := range h.Breakers {
		breakerDetails[b.Name()] = b.Snapshot()
	}
	checks["circuit_breakers"] = CheckStatus{
		Status:  "healthy",
		Details: breakerDetails,
	}

	cacheStatus := "healthy"
	cacheMsg := ""
	if !h.CacheEnabled {
		cacheStatus = "degraded"
		cacheMsg = "response cache disabled, all reads go upstream"
	}
	checks["cache"] = CheckStatus{
		Status:  cacheStatus,
		Message: cacheMsg,
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

// LiveHandler handles liveness probe requests. It always returns 200
// while the process can respond.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}
