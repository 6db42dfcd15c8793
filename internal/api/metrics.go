package api

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the store check behind /health.
const healthCheckTimeout = 3 * time.Second

// handleRoot answers the bare liveness probe at "/".
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "fleetops",
		"version": s.version,
	})
}

// handleHealth reports store reachability and live-channel load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	database := "ok"

	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := s.store.HealthCheck(ctx); err != nil {
			s.logger.Warn("store health check failed", "error", err)
			status, code = "degraded", http.StatusServiceUnavailable
			database = "unavailable"
		}
	}

	writeJSON(w, code, map[string]any{
		"status":     status,
		"version":    s.version,
		"database":   database,
		"ws_clients": s.hub.ClientCount(),
		"timestamp":  s.now().UTC().Format(time.RFC3339),
	})
}

// metricsHandler serves Prometheus metrics, or 404 when metrics are disabled.
func (s *Server) metricsHandler() http.Handler {
	if s.metrics == nil {
		return http.NotFoundHandler()
	}
	return s.metrics.Handler()
}
