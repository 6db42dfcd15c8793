package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// wsPath is the live channel path when none is configured.
const wsPath = "/ws"

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/", s.handleRoot)
	r.Handle("/metrics", s.metricsHandler())

	// Live channel (no auth; client frames are ignored)
	r.Handle(s.wsPath(), s.hub)

	r.Route(s.cfg.Prefix, func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Public endpoints
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/init-mock-data", s.handleInitMockData)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/me", s.handleMe)

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", s.handleListVehicles)
				r.Get("/{id}", s.handleGetVehicle)
				r.Put("/{id}", s.handleUpdateVehicle)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", s.handleListJobs)
				r.Get("/{id}", s.handleGetJob)
				r.Put("/{id}", s.handleUpdateJob)
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", s.handleListAlerts)
				r.Put("/{id}/acknowledge", s.handleAcknowledgeAlert)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/daily-deliveries", s.handleDailyDeliveries)
				r.Get("/on-time-percentage", s.handleOnTimePercentage)
				r.Get("/zone-delays", s.handleZoneDelays)
			})

			r.Get("/zones", s.handleListZones)
		})
	})

	return r
}

func (s *Server) wsPath() string {
	if p := s.hub.Path(); p != "" {
		return p
	}
	return wsPath
}
