package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hyderfleet/fleetops/internal/auth"
	"github.com/hyderfleet/fleetops/internal/fleet"
	"github.com/hyderfleet/fleetops/internal/infrastructure/config"
	"github.com/hyderfleet/fleetops/internal/infrastructure/logging"
	"github.com/hyderfleet/fleetops/internal/live"
	"github.com/hyderfleet/fleetops/internal/metrics"
	"github.com/hyderfleet/fleetops/internal/seed"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// FleetRepository is the persistence the handlers need. Satisfied by *fleet.Repository.
type FleetRepository interface {
	ListVehicles(ctx context.Context) ([]fleet.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*fleet.Vehicle, error)
	ReplaceVehicle(ctx context.Context, v *fleet.Vehicle) (bool, error)
	ListJobs(ctx context.Context, f fleet.JobFilter) ([]fleet.DeliveryJob, error)
	GetJob(ctx context.Context, id string) (*fleet.DeliveryJob, error)
	ReplaceJob(ctx context.Context, j *fleet.DeliveryJob) (bool, error)
	DeliveredJobs(ctx context.Context, since time.Time) ([]fleet.DeliveryJob, error)
	ListAlerts(ctx context.Context, f fleet.AlertFilter) ([]fleet.Alert, error)
	AcknowledgeAlert(ctx context.Context, id string) error
	ListZones(ctx context.Context) ([]fleet.Zone, error)
}

// Seeder populates demonstration data. Satisfied by *seed.Seeder.
type Seeder interface {
	Run(ctx context.Context) (seed.Result, error)
}

// EventPublisher mirrors broadcast envelopes to another transport.
// Satisfied by *mqtt.Client.
type EventPublisher interface {
	PublishEvent(eventType string, envelope []byte) error
}

// History records vehicle positions and job status changes.
// Satisfied by *influxdb.Client.
type History interface {
	WriteVehiclePosition(v fleet.Vehicle)
	WriteJobStatus(j fleet.DeliveryJob)
}

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	Logger  *logging.Logger
	Auth    *auth.Service
	Fleet   FleetRepository
	Seeder  Seeder
	Hub     *live.Hub
	Store   HealthChecker
	Version string

	// Optional.
	Events  EventPublisher
	History History
	Metrics *metrics.Metrics
}

// Server is the HTTP API server for fleetops.
//
// It is created with New() and started with Start().
type Server struct {
	cfg     config.APIConfig
	logger  *logging.Logger
	auth    *auth.Service
	fleet   FleetRepository
	seeder  Seeder
	hub     *live.Hub
	store   HealthChecker
	events  EventPublisher
	history History
	metrics *metrics.Metrics
	version string
	server  *http.Server
	now     func() time.Time
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if deps.Fleet == nil {
		return nil, fmt.Errorf("fleet repository is required")
	}
	if deps.Hub == nil {
		return nil, fmt.Errorf("live hub is required")
	}
	if deps.Config.Prefix == "" {
		deps.Config.Prefix = "/api"
	}

	return &Server{
		cfg:     deps.Config,
		logger:  deps.Logger.Component("api"),
		auth:    deps.Auth,
		fleet:   deps.Fleet,
		seeder:  deps.Seeder,
		hub:     deps.Hub,
		store:   deps.Store,
		events:  deps.Events,
		history: deps.History,
		metrics: deps.Metrics,
		version: deps.Version,
		now:     time.Now,
	}, nil
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.Timeouts.ReadDuration(),
		ReadHeaderTimeout: s.cfg.Timeouts.ReadDuration(),
		WriteTimeout:      s.cfg.Timeouts.WriteDuration(),
		IdleTimeout:       s.cfg.Timeouts.IdleDuration(),
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// publish broadcasts ev to live clients and mirrors it when configured.
// Mirror failures are logged and otherwise ignored.
func (s *Server) publish(ev live.Event) {
	s.hub.Broadcast(ev)

	if s.events == nil {
		return
	}
	data, err := live.Encode(ev, s.now())
	if err != nil {
		s.logger.Error("encoding event for mirror", "event_type", ev.Type(), "error", err)
		return
	}
	if err := s.events.PublishEvent(string(ev.Type()), data); err != nil {
		s.logger.Warn("mirroring event failed", "event_type", ev.Type(), "error", err)
	}
}
