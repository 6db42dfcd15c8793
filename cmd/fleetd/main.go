// fleetops - fleet operations dashboard backend
//
// This is the main entry point for the fleetd service. It serves the REST
// API and live-update channel for the Hyderabad delivery fleet, and
// optionally ingests vehicle telemetry from MQTT and records position
// history in InfluxDB.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/hyderfleet/fleetops/migrations"

	"github.com/hyderfleet/fleetops/internal/api"
	"github.com/hyderfleet/fleetops/internal/auth"
	"github.com/hyderfleet/fleetops/internal/docstore"
	"github.com/hyderfleet/fleetops/internal/fleet"
	"github.com/hyderfleet/fleetops/internal/infrastructure/config"
	"github.com/hyderfleet/fleetops/internal/infrastructure/database"
	"github.com/hyderfleet/fleetops/internal/infrastructure/influxdb"
	"github.com/hyderfleet/fleetops/internal/infrastructure/logging"
	"github.com/hyderfleet/fleetops/internal/infrastructure/mqtt"
	"github.com/hyderfleet/fleetops/internal/live"
	"github.com/hyderfleet/fleetops/internal/metrics"
	"github.com/hyderfleet/fleetops/internal/seed"
	"github.com/hyderfleet/fleetops/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	// A missing .env is normal outside development.
	_ = godotenv.Load() //nolint:errcheck // optional file

	log := logging.Default()
	log.Info("starting fleetops",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	if cfg.UsesDefaultSecret() {
		log.Warn("using the built-in JWT secret; set FLEET_JWT_SECRET before production use")
	}

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path(),
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", db.Path())

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	applied, err := db.AppliedCount(ctx)
	if err != nil {
		return fmt.Errorf("counting migrations: %w", err)
	}
	log.Info("database migrations complete", "applied", applied)

	store := docstore.New(db)
	users := auth.NewUserRepository(store)
	repo := fleet.NewRepository(store)
	authSvc := auth.NewService(users, cfg.Security.JWT.Secret, cfg.AccessTokenTTL())

	m := metrics.New()
	hub := live.NewHub(cfg.WebSocket, log)
	hub.SetObserver(m)
	go hub.Run(ctx)

	influxClient, err := connectInfluxDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
	}

	mqttClient, err := connectMQTT(cfg, log)
	if err != nil {
		return err
	}
	if mqttClient != nil {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
	}

	deps := api.Deps{
		Config:  cfg.API,
		Logger:  log,
		Auth:    authSvc,
		Fleet:   repo,
		Seeder:  seed.New(users, repo, nil, log),
		Hub:     hub,
		Store:   store,
		Version: version,
		Metrics: m,
	}
	ingestDeps := telemetry.Deps{
		Vehicles:  repo,
		Broadcast: hub,
		Recorder:  m,
		Logger:    log,
	}
	if influxClient != nil {
		deps.History = influxClient
		ingestDeps.Positions = influxClient
	}
	if mqttClient != nil {
		deps.Events = mqttClient
		ingest := telemetry.New(ingestDeps)
		if startErr := ingest.Start(mqttClient); startErr != nil {
			return fmt.Errorf("starting telemetry ingest: %w", startErr)
		}
		defer func() {
			if stopErr := ingest.Stop(mqttClient); stopErr != nil {
				log.Warn("error stopping telemetry ingest", "error", stopErr)
			}
		}()
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API server, telemetry ingest, MQTT, InfluxDB, database.
	log.Info("fleetops stopped")
	return nil
}

// getConfigPath returns FLEET_CONFIG if set, otherwise the default path.
func getConfigPath() string {
	if path := os.Getenv("FLEET_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// connectInfluxDB returns nil without error when InfluxDB is disabled.
func connectInfluxDB(ctx context.Context, cfg *config.Config, log *logging.Logger) (*influxdb.Client, error) {
	if !cfg.InfluxDB.Enabled {
		log.Info("InfluxDB disabled")
		return nil, nil
	}

	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
	if err != nil {
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})
	log.Info("InfluxDB connected",
		"url", cfg.InfluxDB.URL,
		"org", cfg.InfluxDB.Org,
		"bucket", cfg.InfluxDB.Bucket,
	)
	return client, nil
}

// connectMQTT returns nil without error when MQTT is disabled.
func connectMQTT(cfg *config.Config, log *logging.Logger) (*mqtt.Client, error) {
	if !cfg.MQTT.Enabled {
		log.Info("MQTT disabled; telemetry ingest and event mirror are off")
		return nil, nil
	}

	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)
	return client, nil
}

// healthCheck verifies infrastructure connections. Nil clients are disabled
// integrations and are skipped.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
