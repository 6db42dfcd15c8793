package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
database:
  dir: "/tmp/fleet"
  name: "fleet_test"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Database.Path(); got != filepath.Join("/tmp/fleet", "fleet_test.db") {
		t.Errorf("Database.Path() = %q", got)
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true")
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	// Unset fields keep their defaults
	if cfg.WebSocket.Path != "/ws" {
		t.Errorf("WebSocket.Path = %q, want /ws", cfg.WebSocket.Path)
	}
	if cfg.AccessTokenTTL() != 24*time.Hour {
		t.Errorf("AccessTokenTTL() = %v, want 24h", cfg.AccessTokenTTL())
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UsesDefaultSecret() {
		t.Error("expected default secret when nothing is configured")
	}
	if cfg.API.Prefix != "/api" {
		t.Errorf("API.Prefix = %q, want /api", cfg.API.Prefix)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FLEET_DATABASE_DIR", "/var/lib/fleet")
	t.Setenv("FLEET_DATABASE_NAME", "hyderfleet")
	t.Setenv("FLEET_JWT_SECRET", "an-overridden-secret-of-sufficient-length")
	t.Setenv("FLEET_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("FLEET_API_PORT", "9090")
	t.Setenv("FLEET_MQTT_ENABLED", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Database.Path(); got != filepath.Join("/var/lib/fleet", "hyderfleet.db") {
		t.Errorf("Database.Path() = %q", got)
	}
	if cfg.UsesDefaultSecret() {
		t.Error("secret override not applied")
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.API.CORS.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.API.CORS.AllowedOrigins, want)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled override not applied")
	}
}

func TestConfig_Validate(t *testing.T) {
	validJWTSecret := "test-secret-key-at-least-32-chars!"

	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Security.JWT.Secret = validJWTSecret
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing database dir", mutate: func(c *Config) { c.Database.Dir = "" }, wantErr: true},
		{name: "missing database name", mutate: func(c *Config) { c.Database.Name = "" }, wantErr: true},
		{name: "database name with separator", mutate: func(c *Config) { c.Database.Name = "a/b" }, wantErr: true},
		{name: "invalid port", mutate: func(c *Config) { c.API.Port = 0 }, wantErr: true},
		{name: "invalid qos", mutate: func(c *Config) { c.MQTT.QoS = 3 }, wantErr: true},
		{name: "prefix without slash", mutate: func(c *Config) { c.API.Prefix = "api" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.Security.JWT.Secret = "" }, wantErr: true},
		{name: "short secret", mutate: func(c *Config) { c.Security.JWT.Secret = "short" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Security.JWT.AccessTokenTTL = 0 }, wantErr: true},
		{name: "influx without url", mutate: func(c *Config) { c.InfluxDB.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeoutDurations(t *testing.T) {
	timeouts := defaultConfig().API.Timeouts
	if got := timeouts.ReadDuration(); got != 30*time.Second {
		t.Errorf("ReadDuration() = %v", got)
	}
	if got := timeouts.WriteDuration(); got != 30*time.Second {
		t.Errorf("WriteDuration() = %v", got)
	}
	if got := timeouts.IdleDuration(); got != 60*time.Second {
		t.Errorf("IdleDuration() = %v", got)
	}
}
