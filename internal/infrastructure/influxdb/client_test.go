package influxdb_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hyderfleet/fleetops/internal/fleet"
	"github.com/hyderfleet/fleetops/internal/infrastructure/config"
	"github.com/hyderfleet/fleetops/internal/infrastructure/influxdb"
)

// fakeInflux answers /ping and records line protocol posted to /api/v2/write.
type fakeInflux struct {
	*httptest.Server
	mu    sync.Mutex
	lines []string
}

func newFakeInflux(t *testing.T) *fakeInflux {
	t.Helper()
	f := &fakeInflux{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ping":
			w.WriteHeader(http.StatusNoContent)
		case "/api/v2/write":
			body, _ := io.ReadAll(r.Body)
			f.mu.Lock()
			for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
				if line != "" {
					f.lines = append(f.lines, line)
				}
			}
			f.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeInflux) written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "fleetops-test-token",
		Org:           "hyderfleet",
		Bucket:        "fleet",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

func TestConnect_Disabled(t *testing.T) {
	_, err := influxdb.Connect(context.Background(), config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_MissingTarget(t *testing.T) {
	fake := newFakeInflux(t)

	tests := []struct {
		name   string
		mutate func(*config.InfluxDBConfig)
	}{
		{name: "no org", mutate: func(c *config.InfluxDBConfig) { c.Org = "" }},
		{name: "no bucket", mutate: func(c *config.InfluxDBConfig) { c.Bucket = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(fake.URL)
			tt.mutate(&cfg)
			if _, err := influxdb.Connect(context.Background(), cfg); !errors.Is(err, influxdb.ErrMissingTarget) {
				t.Errorf("Connect() error = %v, want ErrMissingTarget", err)
			}
		})
	}
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := influxdb.Connect(context.Background(), testConfig(url))
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestWriteVehiclePosition(t *testing.T) {
	fake := newFakeInflux(t)

	client, err := influxdb.Connect(context.Background(), testConfig(fake.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	client.WriteVehiclePosition(fleet.Vehicle{
		ID:          "v-1",
		PlateNumber: "TS09AB1234",
		Status:      fleet.VehicleEnRoute,
		Location:    fleet.Location{Lat: 17.45, Lng: 78.38},
		CurrentLoad: 1200,
		LastUpdated: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	client.WriteJobStatus(fleet.DeliveryJob{ID: "j-1", Zone: "Medchal", Status: fleet.JobDelivered, LoadWeight: 250.5})
	client.Flush()

	lines := fake.written()
	if len(lines) != 2 {
		t.Fatalf("written lines = %v, want 2", lines)
	}
	if !strings.HasPrefix(lines[0], "vehicle_position,") ||
		!strings.Contains(lines[0], "vehicle_id=v-1") ||
		!strings.Contains(lines[0], "lat=17.45") ||
		!strings.Contains(lines[0], "current_load=1200") {
		t.Errorf("vehicle line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "job_status,") || !strings.Contains(lines[1], "status=delivered") {
		t.Errorf("job line = %q", lines[1])
	}
}

func TestWrites_NoopWhenClosed(t *testing.T) {
	fake := newFakeInflux(t)

	client, err := influxdb.Connect(context.Background(), testConfig(fake.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	client.WriteVehiclePosition(fleet.Vehicle{ID: "v-1"})
	client.Flush()

	if got := fake.written(); len(got) != 0 {
		t.Errorf("writes after Close = %v", got)
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() after Close error = %v, want ErrNotConnected", err)
	}
}

func TestClose_Nil(t *testing.T) {
	var client *influxdb.Client
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil error = %v", err)
	}
	if client.IsConnected() {
		t.Error("nil client reports connected")
	}
}
