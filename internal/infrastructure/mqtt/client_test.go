package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/hyderfleet/fleetops/internal/infrastructure/config"
)

// These tests run without a broker. Broker round-trips live in
// integration_test.go behind the integration build tag.

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "fleetops-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func disconnectedClient() *Client {
	return &Client{cfg: testConfig(), subscriptions: make(map[string]subscription)}
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}
	tests := []struct {
		got  string
		want string
	}{
		{topics.VehicleTelemetry("v-1"), "fleet/telemetry/v-1/location"},
		{topics.AllVehicleTelemetry(), "fleet/telemetry/+/location"},
		{topics.Event("alert_acknowledged"), "fleet/events/alert_acknowledged"},
		{topics.SystemStatus(), "fleet/system/status"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("topic = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestParseVehicleTelemetry(t *testing.T) {
	tests := []struct {
		topic  string
		wantID string
		wantOK bool
	}{
		{"fleet/telemetry/v-1/location", "v-1", true},
		{Topics{}.VehicleTelemetry("abc"), "abc", true},
		{"fleet/telemetry//location", "", false},
		{"fleet/telemetry/v-1/speed", "", false},
		{"other/telemetry/v-1/location", "", false},
		{"fleet/telemetry/v-1", "", false},
		{"fleet/telemetry/a/b/location", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			id, ok := Topics{}.ParseVehicleTelemetry(tt.topic)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ParseVehicleTelemetry(%q) = (%q, %v), want (%q, %v)", tt.topic, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestPublish_Validation(t *testing.T) {
	c := disconnectedClient()

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		want    error
	}{
		{"empty topic", "", []byte("x"), 0, ErrInvalidTopic},
		{"invalid qos", "fleet/x", []byte("x"), 3, ErrInvalidQoS},
		{"oversized payload", "fleet/x", make([]byte, maxPayloadSize+1), 0, ErrPublishFailed},
		{"disconnected", "fleet/x", []byte("x"), 1, ErrNotConnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Publish(tt.topic, tt.payload, tt.qos, false); !errors.Is(err, tt.want) {
				t.Errorf("Publish() error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := c.PublishEvent("job_update", []byte("{}")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishEvent() error = %v, want ErrNotConnected", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := disconnectedClient()
	noop := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 0, noop); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v", err)
	}
	if err := c.Subscribe("fleet/x", 3, noop); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("invalid qos error = %v", err)
	}
	if err := c.Subscribe("fleet/x", 0, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler error = %v", err)
	}
	if err := c.Subscribe("fleet/x", 0, noop); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected error = %v", err)
	}
	if tracked(c, "fleet/x") {
		t.Error("failed subscribe was tracked")
	}
	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(empty) error = %v", err)
	}
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := disconnectedClient()
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil error = %v", err)
	}
	if err := disconnectedClient().Close(); err != nil {
		t.Errorf("Close() without connection error = %v", err)
	}
}

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func TestDispatch_RecoversAndLogs(t *testing.T) {
	c := disconnectedClient()
	logger := &recordingLogger{}
	c.SetLogger(logger)

	c.dispatch(func(string, []byte) error { panic("boom") }, "fleet/x", nil)
	c.dispatch(func(string, []byte) error { return fmt.Errorf("bad payload") }, "fleet/x", nil)
	c.dispatch(func(string, []byte) error { return nil }, "fleet/x", nil)

	if len(logger.errors) != 1 || !strings.Contains(logger.errors[0], "panic") {
		t.Errorf("errors = %v, want one panic entry", logger.errors)
	}
	if len(logger.warns) != 1 {
		t.Errorf("warns = %v, want one handler error entry", logger.warns)
	}
}

func TestStatusPayloads(t *testing.T) {
	for _, tt := range []struct {
		payload string
		status  string
		reason  string
	}{
		{buildOnlinePayload("fleetd"), "online", ""},
		{buildOfflinePayload("fleetd"), "offline", "graceful_shutdown"},
	} {
		var msg statusMessage
		if err := json.Unmarshal([]byte(tt.payload), &msg); err != nil {
			t.Fatalf("payload %q is not JSON: %v", tt.payload, err)
		}
		if msg.Status != tt.status || msg.Reason != tt.reason || msg.ClientID != "fleetd" || msg.Timestamp == "" {
			t.Errorf("status payload = %+v", msg)
		}
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Auth.Username = "fleet"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)
	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://127.0.0.1:1883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.Username != "fleet" || opts.ClientID != "fleetops-test" {
		t.Errorf("Username = %q, ClientID = %q", opts.Username, opts.ClientID)
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig not set when TLS enabled")
	}
}

// tracked reports whether topic is in the client's restore set.
func tracked(c *Client, topic string) bool {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	_, ok := c.subscriptions[topic]
	return ok
}
