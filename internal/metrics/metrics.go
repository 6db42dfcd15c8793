// Package metrics exposes fleetops Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyderfleet/fleetops/internal/live"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	wsClients           prometheus.Gauge
	broadcastsTotal     *prometheus.CounterVec
	telemetryTotal      *prometheus.CounterVec
}

// New creates collectors on a private registry, plus Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetops_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fleetops_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		wsClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fleetops_ws_clients",
				Help: "Number of connected live-update clients",
			},
		),
		broadcastsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetops_broadcasts_total",
				Help: "Total number of events broadcast to live clients",
			},
			[]string{"event_type"},
		),
		telemetryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetops_telemetry_messages_total",
				Help: "Total number of vehicle telemetry messages by outcome",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.wsClients,
		m.broadcastsTotal,
		m.telemetryTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveTelemetry counts a telemetry message with its outcome
// ("applied", "malformed", "unknown_vehicle", "error").
func (m *Metrics) ObserveTelemetry(outcome string) {
	m.telemetryTotal.WithLabelValues(outcome).Inc()
}

// ClientsChanged implements live.Observer.
func (m *Metrics) ClientsChanged(n int) {
	m.wsClients.Set(float64(n))
}

// Broadcasted implements live.Observer.
func (m *Metrics) Broadcasted(t live.EventType, _ int) {
	m.broadcastsTotal.WithLabelValues(string(t)).Inc()
}

var _ live.Observer = (*Metrics)(nil)
