// Package metrics provides Prometheus metrics for the refinerywatch server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oskars/refinerywatch/pkg/refineries"
)

const namespace = "refwatch"

// Metrics holds every collector the server records to. Each instance owns
// its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal tracks handled requests by route, method and status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration *prometheus.HistogramVec

	// PublishesTotal tracks publish and recommit attempts by commit outcome
	PublishesTotal *prometheus.CounterVec

	// IntelFetchesTotal tracks intelligence fetches by result
	IntelFetchesTotal *prometheus.CounterVec

	// StagedUpdates is the size of the pending update set
	StagedUpdates prometheus.Gauge

	// Refineries counts published refineries by status
	Refineries *prometheus.GaugeVec

	// RealtimeClients counts connected WebSocket and SSE clients
	RealtimeClients *prometheus.GaugeVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"route", "method"},
		),
		PublishesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "publish",
				Name:      "attempts_total",
				Help:      "Total number of publish and recommit attempts by commit outcome",
			},
			[]string{"outcome"},
		),
		IntelFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "intel",
				Name:      "fetches_total",
				Help:      "Total number of intelligence fetches by result",
			},
			[]string{"result"},
		),
		StagedUpdates: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "staging",
				Name:      "updates",
				Help:      "Number of pending updates",
			},
		),
		Refineries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "refineries",
				Help:      "Number of published refineries by status",
			},
			[]string{"status"},
		),
		RealtimeClients: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "realtime",
				Name:      "clients",
				Help:      "Number of connected realtime clients by transport",
			},
			[]string{"transport"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records one handled request.
func (m *Metrics) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordPublish records a publish or recommit outcome.
func (m *Metrics) RecordPublish(outcome string) {
	m.PublishesTotal.WithLabelValues(outcome).Inc()
}

// RecordIntelFetch records a fetch result.
func (m *Metrics) RecordIntelFetch(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.IntelFetchesTotal.WithLabelValues(result).Inc()
}

// SetStaged sets the pending update gauge.
func (m *Metrics) SetStaged(n int) {
	m.StagedUpdates.Set(float64(n))
}

// SetRefineries sets the per-status refinery gauges from stats.
func (m *Metrics) SetRefineries(stats refineries.Stats) {
	m.Refineries.WithLabelValues(string(refineries.StatusOperational)).Set(float64(stats.Operational))
	m.Refineries.WithLabelValues(string(refineries.StatusDamaged)).Set(float64(stats.Damaged))
	m.Refineries.WithLabelValues(string(refineries.StatusOffline)).Set(float64(stats.Offline))
	m.Refineries.WithLabelValues(string(refineries.StatusUnknown)).Set(float64(stats.Unknown))
}

// SetRealtimeClients sets the connected client gauge for transport.
func (m *Metrics) SetRealtimeClients(transport string, n int) {
	m.RealtimeClients.WithLabelValues(transport).Set(float64(n))
}
