package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Engine metrics
	TransferOutcomes  *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Worker metrics
	JobsTotal    *prometheus.CounterVec
	JobsActive   *prometheus.GaugeVec
	ScannedBytes prometheus.Counter

	// Session metrics
	SessionsActive prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec
}

// NewMetrics creates a metrics collector on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filecore_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filecore_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		TransferOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filecore_transfer_outcomes_total",
				Help: "Per-item outcomes of engine operations",
			},
			[]string{"op", "status"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filecore_operation_duration_seconds",
				Help:    "Engine operation duration in seconds",
				Buckets: []float64{.001, .01, .05, .1, .5, 1, 5, 30, 120},
			},
			[]string{"op"},
		),

		JobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filecore_jobs_total",
				Help: "Background jobs by terminal state",
			},
			[]string{"kind", "state"},
		),
		JobsActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "filecore_jobs_active",
				Help: "Background jobs currently running",
			},
			[]string{"kind"},
		),
		ScannedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "filecore_scanned_bytes_total",
				Help: "Bytes aggregated by completed size scans",
			},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "filecore_sessions_active",
				Help: "Number of open browser sessions",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "filecore_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filecore_ws_messages_total",
				Help: "WebSocket frames sent",
			},
			[]string{"stream"},
		),
	}
}

// Registry exposes the underlying registry for gathering in tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOutcome counts one per-item engine outcome
func (m *Metrics) RecordOutcome(op, status string) {
	m.TransferOutcomes.WithLabelValues(op, status).Inc()
}

// RecordOperation records the duration of an engine operation
func (m *Metrics) RecordOperation(op string, duration time.Duration) {
	m.OperationDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// JobStarted marks a job of kind as running
func (m *Metrics) JobStarted(kind string) {
	m.JobsActive.WithLabelValues(kind).Inc()
}

// JobFinished records the terminal state of a job of kind
func (m *Metrics) JobFinished(kind, state string) {
	m.JobsActive.WithLabelValues(kind).Dec()
	m.JobsTotal.WithLabelValues(kind, state).Inc()
}

// AddScannedBytes adds the result of a completed size scan
func (m *Metrics) AddScannedBytes(n int64) {
	if n > 0 {
		m.ScannedBytes.Add(float64(n))
	}
}

// SetSessionsActive sets the number of open sessions
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// RecordWSMessage counts a frame sent on stream
func (m *Metrics) RecordWSMessage(stream string) {
	m.WSMessages.WithLabelValues(stream).Inc()
}
