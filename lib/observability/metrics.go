package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "locmeta"

// Metrics holds the server collectors. Each instance has its own registry, so tests can create many.
type Metrics struct {
	registry *prometheus.Registry

	sessions     prometheus.Gauge
	events       *prometheus.CounterVec
	loadDuration prometheus.Gauge
	loadedLines  prometheus.Gauge
	loadFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Number of open explorer sessions.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Interactions handled by explorer sessions.",
		}, []string{"event"}),
		loadDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent loading and aggregating the line records.",
		}),
		loadedLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_lines",
			Help:      "Number of line records loaded.",
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Number of failed data loads.",
		}),
	}

	m.registry.MustRegister(
		m.sessions,
		m.events,
		m.loadDuration,
		m.loadedLines,
		m.loadFailures,
		collectors.NewGoCollector(),
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SessionOpened() {
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	m.sessions.Dec()
}

func (m *Metrics) Event(name string) {
	m.events.WithLabelValues(name).Inc()
}

func (m *Metrics) Loaded(lines int, elapsed time.Duration) {
	m.loadedLines.Set(float64(lines))
	m.loadDuration.Set(elapsed.Seconds())
}

func (m *Metrics) LoadFailed() {
	m.loadFailures.Inc()
}
