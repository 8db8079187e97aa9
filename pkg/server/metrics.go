package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "dropdown"

// Metrics holds the server's Prometheus collectors.
//
// Metrics collected:
//   - dropdown_events_total: events processed by type and status
//   - dropdown_event_duration_seconds: event handling duration by type
//   - dropdown_transitions_total: open/close transitions by cause and state
//   - dropdown_active_sessions: live WebSocket sessions
//   - dropdown_handler_panics_total: recovered handler panics
//   - dropdown_websocket_errors_total: WebSocket errors by type
type Metrics struct {
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	transitions    *prometheus.CounterVec
	activeSessions prometheus.Gauge
	handlerPanics  prometheus.Counter
	wsErrors       *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Total number of client events processed",
		}, []string{"type", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "event_duration_seconds",
			Help:      "Event handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),

		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transitions_total",
			Help:      "Total number of dropdown open/close transitions",
		}, []string{"cause", "state"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Number of active WebSocket sessions",
		}),

		handlerPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "handler_panics_total",
			Help:      "Total number of recovered event handler panics",
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "websocket_errors_total",
			Help:      "Total WebSocket errors by type",
		}, []string{"type"}),
	}
}

// RecordTransition counts one transition. cause and state are label
// values, e.g. "escape" and "closed".
func (m *Metrics) RecordTransition(cause, state string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(cause, state).Inc()
}

func (m *Metrics) recordEvent(eventType, status string, seconds float64) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(eventType, status).Inc()
	m.eventDuration.WithLabelValues(eventType).Observe(seconds)
}

func (m *Metrics) recordPanic() {
	if m == nil {
		return
	}
	m.handlerPanics.Inc()
}

func (m *Metrics) recordWSError(kind string) {
	if m == nil {
		return
	}
	m.wsErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
