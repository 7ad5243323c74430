package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the trace pipeline.
type Metrics struct {
	EventsEmitted *prometheus.CounterVec
	EventsDropped prometheus.Counter
	SinkErrors    prometheus.Counter
}

// New creates a new Metrics instance with all trace pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "answerwire_trace_events_emitted_total",
			Help: "Trace events accepted into the queue, by kind",
		}, []string{"kind"}),
		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "answerwire_trace_events_dropped_total",
			Help: "Trace events dropped because the queue was full",
		}),
		SinkErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "answerwire_trace_sink_errors_total",
			Help: "Append failures reported by the trace sink",
		}),
	}
}

// IncrementEmitted records one accepted event of the given kind.
func (m *Metrics) IncrementEmitted(kind string) {
	m.EventsEmitted.WithLabelValues(kind).Inc()
}

// IncrementDropped records one dropped event.
func (m *Metrics) IncrementDropped() {
	m.EventsDropped.Inc()
}

// IncrementSinkError records one sink append failure.
func (m *Metrics) IncrementSinkError() {
	m.SinkErrors.Inc()
}
