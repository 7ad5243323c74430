package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the config reader choke point.
type Metrics struct {
	Reads      *prometheus.CounterVec
	Violations *prometheus.CounterVec
	LegacyHits prometheus.Counter
}

// New creates a new Metrics instance with all reader metrics registered.
func New() *Metrics {
	return &Metrics{
		Reads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "answerwire_config_reads_total",
			Help: "Config reads through the choke point, by provenance",
		}, []string{"source"}),
		Violations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "answerwire_registry_violations_total",
			Help: "Reads of paths missing from the registry, by enforcement mode",
		}, []string{"mode"}),
		LegacyHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "answerwire_legacy_path_reads_total",
			Help: "Reads satisfied by a legacy bridge instead of the canonical location",
		}),
	}
}

// ObserveRead records one read with its provenance.
func (m *Metrics) ObserveRead(source string) {
	m.Reads.WithLabelValues(source).Inc()
}

// ObserveViolation records one registry violation under the given mode.
func (m *Metrics) ObserveViolation(mode string) {
	m.Violations.WithLabelValues(mode).Inc()
}

// ObserveLegacyHit records one legacy-bridge resolution.
func (m *Metrics) ObserveLegacyHit() {
	m.LegacyHits.Inc()
}
