package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for report generation and diagnosis.
type Metrics struct {
	Reports   *prometheus.CounterVec
	Duration  prometheus.Histogram
	Diagnoses *prometheus.CounterVec
}

// New creates a new Metrics instance with all report metrics registered.
func New() *Metrics {
	return &Metrics{
		Reports: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "answerwire_reports_generated_total",
			Help: "Wiring reports generated, by aggregate health",
		}, []string{"aggregate"}),
		Duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "answerwire_report_duration_seconds",
			Help:    "Wall time of one report generation",
			Buckets: prometheus.DefBuckets,
		}),
		Diagnoses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "answerwire_diagnoses_total",
			Help: "Evidence diagnoses run, by outcome",
		}, []string{"healthy"}),
	}
}

// ObserveReport records one generated report.
func (m *Metrics) ObserveReport(aggregate string, elapsed time.Duration) {
	m.Reports.WithLabelValues(aggregate).Inc()
	m.Duration.Observe(elapsed.Seconds())
}

// ObserveDiagnosis records one diagnosis run.
func (m *Metrics) ObserveDiagnosis(healthy bool) {
	if healthy {
		m.Diagnoses.WithLabelValues("true").Inc()
		return
	}
	m.Diagnoses.WithLabelValues("false").Inc()
}
