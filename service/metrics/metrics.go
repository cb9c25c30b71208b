package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the description service
type Metrics struct {
	DescriptionsCreated *prometheus.CounterVec
	DescriptionFailures *prometheus.CounterVec
	DescriptionDuration *prometheus.HistogramVec
}

// New creates and registers all metrics with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DescriptionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "record_description_created_total",
			Help: "Total number of record descriptions created",
		}, []string{"level"}),
		DescriptionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "record_description_failures_total",
			Help: "Total number of record descriptions that could not be created",
		}, []string{"level", "reason"}),
		DescriptionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "record_description_duration_seconds",
			Help:    "Time spent loading and describing a record",
			Buckets: prometheus.DefBuckets,
		}, []string{"level"}),
	}
}

// ObserveCreated counts a description and records how long it took
func (m *Metrics) ObserveCreated(level string, took time.Duration) {
	m.DescriptionsCreated.WithLabelValues(level).Inc()
	m.DescriptionDuration.WithLabelValues(level).Observe(took.Seconds())
}

// IncrementFailures counts a failed description
func (m *Metrics) IncrementFailures(level, reason string) {
	m.DescriptionFailures.WithLabelValues(level, reason).Inc()
}
