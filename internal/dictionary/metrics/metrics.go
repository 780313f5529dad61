package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Validation outcomes.
const (
	OutcomePass     = "pass"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
)

// Metrics provides observability for the data dictionary.
type Metrics struct {
	EntriesAdded      prometheus.Counter
	Validations       *prometheus.CounterVec
	LookupNames       prometheus.Histogram
	OperationDuration *prometheus.HistogramVec
}

// New registers the dictionary metrics with reg (the default registry when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		EntriesAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "tracker_dictionary_entries_added_total",
			Help: "Total number of data dictionary entries created",
		}),
		Validations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_dictionary_validations_total",
			Help: "Validation requests by outcome",
		}, []string{"outcome"}),
		LookupNames: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_dictionary_lookup_names",
			Help:    "Distinct names per bulk lookup",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tracker_dictionary_operation_duration_seconds",
			Help:    "Duration of data dictionary service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementEntriesAdded() {
	m.EntriesAdded.Inc()
}

func (m *Metrics) IncrementValidation(outcome string) {
	m.Validations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLookupSize(n int) {
	m.LookupNames.Observe(float64(n))
}

// ObserveOperation records the duration of op.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
