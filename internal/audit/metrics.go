package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sink names used in failure metrics and logs.
const (
	SinkLog   = "log"
	SinkCube  = "cube"
	SinkIndex = "index"
)

// Metrics holds Prometheus metrics for the audit publisher.
type Metrics struct {
	Processed    prometheus.Counter
	Dropped      *prometheus.CounterVec
	SinkFailures *prometheus.CounterVec
	SinkSkipped  *prometheus.CounterVec
}

// NewMetrics registers the audit publisher metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Processed: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracker_audit_events_processed_total",
			Help: "Audit events written to the sinks",
		}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_audit_events_dropped_total",
			Help: "Audit events not written, by reason",
		}, []string{"reason"}),
		SinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_audit_sink_failures_total",
			Help: "Failed audit sink writes, by sink",
		}, []string{"sink"}),
		SinkSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_audit_sink_skipped_total",
			Help: "Audit sink writes skipped while the sink breaker was open, by sink",
		}, []string{"sink"}),
	}
}

func (m *Metrics) IncProcessed() {
	m.Processed.Inc()
}

func (m *Metrics) IncDropped(reason string) {
	m.Dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncSinkFailure(sink string) {
	m.SinkFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) IncSinkSkipped(sink string) {
	m.SinkSkipped.WithLabelValues(sink).Inc()
}
