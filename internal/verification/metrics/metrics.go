package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification pipeline.
type Metrics struct {
	// Document scan outcomes by result
	ScanOutcome *prometheus.CounterVec

	// Identity match outcomes by role and result
	MatchOutcome *prometheus.CounterVec

	// Status transitions applied by resulting status
	StatusTransition *prometheus.CounterVec

	// Best-effort side effect failures by step
	BestEffortFailures *prometheus.CounterVec

	// External collaborator call latency by collaborator
	CollaboratorLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		ScanOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediconnect_verification_scan_outcomes_total",
			Help: "Total document scan outcomes by result",
		}, []string{"result"}), // result: "passed", "failed", "extraction_failed"

		MatchOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediconnect_verification_match_outcomes_total",
			Help: "Total identity match outcomes by role and result",
		}, []string{"role", "result"}),

		StatusTransition: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediconnect_verification_status_transitions_total",
			Help: "Total subject status transitions by resulting status",
		}, []string{"status"}),

		BestEffortFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediconnect_verification_best_effort_failures_total",
			Help: "Total best-effort side effect failures by step",
		}, []string{"step"}), // step: "notify", "analytics"

		CollaboratorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediconnect_verification_collaborator_duration_seconds",
			Help:    "Duration of external collaborator calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"collaborator"}), // collaborator: "textract", "rekognition", "store"
	}
}

// IncScanOutcome records a document scan outcome.
func (m *Metrics) IncScanOutcome(result string) {
	if m != nil {
		m.ScanOutcome.WithLabelValues(result).Inc()
	}
}

// IncMatchOutcome records an identity match outcome.
func (m *Metrics) IncMatchOutcome(role, result string) {
	if m != nil {
		m.MatchOutcome.WithLabelValues(role, result).Inc()
	}
}

// IncStatusTransition records an applied status transition.
func (m *Metrics) IncStatusTransition(status string) {
	if m != nil {
		m.StatusTransition.WithLabelValues(status).Inc()
	}
}

// IncBestEffortFailure records a failed best-effort step.
func (m *Metrics) IncBestEffortFailure(step string) {
	if m != nil {
		m.BestEffortFailures.WithLabelValues(step).Inc()
	}
}

// ObserveCollaboratorLatency records the duration of one collaborator call.
func (m *Metrics) ObserveCollaboratorLatency(collaborator string, d time.Duration) {
	if m != nil {
		m.CollaboratorLatency.WithLabelValues(collaborator).Observe(d.Seconds())
	}
}
