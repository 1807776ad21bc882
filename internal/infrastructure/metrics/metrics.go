package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hatecheck"

// Submission outcomes used as the "outcome" label
const (
	OutcomeSuccess      = "success"
	OutcomeValidation   = "validation_error"
	OutcomeStatus       = "status_error"
	OutcomeDecode       = "decode_error"
	OutcomeNetwork      = "network_error"
	OutcomeSuperseded   = "superseded"
	OutcomeRejectedBusy = "rejected_busy"
)

// Metrics holds the collectors for submissions and sessions.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	latency     prometheus.Histogram
	inFlight    prometheus.Gauge
	sessions    prometheus.Gauge
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Text submissions by outcome.",
		}, []string{"outcome"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Time spent waiting for the remote classifier.",
			Buckets:   prometheus.DefBuckets,
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "submissions_in_flight",
			Help:      "Submissions currently waiting for the classifier.",
		}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions held in memory.",
		}),
	}
}

// SubmissionStarted marks a request to the classifier as in flight
func (m *Metrics) SubmissionStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// SubmissionSettled records the outcome of a request to the classifier
func (m *Metrics) SubmissionSettled(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.latency.Observe(elapsed.Seconds())
	m.submissions.WithLabelValues(outcome).Inc()
}

// SubmissionRejected records a submission that never reached the classifier
func (m *Metrics) SubmissionRejected(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// SetSessions sets the number of live sessions
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}
