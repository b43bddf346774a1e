package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SessionsStarted      prometheus.Counter
	StepsAdvanced        prometheus.Counter
	ValidationFailures   prometheus.Counter
	AddressLookups       *prometheus.CounterVec
	SubmissionsSucceeded prometheus.Counter
	SubmissionsFailed    prometheus.Counter
	SubmitDurationMs     prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadgate_sessions_started_total",
			Help: "Total number of wizard sessions created",
		}),
		StepsAdvanced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadgate_steps_advanced_total",
			Help: "Total number of successful forward step transitions",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadgate_validation_failures_total",
			Help: "Total number of step validations that blocked a transition",
		}),
		AddressLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadgate_address_lookups_total",
			Help: "Address lookup relay calls by action and outcome",
		}, []string{"action", "outcome"}),
		SubmissionsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadgate_submissions_succeeded_total",
			Help: "Total number of applications accepted by the finance provider",
		}),
		SubmissionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadgate_submissions_failed_total",
			Help: "Total number of submission attempts that failed",
		}),
		SubmitDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadgate_submit_duration_ms",
			Help:    "Latency of finance-submission relay calls in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
	}
}

// ObserveSubmit records one submission round trip.
func (m *Metrics) ObserveSubmit(start time.Time) {
	if m == nil {
		return
	}
	m.SubmitDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}
