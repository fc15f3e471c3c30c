// Package metrics exposes Prometheus collectors for the lead-capture flow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/karbonfx/leadform/internal/form"
)

var (
	stepSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_step_submissions_total",
			Help: "Total number of step submissions labeled by step and outcome",
		},
		[]string{"step", "status"},
	)
	upsertDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "record_store_upsert_duration_seconds",
			Help:    "Duration of record store upserts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	stepTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_step_transitions_total",
			Help: "Total number of wizard step transitions",
		},
		[]string{"from", "to"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
	sessionsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "form_sessions_started_total",
			Help: "Total number of form sessions opened",
		},
	)
	leadsCapturedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Leads written to the record store, partial or complete",
		},
		[]string{"stage"},
	)
)

func init() {
	form.RegisterTransitionRecorder(RecordStepTransition)
}

// RecordStepSubmission counts one submit attempt for a wizard step.
func RecordStepSubmission(step, status string) {
	if step == "" {
		step = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	stepSubmissionsTotal.WithLabelValues(step, status).Inc()
}

// RecordUpsertDuration tracks one record store write.
func RecordUpsertDuration(operation string, duration time.Duration) {
	if operation == "" {
		operation = "unknown"
	}

	upsertDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStepTransition tracks wizard transitions.
func RecordStepTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	stepTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

// RecordSessionStarted counts a newly opened session.
func RecordSessionStarted() {
	sessionsStartedTotal.Inc()
}

// RecordLeadCaptured counts a successful record store write by stage
// ("partial" after step one, "complete" after step two).
func RecordLeadCaptured(stage string) {
	if stage == "" {
		stage = "unknown"
	}

	leadsCapturedTotal.WithLabelValues(stage).Inc()
}
