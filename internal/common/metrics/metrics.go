// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes used as the "outcome" label.
const (
	OutcomeCreated   = "created"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of application submissions by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_submission_duration_seconds",
			Help:    "Duration of application submission handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	ValidationIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_validation_issues_total",
			Help: "Total number of field issues found in rejected submissions",
		},
		[]string{"field", "code"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_rate_limited_total",
			Help: "Total number of submissions rejected by the rate limiter",
		},
	)

	RateLimiterErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_rate_limiter_errors_total",
			Help: "Total number of rate limiter store errors (requests allowed through)",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_notifications_total",
			Help: "Total number of applicant notifications by channel and status",
		},
		[]string{"channel", "status"},
	)
)
