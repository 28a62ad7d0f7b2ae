// Package metrics holds the Prometheus collectors of the pipelines.
//
// Collectors are registered on the default registry at init, so the Metrics
// HTTP function and the local server expose them without further wiring.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
	OutcomeRetry    = "retry"
)

var (
	// intervals.icu client
	IntervalsRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervals_requests_total",
			Help: "Total number of intervals.icu requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	IntervalsRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intervals_request_duration_seconds",
			Help:    "Duration of intervals.icu requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Record store
	RecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_written_total",
			Help: "Total number of records written by kind",
		},
		[]string{"kind"},
	)

	RecordConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_conflicts_total",
			Help: "Total number of writes skipped because the record already existed",
		},
		[]string{"kind"},
	)

	HealthSamplesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "health_samples_skipped_total",
			Help: "Total number of wellness days dropped for insufficient data",
		},
	)

	// Secrets
	SecretFetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secret_fetch_attempts_total",
			Help: "Total number of secret fetch attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Notifications
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications by subject and outcome",
		},
		[]string{"subject", "outcome"},
	)

	// Function runs
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs by service and status",
		},
		[]string{"service", "status"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_duration_seconds",
			Help:    "Duration of pipeline runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service"},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
