package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the replenishment worker.
//
//   - worker_replenish_runs_total: Total job runs by status (success/failure)
//   - worker_replenish_duration_seconds: Duration histogram of job execution
//   - worker_accounts_replenished_total: Total accounts topped up across all runs
//   - worker_replenish_last_success_timestamp: Unix timestamp of last successful run
//   - worker_config_fallbacks_total: Config values replaced by defaults, by field
var (
	replenishRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_replenish_runs_total",
		Help: "Total number of credit replenishment runs by status (success/failure)",
	}, []string{"status"})

	replenishDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "worker_replenish_duration_seconds",
		Help:    "Duration of credit replenishment runs in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 30, 60, 300},
	})

	accountsReplenishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worker_accounts_replenished_total",
		Help: "Total number of accounts topped up across all replenishment runs",
	})

	replenishLastSuccessTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "worker_replenish_last_success_timestamp",
		Help: "Unix timestamp of the last successful replenishment run",
	})

	configFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_config_fallbacks_total",
		Help: "Total number of configuration values replaced by defaults, by field",
	}, []string{"field"})
)

// RecordRunSuccess records a successful replenishment run: its duration,
// the number of accounts topped up, and the last-success timestamp.
func RecordRunSuccess(duration time.Duration, accounts int64) {
	replenishRunsTotal.WithLabelValues("success").Inc()
	replenishDurationSeconds.Observe(duration.Seconds())
	accountsReplenishedTotal.Add(float64(accounts))
	replenishLastSuccessTimestamp.SetToCurrentTime()
}

// RecordRunFailure records a failed replenishment run and its duration.
func RecordRunFailure(duration time.Duration) {
	replenishRunsTotal.WithLabelValues("failure").Inc()
	replenishDurationSeconds.Observe(duration.Seconds())
}

// RecordConfigFallback records that a configuration field was replaced
// by its default during environment loading.
func RecordConfigFallback(field string) {
	configFallbacksTotal.WithLabelValues(field).Inc()
}
