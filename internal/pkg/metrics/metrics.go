// Package metrics registers the prometheus collectors exposed at /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginSuccessTotal    prometheus.Counter
	LoginFailureTotal    prometheus.Counter
	TasksCreatedTotal    prometheus.Counter
	TasksUpdatedTotal    prometheus.Counter
	TasksDeletedTotal    prometheus.Counter
	CommentsCreatedTotal prometheus.Counter

	RateLimitWaitDuration prometheus.Histogram
	RateLimitTimeoutTotal prometheus.Counter

	initOnce sync.Once
)

// InitMetrics creates and registers all collectors. Safe to call more than
// once; only the first call registers.
func InitMetrics() {
	initOnce.Do(func() {
		LoginSuccessTotal = newCounter("login_success_total", "Successful logins.")
		LoginFailureTotal = newCounter("login_failure_total", "Rejected logins.")
		TasksCreatedTotal = newCounter("tasks_created_total", "Tasks created.")
		TasksUpdatedTotal = newCounter("tasks_updated_total", "Task updates, status and performer changes.")
		TasksDeletedTotal = newCounter("tasks_deleted_total", "Tasks deleted.")
		CommentsCreatedTotal = newCounter("comments_created_total", "Comments added.")

		RateLimitWaitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "taskmanagement",
			Name:      "ratelimit_wait_seconds",
			Help:      "Time spent waiting for a rate limit token.",
			Buckets:   prometheus.DefBuckets,
		})
		RateLimitTimeoutTotal = newCounter("ratelimit_timeout_total", "Rate limit waits cancelled by context.")

		prometheus.MustRegister(
			LoginSuccessTotal, LoginFailureTotal,
			TasksCreatedTotal, TasksUpdatedTotal, TasksDeletedTotal,
			CommentsCreatedTotal,
			RateLimitWaitDuration, RateLimitTimeoutTotal,
		)
	})
}

func newCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "taskmanagement",
		Name:      name,
		Help:      help,
	})
}
