// Package metrics defines the custom Prometheus metrics of the Q&A board API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on import; HTTP
// request metrics come from the echoprometheus middleware instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "qaboard"

// ── Content metrics ───────────────────────────────────────────────────────────

// ContentCreatedTotal counts newly created content.
// Label:
//   - kind: "question", "answer" or "comment"
var ContentCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_created_total",
		Help:      "Total number of questions, answers and comments created.",
	},
	[]string{"kind"},
)

// VotesTotal counts vote requests by outcome.
// Labels:
//   - direction: "up", "down" or "invalid"
//   - result: "recorded", "duplicate" or "error"
var VotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Total number of vote requests, by direction and result.",
	},
	[]string{"direction", "result"},
)

// AcceptsTotal counts successful answer acceptances.
var AcceptsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accepts_total",
		Help:      "Total number of answers accepted.",
	},
)

// ── Notification pipeline metrics ─────────────────────────────────────────────

// NotificationJobsTotal counts notification jobs leaving the dispatcher.
// Label:
//   - result: "processed", "failed" or "dropped" (queue full or stopped)
var NotificationJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_jobs_total",
		Help:      "Total number of notification jobs, by result.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks the number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDispatchDuration measures how long one job takes from dequeue
// until its notifications are stored.
// Label:
//   - source: "answer" or "comment"
var NotificationDispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_dispatch_duration_seconds",
		Help:      "Duration of notification fan-out per job.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"source"},
)
