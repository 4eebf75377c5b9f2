// Package metrics defines and registers the custom Prometheus metrics of the
// shift service. It is the single source of truth for metric names, labels
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shiftboard"

// ── Shift metrics ─────────────────────────────────────────────────────────────

// ShiftsRegisteredTotal counts stored shifts.
// Labels:
//   - on_behalf: "true" when an administrator booked for someone else
//   - overnight: "true" when the shift crosses midnight
var ShiftsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shifts_registered_total",
		Help:      "Total number of shifts registered.",
	},
	[]string{"on_behalf", "overnight"},
)

// ShiftsRejectedTotal counts registrations that were refused.
// Label:
//   - reason: "invalid_range", "invalid_date", "duplicate", "forbidden", "unknown_user" or "storage"
var ShiftsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shifts_rejected_total",
		Help:      "Total number of shift registrations rejected, by reason.",
	},
	[]string{"reason"},
)

// ShiftsDeletedTotal counts shifts removed by administrators.
var ShiftsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shifts_deleted_total",
		Help:      "Total number of shifts deleted.",
	},
)

// ── Rollup metrics ────────────────────────────────────────────────────────────

// RollupCacheTotal counts yearly rollup cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var RollupCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rollup_cache_total",
		Help:      "Total number of yearly rollup cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// RollupQueueDepth tracks pending refresh jobs per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var RollupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rollup_queue_depth",
		Help:      "Current number of rollup refresh jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// RollupRefreshDuration measures one refresh from dequeue to cache write.
// Label:
//   - result: "ok" or "error"
var RollupRefreshDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rollup_refresh_duration_seconds",
		Help:      "Duration of yearly rollup refresh jobs.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// RollupRefreshDroppedTotal counts refresh jobs dropped because a worker channel was full.
var RollupRefreshDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rollup_refresh_dropped_total",
		Help:      "Total number of rollup refresh jobs dropped on a full queue.",
	},
)
