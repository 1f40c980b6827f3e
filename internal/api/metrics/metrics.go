// Package metrics defines and registers all custom Prometheus metrics for the
// referral dashboard gateway. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "referral_dashboard"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - role: "admin", "subadmin" or "member"
//   - result: "success", "invalid" (rejected before dispatch) or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by slot and result.",
	},
	[]string{"role", "result"},
)

// SessionsExpiredTotal counts slots cleared because the backend answered 401.
// Label:
//   - role: the role whose slot was cleared
var SessionsExpiredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of session slots cleared after a 401 from the backend.",
	},
	[]string{"role"},
)

// ── User record metrics ───────────────────────────────────────────────────────

// RecordsFilteredTotal counts listed records hidden by the referral scope.
// Label:
//   - role: the role of the actor that listed
var RecordsFilteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_filtered_total",
		Help:      "Total number of user records removed from listings by the visibility scope.",
	},
	[]string{"role"},
)

// RecordsSkippedTotal counts backend records that could not be represented.
// Label:
//   - reason: e.g. "unknown_status"
var RecordsSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_skipped_total",
		Help:      "Total number of backend user records skipped while listing.",
	},
	[]string{"reason"},
)

// StatusTransitionsTotal counts workflow transitions.
// Labels:
//   - transition: "proceed" or "complete"
//   - result: "applied", "noop", "rejected" or "error"
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of user record status transitions, by outcome.",
	},
	[]string{"transition", "result"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures each backend round trip.
// Labels:
//   - op: logical operation (e.g. "list users")
//   - code: HTTP status code, or "network" when no response arrived
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the REST backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op", "code"},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// DispatchQueueDepth tracks the number of record actions waiting per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DispatchQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatch_queue_depth",
		Help:      "Current number of record actions pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
