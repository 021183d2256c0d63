// Package metrics defines and registers all custom Prometheus metrics for
// usersync. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usersync"

// ── Sync controller metrics ──────────────────────────────────────────────────

// SyncOperationsTotal counts controller operations by result.
// Labels:
//   - operation: "check_health", "list", "create", "update", "delete"
//   - outcome: "ok", "validation", "transport", "application", "declined"
var SyncOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_operations_total",
		Help:      "Total number of sync controller operations, by outcome.",
	},
	[]string{"operation", "outcome"},
)

// SyncOperationDuration measures the time from issuing a request to reconciling
// its response into local state.
// Label:
//   - operation: see SyncOperationsTotal
var SyncOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_operation_duration_seconds",
		Help:      "Duration of sync controller network operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// APIHealthy is 1 while the last health check succeeded, 0 otherwise.
var APIHealthy = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "api_healthy",
		Help:      "Result of the most recent API health check (1 healthy, 0 unhealthy).",
	},
)

// CachedUsers tracks the size of the controller's local user list.
var CachedUsers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cached_users",
		Help:      "Number of users held in the controller's local mirror.",
	},
)

// ── Sandbox API metrics ──────────────────────────────────────────────────────

// SandboxMutationsTotal counts successful writes against the sandbox store.
// Label:
//   - action: "create", "update", "delete"
var SandboxMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sandbox_mutations_total",
		Help:      "Total number of user mutations applied by the sandbox API.",
	},
	[]string{"action"},
)
