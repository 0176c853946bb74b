// Package metrics defines and registers all custom Prometheus metrics for the
// health interviews API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init via promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "health_interviews"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Candidate metrics ─────────────────────────────────────────────────────────

// CandidateOperationsTotal counts successful candidate mutations and exports.
// Label:
//   - operation: "create", "save", "delete" or "copy"
var CandidateOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidate_operations_total",
		Help:      "Total number of successful candidate operations, by operation.",
	},
	[]string{"operation"},
)

// CandidateScoreTotal observes the derived total of every saved candidate.
var CandidateScoreTotal = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "candidate_score_total",
		Help:      "Distribution of candidate totals at save time.",
		Buckets:   prometheus.LinearBuckets(0, 5, 10),
	},
)

// ── Administration metrics ────────────────────────────────────────────────────

// AdminOperationsTotal counts administrator-only mutations.
// Label:
//   - operation: "user_add", "role_change", "user_delete", "field_save",
//     "field_delete" or "audit_clear"
var AdminOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_operations_total",
		Help:      "Total number of administrator operations, by operation.",
	},
	[]string{"operation"},
)

// ── Navigation metrics ────────────────────────────────────────────────────────

// ViewNavigationsTotal counts resolved navigations.
// Labels:
//   - view: the view that was rendered
//   - notice: why the navigation was redirected, "none" otherwise
var ViewNavigationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_navigations_total",
		Help:      "Total number of view navigations, by rendered view and redirect notice.",
	},
	[]string{"view", "notice"},
)
