// Package metrics defines and registers all custom Prometheus metrics for the
// accounts API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// Registration results.
const (
	ResultCreated  = "created"
	ResultConflict = "conflict"
	ResultSignedIn = "signed_in"
	ResultInvalid  = "invalid"
	ResultDenied   = "denied"
	ResultError    = "error"
)

// ── Registration metrics ──────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts by outcome.
// Label:
//   - result: created, conflict, signed_in, invalid, denied or error
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of account registration attempts, by result.",
	},
	[]string{"result"},
)

// SignatureVerificationsTotal counts signature checks.
// Label:
//   - result: "valid", "mismatch", "malformed" or "nonce_missing"
var SignatureVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signature_verifications_total",
		Help:      "Total number of wallet signature verifications, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts bearer tokens handed out after signed registration.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of authentication tokens issued.",
	},
)

// NoncesIssuedTotal counts sign-in challenges handed out.
var NoncesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nonces_issued_total",
		Help:      "Total number of sign-in nonces issued.",
	},
)

// AccountsRegistered is the number of documents in the accounts collection,
// refreshed periodically by the stats job.
var AccountsRegistered = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "registered",
		Help:      "Number of registered accounts as last observed in the datastore.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by outcome.
// Label:
//   - result: "written", "failed" or "dropped" (queue full or dispatcher stopped)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// StorageOperationDuration measures datastore round trips.
// Label:
//   - operation: "insert_if_absent", "find_by_address", "list", "count", "insert_event"
var StorageOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "storage_operation_duration_seconds",
		Help:      "Duration of MongoDB operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
