// Package metrics defines and registers the custom Prometheus metrics of the
// storefront account API. It is the single source of truth for metric names,
// labels and help strings.
//
// Metrics register with the default registry through promauto on package
// load; /metrics serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Credential metrics ────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid_credentials", "rate_limited", "error"
//
// Missing fields count as invalid_credentials.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - outcome: "success", "duplicate", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PasswordResetsTotal tracks the recovery flow.
// Labels:
//   - stage: "request" or "confirm"
//   - outcome: "accepted" (request), "success" (confirm), "invalid", "expired", "error"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password recovery operations, by stage and outcome.",
	},
	[]string{"stage", "outcome"},
)

// ── Access gate metrics ───────────────────────────────────────────────────────

// GateDecisionsTotal counts access gate decisions.
// Labels:
//   - gate: "authenticate" or "authorize"
//   - decision: "allowed" or "rejected"
//   - reason: rejection cause ("missing", "expired", "signature", "malformed", "account_gone", "role"), empty when allowed
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_decisions_total",
		Help:      "Total number of access gate decisions.",
	},
	[]string{"gate", "decision", "reason"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailJobsTotal counts background mail jobs.
// Labels:
//   - kind: message kind (e.g. "password_reset")
//   - outcome: "sent", "failed", "dropped"
var MailJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_jobs_total",
		Help:      "Total number of mail jobs handled by the dispatcher.",
	},
	[]string{"kind", "outcome"},
)

// MailQueueDepth tracks the messages waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)
