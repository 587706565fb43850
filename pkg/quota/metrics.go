package quota

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quota_gate_decisions_total",
		Help: "Gate check outcomes by gate (lock, burst, tokens) and decision.",
	}, []string{"gate", "decision"})

	storeDegrades = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quota_store_degrade_total",
		Help: "Checks that degraded to allow because the counter store failed.",
	}, []string{"op"})

	abuseLocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quota_abuse_locks_total",
		Help: "Abuse locks that took effect.",
	})

	feedbackGrants = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quota_feedback_grants_total",
		Help: "Feedback bonus grants that succeeded.",
	})
)

func decisionLabel(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}
