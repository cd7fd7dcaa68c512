package permissions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecisionsTotal counts policy decisions by policy, actor role and outcome.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yamdb_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"policy", "role", "decision"},
	)
)

func recordDecision(policy string, actor Actor, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	DecisionsTotal.WithLabelValues(policy, actor.Label(), decision).Inc()
}
