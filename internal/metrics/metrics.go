// Package metrics exposes Prometheus counters for ledger operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operations counts every public ledger operation by name and outcome
// ("ok" or "error").
var Operations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "skillbridge",
		Name:      "operations_total",
		Help:      "Ledger operations by name and outcome.",
	},
	[]string{"op", "outcome"},
)

// Observe records one operation outcome.
func Observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Operations.WithLabelValues(op, outcome).Inc()
}
