package complaint

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "complaints",
		Subsystem: "lifecycle",
		Name:      "operations_total",
		Help:      "Lifecycle operations broken down by operation and result kind.",
	}, []string{"operation", "result"})

	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "complaints",
		Subsystem: "lifecycle",
		Name:      "status_changes_total",
		Help:      "Committed status changes by target status.",
	}, []string{"status"})
)

func observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = KindOf(err).String()
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}
