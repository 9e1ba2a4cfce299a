package observability

import "github.com/prometheus/client_golang/prometheus"

// generationCalls counts external generation attempts by outcome. Attempts
// are the unit the per-user generation limit charges, so this series tracks
// spend directly.
var generationCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generation_calls_total",
		Help: "Total number of external recipe generation calls.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(generationCalls)
}

// ObserveGeneration records the outcome of one external generation call.
func ObserveGeneration(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	generationCalls.WithLabelValues(outcome).Inc()
}
