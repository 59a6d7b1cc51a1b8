package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SimulationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcdash_simulations_total",
		Help: "Simulation requests by outcome",
	}, []string{"outcome"})

	SimulationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mcdash_simulation_seconds",
		Help:    "Time spent generating path matrices",
		Buckets: prometheus.DefBuckets,
	})

	SimulatedPaths = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mcdash_simulated_paths_total",
		Help: "Total number of simulated price paths",
	})

	ProviderFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcdash_provider_fetches_total",
		Help: "Historical data fetches by kind and outcome",
	}, []string{"kind", "outcome"})

	HistoryCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcdash_history_cache_total",
		Help: "History cache lookups by result",
	}, []string{"result"})
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)
