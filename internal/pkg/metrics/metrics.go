package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ChainFetchDuration tracks how long one chain balance fetch takes,
	// dial included.
	ChainFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dotfolio_chain_fetch_duration_seconds",
		Help:    "Duration of a single chain balance fetch.",
		Buckets: prometheus.DefBuckets,
	}, []string{"chain"})

	// ChainFetchFailures counts typed per-chain fetch failures.
	ChainFetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dotfolio_chain_fetch_failures_total",
		Help: "Chain balance fetch failures by chain and kind.",
	}, []string{"chain", "kind"})

	// AggregationCycles counts completed aggregation cycles.
	AggregationCycles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dotfolio_aggregation_cycles_total",
		Help: "Completed portfolio aggregation cycles.",
	})

	// PriceCacheHits and PriceCacheMisses track price cache effectiveness.
	PriceCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dotfolio_price_cache_hits_total",
		Help: "Price lookups answered from the TTL cache.",
	})
	PriceCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dotfolio_price_cache_misses_total",
		Help: "Price lookups that required a live fetch.",
	})
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once from main.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		ChainFetchDuration,
		ChainFetchFailures,
		AggregationCycles,
		PriceCacheHits,
		PriceCacheMisses,
	)
}
