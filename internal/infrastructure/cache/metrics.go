package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits tracks cache hits by layer (memory, redis)
	Hits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricescout_cache_hits_total",
			Help: "Total number of search cache hits",
		},
		[]string{"layer"},
	)

	// Misses tracks cache misses by layer (memory, redis)
	Misses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricescout_cache_misses_total",
			Help: "Total number of search cache misses",
		},
		[]string{"layer"},
	)

	// Errors tracks cache operation errors by operation
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricescout_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"},
	)
)
