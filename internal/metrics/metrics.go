// Package metrics defines Prometheus metrics shared by the store adapters.
// Cache metrics live in the cache package to keep ownership with the code
// that emits them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdapterRequests counts backend searches by store and outcome
	// ("ok" or "error").
	AdapterRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricescout_adapter_requests_total",
			Help: "Total number of store adapter searches by outcome",
		},
		[]string{"store", "outcome"},
	)

	// AdapterOffers counts offers returned by each store adapter.
	AdapterOffers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricescout_adapter_offers_total",
			Help: "Total number of offers returned by store adapters",
		},
		[]string{"store"},
	)

	// LocationResolutions counts store-identifier resolutions by store and
	// outcome ("ok" or "error").
	LocationResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricescout_location_resolutions_total",
			Help: "Total number of store location resolutions by outcome",
		},
		[]string{"store", "outcome"},
	)
)
