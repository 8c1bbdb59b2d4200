package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks portal requests by outcome class
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gonspd_requests_total",
			Help: "Total number of portal requests",
		},
		[]string{"class"},
	)

	// RetriesTotal tracks retry attempts
	RetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gonspd_retries_total",
			Help: "Total number of request retries",
		},
	)

	// TilesVisited tracks tiles requested during contour subdivision
	TilesVisited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gonspd_tiles_visited_total",
			Help: "Total number of tiles visited by contour searches",
		},
	)

	// TilesSplit tracks tiles that reported the too-large signal
	TilesSplit = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gonspd_tiles_split_total",
			Help: "Total number of tiles split into quadrants",
		},
	)

	// CacheHits tracks responses served from the cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gonspd_cache_hits_total",
			Help: "Total number of responses served from cache",
		},
	)

	// CacheMisses tracks requests that went to the network
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gonspd_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)
)
