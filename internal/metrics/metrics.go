package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Route cache metrics
	RouteCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_route_cache_hits_total",
			Help: "Total number of route cache hits",
		},
		[]string{"migration_status"},
	)

	RouteCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_route_cache_misses_total",
			Help: "Total number of route cache misses (absent or stale)",
		},
		[]string{"reason"},
	)

	RouteCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "route_engine_route_cache_size",
		Help: "Current number of entries in the route cache",
	})

	RouteCacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_route_cache_writes_total",
			Help: "Total number of route cache writes",
		},
		[]string{"migration_status"},
	)

	// Pair cache metrics
	PairCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_engine_pair_cache_hits_total",
		Help: "Total number of pancake pair cache hits",
	})

	PairCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_engine_pair_cache_misses_total",
		Help: "Total number of pancake pair cache misses",
	})

	PairCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "route_engine_pair_cache_size",
		Help: "Current number of entries in the pancake pair cache",
	})

	PairDiscoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_pair_discoveries_total",
			Help: "Total number of pancake pool discoveries by outcome",
		},
		[]string{"source", "result"},
	)

	// Platform query metrics
	PlatformQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_platform_queries_total",
			Help: "Total number of platform queries by outcome",
		},
		[]string{"platform", "status"},
	)

	PlatformQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "route_engine_platform_query_duration_seconds",
			Help:    "Platform query duration in seconds, including retries",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"platform"},
	)

	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_engine_resolve_duration_seconds",
		Help:    "Full fallback resolution duration in seconds",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	FallbackOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_fallback_outcomes_total",
			Help: "How fallback resolutions ended",
		},
		[]string{"outcome"},
	)

	// RPC metrics
	RPCCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_rpc_calls_total",
			Help: "Total number of eth_call reads by contract method",
		},
		[]string{"method"},
	)

	RPCErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_rpc_errors_total",
			Help: "Total number of failed eth_call reads by method and error kind",
		},
		[]string{"method", "kind"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "route_engine_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
