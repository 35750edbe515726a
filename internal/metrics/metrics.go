// README: Prometheus metrics for the transform pipeline, caches, and flags.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TransformBatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridget_transform_batches_total",
		Help: "Total transform batches by execution path",
	}, []string{"path"})
	TransformPointsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridget_transform_points_total",
		Help: "Total points transformed by execution path",
	}, []string{"path"})
	TransformFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bridget_transform_failures_total",
		Help: "Total failed transform batches",
	})
	TransformDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bridget_transform_duration_ms",
		Help:    "Batch transform duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"path"})
	TransformPointsPerSecond = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bridget_transform_points_per_second",
		Help:    "Batch throughput in points per second",
		Buckets: prometheus.ExponentialBuckets(1000, 4, 10),
	}, []string{"path"})

	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridget_cache_hits_total",
		Help: "Cache hits by tier (matrix or point)",
	}, []string{"tier"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridget_cache_misses_total",
		Help: "Cache misses by tier",
	}, []string{"tier"})
	CacheEvictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridget_cache_evictions_total",
		Help: "LRU evictions by tier",
	}, []string{"tier"})

	FlagDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridget_flag_decisions_total",
		Help: "Feature flag decisions by flag and outcome",
	}, []string{"flag", "decision"})
)

func init() {
	prometheus.MustRegister(TransformBatchesTotal)
	prometheus.MustRegister(TransformPointsTotal)
	prometheus.MustRegister(TransformFailuresTotal)
	prometheus.MustRegister(TransformDurationMs)
	prometheus.MustRegister(TransformPointsPerSecond)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(CacheEvictionsTotal)
	prometheus.MustRegister(FlagDecisionsTotal)
}
