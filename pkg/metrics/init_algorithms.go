package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAlgorithmMetrics() {
	r.AlgorithmRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_algorithm_runs_total",
			Help: "Total number of graph algorithm executions",
		},
		[]string{"algorithm", "status"},
	)

	r.AlgorithmDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "link_algorithm_duration_seconds",
			Help:    "Graph algorithm latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	r.LayoutRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_layout_runs_total",
			Help: "Total number of layout computations",
		},
		[]string{"algorithm", "status"},
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "link_layout_duration_seconds",
			Help:    "Layout computation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_exports_total",
			Help: "Total number of graph exports by format",
		},
		[]string{"format", "status"},
	)

	r.SlowAlgorithmsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_slow_algorithms_total",
			Help: "Algorithm runs that took longer than one second",
		},
		[]string{"algorithm"},
	)
}
