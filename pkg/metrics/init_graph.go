package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_graph_builds_total",
			Help: "Total number of graph builds from mapped datasets",
		},
		[]string{"status"},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "link_graph_build_duration_seconds",
			Help:    "Graph build latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "link_graph_nodes_total",
			Help: "Node count of the most recently built graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "link_graph_edges_total",
			Help: "Edge count of the most recently built graph",
		},
	)
}
