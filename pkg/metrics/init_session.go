package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSessionMetrics() {
	r.SessionDatasetsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "link_session_datasets_active",
			Help: "Current number of datasets held in memory",
		},
	)

	r.SessionEvictionsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "link_session_evictions_total",
			Help: "Datasets evicted to make room for new uploads",
		},
	)

	r.SessionSweepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "link_session_sweeps_total",
			Help: "Expired datasets removed by the TTL sweeper",
		},
	)
}
