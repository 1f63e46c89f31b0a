package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Ingest Metrics
	IngestUploadsTotal    *prometheus.CounterVec
	IngestUploadSizeBytes prometheus.Histogram
	IngestRowsParsed      prometheus.Counter
	IngestRowsSkipped     prometheus.Counter
	IngestParseDuration   prometheus.Histogram

	// Graph Metrics
	GraphBuildsTotal   *prometheus.CounterVec
	GraphBuildDuration prometheus.Histogram
	GraphNodesTotal    prometheus.Gauge
	GraphEdgesTotal    prometheus.Gauge

	// Algorithm Metrics
	AlgorithmRunsTotal  *prometheus.CounterVec
	AlgorithmDuration   *prometheus.HistogramVec
	LayoutRunsTotal     *prometheus.CounterVec
	LayoutDuration      *prometheus.HistogramVec
	ExportsTotal        *prometheus.CounterVec
	SlowAlgorithmsTotal *prometheus.CounterVec

	// Session Metrics
	SessionDatasetsActive prometheus.Gauge
	SessionEvictionsTotal prometheus.Counter
	SessionSweepsTotal    prometheus.Counter

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initIngestMetrics()
	r.initGraphMetrics()
	r.initAlgorithmMetrics()
	r.initSessionMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
