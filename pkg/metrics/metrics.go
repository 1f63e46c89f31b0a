package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordUpload records a dataset upload attempt
func (r *Registry) RecordUpload(status string, sizeBytes int64) {
	r.IngestUploadsTotal.WithLabelValues(status).Inc()
	if sizeBytes > 0 {
		r.IngestUploadSizeBytes.Observe(float64(sizeBytes))
	}
}

// RecordParse records a CSV parse
func (r *Registry) RecordParse(rows, skipped int, duration time.Duration) {
	r.IngestRowsParsed.Add(float64(rows))
	r.IngestRowsSkipped.Add(float64(skipped))
	r.IngestParseDuration.Observe(duration.Seconds())
}

// RecordGraphBuild records a graph build and the resulting graph size
func (r *Registry) RecordGraphBuild(status string, nodes, edges int, duration time.Duration) {
	r.GraphBuildsTotal.WithLabelValues(status).Inc()
	r.GraphBuildDuration.Observe(duration.Seconds())
	if status == "ok" {
		r.GraphNodesTotal.Set(float64(nodes))
		r.GraphEdgesTotal.Set(float64(edges))
	}
}

// RecordAlgorithm records a graph algorithm execution
func (r *Registry) RecordAlgorithm(algorithm, status string, duration time.Duration) {
	r.AlgorithmRunsTotal.WithLabelValues(algorithm, status).Inc()
	r.AlgorithmDuration.WithLabelValues(algorithm).Observe(duration.Seconds())

	if duration > time.Second {
		r.SlowAlgorithmsTotal.WithLabelValues(algorithm).Inc()
	}
}

// RecordLayout records a layout computation
func (r *Registry) RecordLayout(algorithm, status string, duration time.Duration) {
	r.LayoutRunsTotal.WithLabelValues(algorithm, status).Inc()
	r.LayoutDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordExport records a graph export
func (r *Registry) RecordExport(format, status string) {
	r.ExportsTotal.WithLabelValues(format, status).Inc()
}

// UpdateSessionMetrics updates the dataset store gauges
func (r *Registry) UpdateSessionMetrics(active int) {
	r.SessionDatasetsActive.Set(float64(active))
}

// UpdateSystemMetrics refreshes runtime gauges. Callers invoke this
// periodically or before serving a scrape.
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
