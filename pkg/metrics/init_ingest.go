package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIngestMetrics() {
	r.IngestUploadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_ingest_uploads_total",
			Help: "Total number of dataset uploads",
		},
		[]string{"status"},
	)

	r.IngestUploadSizeBytes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "link_ingest_upload_size_bytes",
			Help:    "Uploaded file size in bytes",
			Buckets: []float64{1024, 10240, 102400, 1048576, 10485760, 67108864},
		},
	)

	r.IngestRowsParsed = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "link_ingest_rows_parsed_total",
			Help: "Total CSV rows successfully parsed",
		},
	)

	r.IngestRowsSkipped = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "link_ingest_rows_skipped_total",
			Help: "Total CSV rows skipped during parsing",
		},
	)

	r.IngestParseDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "link_ingest_parse_duration_seconds",
			Help:    "CSV parse latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
}
