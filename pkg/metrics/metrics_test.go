package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metric families are initialized
	if r.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal not initialized")
	}
	if r.IngestUploadsTotal == nil {
		t.Error("IngestUploadsTotal not initialized")
	}
	if r.GraphBuildsTotal == nil {
		t.Error("GraphBuildsTotal not initialized")
	}
	if r.AlgorithmRunsTotal == nil {
		t.Error("AlgorithmRunsTotal not initialized")
	}
	if r.SessionDatasetsActive == nil {
		t.Error("SessionDatasetsActive not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("GET", "/api/v1/datasets", "200", 100*time.Millisecond)
	r.RecordHTTPRequest("POST", "/api/v1/datasets", "201", 200*time.Millisecond)
	r.RecordHTTPRequest("GET", "/api/v1/datasets", "200", 50*time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("GET", "/api/v1/datasets", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Errorf("Expected 2 GET requests, got %v", got)
	}
}

func TestRecordAlgorithm(t *testing.T) {
	r := NewRegistry()

	r.RecordAlgorithm("pagerank", "ok", 10*time.Millisecond)
	r.RecordAlgorithm("pagerank", "ok", 2*time.Second)
	r.RecordAlgorithm("centrality", "error", 5*time.Millisecond)

	counter, err := r.AlgorithmRunsTotal.GetMetricWithLabelValues("pagerank", "ok")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	counter.Write(&metric)
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Errorf("Expected 2 pagerank runs, got %v", got)
	}

	// The 2s run counts as slow
	slow, err := r.SlowAlgorithmsTotal.GetMetricWithLabelValues("pagerank")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var slowMetric dto.Metric
	slow.Write(&slowMetric)
	if got := slowMetric.GetCounter().GetValue(); got != 1 {
		t.Errorf("Expected 1 slow pagerank run, got %v", got)
	}
}

func TestRecordGraphBuild(t *testing.T) {
	r := NewRegistry()

	r.RecordGraphBuild("ok", 100, 250, 50*time.Millisecond)

	var metric dto.Metric
	r.GraphNodesTotal.Write(&metric)
	if got := metric.GetGauge().GetValue(); got != 100 {
		t.Errorf("Expected node gauge 100, got %v", got)
	}

	// Failed builds do not move the size gauges
	r.RecordGraphBuild("error", 0, 0, time.Millisecond)
	r.GraphNodesTotal.Write(&metric)
	if got := metric.GetGauge().GetValue(); got != 100 {
		t.Errorf("Expected node gauge unchanged, got %v", got)
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics(time.Now().Add(-10 * time.Second))

	var metric dto.Metric
	r.UptimeSeconds.Write(&metric)
	if got := metric.GetGauge().GetValue(); got < 9 {
		t.Errorf("Expected uptime near 10s, got %v", got)
	}

	r.GoRoutines.Write(&metric)
	if metric.GetGauge().GetValue() < 1 {
		t.Error("Expected at least one goroutine")
	}
}
