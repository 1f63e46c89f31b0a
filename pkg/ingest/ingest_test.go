package ingest

import (
	"strings"
	"testing"

	"github.com/linkviz/link/pkg/graph"
)

const sampleCSV = `source,target,weight,relation
alice,bob,2.5,KNOWS
bob,carol,1,WORKS_WITH
alice,carol,,KNOWS
carol,alice,not-a-number,
`

const bannerCSV = `Report generated 2024-01-15
Export tool v2.1

source,target
a,b
b,c
`

func TestReadTable_Basic(t *testing.T) {
	table, err := ReadTableBytes([]byte(sampleCSV), DefaultOptions())
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	if len(table.Columns) != 4 {
		t.Errorf("Expected 4 columns, got %d", len(table.Columns))
	}
	if table.Columns[0] != "source" {
		t.Errorf("Expected first column 'source', got %q", table.Columns[0])
	}
	if len(table.Rows) != 4 {
		t.Errorf("Expected 4 rows, got %d", len(table.Rows))
	}
}

func TestReadTable_SkipRows(t *testing.T) {
	opts := DefaultOptions()
	opts.SkipRows = 3

	table, err := ReadTableBytes([]byte(bannerCSV), opts)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	if len(table.Columns) != 2 || table.Columns[0] != "source" {
		t.Errorf("Expected header after banner, got %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Errorf("Expected 2 data rows, got %d", len(table.Rows))
	}
}

func TestReadTable_SkipBeyondEOF(t *testing.T) {
	opts := DefaultOptions()
	opts.SkipRows = 100

	_, err := ReadTableBytes([]byte("a,b\n1,2\n"), opts)
	if err == nil || !strings.Contains(err.Error(), "skip_rows exceeds") {
		t.Errorf("Expected skip beyond EOF error, got %v", err)
	}
}

func TestReadTable_EmptyInput(t *testing.T) {
	if _, err := ReadTableBytes([]byte(""), DefaultOptions()); err != ErrEmptyInput {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestReadTable_NoHeader(t *testing.T) {
	opts := DefaultOptions()
	opts.HasHeader = false

	table, err := ReadTableBytes([]byte("a,b\nc,d\n"), opts)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if table.Columns[0] != "column_1" || table.Columns[1] != "column_2" {
		t.Errorf("Expected synthesized column names, got %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Errorf("Expected both lines as data rows, got %d", len(table.Rows))
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		sample string
		want   rune
	}{
		{"a,b,c", ','},
		{"a\tb\tc", '\t'},
		{"a;b;c", ';'},
		{"a|b|c", '|'},
		{"single", ','},
	}
	for _, tt := range tests {
		if got := sniffDelimiter([]byte(tt.sample)); got != tt.want {
			t.Errorf("sniffDelimiter(%q) = %q, want %q", tt.sample, got, tt.want)
		}
	}
}

func TestRawPreview(t *testing.T) {
	lines := RawPreview([]byte(bannerCSV), 10)
	if len(lines) != 6 {
		t.Errorf("Expected 6 lines, got %d", len(lines))
	}
	if lines[0] != "Report generated 2024-01-15" {
		t.Errorf("Unexpected first line: %q", lines[0])
	}

	lines = RawPreview([]byte(bannerCSV), 2)
	if len(lines) != 2 {
		t.Errorf("Expected preview capped at 2 lines, got %d", len(lines))
	}
}

func TestBuild_Basic(t *testing.T) {
	table, err := ReadTableBytes([]byte(sampleCSV), DefaultOptions())
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	mapping := Mapping{
		SourceColumn:   "source",
		TargetColumn:   "target",
		WeightColumn:   "weight",
		EdgeTypeColumn: "relation",
	}

	g, report, err := Build(table, mapping, true)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if report.NodesCreated != 3 {
		t.Errorf("Expected 3 nodes (alice, bob, carol), got %d", report.NodesCreated)
	}
	if report.EdgesCreated != 4 {
		t.Errorf("Expected 4 edges, got %d", report.EdgesCreated)
	}
	if report.BadWeights != 1 {
		t.Errorf("Expected 1 bad weight, got %d", report.BadWeights)
	}

	// Deterministic node numbering in row order
	alice, err := g.FindNodeByKey("alice")
	if err != nil || alice.ID != 1 {
		t.Errorf("Expected alice to be node 1, got %v (%v)", alice, err)
	}

	// Weight column applied, blank falls back to 1.0
	edges := g.OutgoingEdges(alice.ID)
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges out of alice, got %d", len(edges))
	}
	if edges[0].Weight != 2.5 {
		t.Errorf("Expected first edge weight 2.5, got %f", edges[0].Weight)
	}
	if edges[1].Weight != 1.0 {
		t.Errorf("Expected blank weight to default to 1.0, got %f", edges[1].Weight)
	}

	// Edge type column applied, blank falls back to default
	carol, _ := g.FindNodeByKey("carol")
	carolOut := g.OutgoingEdges(carol.ID)
	if len(carolOut) != 1 || carolOut[0].Type != "RELATED_TO" {
		t.Errorf("Expected blank relation to default to RELATED_TO, got %v", carolOut)
	}
}

func TestBuild_BlankEndpointsSkipped(t *testing.T) {
	table, _ := ReadTableBytes([]byte("source,target\na,b\n,b\na,\n"), DefaultOptions())

	g, report, err := Build(table, Mapping{SourceColumn: "source", TargetColumn: "target"}, true)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if report.SkippedRows != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", report.SkippedRows)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}
	if len(report.Errors) != 2 {
		t.Errorf("Expected 2 reported errors, got %v", report.Errors)
	}
}

func TestBuild_SelfLoopsAndDuplicates(t *testing.T) {
	table, _ := ReadTableBytes([]byte("source,target\na,a\na,b\na,b\n"), DefaultOptions())

	g, report, err := Build(table, Mapping{SourceColumn: "source", TargetColumn: "target"}, false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if report.EdgesCreated != 3 {
		t.Errorf("Expected 3 edges (self loop + parallel pair), got %d", report.EdgesCreated)
	}
	if g.Stats().SelfLoops != 1 {
		t.Errorf("Expected 1 self loop, got %d", g.Stats().SelfLoops)
	}
}

func TestBuild_UnknownColumn(t *testing.T) {
	table, _ := ReadTableBytes([]byte("a,b\n1,2\n"), DefaultOptions())

	_, _, err := Build(table, Mapping{SourceColumn: "a", TargetColumn: "missing"}, true)
	if err == nil || !strings.Contains(err.Error(), "unknown column") {
		t.Errorf("Expected unknown column error, got %v", err)
	}
}

func TestBuild_EdgeAttributesTyped(t *testing.T) {
	table, _ := ReadTableBytes([]byte("source,target,since,active\na,b,2015,true\n"), DefaultOptions())

	mapping := Mapping{
		SourceColumn:    "source",
		TargetColumn:    "target",
		EdgeAttrColumns: []string{"since", "active"},
	}
	g, _, err := Build(table, mapping, true)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	edge, err := g.GetEdge(1)
	if err != nil {
		t.Fatalf("GetEdge failed: %v", err)
	}

	since, ok := edge.GetProperty("since")
	if !ok || since.Type != graph.TypeInt {
		t.Errorf("Expected int property 'since', got %v", since)
	}
	active, ok := edge.GetProperty("active")
	if !ok || active.Type != graph.TypeBool {
		t.Errorf("Expected bool property 'active', got %v", active)
	}
}

func TestInferValue(t *testing.T) {
	if InferValue("42").Type != graph.TypeInt {
		t.Error("Expected 42 to infer as int")
	}
	if InferValue("3.14").Type != graph.TypeFloat {
		t.Error("Expected 3.14 to infer as float")
	}
	if InferValue("TRUE").Type != graph.TypeBool {
		t.Error("Expected TRUE to infer as bool")
	}
	if InferValue("2024-01-15T10:00:00Z").Type != graph.TypeTimestamp {
		t.Error("Expected RFC3339 to infer as timestamp")
	}
	if InferValue("hello").Type != graph.TypeString {
		t.Error("Expected hello to infer as string")
	}
}
