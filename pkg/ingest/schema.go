package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linkviz/link/pkg/graph"
)

// Mapping binds table columns to graph roles. SourceColumn and TargetColumn
// are required; everything else refines the edges.
type Mapping struct {
	SourceColumn    string   `json:"source_column"`
	TargetColumn    string   `json:"target_column"`
	WeightColumn    string   `json:"weight_column,omitempty"`
	EdgeTypeColumn  string   `json:"edge_type_column,omitempty"`
	EdgeAttrColumns []string `json:"edge_attr_columns,omitempty"`
	NodeLabel       string   `json:"node_label,omitempty"`
	DefaultEdgeType string   `json:"default_edge_type,omitempty"`
}

// defaults mirrors the fallback labels used when CSV cells are blank.
const (
	defaultNodeLabel = "Node"
	defaultEdgeType  = "RELATED_TO"
)

// Validate checks the mapping against a parsed table's columns.
func (m *Mapping) Validate(t *Table) error {
	if m.SourceColumn == "" {
		return fmt.Errorf("source_column is required")
	}
	if m.TargetColumn == "" {
		return fmt.Errorf("target_column is required")
	}

	for _, col := range m.referencedColumns() {
		if t.ColumnIndex(col) < 0 {
			return fmt.Errorf("unknown column %q (columns: %s)", col, strings.Join(t.Columns, ", "))
		}
	}
	return nil
}

func (m *Mapping) referencedColumns() []string {
	cols := []string{m.SourceColumn, m.TargetColumn}
	if m.WeightColumn != "" {
		cols = append(cols, m.WeightColumn)
	}
	if m.EdgeTypeColumn != "" {
		cols = append(cols, m.EdgeTypeColumn)
	}
	cols = append(cols, m.EdgeAttrColumns...)
	return cols
}

// InferValue converts a CSV cell into a typed property value. Tries int,
// float, bool, then RFC 3339 timestamp before falling back to string.
func InferValue(cell string) graph.Value {
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return graph.IntValue(i)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return graph.FloatValue(f)
	}
	switch strings.ToLower(cell) {
	case "true":
		return graph.BoolValue(true)
	case "false":
		return graph.BoolValue(false)
	}
	if t, err := time.Parse(time.RFC3339, cell); err == nil {
		return graph.TimestampValue(t)
	}
	return graph.StringValue(cell)
}
