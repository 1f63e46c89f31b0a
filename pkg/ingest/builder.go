package ingest

import (
	"fmt"
	"strconv"

	"github.com/linkviz/link/pkg/graph"
)

// maxReportedErrors bounds the error list carried in a BuildReport.
const maxReportedErrors = 10

// BuildReport summarizes a graph build.
type BuildReport struct {
	RowsRead     int      `json:"rows_read"`
	NodesCreated int      `json:"nodes_created"`
	EdgesCreated int      `json:"edges_created"`
	SkippedRows  int      `json:"skipped_rows"`
	BadWeights   int      `json:"bad_weights"`
	Errors       []string `json:"errors,omitempty"`
}

func (r *BuildReport) addError(row int, msg string) {
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", row+1, msg))
	}
}

// Build constructs a graph from a parsed table and a column mapping.
// Node identity is the cell value: repeated endpoint strings reuse the same
// node, numbered in first-appearance order so builds are deterministic.
// Blank endpoints skip the row; unparseable weights fall back to 1.0.
func Build(t *Table, m Mapping, directed bool) (*graph.Graph, *BuildReport, error) {
	if err := m.Validate(t); err != nil {
		return nil, nil, err
	}

	srcIdx := t.ColumnIndex(m.SourceColumn)
	dstIdx := t.ColumnIndex(m.TargetColumn)
	weightIdx := -1
	if m.WeightColumn != "" {
		weightIdx = t.ColumnIndex(m.WeightColumn)
	}
	typeIdx := -1
	if m.EdgeTypeColumn != "" {
		typeIdx = t.ColumnIndex(m.EdgeTypeColumn)
	}
	attrIdx := make(map[string]int, len(m.EdgeAttrColumns))
	for _, col := range m.EdgeAttrColumns {
		attrIdx[col] = t.ColumnIndex(col)
	}

	label := m.NodeLabel
	if label == "" {
		label = defaultNodeLabel
	}
	fallbackType := m.DefaultEdgeType
	if fallbackType == "" {
		fallbackType = defaultEdgeType
	}

	g := graph.New(directed)
	report := &BuildReport{}
	nodeIDs := make(map[string]uint64)

	resolve := func(key string) uint64 {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		node := g.CreateNode(key, []string{label}, map[string]graph.Value{
			"name": graph.StringValue(key),
		})
		nodeIDs[key] = node.ID
		report.NodesCreated++
		return node.ID
	}

	for rowNum, row := range t.Rows {
		report.RowsRead++

		source := t.Cell(row, srcIdx)
		target := t.Cell(row, dstIdx)
		if source == "" || target == "" {
			report.SkippedRows++
			report.addError(rowNum, "blank source or target")
			continue
		}

		weight := 1.0
		if weightIdx >= 0 {
			if cell := t.Cell(row, weightIdx); cell != "" {
				parsed, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					report.BadWeights++
				} else {
					weight = parsed
				}
			}
		}

		edgeType := fallbackType
		if typeIdx >= 0 {
			if cell := t.Cell(row, typeIdx); cell != "" {
				edgeType = cell
			}
		}

		var props map[string]graph.Value
		if len(attrIdx) > 0 {
			props = make(map[string]graph.Value, len(attrIdx))
			for col, idx := range attrIdx {
				if cell := t.Cell(row, idx); cell != "" {
					props[col] = InferValue(cell)
				}
			}
		}

		fromID := resolve(source)
		toID := resolve(target)

		if _, err := g.CreateEdge(fromID, toID, edgeType, props, weight); err != nil {
			report.SkippedRows++
			report.addError(rowNum, err.Error())
			continue
		}
		report.EdgesCreated++
	}

	return g, report, nil
}
