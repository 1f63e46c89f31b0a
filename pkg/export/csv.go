package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/linkviz/link/pkg/graph"
)

// EdgeListCSV serializes the graph as a flat edge list with a header row:
// source, target, type, weight. Endpoints are the original node keys so the
// file can be re-imported directly.
func EdgeListCSV(g *graph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"source", "target", "type", "weight"}); err != nil {
		return nil, err
	}

	for _, edgeID := range g.EdgeIDs() {
		edge, err := g.GetEdge(edgeID)
		if err != nil {
			continue
		}
		from, err := g.GetNode(edge.FromNodeID)
		if err != nil {
			continue
		}
		to, err := g.GetNode(edge.ToNodeID)
		if err != nil {
			continue
		}

		record := []string{from.Key, to.Key, edge.Type, fmt.Sprintf("%g", edge.Weight)}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
