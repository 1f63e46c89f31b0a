package export

import (
	"encoding/json"

	"github.com/linkviz/link/pkg/graph"
	"github.com/linkviz/link/pkg/layout"
)

// NodeViz is a node prepared for rendering.
type NodeViz struct {
	ID         uint64         `json:"id"`
	Key        string         `json:"key"`
	Labels     []string       `json:"labels,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
}

// EdgeViz is an edge prepared for rendering.
type EdgeViz struct {
	ID         uint64         `json:"id"`
	FromNodeID uint64         `json:"from"`
	ToNodeID   uint64         `json:"to"`
	Type       string         `json:"type"`
	Weight     float64        `json:"weight"`
	Properties map[string]any `json:"properties,omitempty"`
}

// VizData is the JSON shape consumed by the web UI and JSON exports.
type VizData struct {
	Directed bool      `json:"directed"`
	Nodes    []NodeViz `json:"nodes"`
	Edges    []EdgeViz `json:"edges"`
}

// BuildVizData flattens a graph and optional positions into render-ready form.
// Node and edge order follows ascending IDs.
func BuildVizData(g *graph.Graph, positions map[uint64]layout.Position) *VizData {
	data := &VizData{
		Directed: g.Directed(),
		Nodes:    make([]NodeViz, 0, g.NodeCount()),
		Edges:    make([]EdgeViz, 0, g.EdgeCount()),
	}

	for _, nodeID := range g.NodeIDs() {
		node, err := g.GetNode(nodeID)
		if err != nil {
			continue
		}
		viz := NodeViz{
			ID:     node.ID,
			Key:    node.Key,
			Labels: node.Labels,
		}
		if len(node.Properties) > 0 {
			viz.Properties = make(map[string]any, len(node.Properties))
			for key, val := range node.Properties {
				viz.Properties[key] = val.Interface()
			}
		}
		if pos, ok := positions[node.ID]; ok {
			viz.X = pos.X
			viz.Y = pos.Y
		}
		data.Nodes = append(data.Nodes, viz)
	}

	for _, edgeID := range g.EdgeIDs() {
		edge, err := g.GetEdge(edgeID)
		if err != nil {
			continue
		}
		viz := EdgeViz{
			ID:         edge.ID,
			FromNodeID: edge.FromNodeID,
			ToNodeID:   edge.ToNodeID,
			Type:       edge.Type,
			Weight:     edge.Weight,
		}
		if len(edge.Properties) > 0 {
			viz.Properties = make(map[string]any, len(edge.Properties))
			for key, val := range edge.Properties {
				viz.Properties[key] = val.Interface()
			}
		}
		data.Edges = append(data.Edges, viz)
	}

	return data
}

// JSON serializes a graph with positions to indented JSON.
func JSON(g *graph.Graph, positions map[uint64]layout.Position) ([]byte, error) {
	return json.MarshalIndent(BuildVizData(g, positions), "", "  ")
}
