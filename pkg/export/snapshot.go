package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/snappy"

	"github.com/linkviz/link/pkg/graph"
	"github.com/linkviz/link/pkg/layout"
)

const snapshotVersion = 1

// Snapshot is a self-contained, snappy-compressed dump of a built graph and
// its layout. Typed property values survive the round trip.
type Snapshot struct {
	Version   int                        `json:"version"`
	Directed  bool                       `json:"directed"`
	Nodes     []snapshotNode             `json:"nodes"`
	Edges     []snapshotEdge             `json:"edges"`
	Positions map[uint64]layout.Position `json:"positions,omitempty"`
}

type snapshotNode struct {
	ID         uint64                 `json:"id"`
	Key        string                 `json:"key"`
	Labels     []string               `json:"labels,omitempty"`
	Properties map[string]graph.Value `json:"properties,omitempty"`
}

type snapshotEdge struct {
	From       uint64                 `json:"from"`
	To         uint64                 `json:"to"`
	Type       string                 `json:"type"`
	Weight     float64                `json:"weight"`
	Properties map[string]graph.Value `json:"properties,omitempty"`
}

// EncodeSnapshot serializes a graph and layout to compressed bytes.
func EncodeSnapshot(g *graph.Graph, positions map[uint64]layout.Position) ([]byte, error) {
	snap := Snapshot{
		Version:   snapshotVersion,
		Directed:  g.Directed(),
		Positions: positions,
	}

	for _, nodeID := range g.NodeIDs() {
		node, err := g.GetNode(nodeID)
		if err != nil {
			continue
		}
		snap.Nodes = append(snap.Nodes, snapshotNode{
			ID:         node.ID,
			Key:        node.Key,
			Labels:     node.Labels,
			Properties: node.Properties,
		})
	}

	for _, edgeID := range g.EdgeIDs() {
		edge, err := g.GetEdge(edgeID)
		if err != nil {
			continue
		}
		snap.Edges = append(snap.Edges, snapshotEdge{
			From:       edge.FromNodeID,
			To:         edge.ToNodeID,
			Type:       edge.Type,
			Weight:     edge.Weight,
			Properties: edge.Properties,
		})
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

// DecodeSnapshot rebuilds a graph and layout from compressed snapshot bytes.
// Node IDs are reassigned in stored order; positions are remapped to match.
func DecodeSnapshot(data []byte) (*graph.Graph, map[uint64]layout.Position, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	g := graph.New(snap.Directed)
	idMap := make(map[uint64]uint64, len(snap.Nodes))

	for _, sn := range snap.Nodes {
		node := g.CreateNode(sn.Key, sn.Labels, sn.Properties)
		idMap[sn.ID] = node.ID
	}

	for _, se := range snap.Edges {
		from, fromOK := idMap[se.From]
		to, toOK := idMap[se.To]
		if !fromOK || !toOK {
			return nil, nil, fmt.Errorf("snapshot edge references unknown node %d->%d", se.From, se.To)
		}
		if _, err := g.CreateEdge(from, to, se.Type, se.Properties, se.Weight); err != nil {
			return nil, nil, fmt.Errorf("restore edge: %w", err)
		}
	}

	var positions map[uint64]layout.Position
	if len(snap.Positions) > 0 {
		positions = make(map[uint64]layout.Position, len(snap.Positions))
		for oldID, pos := range snap.Positions {
			if newID, ok := idMap[oldID]; ok {
				positions[newID] = pos
			}
		}
	}

	return g, positions, nil
}

// SaveSnapshot writes a compressed snapshot to disk.
func SaveSnapshot(path string, g *graph.Graph, positions map[uint64]layout.Position) error {
	data, err := EncodeSnapshot(g, positions)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSnapshot reads a compressed snapshot from disk.
func LoadSnapshot(path string) (*graph.Graph, map[uint64]layout.Position, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return DecodeSnapshot(data)
}
