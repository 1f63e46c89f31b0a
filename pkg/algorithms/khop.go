package algorithms

import (
	"fmt"

	"github.com/linkviz/link/pkg/graph"
)

// KHopOptions configures the k-hop neighbourhood traversal.
type KHopOptions struct {
	MaxHops    int               `json:"max_hops"` // must be >= 1
	Direction  NeighborDirection `json:"direction"`
	EdgeTypes  []string          `json:"edge_types,omitempty"` // nil means all edge types
	MaxResults int               `json:"max_results"`          // 0 = unlimited; BFS order gives closer nodes priority
}

// KHopResult holds the BFS neighbourhood of a source node.
type KHopResult struct {
	SourceNodeID   uint64           `json:"source_node_id"`
	ByHop          map[int][]uint64 `json:"by_hop"`    // hop distance -> node IDs at that distance
	Distances      map[uint64]int   `json:"distances"` // node ID -> shortest hop count
	TotalReachable int              `json:"total_reachable"`
}

// DefaultKHopOptions returns sensible defaults.
func DefaultKHopOptions() KHopOptions {
	return KHopOptions{
		MaxHops:   2,
		Direction: DirectionOut,
	}
}

type bfsEntry struct {
	nodeID uint64
	hop    int
}

// KHopNeighbours performs a BFS from sourceNodeID up to MaxHops levels,
// returning all discovered nodes grouped by distance.
// The source node is never included in results.
func KHopNeighbours(g *graph.Graph, sourceNodeID uint64, opts KHopOptions) (*KHopResult, error) {
	if opts.MaxHops < 1 {
		return nil, fmt.Errorf("MaxHops must be >= 1, got %d", opts.MaxHops)
	}
	if _, err := g.GetNode(sourceNodeID); err != nil {
		return nil, err
	}

	edgeTypeSet := make(map[string]bool, len(opts.EdgeTypes))
	for _, et := range opts.EdgeTypes {
		edgeTypeSet[et] = true
	}
	filterByType := len(opts.EdgeTypes) > 0

	visited := map[uint64]bool{sourceNodeID: true}
	distances := make(map[uint64]int)
	byHop := make(map[int][]uint64)
	totalReachable := 0

	queue := []bfsEntry{{nodeID: sourceNodeID, hop: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.hop >= opts.MaxHops {
			continue
		}

		nextHop := current.hop + 1

		for _, s := range stepsFrom(g, current.nodeID, opts.Direction) {
			if filterByType && !edgeTypeSet[s.etype] {
				continue
			}
			if visited[s.nodeID] {
				continue
			}
			visited[s.nodeID] = true
			distances[s.nodeID] = nextHop
			byHop[nextHop] = append(byHop[nextHop], s.nodeID)
			totalReachable++

			if opts.MaxResults > 0 && totalReachable >= opts.MaxResults {
				return &KHopResult{
					SourceNodeID:   sourceNodeID,
					ByHop:          byHop,
					Distances:      distances,
					TotalReachable: totalReachable,
				}, nil
			}

			queue = append(queue, bfsEntry{nodeID: s.nodeID, hop: nextHop})
		}
	}

	return &KHopResult{
		SourceNodeID:   sourceNodeID,
		ByHop:          byHop,
		Distances:      distances,
		TotalReachable: totalReachable,
	}, nil
}
