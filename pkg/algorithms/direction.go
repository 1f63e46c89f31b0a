package algorithms

import "github.com/linkviz/link/pkg/graph"

// NeighborDirection selects which edges a traversal follows.
type NeighborDirection string

const (
	DirectionOut  NeighborDirection = "out"
	DirectionIn   NeighborDirection = "in"
	DirectionBoth NeighborDirection = "both"
)

// step is one traversal move: the node reached, the edge taken and the
// edge's weight and type.
type step struct {
	nodeID uint64
	edgeID uint64
	weight float64
	etype  string
}

// stepsFrom lists the moves available from a node. On undirected graphs
// every incident edge is walkable regardless of the requested direction,
// so dir is forced to DirectionBoth.
func stepsFrom(g *graph.Graph, nodeID uint64, dir NeighborDirection) []step {
	if !g.Directed() {
		dir = DirectionBoth
	}

	var steps []step

	if dir == DirectionOut || dir == DirectionBoth {
		for _, edge := range g.OutgoingEdges(nodeID) {
			steps = append(steps, step{
				nodeID: edge.ToNodeID,
				edgeID: edge.ID,
				weight: edge.Weight,
				etype:  edge.Type,
			})
		}
	}

	if dir == DirectionIn || dir == DirectionBoth {
		for _, edge := range g.IncomingEdges(nodeID) {
			// A self-loop already appeared in the outgoing pass
			if dir == DirectionBoth && edge.FromNodeID == edge.ToNodeID {
				continue
			}
			steps = append(steps, step{
				nodeID: edge.FromNodeID,
				edgeID: edge.ID,
				weight: edge.Weight,
				etype:  edge.Type,
			})
		}
	}

	return steps
}
