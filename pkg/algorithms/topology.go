package algorithms

import (
	"fmt"

	"github.com/linkviz/link/pkg/graph"
)

// HasCycle reports whether a directed graph contains a cycle, using
// three-colour DFS. On undirected graphs every edge pair is a trivial
// cycle, so only the directed interpretation is meaningful.
func HasCycle(g *graph.Graph) (bool, error) {
	const (
		white = 0 // unvisited
		grey  = 1 // on current DFS path
		black = 2 // fully explored
	)

	color := make(map[uint64]int)

	var visit func(nodeID uint64) bool
	visit = func(nodeID uint64) bool {
		color[nodeID] = grey
		for _, edge := range g.OutgoingEdges(nodeID) {
			switch color[edge.ToNodeID] {
			case grey:
				return true
			case white:
				if visit(edge.ToNodeID) {
					return true
				}
			}
		}
		color[nodeID] = black
		return false
	}

	for _, nodeID := range g.NodeIDs() {
		if color[nodeID] == white && visit(nodeID) {
			return true, nil
		}
	}
	return false, nil
}

// IsDAG checks if the graph is a Directed Acyclic Graph
func IsDAG(g *graph.Graph) (bool, error) {
	hasCycle, err := HasCycle(g)
	if err != nil {
		return false, err
	}
	return !hasCycle, nil
}

// TopologicalSort returns nodes in topological order using Kahn's algorithm.
// Returns an error if the graph contains a cycle.
// The ordering ensures that for every directed edge u->v, u comes before v.
func TopologicalSort(g *graph.Graph) ([]uint64, error) {
	isDAG, err := IsDAG(g)
	if err != nil {
		return nil, err
	}
	if !isDAG {
		return nil, fmt.Errorf("graph contains cycles, cannot perform topological sort")
	}

	nodeIDs := g.NodeIDs()
	if len(nodeIDs) == 0 {
		return []uint64{}, nil
	}

	inDegree := make(map[uint64]int, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		inDegree[nodeID] = len(g.IncomingEdges(nodeID))
	}

	// Nodes with no incoming edges seed the queue; node-ID order keeps the
	// result deterministic among ties
	queue := make([]uint64, 0)
	for _, nodeID := range nodeIDs {
		if inDegree[nodeID] == 0 {
			queue = append(queue, nodeID)
		}
	}

	sorted := make([]uint64, 0, len(nodeIDs))

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, edge := range g.OutgoingEdges(current) {
			inDegree[edge.ToNodeID]--
			if inDegree[edge.ToNodeID] == 0 {
				queue = append(queue, edge.ToNodeID)
			}
		}
	}

	if len(sorted) != len(nodeIDs) {
		return nil, fmt.Errorf("unexpected cycle detected during sort")
	}

	return sorted, nil
}

// IsConnected checks if all nodes are reachable from any starting node.
// For directed graphs this checks weak connectivity.
func IsConnected(g *graph.Graph) (bool, error) {
	nodeIDs := g.NodeIDs()
	if len(nodeIDs) <= 1 {
		return true, nil
	}

	visited := make(map[uint64]bool)
	queue := []uint64{nodeIDs[0]}
	visited[nodeIDs[0]] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, s := range stepsFrom(g, current, DirectionBoth) {
			if !visited[s.nodeID] {
				visited[s.nodeID] = true
				queue = append(queue, s.nodeID)
			}
		}
	}

	return len(visited) == len(nodeIDs), nil
}

// IsTree checks if the graph forms a valid tree:
// connected, acyclic, exactly n-1 edges and a single root.
func IsTree(g *graph.Graph) (bool, error) {
	nodeCount := g.NodeCount()

	if nodeCount == 0 {
		return false, nil
	}
	if nodeCount == 1 {
		return true, nil
	}

	if g.EdgeCount() != nodeCount-1 {
		return false, nil
	}

	isDAG, err := IsDAG(g)
	if err != nil {
		return false, err
	}
	if !isDAG {
		return false, nil
	}

	isConnected, err := IsConnected(g)
	if err != nil {
		return false, err
	}
	if !isConnected {
		return false, nil
	}

	rootCount := 0
	for _, nodeID := range g.NodeIDs() {
		if len(g.IncomingEdges(nodeID)) == 0 {
			rootCount++
		}
	}

	return rootCount == 1, nil
}

// IsBipartite checks if the graph can be two-coloured so that no edge joins
// nodes of the same colour. Returns (is_bipartite, partition1, partition2, error).
func IsBipartite(g *graph.Graph) (bool, []uint64, []uint64, error) {
	nodeIDs := g.NodeIDs()
	if len(nodeIDs) == 0 {
		return true, []uint64{}, []uint64{}, nil
	}

	// -1 = uncoloured, 0 = colour A, 1 = colour B
	color := make(map[uint64]int, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		color[nodeID] = -1
	}

	partition1 := make([]uint64, 0)
	partition2 := make([]uint64, 0)

	for _, startID := range nodeIDs {
		if color[startID] != -1 {
			continue
		}

		queue := []uint64{startID}
		color[startID] = 0
		partition1 = append(partition1, startID)

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			currentColor := color[current]
			nextColor := 1 - currentColor

			for _, s := range stepsFrom(g, current, DirectionBoth) {
				neighbor := s.nodeID
				if color[neighbor] == -1 {
					color[neighbor] = nextColor
					queue = append(queue, neighbor)

					if nextColor == 0 {
						partition1 = append(partition1, neighbor)
					} else {
						partition2 = append(partition2, neighbor)
					}
				} else if color[neighbor] == currentColor {
					return false, nil, nil, nil
				}
			}
		}
	}

	return true, partition1, partition2, nil
}
