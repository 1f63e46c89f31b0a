package layout

import "github.com/linkviz/link/pkg/graph"

// HierarchicalLayout arranges nodes in BFS levels below root nodes.
// Roots are nodes without incoming edges; cycles fall back to the first node.
type HierarchicalLayout struct {
	config Config
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config Config) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout arranges nodes hierarchically
func (hl *HierarchicalLayout) ComputeLayout(g *graph.Graph, nodeIDs []uint64) (map[uint64]Position, error) {
	positions := make(map[uint64]Position)

	if len(nodeIDs) == 0 {
		return positions, nil
	}

	inSelection := make(map[uint64]bool, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		inSelection[nodeID] = true
	}

	roots := make([]uint64, 0)
	for _, nodeID := range nodeIDs {
		if len(g.IncomingEdges(nodeID)) == 0 {
			roots = append(roots, nodeID)
		}
	}

	if len(roots) == 0 {
		// No clear root, use first node
		roots = []uint64{nodeIDs[0]}
	}

	// Build levels using BFS
	levels := make([][]uint64, 0)
	visited := make(map[uint64]bool)
	currentLevel := roots

	for len(currentLevel) > 0 {
		levels = append(levels, currentLevel)
		nextLevel := make([]uint64, 0)

		for _, nodeID := range currentLevel {
			visited[nodeID] = true
			for _, edge := range g.OutgoingEdges(nodeID) {
				if inSelection[edge.ToNodeID] && !visited[edge.ToNodeID] {
					nextLevel = append(nextLevel, edge.ToNodeID)
					visited[edge.ToNodeID] = true
				}
			}
		}

		currentLevel = nextLevel
	}

	// Unvisited nodes (disconnected or cyclic remainders) go to the last level
	for _, nodeID := range nodeIDs {
		if !visited[nodeID] {
			levels[len(levels)-1] = append(levels[len(levels)-1], nodeID)
		}
	}

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		levelWidth := hl.config.Width - 2*hl.config.Padding
		spacing := levelWidth / float64(len(level)+1)

		for nodeIdx, nodeID := range level {
			x := hl.config.Padding + spacing*float64(nodeIdx+1)
			positions[nodeID] = Position{X: x, Y: y}
		}
	}

	return positions, nil
}
