package graph

// Statistics summarizes the shape of a graph.
type Statistics struct {
	NodeCount     int     `json:"node_count"`
	EdgeCount     int     `json:"edge_count"`
	Directed      bool    `json:"directed"`
	Density       float64 `json:"density"`
	AvgDegree     float64 `json:"avg_degree"`
	MaxDegree     int     `json:"max_degree"`
	SelfLoops     int     `json:"self_loops"`
	IsolatedNodes int     `json:"isolated_nodes"`
}

// Stats computes summary statistics. Degree counts both orientations; for
// density, the directed denominator is n*(n-1) and the undirected n*(n-1)/2.
func (g *Graph) Stats() Statistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := Statistics{
		NodeCount: len(g.nodes),
		EdgeCount: len(g.edges),
		Directed:  g.directed,
	}

	totalDegree := 0
	for id := range g.nodes {
		degree := len(g.outgoing[id]) + len(g.incoming[id])
		totalDegree += degree
		if degree > stats.MaxDegree {
			stats.MaxDegree = degree
		}
		if degree == 0 {
			stats.IsolatedNodes++
		}
	}

	for _, edge := range g.edges {
		if edge.FromNodeID == edge.ToNodeID {
			stats.SelfLoops++
		}
	}

	if stats.NodeCount > 0 {
		stats.AvgDegree = float64(totalDegree) / float64(stats.NodeCount)
	}
	if stats.NodeCount > 1 {
		possible := float64(stats.NodeCount) * float64(stats.NodeCount-1)
		if !g.directed {
			possible /= 2
		}
		stats.Density = float64(stats.EdgeCount) / possible
	}

	return stats
}
