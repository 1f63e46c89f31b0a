package algorithms

import "github.com/linkviz/link/pkg/graph"

// TriangleCountResult holds triangle counting results including per-node counts,
// global count, clustering coefficients, and top nodes by triangle participation.
type TriangleCountResult struct {
	PerNode                map[uint64]int     `json:"per_node"`
	GlobalCount            int                `json:"global_count"`
	ClusteringCoefficients map[uint64]float64 `json:"clustering_coefficients"`
	AverageClustering      float64            `json:"average_clustering"`
	TopNodes               []RankedNode       `json:"top_nodes"`
}

// CountTriangles counts triangles in the graph, treating all edges as undirected.
// For each node u, it iterates over pairs (v,w) in u's neighbor set; if v and w
// are also neighbors, that's a triangle. Each triangle is counted once per
// participating node, so GlobalCount = sum(PerNode) / 3.
// Clustering coefficients are computed in the same pass.
func CountTriangles(g *graph.Graph) (*TriangleCountResult, error) {
	nodeIDs := g.NodeIDs()

	// Build undirected neighbor sets for all nodes, excluding self-loops
	neighborSets := make(map[uint64]map[uint64]bool, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		neighbors := make(map[uint64]bool)
		for _, s := range stepsFrom(g, nodeID, DirectionBoth) {
			neighbors[s.nodeID] = true
		}
		delete(neighbors, nodeID)
		neighborSets[nodeID] = neighbors
	}

	perNode := make(map[uint64]int, len(nodeIDs))
	for _, u := range nodeIDs {
		uNeighbors := neighborSets[u]
		neighborsSlice := make([]uint64, 0, len(uNeighbors))
		for v := range uNeighbors {
			neighborsSlice = append(neighborsSlice, v)
		}

		count := 0
		for i := 0; i < len(neighborsSlice); i++ {
			v := neighborsSlice[i]
			for j := i + 1; j < len(neighborsSlice); j++ {
				w := neighborsSlice[j]
				if neighborSets[v][w] {
					count++
				}
			}
		}
		perNode[u] = count
	}

	// Each triangle is counted three times, once per vertex
	total := 0
	for _, c := range perNode {
		total += c
	}
	globalCount := total / 3

	coefficients := make(map[uint64]float64, len(nodeIDs))
	coefficientSum := 0.0
	for _, u := range nodeIDs {
		k := len(neighborSets[u])
		if k < 2 {
			coefficients[u] = 0.0
			continue
		}
		possible := k * (k - 1) / 2
		coefficients[u] = float64(perNode[u]) / float64(possible)
		coefficientSum += coefficients[u]
	}

	averageClustering := 0.0
	if len(nodeIDs) > 0 {
		averageClustering = coefficientSum / float64(len(nodeIDs))
	}

	floatScores := make(map[uint64]float64, len(perNode))
	for id, c := range perNode {
		floatScores[id] = float64(c)
	}

	return &TriangleCountResult{
		PerNode:                perNode,
		GlobalCount:            globalCount,
		ClusteringCoefficients: coefficients,
		AverageClustering:      averageClustering,
		TopNodes:               findTopNodes(g, floatScores, 10),
	}, nil
}

// ClusteringCoefficient computes local clustering coefficients for all nodes.
func ClusteringCoefficient(g *graph.Graph) (map[uint64]float64, error) {
	result, err := CountTriangles(g)
	if err != nil {
		return nil, err
	}
	return result.ClusteringCoefficients, nil
}

// AverageClusteringCoefficient computes the mean local clustering coefficient.
func AverageClusteringCoefficient(g *graph.Graph) (float64, error) {
	result, err := CountTriangles(g)
	if err != nil {
		return 0.0, err
	}
	return result.AverageClustering, nil
}
