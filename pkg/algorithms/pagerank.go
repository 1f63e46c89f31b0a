package algorithms

import (
	"math"

	"github.com/linkviz/link/pkg/graph"
)

// PageRankOptions configures PageRank algorithm
type PageRankOptions struct {
	DampingFactor float64 `json:"damping_factor"` // Usually 0.85
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"` // Convergence threshold
}

// DefaultPageRankOptions returns default PageRank configuration
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// PageRankResult contains PageRank scores for all nodes
type PageRankResult struct {
	Scores     map[uint64]float64 `json:"scores"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
	TopNodes   []RankedNode       `json:"top_nodes"`
}

// PageRank computes PageRank scores for all nodes. On undirected graphs
// every incident edge both distributes and receives rank.
func PageRank(g *graph.Graph, opts PageRankOptions) (*PageRankResult, error) {
	nodeIDs := g.NodeIDs()
	if len(nodeIDs) == 0 {
		return &PageRankResult{
			Scores:    make(map[uint64]float64),
			Converged: true,
		}, nil
	}

	// Initialize scores (uniform distribution)
	scores := make(map[uint64]float64)
	initialScore := 1.0 / float64(len(nodeIDs))
	for _, nodeID := range nodeIDs {
		scores[nodeID] = initialScore
	}

	// Out-degree under the graph's directedness
	outDegree := make(map[uint64]int)
	for _, nodeID := range nodeIDs {
		outDegree[nodeID] = len(stepsFrom(g, nodeID, DirectionOut))
	}

	newScores := make(map[uint64]float64)
	converged := false
	iterations := 0

	for iterations < opts.MaxIterations {
		iterations++

		for _, nodeID := range nodeIDs {
			// Random jump probability
			newScore := (1.0 - opts.DampingFactor) / float64(len(nodeIDs))

			// Contributions from nodes that can reach this one
			for _, s := range stepsFrom(g, nodeID, DirectionIn) {
				if outCount := outDegree[s.nodeID]; outCount > 0 {
					newScore += opts.DampingFactor * (scores[s.nodeID] / float64(outCount))
				}
			}

			newScores[nodeID] = newScore
		}

		// Check for convergence
		maxDiff := 0.0
		for nodeID := range scores {
			diff := math.Abs(newScores[nodeID] - scores[nodeID])
			if diff > maxDiff {
				maxDiff = diff
			}
		}

		scores, newScores = newScores, scores

		if maxDiff < opts.Tolerance {
			converged = true
			break
		}
	}

	// Normalize scores to sum to 1
	sum := 0.0
	for _, score := range scores {
		sum += score
	}
	if sum > 0 {
		for nodeID := range scores {
			scores[nodeID] /= sum
		}
	}

	return &PageRankResult{
		Scores:     scores,
		Iterations: iterations,
		Converged:  converged,
		TopNodes:   findTopNodes(g, scores, 10),
	}, nil
}

// GetNodeRank returns the PageRank score for a specific node
func (pr *PageRankResult) GetNodeRank(nodeID uint64) float64 {
	return pr.Scores[nodeID]
}
