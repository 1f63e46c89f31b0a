package algorithms

import (
	"sort"

	"github.com/linkviz/link/pkg/graph"
)

// LabelPropagation performs label propagation for community detection.
// Fast, scalable algorithm for large graphs: every node repeatedly adopts
// the most frequent label among its neighbors until no label changes.
func LabelPropagation(g *graph.Graph, maxIterations int) (*CommunityDetectionResult, error) {
	nodeIDs := g.NodeIDs()

	// Initialize: each node in its own community
	labels := make(map[uint64]int, len(nodeIDs))
	for i, nodeID := range nodeIDs {
		labels[nodeID] = i
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		for _, nodeID := range nodeIDs {
			labelCount := make(map[int]int)
			for _, s := range stepsFrom(g, nodeID, DirectionBoth) {
				labelCount[labels[s.nodeID]]++
			}

			// Most frequent neighbor label wins; lowest label breaks ties
			// so passes are deterministic
			maxCount := 0
			maxLabel := labels[nodeID]
			for label, count := range labelCount {
				if count > maxCount || (count == maxCount && count > 0 && label < maxLabel) {
					maxCount = count
					maxLabel = label
				}
			}

			if maxLabel != labels[nodeID] {
				labels[nodeID] = maxLabel
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	// Build communities from labels
	communityNodes := make(map[int][]uint64)
	for _, nodeID := range nodeIDs {
		label := labels[nodeID]
		communityNodes[label] = append(communityNodes[label], nodeID)
	}

	labelOrder := make([]int, 0, len(communityNodes))
	for label := range communityNodes {
		labelOrder = append(labelOrder, label)
	}
	sort.Ints(labelOrder)

	communities := make([]*Community, 0, len(communityNodes))
	nodeCommunity := make(map[uint64]int, len(nodeIDs))

	for communityID, label := range labelOrder {
		nodes := communityNodes[label]
		community := &Community{
			ID:      communityID,
			Nodes:   nodes,
			Size:    len(nodes),
			Density: communityDensity(g, nodes),
		}
		for _, nodeID := range nodes {
			nodeCommunity[nodeID] = communityID
		}
		communities = append(communities, community)
	}

	return &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
		Modularity:    Modularity(g, nodeCommunity),
	}, nil
}
