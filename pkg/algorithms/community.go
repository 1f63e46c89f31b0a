package algorithms

import (
	"container/list"
	"sort"

	"github.com/linkviz/link/pkg/graph"
)

// Community represents a detected community
type Community struct {
	ID      int      `json:"id"`
	Nodes   []uint64 `json:"nodes"`
	Size    int      `json:"size"`
	Density float64  `json:"density"` // Edge density within community
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community   `json:"communities"`
	Modularity    float64        `json:"modularity"` // Quality measure of the partitioning
	NodeCommunity map[uint64]int `json:"node_community"`
}

// ConnectedComponents finds all connected components in the graph.
// Directed graphs are treated as weakly connected (edges both ways).
func ConnectedComponents(g *graph.Graph) (*CommunityDetectionResult, error) {
	nodeIDs := g.NodeIDs()

	visited := make(map[uint64]bool)
	nodeCommunity := make(map[uint64]int)
	communities := make([]*Community, 0)
	communityID := 0

	// BFS to find each component
	for _, startNode := range nodeIDs {
		if visited[startNode] {
			continue
		}

		component := &Community{
			ID:    communityID,
			Nodes: make([]uint64, 0),
		}

		queue := list.New()
		queue.PushBack(startNode)
		visited[startNode] = true

		for queue.Len() > 0 {
			nodeID, ok := queue.Remove(queue.Front()).(uint64)
			if !ok {
				continue
			}
			component.Nodes = append(component.Nodes, nodeID)
			nodeCommunity[nodeID] = communityID

			for _, s := range stepsFrom(g, nodeID, DirectionBoth) {
				if !visited[s.nodeID] {
					visited[s.nodeID] = true
					queue.PushBack(s.nodeID)
				}
			}
		}

		sort.Slice(component.Nodes, func(i, j int) bool {
			return component.Nodes[i] < component.Nodes[j]
		})
		component.Size = len(component.Nodes)
		component.Density = communityDensity(g, component.Nodes)
		communities = append(communities, component)
		communityID++
	}

	return &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
		Modularity:    Modularity(g, nodeCommunity),
	}, nil
}

// communityDensity computes edge density among the given member nodes,
// treating edges as undirected and ignoring self-loops.
func communityDensity(g *graph.Graph, members []uint64) float64 {
	if len(members) < 2 {
		return 0.0
	}

	inSet := make(map[uint64]bool, len(members))
	for _, id := range members {
		inSet[id] = true
	}

	internal := 0
	for _, edgeID := range g.EdgeIDs() {
		edge, err := g.GetEdge(edgeID)
		if err != nil || edge.FromNodeID == edge.ToNodeID {
			continue
		}
		if inSet[edge.FromNodeID] && inSet[edge.ToNodeID] {
			internal++
		}
	}

	n := len(members)
	possible := n * (n - 1) / 2
	return float64(internal) / float64(possible)
}

// Modularity computes the Newman modularity Q of a partition:
// Q = sum over communities of (e_c/m - (d_c/2m)^2), where e_c is the number
// of intra-community edges, d_c the total degree of the community's nodes and
// m the edge count. Edges are treated as undirected.
func Modularity(g *graph.Graph, nodeCommunity map[uint64]int) float64 {
	m := float64(g.EdgeCount())
	if m == 0 {
		return 0.0
	}

	internalEdges := make(map[int]float64)
	degreeSum := make(map[int]float64)

	for _, edgeID := range g.EdgeIDs() {
		edge, err := g.GetEdge(edgeID)
		if err != nil {
			continue
		}
		fromC, fromOK := nodeCommunity[edge.FromNodeID]
		toC, toOK := nodeCommunity[edge.ToNodeID]
		if fromOK && toOK && fromC == toC {
			internalEdges[fromC]++
		}
		if fromOK {
			degreeSum[fromC]++
		}
		if toOK {
			degreeSum[toC]++
		}
	}

	q := 0.0
	for community, degrees := range degreeSum {
		fraction := degrees / (2 * m)
		q += internalEdges[community]/m - fraction*fraction
	}
	return q
}
