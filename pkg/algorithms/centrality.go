package algorithms

import (
	"container/list"

	"github.com/linkviz/link/pkg/graph"
)

// predEdge tracks a predecessor node and the edge used to reach it during BFS.
// This allows the back-propagation phase to accumulate flow onto specific edges.
type predEdge struct {
	nodeID uint64
	edgeID uint64
}

// brandesCentrality runs a single O(VE) Brandes pass and returns both node and
// edge betweenness centrality (raw, unnormalised). Traversal honors the
// graph's directedness; on undirected graphs each pair contributes twice and
// the callers' normalisation accounts for it.
func brandesCentrality(g *graph.Graph) (nodeBetweenness map[uint64]float64, edgeBetweenness map[uint64]float64, nodeIDs []uint64) {
	nodeIDs = g.NodeIDs()

	nodeBetweenness = make(map[uint64]float64, len(nodeIDs))
	edgeBetweenness = make(map[uint64]float64)
	for _, nodeID := range nodeIDs {
		nodeBetweenness[nodeID] = 0.0
	}

	for _, source := range nodeIDs {
		stack := make([]uint64, 0, len(nodeIDs))
		predecessors := make(map[uint64][]predEdge, len(nodeIDs))
		sigma := make(map[uint64]float64, len(nodeIDs))
		distance := make(map[uint64]int, len(nodeIDs))

		for _, nodeID := range nodeIDs {
			predecessors[nodeID] = nil
			sigma[nodeID] = 0.0
			distance[nodeID] = -1
		}

		sigma[source] = 1.0
		distance[source] = 0

		queue := list.New()
		queue.PushBack(source)

		for queue.Len() > 0 {
			v, ok := queue.Remove(queue.Front()).(uint64)
			if !ok {
				continue
			}
			stack = append(stack, v)

			for _, s := range stepsFrom(g, v, DirectionOut) {
				w := s.nodeID

				if distance[w] < 0 {
					queue.PushBack(w)
					distance[w] = distance[v] + 1
				}

				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], predEdge{
						nodeID: v,
						edgeID: s.edgeID,
					})
				}
			}
		}

		// Back-propagation: accumulate onto both nodes and edges
		delta := make(map[uint64]float64, len(nodeIDs))
		for _, nodeID := range nodeIDs {
			delta[nodeID] = 0.0
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, pred := range predecessors[w] {
				contribution := (sigma[pred.nodeID] / sigma[w]) * (1.0 + delta[w])
				delta[pred.nodeID] += contribution
				edgeBetweenness[pred.edgeID] += contribution
			}
			if w != source {
				nodeBetweenness[w] += delta[w]
			}
		}
	}

	return nodeBetweenness, edgeBetweenness, nodeIDs
}

// betweennessNormFactor returns the node normalisation for n nodes.
func betweennessNormFactor(g *graph.Graph, n int) float64 {
	if n <= 2 {
		return 1.0
	}
	factor := 1.0 / float64((n-1)*(n-2))
	if !g.Directed() {
		// Undirected traversal visits each pair twice
		factor /= 2
	}
	return factor
}

// BetweennessCentrality computes betweenness centrality for all nodes.
// Measures how often a node appears on shortest paths between other nodes.
func BetweennessCentrality(g *graph.Graph) (map[uint64]float64, error) {
	nodeBetweenness, _, nodeIDs := brandesCentrality(g)

	if len(nodeIDs) > 2 {
		normFactor := betweennessNormFactor(g, len(nodeIDs))
		for nodeID := range nodeBetweenness {
			nodeBetweenness[nodeID] *= normFactor
		}
	}

	return nodeBetweenness, nil
}

// EdgeBetweennessResult contains edge betweenness centrality.
type EdgeBetweennessResult struct {
	ByEdgeID map[uint64]float64 `json:"by_edge_id"`
	TopEdges []RankedEdge       `json:"top_edges"`
}

// EdgeBetweennessCentrality computes betweenness centrality for all edges,
// using the same O(VE) Brandes pass as BetweennessCentrality.
func EdgeBetweennessCentrality(g *graph.Graph) (*EdgeBetweennessResult, error) {
	_, edgeBetweenness, nodeIDs := brandesCentrality(g)

	n := len(nodeIDs)
	if n > 1 {
		normFactor := 1.0 / float64(n*(n-1))
		if !g.Directed() {
			normFactor /= 2
		}
		for edgeID := range edgeBetweenness {
			edgeBetweenness[edgeID] *= normFactor
		}
	}

	return &EdgeBetweennessResult{
		ByEdgeID: edgeBetweenness,
		TopEdges: findTopEdges(g, edgeBetweenness, 10),
	}, nil
}

// CentralityResult contains centrality measures for all nodes and edges.
type CentralityResult struct {
	Betweenness      map[uint64]float64 `json:"betweenness"`
	Closeness        map[uint64]float64 `json:"closeness"`
	Degree           map[uint64]float64 `json:"degree"`
	TopByBetweenness []RankedNode       `json:"top_by_betweenness"`
	TopByCloseness   []RankedNode       `json:"top_by_closeness"`
	TopByDegree      []RankedNode       `json:"top_by_degree"`
	TopEdges         []RankedEdge       `json:"top_edges"`
}

// ComputeAllCentrality computes all centrality measures. Node and edge
// betweenness share one Brandes traversal.
func ComputeAllCentrality(g *graph.Graph) (*CentralityResult, error) {
	nodeBetweenness, edgeBetweennessRaw, nodeIDs := brandesCentrality(g)

	n := len(nodeIDs)
	if n > 2 {
		normFactor := betweennessNormFactor(g, n)
		for nodeID := range nodeBetweenness {
			nodeBetweenness[nodeID] *= normFactor
		}
	}
	if n > 1 {
		normFactor := 1.0 / float64(n*(n-1))
		if !g.Directed() {
			normFactor /= 2
		}
		for edgeID := range edgeBetweennessRaw {
			edgeBetweennessRaw[edgeID] *= normFactor
		}
	}

	closeness, err := ClosenessCentrality(g)
	if err != nil {
		return nil, err
	}

	degree, err := DegreeCentrality(g)
	if err != nil {
		return nil, err
	}

	return &CentralityResult{
		Betweenness:      nodeBetweenness,
		Closeness:        closeness,
		Degree:           degree,
		TopByBetweenness: findTopNodes(g, nodeBetweenness, 10),
		TopByCloseness:   findTopNodes(g, closeness, 10),
		TopByDegree:      findTopNodes(g, degree, 10),
		TopEdges:         findTopEdges(g, edgeBetweennessRaw, 10),
	}, nil
}

// ClosenessCentrality computes closeness centrality for all nodes.
// Measures average distance from a node to all other nodes.
func ClosenessCentrality(g *graph.Graph) (map[uint64]float64, error) {
	nodeIDs := g.NodeIDs()
	closeness := make(map[uint64]float64)

	for _, source := range nodeIDs {
		distance := make(map[uint64]int)
		for _, nodeID := range nodeIDs {
			distance[nodeID] = -1
		}
		distance[source] = 0

		queue := list.New()
		queue.PushBack(source)

		for queue.Len() > 0 {
			v, ok := queue.Remove(queue.Front()).(uint64)
			if !ok {
				continue
			}

			for _, s := range stepsFrom(g, v, DirectionOut) {
				if distance[s.nodeID] < 0 {
					distance[s.nodeID] = distance[v] + 1
					queue.PushBack(s.nodeID)
				}
			}
		}

		totalDistance := 0
		reachableNodes := 0
		for _, dist := range distance {
			if dist > 0 {
				totalDistance += dist
				reachableNodes++
			}
		}

		if totalDistance > 0 {
			closeness[source] = float64(reachableNodes) / float64(totalDistance)
		} else {
			closeness[source] = 0.0
		}
	}

	return closeness, nil
}

// DegreeCentrality computes degree centrality for all nodes.
// Simple count of connections (in-degree + out-degree), normalised by n-1.
func DegreeCentrality(g *graph.Graph) (map[uint64]float64, error) {
	nodeIDs := g.NodeIDs()
	degree := make(map[uint64]float64)

	for _, nodeID := range nodeIDs {
		totalDegree := len(g.IncomingEdges(nodeID)) + len(g.OutgoingEdges(nodeID))

		if len(nodeIDs) > 1 {
			degree[nodeID] = float64(totalDegree) / float64(len(nodeIDs)-1)
		} else {
			degree[nodeID] = 0.0
		}
	}

	return degree, nil
}
