package algorithms

import (
	"container/heap"
	"sort"

	"github.com/linkviz/link/pkg/graph"
)

// RankedNode pairs a node with an algorithm score.
type RankedNode struct {
	NodeID uint64      `json:"node_id"`
	Key    string      `json:"key"`
	Score  float64     `json:"score"`
	Node   *graph.Node `json:"-"`
}

// RankedEdge pairs an edge with an algorithm score.
type RankedEdge struct {
	EdgeID     uint64  `json:"edge_id"`
	FromNodeID uint64  `json:"from_node_id"`
	ToNodeID   uint64  `json:"to_node_id"`
	Type       string  `json:"type"`
	Score      float64 `json:"score"`
}

type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int            { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h rankedNodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rankedNodeHeap) Push(x interface{}) { *h = append(*h, x.(RankedNode)) }
func (h *rankedNodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type rankedEdgeHeap []RankedEdge

func (h rankedEdgeHeap) Len() int            { return len(h) }
func (h rankedEdgeHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h rankedEdgeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rankedEdgeHeap) Push(x interface{}) { *h = append(*h, x.(RankedEdge)) }
func (h *rankedEdgeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// findTopNodes returns the n highest-scoring nodes using a min-heap,
// sorted by descending score with node ID as the tiebreak.
func findTopNodes(g *graph.Graph, scores map[uint64]float64, n int) []RankedNode {
	if n <= 0 || len(scores) == 0 {
		return []RankedNode{}
	}

	h := &rankedNodeHeap{}
	heap.Init(h)

	for nodeID, score := range scores {
		if h.Len() < n {
			heap.Push(h, RankedNode{NodeID: nodeID, Score: score})
		} else if score > (*h)[0].Score {
			heap.Pop(h)
			heap.Push(h, RankedNode{NodeID: nodeID, Score: score})
		}
	}

	top := make([]RankedNode, h.Len())
	copy(top, *h)
	sort.Slice(top, func(i, j int) bool {
		if top[i].Score != top[j].Score {
			return top[i].Score > top[j].Score
		}
		return top[i].NodeID < top[j].NodeID
	})

	for i := range top {
		if node, err := g.GetNode(top[i].NodeID); err == nil {
			top[i].Node = node
			top[i].Key = node.Key
		}
	}

	return top
}

// findTopEdges returns the n highest-scoring edges, same shape as findTopNodes.
func findTopEdges(g *graph.Graph, scores map[uint64]float64, n int) []RankedEdge {
	if n <= 0 || len(scores) == 0 {
		return []RankedEdge{}
	}

	h := &rankedEdgeHeap{}
	heap.Init(h)

	for edgeID, score := range scores {
		if h.Len() < n {
			heap.Push(h, RankedEdge{EdgeID: edgeID, Score: score})
		} else if score > (*h)[0].Score {
			heap.Pop(h)
			heap.Push(h, RankedEdge{EdgeID: edgeID, Score: score})
		}
	}

	top := make([]RankedEdge, h.Len())
	copy(top, *h)
	sort.Slice(top, func(i, j int) bool {
		if top[i].Score != top[j].Score {
			return top[i].Score > top[j].Score
		}
		return top[i].EdgeID < top[j].EdgeID
	})

	for i := range top {
		if edge, err := g.GetEdge(top[i].EdgeID); err == nil {
			top[i].FromNodeID = edge.FromNodeID
			top[i].ToNodeID = edge.ToNodeID
			top[i].Type = edge.Type
		}
	}

	return top
}
