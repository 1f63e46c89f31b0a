package graph

import (
	"sort"
	"sync"
	"time"
)

// Graph is an in-memory property graph. Edges are stored once with their
// original orientation; undirected semantics are applied at traversal time
// so parallel edges and self-loops stay visible to analysis.
type Graph struct {
	mu sync.RWMutex

	directed bool

	nodes map[uint64]*Node
	edges map[uint64]*Edge

	// adjacency: node ID -> incident edge IDs by orientation
	outgoing map[uint64][]uint64
	incoming map[uint64][]uint64

	nextNodeID uint64
	nextEdgeID uint64
}

// New creates an empty graph. Directed graphs traverse edges in their stored
// orientation only; undirected graphs traverse them both ways.
func New(directed bool) *Graph {
	return &Graph{
		directed: directed,
		nodes:    make(map[uint64]*Node),
		edges:    make(map[uint64]*Edge),
		outgoing: make(map[uint64][]uint64),
		incoming: make(map[uint64][]uint64),
	}
}

// Directed reports whether the graph was built with directed semantics.
func (g *Graph) Directed() bool {
	return g.directed
}

// CreateNode adds a node and returns it. IDs are sequential from 1 and
// never reused.
func (g *Graph) CreateNode(key string, labels []string, props map[string]Value) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextNodeID++
	now := time.Now().Unix()

	node := &Node{
		ID:         g.nextNodeID,
		Key:        key,
		Labels:     append([]string(nil), labels...),
		Properties: props,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if node.Properties == nil {
		node.Properties = make(map[string]Value)
	}

	g.nodes[node.ID] = node
	return node
}

// GetNode returns a copy of the node with the given ID.
func (g *Graph) GetNode(id uint64) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.nodes[id]
	if !ok {
		return nil, NodeNotFoundError("get", id)
	}
	return node.Clone(), nil
}

// DeleteNode removes a node and all incident edges.
func (g *Graph) DeleteNode(id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return NodeNotFoundError("delete", id)
	}

	// Cascade incident edges in both orientations
	for _, edgeID := range append(append([]uint64(nil), g.outgoing[id]...), g.incoming[id]...) {
		g.removeEdgeLocked(edgeID)
	}

	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	return nil
}

// CreateEdge adds an edge between existing nodes.
func (g *Graph) CreateEdge(fromID, toID uint64, edgeType string, props map[string]Value, weight float64) (*Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[fromID]; !ok {
		return nil, EndpointError("create", fromID)
	}
	if _, ok := g.nodes[toID]; !ok {
		return nil, EndpointError("create", toID)
	}

	g.nextEdgeID++
	edge := &Edge{
		ID:         g.nextEdgeID,
		FromNodeID: fromID,
		ToNodeID:   toID,
		Type:       edgeType,
		Properties: props,
		Weight:     weight,
		CreatedAt:  time.Now().Unix(),
	}
	if edge.Properties == nil {
		edge.Properties = make(map[string]Value)
	}

	g.edges[edge.ID] = edge
	g.outgoing[fromID] = append(g.outgoing[fromID], edge.ID)
	g.incoming[toID] = append(g.incoming[toID], edge.ID)
	return edge.Clone(), nil
}

// GetEdge returns a copy of the edge with the given ID.
func (g *Graph) GetEdge(id uint64) (*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edge, ok := g.edges[id]
	if !ok {
		return nil, EdgeNotFoundError("get", id)
	}
	return edge.Clone(), nil
}

// DeleteEdge removes a single edge.
func (g *Graph) DeleteEdge(id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.edges[id]; !ok {
		return EdgeNotFoundError("delete", id)
	}
	g.removeEdgeLocked(id)
	return nil
}

// removeEdgeLocked unlinks an edge from both adjacency lists. Caller holds mu.
func (g *Graph) removeEdgeLocked(id uint64) {
	edge, ok := g.edges[id]
	if !ok {
		return
	}
	g.outgoing[edge.FromNodeID] = removeID(g.outgoing[edge.FromNodeID], id)
	g.incoming[edge.ToNodeID] = removeID(g.incoming[edge.ToNodeID], id)
	delete(g.edges, id)
}

func removeID(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// OutgoingEdges returns edges leaving the node in stored orientation.
func (g *Graph) OutgoingEdges(id uint64) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edgesForLocked(g.outgoing[id])
}

// IncomingEdges returns edges entering the node in stored orientation.
func (g *Graph) IncomingEdges(id uint64) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edgesForLocked(g.incoming[id])
}

// AdjacentEdges returns the edges traversable from a node under the graph's
// directedness: outgoing only for directed graphs, both orientations for
// undirected graphs.
func (g *Graph) AdjacentEdges(id uint64) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.directed {
		return g.edgesForLocked(g.outgoing[id])
	}
	edges := g.edgesForLocked(g.outgoing[id])
	return append(edges, g.edgesForLocked(g.incoming[id])...)
}

func (g *Graph) edgesForLocked(ids []uint64) []*Edge {
	edges := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if edge, ok := g.edges[id]; ok {
			edges = append(edges, edge.Clone())
		}
	}
	return edges
}

// Neighbors returns the distinct node IDs reachable in one traversable hop.
func (g *Graph) Neighbors(id uint64) []uint64 {
	seen := make(map[uint64]bool)
	neighbors := make([]uint64, 0)
	for _, edge := range g.AdjacentEdges(id) {
		other := edge.ToNodeID
		if edge.FromNodeID != id {
			other = edge.FromNodeID
		}
		if !seen[other] {
			seen[other] = true
			neighbors = append(neighbors, other)
		}
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	return neighbors
}

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]uint64, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// EdgeIDs returns all edge IDs in ascending order.
func (g *Graph) EdgeIDs() []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]uint64, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// FindNodesByLabel returns copies of all nodes carrying the label.
func (g *Graph) FindNodesByLabel(label string) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	matches := make([]*Node, 0)
	for _, node := range g.nodes {
		if node.HasLabel(label) {
			matches = append(matches, node.Clone())
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches
}

// FindNodeByKey returns the node whose Key matches, or an error.
func (g *Graph) FindNodeByKey(key string) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, node := range g.nodes {
		if node.Key == key {
			return node.Clone(), nil
		}
	}
	return nil, &GraphError{Op: "find", Entity: "node", Cause: ErrNodeNotFound, Context: key}
}
