package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/linkviz/link/pkg/algorithms"
	"github.com/linkviz/link/pkg/graph"
	"github.com/linkviz/link/pkg/session"
	"github.com/linkviz/link/pkg/stream"
	"github.com/linkviz/link/pkg/validation"
)

// runAlgorithm dispatches a named analysis over the dataset's built graph.
func (s *Server) runAlgorithm(w http.ResponseWriter, r *http.Request, id string) {
	var req validation.AlgorithmRequest
	rd := s.NewRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateAlgorithmRequest(&req) })
	if rd.RespondError() {
		return
	}

	ds, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if ds.Graph == nil {
		s.respondError(w, http.StatusConflict, session.ErrNoGraph.Error())
		return
	}

	start := time.Now()
	result, err := dispatchAlgorithm(ds.Graph, &req)
	elapsed := time.Since(start)
	if err != nil {
		s.metricsRegistry.RecordAlgorithm(req.Algorithm, "error", elapsed)
		status := http.StatusBadRequest
		if graph.IsNotFound(err) {
			status = http.StatusNotFound
		}
		s.respondError(w, status, err.Error())
		return
	}

	s.metricsRegistry.RecordAlgorithm(req.Algorithm, "ok", elapsed)
	s.publish(stream.EventGraphAnalyzed, id, map[string]any{
		"algorithm": req.Algorithm,
	})

	s.respondJSON(w, http.StatusOK, AlgorithmResponse{
		ID:        id,
		Algorithm: req.Algorithm,
		Result:    result,
		Time:      elapsed.String(),
	})
}

// shortestPathResult is the wire shape for path queries.
type shortestPathResult struct {
	Path   []uint64 `json:"path,omitempty"`
	Keys   []string `json:"keys,omitempty"`
	Length int      `json:"length"`
	Weight float64  `json:"weight,omitempty"`
	Found  bool     `json:"found"`
}

// topologyResult bundles the structural predicates.
type topologyResult struct {
	HasCycle    bool     `json:"has_cycle"`
	IsDAG       bool     `json:"is_dag"`
	IsConnected bool     `json:"is_connected"`
	IsTree      bool     `json:"is_tree"`
	IsBipartite bool     `json:"is_bipartite"`
	TopoOrder   []uint64 `json:"topological_order,omitempty"`
}

func dispatchAlgorithm(g *graph.Graph, req *validation.AlgorithmRequest) (any, error) {
	switch req.Algorithm {
	case "pagerank":
		opts := algorithms.DefaultPageRankOptions()
		if req.Damping > 0 {
			opts.DampingFactor = req.Damping
		}
		if req.MaxIterations > 0 {
			opts.MaxIterations = req.MaxIterations
		}
		if req.Tolerance > 0 {
			opts.Tolerance = req.Tolerance
		}
		return algorithms.PageRank(g, opts)

	case "centrality":
		return algorithms.ComputeAllCentrality(g)

	case "edge_betweenness":
		return algorithms.EdgeBetweennessCentrality(g)

	case "components":
		return algorithms.ConnectedComponents(g)

	case "label_propagation":
		iterations := 20
		if req.MaxIterations > 0 {
			iterations = req.MaxIterations
		}
		return algorithms.LabelPropagation(g, iterations)

	case "triangles":
		return algorithms.CountTriangles(g)

	case "shortest_path":
		return runShortestPath(g, req)

	case "khop":
		opts := algorithms.DefaultKHopOptions()
		if req.MaxHops > 0 {
			opts.MaxHops = req.MaxHops
		}
		if req.Direction != "" {
			opts.Direction = algorithms.NeighborDirection(req.Direction)
		}
		opts.EdgeTypes = req.EdgeTypes
		return algorithms.KHopNeighbours(g, req.Source, opts)

	case "topology":
		return runTopology(g)

	default:
		return nil, errors.New("unknown algorithm")
	}
}

func runShortestPath(g *graph.Graph, req *validation.AlgorithmRequest) (any, error) {
	var (
		path   []uint64
		weight float64
		err    error
	)
	if req.Weighted {
		path, weight, err = algorithms.WeightedShortestPath(g, req.Source, req.Target)
	} else {
		path, err = algorithms.ShortestPath(g, req.Source, req.Target)
	}
	if err != nil {
		return nil, err
	}

	result := &shortestPathResult{Found: path != nil}
	if path != nil {
		result.Path = path
		result.Length = len(path) - 1
		result.Weight = weight
		for _, nodeID := range path {
			node, err := g.GetNode(nodeID)
			if err != nil {
				return nil, err
			}
			result.Keys = append(result.Keys, node.Key)
		}
	}
	return result, nil
}

func runTopology(g *graph.Graph) (any, error) {
	hasCycle, err := algorithms.HasCycle(g)
	if err != nil {
		return nil, err
	}
	isDAG, err := algorithms.IsDAG(g)
	if err != nil {
		return nil, err
	}
	isConnected, err := algorithms.IsConnected(g)
	if err != nil {
		return nil, err
	}
	isTree, err := algorithms.IsTree(g)
	if err != nil {
		return nil, err
	}
	isBipartite, _, _, err := algorithms.IsBipartite(g)
	if err != nil {
		return nil, err
	}

	result := &topologyResult{
		HasCycle:    hasCycle,
		IsDAG:       isDAG,
		IsConnected: isConnected,
		IsTree:      isTree,
		IsBipartite: isBipartite,
	}
	if isDAG {
		order, err := algorithms.TopologicalSort(g)
		if err == nil {
			result.TopoOrder = order
		}
	}
	return result, nil
}
