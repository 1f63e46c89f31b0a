package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/linkviz/link/pkg/export"
	"github.com/linkviz/link/pkg/ingest"
	"github.com/linkviz/link/pkg/layout"
	"github.com/linkviz/link/pkg/session"
	"github.com/linkviz/link/pkg/stream"
	"github.com/linkviz/link/pkg/validation"
)

func (s *Server) applyMapping(w http.ResponseWriter, r *http.Request, id string) {
	var req validation.MappingRequest
	rd := s.NewRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateMappingRequest(&req) })
	if rd.RespondError() {
		return
	}

	mapping := ingest.Mapping{
		SourceColumn:    req.SourceColumn,
		TargetColumn:    req.TargetColumn,
		WeightColumn:    req.WeightColumn,
		EdgeTypeColumn:  req.EdgeTypeColumn,
		EdgeAttrColumns: req.EdgeAttrColumns,
		NodeLabel:       req.NodeLabel,
		DefaultEdgeType: req.DefaultEdgeType,
	}

	start := time.Now()
	ds, err := s.sessions.ApplyMapping(id, mapping, req.Directed)
	elapsed := time.Since(start)
	if err != nil {
		s.metricsRegistry.RecordGraphBuild("error", 0, 0, elapsed)
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, session.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, session.ErrNotParsed):
			status = http.StatusConflict
		}
		s.respondError(w, status, err.Error())
		return
	}

	report := ds.Report
	s.metricsRegistry.RecordGraphBuild("ok", report.NodesCreated, report.EdgesCreated, elapsed)
	s.publish(stream.EventGraphBuilt, id, map[string]any{
		"nodes": report.NodesCreated,
		"edges": report.EdgesCreated,
	})
	s.putCatalogEntry(r.Context(), ds)

	s.respondJSON(w, http.StatusOK, MappingResponse{
		ID:           id,
		NodesCreated: report.NodesCreated,
		EdgesCreated: report.EdgesCreated,
		RowsRead:     report.RowsRead,
		SkippedRows:  report.SkippedRows,
		BadWeights:   report.BadWeights,
		Errors:       report.Errors,
		Time:         elapsed.String(),
	})
}

func (s *Server) computeLayout(w http.ResponseWriter, r *http.Request, id string) {
	var req validation.LayoutRequest
	rd := s.NewRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateLayoutRequest(&req) })
	if rd.RespondError() {
		return
	}

	cfg := layout.DefaultConfig()
	if req.Width > 0 {
		cfg.Width = req.Width
	}
	if req.Height > 0 {
		cfg.Height = req.Height
	}
	if req.Iterations > 0 {
		cfg.Iterations = req.Iterations
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	start := time.Now()
	ds, err := s.sessions.ComputeLayout(id, req.Algorithm, cfg)
	elapsed := time.Since(start)
	if err != nil {
		s.metricsRegistry.RecordLayout(req.Algorithm, "error", elapsed)
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, session.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, session.ErrNoGraph):
			status = http.StatusConflict
		}
		s.respondError(w, status, err.Error())
		return
	}

	s.metricsRegistry.RecordLayout(req.Algorithm, "ok", elapsed)
	s.publish(stream.EventLayoutComputed, id, map[string]any{
		"algorithm": req.Algorithm,
		"nodes":     len(ds.Positions),
	})

	s.respondJSON(w, http.StatusOK, LayoutResponse{
		ID:        id,
		Algorithm: req.Algorithm,
		Positions: sortedPositions(ds.Positions),
		Time:      elapsed.String(),
	})
}

func sortedPositions(positions map[uint64]layout.Position) []LayoutPosition {
	out := make([]LayoutPosition, 0, len(positions))
	for id, pos := range positions {
		out = append(out, LayoutPosition{NodeID: id, X: pos.X, Y: pos.Y})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}

// vizData returns nodes with positions plus edges, ready for rendering.
func (s *Server) vizData(w http.ResponseWriter, r *http.Request, id string) {
	ds, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if ds.Graph == nil {
		s.respondError(w, http.StatusConflict, session.ErrNoGraph.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, export.BuildVizData(ds.Graph, ds.Positions))
}

func (s *Server) graphStats(w http.ResponseWriter, r *http.Request, id string) {
	ds, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if ds.Graph == nil {
		s.respondError(w, http.StatusConflict, session.ErrNoGraph.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, ds.Graph.Stats())
}
