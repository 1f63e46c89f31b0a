package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/linkviz/link/pkg/catalog"
	"github.com/linkviz/link/pkg/ingest"
	"github.com/linkviz/link/pkg/logging"
	"github.com/linkviz/link/pkg/session"
	"github.com/linkviz/link/pkg/stream"
	"github.com/linkviz/link/pkg/validation"
)

// handleDatasets serves the collection endpoint: list and upload.
func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listDatasets(w, r) }).
		Post(func() { s.uploadDataset(w, r) }).
		NotAllowed()
}

// handleDataset serves per-dataset endpoints: /api/v1/datasets/{id}[/action].
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	id, action := datasetPath(r.URL.Path)
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	switch action {
	case "":
		s.NewMethodRouter(w, r).
			Get(func() { s.getDataset(w, r, id) }).
			Delete(func() { s.deleteDataset(w, r, id) }).
			NotAllowed()
	case "preview":
		s.NewMethodRouter(w, r).
			Get(func() { s.previewDataset(w, r, id) }).
			NotAllowed()
	case "parse":
		s.NewMethodRouter(w, r).
			Post(func() { s.parseDataset(w, r, id) }).
			NotAllowed()
	case "mapping":
		s.NewMethodRouter(w, r).
			Post(func() { s.applyMapping(w, r, id) }).
			NotAllowed()
	case "layout":
		s.NewMethodRouter(w, r).
			Post(func() { s.computeLayout(w, r, id) }).
			NotAllowed()
	case "algorithms":
		s.NewMethodRouter(w, r).
			Post(func() { s.runAlgorithm(w, r, id) }).
			NotAllowed()
	case "viz":
		s.NewMethodRouter(w, r).
			Get(func() { s.vizData(w, r, id) }).
			NotAllowed()
	case "export":
		s.NewMethodRouter(w, r).
			Get(func() { s.exportDataset(w, r, id) }).
			NotAllowed()
	case "archive":
		s.NewMethodRouter(w, r).
			Post(func() { s.archiveDataset(w, r, id) }).
			NotAllowed()
	case "stats":
		s.NewMethodRouter(w, r).
			Get(func() { s.graphStats(w, r, id) }).
			NotAllowed()
	default:
		s.respondError(w, http.StatusNotFound, "Unknown dataset action")
	}
}

func (s *Server) listDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := s.sessions.List()
	summaries := make([]*DatasetSummary, 0, len(datasets))
	for _, ds := range datasets {
		summaries = append(summaries, datasetSummary(ds))
	}
	s.respondJSON(w, http.StatusOK, summaries)
}

// uploadDataset accepts either a multipart form with a "file" field or a raw
// CSV body with a ?name= query parameter.
func (s *Server) uploadDataset(w http.ResponseWriter, r *http.Request) {
	name, raw, err := readUpload(r)
	if err != nil {
		s.metricsRegistry.RecordUpload("error", int64(len(raw)))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, err := s.sessions.Create(name, raw)
	if err != nil {
		s.metricsRegistry.RecordUpload("error", int64(len(raw)))
		status := http.StatusBadRequest
		if errors.Is(err, session.ErrStoreFull) {
			status = http.StatusInsufficientStorage
		}
		s.respondError(w, status, err.Error())
		return
	}

	s.metricsRegistry.RecordUpload("ok", int64(len(raw)))
	s.publish(stream.EventDatasetCreated, ds.ID, map[string]any{
		"name": ds.Name,
		"size": len(ds.Raw),
	})
	s.putCatalogEntry(r.Context(), ds)

	s.respondJSON(w, http.StatusCreated, UploadResponse{
		ID:        ds.ID,
		Name:      ds.Name,
		SizeBytes: len(ds.Raw),
		CreatedAt: ds.CreatedAt,
	})
}

func readUpload(r *http.Request) (string, []byte, error) {
	contentType := r.Header.Get("Content-Type")
	if len(contentType) >= 19 && contentType[:19] == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, errors.New("missing multipart field 'file'")
		}
		defer file.Close()
		raw, err := io.ReadAll(file)
		if err != nil {
			return "", nil, err
		}
		return header.Filename, raw, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, err
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.csv"
	}
	return name, raw, nil
}

func (s *Server) getDataset(w http.ResponseWriter, r *http.Request, id string) {
	ds, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, datasetSummary(ds))
}

func (s *Server) deleteDataset(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.sessions.Delete(id); err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if s.catalog != nil {
		if err := s.catalog.Delete(r.Context(), id); err != nil && !errors.Is(err, catalog.ErrNotFound) {
			s.logger.Warn("catalog delete failed", logging.DatasetID(id), logging.Error(err))
		}
	}
	s.publish(stream.EventDatasetDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// previewDataset returns raw leading lines, used to choose skip_rows before
// committing to parse options.
func (s *Server) previewDataset(w http.ResponseWriter, r *http.Request, id string) {
	ds, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	n := 10
	if v := r.URL.Query().Get("lines"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= validation.MaxPreviewLines {
			n = parsed
		}
	}

	s.respondJSON(w, http.StatusOK, PreviewResponse{
		ID:    id,
		Lines: ingest.RawPreview(ds.Raw, n),
	})
}

func (s *Server) parseDataset(w http.ResponseWriter, r *http.Request, id string) {
	var req validation.ParseRequest
	rd := s.NewRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateParseRequest(&req) })
	if rd.RespondError() {
		return
	}

	opts := ingest.DefaultOptions()
	opts.SkipRows = req.SkipRows
	opts.MaxRows = req.MaxRows
	if req.Delimiter != "" {
		opts.Delimiter = rune(req.Delimiter[0])
	}
	if req.HasHeader != nil {
		opts.HasHeader = *req.HasHeader
	}

	start := time.Now()
	ds, err := s.sessions.Parse(id, opts)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, session.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.respondError(w, status, err.Error())
		return
	}
	elapsed := time.Since(start)

	s.metricsRegistry.RecordParse(len(ds.Table.Rows), req.SkipRows, elapsed)
	s.publish(stream.EventDatasetParsed, id, map[string]any{
		"rows":    len(ds.Table.Rows),
		"columns": len(ds.Table.Columns),
	})

	preview := ds.Table.Preview(50)
	s.respondJSON(w, http.StatusOK, ParseResponse{
		ID:      id,
		Columns: ds.Table.Columns,
		Rows:    len(ds.Table.Rows),
		Preview: preview,
		Time:    elapsed.String(),
	})
}

// putCatalogEntry records dataset metadata in the catalog, best effort.
func (s *Server) putCatalogEntry(ctx context.Context, ds *session.Dataset) {
	if s.catalog == nil {
		return
	}

	entry := &catalog.Entry{
		ID:         ds.ID,
		Name:       ds.Name,
		SizeBytes:  int64(len(ds.Raw)),
		Directed:   ds.Directed,
		UploadedAt: ds.CreatedAt,
	}
	if ds.Table != nil {
		entry.Rows = len(ds.Table.Rows)
		entry.Columns = ds.Table.Columns
	}
	if ds.Graph != nil {
		entry.NodeCount = ds.Graph.NodeCount()
		entry.EdgeCount = ds.Graph.EdgeCount()
		entry.LastAnalyzed = time.Now()
	}

	if err := s.catalog.Put(ctx, entry); err != nil {
		s.logger.Warn("catalog put failed", logging.DatasetID(ds.ID), logging.Error(err))
	}
}
