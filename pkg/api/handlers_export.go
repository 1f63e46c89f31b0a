package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/linkviz/link/pkg/catalog"
	"github.com/linkviz/link/pkg/export"
	"github.com/linkviz/link/pkg/logging"
	"github.com/linkviz/link/pkg/session"
	"github.com/linkviz/link/pkg/stream"
)

// exportDataset streams the graph in the requested format:
// ?format=json|graphml|csv|snapshot (default json).
func (s *Server) exportDataset(w http.ResponseWriter, r *http.Request, id string) {
	ds, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if ds.Graph == nil {
		s.respondError(w, http.StatusConflict, session.ErrNoGraph.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var (
		data        []byte
		contentType string
		filename    string
	)

	switch format {
	case "json":
		data, err = export.JSON(ds.Graph, ds.Positions)
		contentType = "application/json"
		filename = ds.Name + ".json"
	case "graphml":
		data, err = export.GraphML(ds.Graph, ds.Positions)
		contentType = "application/xml"
		filename = ds.Name + ".graphml"
	case "csv":
		data, err = export.EdgeListCSV(ds.Graph)
		contentType = "text/csv"
		filename = ds.Name + "-edges.csv"
	case "snapshot":
		data, err = export.EncodeSnapshot(ds.Graph, ds.Positions)
		contentType = "application/x-snappy"
		filename = ds.Name + ".snap"
	default:
		s.metricsRegistry.RecordExport(format, "error")
		s.respondError(w, http.StatusBadRequest, "Unknown export format")
		return
	}
	if err != nil {
		s.metricsRegistry.RecordExport(format, "error")
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metricsRegistry.RecordExport(format, "ok")
	s.publish(stream.EventExportWritten, id, map[string]any{
		"format": format,
		"bytes":  len(data),
	})

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// archiveDataset pushes a compressed snapshot to object storage.
func (s *Server) archiveDataset(w http.ResponseWriter, r *http.Request, id string) {
	if s.archiver == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Archiving not configured")
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
	key, err := s.archiver.Archive(r.Context(), id, ds.Graph, ds.Positions)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	if s.catalog != nil {
		if entry, err := s.catalog.Get(r.Context(), id); err == nil {
			entry.SnapshotKey = key
			if err := s.catalog.Put(r.Context(), entry); err != nil {
				s.logger.Warn("catalog snapshot key update failed",
					logging.DatasetID(id), logging.Error(err))
			}
		} else if !errors.Is(err, catalog.ErrNotFound) {
			s.logger.Warn("catalog lookup failed", logging.DatasetID(id), logging.Error(err))
		}
	}

	s.respondJSON(w, http.StatusOK, ArchiveResponse{
		ID:   id,
		Key:  key,
		Time: time.Since(start).String(),
	})
}
