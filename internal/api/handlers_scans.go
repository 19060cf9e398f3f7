package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helpforge/helpaudit/internal/report"
	"github.com/helpforge/helpaudit/internal/scan"
)

type submitScanRequest struct {
	CollectionID   int64  `json:"collection_id"`
	CollectionName string `json:"collection_name"`
}

func (s *Server) handleSubmitScan(w http.ResponseWriter, r *http.Request) {
	var req submitScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.CollectionID == 0 && req.CollectionName == "" {
		jsonError(w, "collection_id or collection_name is required", http.StatusBadRequest)
		return
	}

	name := req.CollectionName
	id := req.CollectionID
	if id == 0 {
		// Resolve the name against the document store.
		cols, err := s.store.ListCollections(r.Context(), req.CollectionName)
		if err != nil {
			jsonError(w, "list collections: "+err.Error(), http.StatusBadGateway)
			return
		}
		for _, c := range cols {
			if c.Name == req.CollectionName {
				id = c.ID
				break
			}
		}
		if id == 0 {
			jsonError(w, fmt.Sprintf("collection %q not found", req.CollectionName), http.StatusNotFound)
			return
		}
	}

	job := scan.NewJob(id, name)
	if err := s.scans.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"scan_id":       snap.ID,
		"collection_id": snap.CollectionID,
		"status":        snap.Status,
		"poll_url":      fmt.Sprintf("/api/scans/%s", snap.ID),
	})
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	job := s.scans.Get(scanID)
	if job == nil {
		jsonError(w, "scan not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleScanReport(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	job := s.scans.Get(scanID)
	if job == nil {
		jsonError(w, "scan not found", http.StatusNotFound)
		return
	}

	rep := job.Report()
	if rep == nil {
		snap := job.Snapshot()
		jsonError(w, fmt.Sprintf("scan is %s, report not available", snap.Status), http.StatusConflict)
		return
	}

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := job.Snapshot()
	in := report.Input{
		Report:         rep,
		CollectionName: snap.CollectionName,
		ScanID:         snap.ID,
		GeneratedAt:    snap.UpdatedAt,
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format == report.FormatDocx {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="audit-%s.docx"`, snap.ID))
	}
	if err := report.Render(w, in, format); err != nil {
		s.log.Error("render report", "scan_id", scanID, "format", format, "error", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
