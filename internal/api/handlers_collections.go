package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	cols, err := s.store.ListCollections(r.Context(), query)
	if err != nil {
		jsonError(w, "list collections: "+err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"collections": cols,
		"count":       len(cols),
	})
}
