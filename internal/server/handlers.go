package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type scanRequest struct {
	Repos []string `json:"repos"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Repos) == 0 {
		writeError(w, http.StatusBadRequest, "repos must not be empty")
		return
	}

	batch := s.scanner.Scan(r.Context(), req.Repos)
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"count": s.store.Len(),
		"repos": s.store.Names(),
	})
}

func (s *Server) handleRepo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	set, ok := s.store.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "repository not scanned: "+name)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	artifact := r.URL.Query().Get("artifact")
	if artifact == "" {
		writeError(w, http.StatusBadRequest, "artifact is required")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Single(group, artifact))
}

func (s *Server) handleDrift(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	artifact := r.URL.Query().Get("artifact")
	min := r.URL.Query().Get("min")
	if artifact == "" || min == "" {
		writeError(w, http.StatusBadRequest, "artifact and min are required")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Drift(group, artifact, min))
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("coords")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "coords is required")
		return
	}
	var coords []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			coords = append(coords, c)
		}
	}
	if len(coords) == 0 {
		writeError(w, http.StatusBadRequest, "coords is required")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Matrix(coords))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Search(q))
}
