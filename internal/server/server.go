// Package server exposes the scan store and comparison engine over a
// small JSON HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mtb2597/repo-intel-agent/pkg/compare"
	"github.com/mtb2597/repo-intel-agent/pkg/scan"
	"github.com/mtb2597/repo-intel-agent/pkg/store"
)

// Server handles the HTTP API.
type Server struct {
	store   *store.Store
	scanner *scan.Scanner
	engine  *compare.Engine
	logger  *log.Logger
}

// New builds a Server over the shared store and scanner.
func New(st *store.Store, scanner *scan.Scanner, logger *log.Logger) *Server {
	return &Server{
		store:   st,
		scanner: scanner,
		engine:  compare.New(st),
		logger:  logger,
	}
}

// Router returns the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.logger != nil {
		r.Use(s.requestLog)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/scan", s.handleScan)
		r.Get("/state", s.handleState)
		r.Get("/repos/{name}", s.handleRepo)
		r.Get("/compare", s.handleCompare)
		r.Get("/drift", s.handleDrift)
		r.Get("/matrix", s.handleMatrix)
		r.Get("/search", s.handleSearch)
	})
	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
