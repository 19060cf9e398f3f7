package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/helpforge/helpaudit/internal/config"
	"github.com/helpforge/helpaudit/internal/dms"
	"github.com/helpforge/helpaudit/internal/scan"
)

// Server is the HTTP API server for helpaudit.
type Server struct {
	router chi.Router
	scans  *scan.Service
	store  *dms.Client
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(scans *scan.Service, store *dms.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		scans: scans,
		store: store,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/scans", s.handleSubmitScan)
		r.Get("/api/scans/{scanID}", s.handleScanStatus)
		r.Get("/api/scans/{scanID}/report", s.handleScanReport)

		r.Get("/api/collections", s.handleListCollections)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
