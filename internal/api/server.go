package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/bookbind/internal/config"
	"github.com/dgallion1/bookbind/internal/pdfexport"
	"github.com/dgallion1/bookbind/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for bookbind.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	exporter     *pdfexport.Exporter
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, exporter *pdfexport.Exporter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		exporter:     exporter,
		log:          log,
		cfg:          cfg,
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
	r.Get("/", s.handleUsage)
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.BookbindAPIKey, s.log))

		r.Post("/api/format", s.handleFormat)
		r.Get("/api/format/{jobID}/status", s.handleFormatStatus)
		r.Get("/api/format/{jobID}/download/{kind}", s.handleDownload)

		r.Post("/api/scan", s.handleScan)
		r.Post("/api/inspect", s.handleInspect)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":        "ok",
		"pdf_available": s.exporter.Available(),
	})
}
