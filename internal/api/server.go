package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/itsmostafa/regiontree/internal/config"
	"github.com/itsmostafa/regiontree/internal/outline"
)

// Server is the HTTP API for region outlines.
type Server struct {
	router  chi.Router
	session *outline.Session
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(session *outline.Session, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		session: session,
		log:     log,
		cfg:     cfg,
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

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Get("/outline", s.handleOutline)

		// Active document session.
		r.Post("/focus", s.handleFocus)
		r.Post("/save", s.handleSave)
		r.Post("/close", s.handleClose)
		r.Get("/regions", s.handleRegions)
		r.Get("/select", s.handleSelect)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
