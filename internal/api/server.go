package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/partners/internal/api/handler"
	mw "github.com/edvin/partners/internal/api/middleware"
	"github.com/edvin/partners/internal/api/session"
	"github.com/edvin/partners/internal/core"
	"github.com/edvin/partners/internal/view"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	partners *core.PartnerService
	sessions *session.Store
	renderer *handler.Renderer
}

// NewServer builds the admin router around an already constructed partner
// service. opts configures every session's table view.
func NewServer(logger zerolog.Logger, partners *core.PartnerService, opts view.Options) (*Server, error) {
	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		partners: partners,
		renderer: renderer,
		sessions: session.NewStore(func() *view.Table {
			return view.NewTable(partners, opts)
		}, session.DefaultLimit),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	table := handler.NewTable(s.sessions, s.renderer)
	s.router.Get("/", table.Index)
	s.router.Post("/search", table.Search)
	s.router.Post("/refresh", table.Refresh)
	s.router.Post("/modal/{name}/close", table.CloseModal)
	s.router.Route("/partners", func(r chi.Router) {
		r.Post("/", table.SubmitAdd)
		r.Post("/new", table.OpenAdd)
		r.Post("/{id}", table.SubmitEdit)
		r.Post("/{id}/edit", table.OpenEdit)
		r.Post("/{id}/delete", table.Delete)
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		partner := handler.NewPartner(s.partners)
		r.Get("/partners", partner.List)
		r.Get("/partners/{id}", partner.Get)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleReadyz reports ready once the latest fetch of the collection succeeded.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	op := s.partners.Operation(core.OpFetch)

	checks := map[string]string{"fetch": string(op.Status)}
	healthy := s.partners.Ready()
	if op.Err != nil {
		checks["error"] = op.Err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

// Sessions exposes the session store for pruning.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
