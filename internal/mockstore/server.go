// Package mockstore is an in-memory stand-in for the remote partner
// collection. It speaks the same wire protocol as the real store and is used
// for local development and by tests.
package mockstore

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/partners/internal/api/response"
	"github.com/edvin/partners/internal/model"
)

// RequestLog is one request received by the mock store.
type RequestLog struct {
	Method string
	Path   string
	Time   time.Time
}

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	basePath string

	mu       sync.RWMutex
	partners []model.Partner
	requests []RequestLog
	failures map[string]int
	now      func() time.Time
}

// New returns a mock store serving the collection at basePath, e.g.
// "/v1/partners/". Item routes are basePath followed by the id.
func New(logger zerolog.Logger, basePath string, seed []model.Partner) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		basePath: basePath,
		partners: model.ClonePartners(seed),
		failures: map[string]int{},
		now:      time.Now,
	}

	s.router.Use(chimw.Recoverer)
	s.router.Use(s.record)

	s.router.Get(basePath, s.handleList)
	s.router.Post(basePath, s.handleCreate)
	if trimmed := strings.TrimSuffix(basePath, "/"); trimmed != "" && trimmed != basePath {
		s.router.Get(trimmed, s.handleList)
		s.router.Post(trimmed, s.handleCreate)
	}
	s.router.Get(basePath+"{id}", s.handleGet)
	s.router.Put(basePath+"{id}", s.handleUpdate)
	s.router.Delete(basePath+"{id}", s.handleDelete)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Partners returns a copy of the stored collection.
func (s *Server) Partners() []model.Partner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ClonePartners(s.partners)
}

// Requests returns every request received so far.
func (s *Server) Requests() []RequestLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RequestLog, len(s.requests))
	copy(out, s.requests)
	return out
}

// FailWith makes every request with the given method answer status until
// ClearFailures is called.
func (s *Server) FailWith(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = status
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]int{}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RequestLog{Method: r.Method, Path: r.URL.Path, Time: s.now()})
		status, fail := s.failures[r.Method]
		s.mu.Unlock()

		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("mock store request")

		if fail {
			response.WriteError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, s.Partners())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		response.WriteJSON(w, http.StatusOK, s.partners[i])
		return
	}
	response.WriteError(w, http.StatusNotFound, "Not found")
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var p model.Partner
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p.ID = uuid.NewString()
	if p.CreatedAt == "" {
		p.CreatedAt = s.now().UTC().Format(model.CreatedAtLayout)
	}
	if p.Clients == nil {
		p.Clients = []model.Token{}
	}
	if p.Projects == nil {
		p.Projects = []model.Token{}
	}

	s.mu.Lock()
	s.partners = append(s.partners, p.Clone())
	s.mu.Unlock()

	response.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p model.Partner
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	p.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		response.WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.partners[i] = p.Clone()
	response.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		response.WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	deleted := s.partners[i]
	s.partners = append(s.partners[:i], s.partners[i+1:]...)
	response.WriteJSON(w, http.StatusOK, deleted)
}

// indexOf must be called with s.mu held.
func (s *Server) indexOf(id string) int {
	for i, p := range s.partners {
		if p.ID == id {
			return i
		}
	}
	return -1
}
