// Package server exposes dependency resolution over HTTP. It wraps the same
// pipeline the CLI uses: POST a package name, get back the resolved graph
// with cycle and load-order analyses, persisted under a retrievable ID.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/depscope/depscope/pkg/pipeline"
)

// Server handles the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  Store
	logger *log.Logger
}

// New creates a Server resolving through runner and persisting into store.
func New(runner *pipeline.Runner, store Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: store, logger: logger}
}

// Handler returns the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/graphs", s.handleResolve)
		r.Get("/graphs/{id}", s.handleGet)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type resolveRequest struct {
	Package  string `json:"package"`
	MaxDepth *int   `json:"max_depth,omitempty"`
	Exclude  string `json:"exclude,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	maxDepth := pipeline.DefaultMaxDepth
	if req.MaxDepth != nil {
		maxDepth = *req.MaxDepth
	}
	opts := pipeline.Options{Root: req.Package, MaxDepth: maxDepth, Exclude: req.Exclude}

	result, err := s.runner.Run(r.Context(), opts)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrConfig):
			writeError(w, http.StatusBadRequest, err.Error())
		case r.Context().Err() != nil:
			writeError(w, http.StatusServiceUnavailable, "request cancelled")
		default:
			// Root fetch failures: the package does not resolve.
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	rec := Record{
		ID:        uuid.NewString(),
		Package:   req.Package,
		MaxDepth:  maxDepth,
		Exclude:   req.Exclude,
		CreatedAt: time.Now().UTC(),
		Nodes:     result.Graph.Nodes(),
		Edges:     result.Graph.Edges(),
		Cycles:    result.Cycles,
		LoadOrder: result.Order.Names,
		Complete:  result.Order.Complete,
		Warnings:  result.Warnings,
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Error("persist graph", "id", rec.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to persist graph")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}
	if err != nil {
		s.logger.Error("load graph", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load graph")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
