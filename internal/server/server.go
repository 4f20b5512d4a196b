// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealsense/diligence/internal/domain"
)

// Runner executes one analysis query end to end
type Runner interface {
	Run(ctx context.Context, query string) (*domain.DealReport, error)
}

// Server serves the due-diligence API
type Server struct {
	runner   Runner
	registry *domain.Registry
	store    *runStore
	queue    chan string
	logger   *log.Logger
	workers  int
}

// New creates a Server over the given pipeline runner
func New(runner Runner, registry *domain.Registry, logger *log.Logger, workers int) *Server {
	if workers < 1 {
		workers = 1
	}
	return &Server{
		runner:   runner,
		registry: registry,
		store:    newRunStore(),
		queue:    make(chan string, 64),
		logger:   logger,
		workers:  workers,
	}
}

// Start launches the background workers that drain the analysis queue.
// Workers exit when ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		go func(idx int) {
			for {
				select {
				case <-ctx.Done():
					return
				case id := <-s.queue:
					s.process(ctx, id)
				}
			}
		}(i)
	}
}

func (s *Server) process(ctx context.Context, id string) {
	run, ok := s.store.Get(id)
	if !ok {
		return
	}
	s.store.markRunning(id)

	rpt, err := s.runner.Run(ctx, run.Query)
	if err != nil {
		s.logger.Printf("analysis %s failed: %v", id, err)
		s.store.fail(id, err)
		return
	}
	s.store.complete(id, rpt)
}

// Routes returns the chi router for the API
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/companies", s.handleCompanies)
	r.Get("/categories", s.handleCategories)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/analyses/{id}", s.handleGetAnalysis)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.All())
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Categories)
}

type analyzeRequest struct {
	Query     string `json:"query"`
	CompanyID string `json:"company_id,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	query := req.Query
	if req.CompanyID != "" {
		company, ok := s.registry.Lookup(req.CompanyID)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown company: "+req.CompanyID)
			return
		}
		// Make the target explicit so classification cannot miss it.
		query = query + " (target: " + company.Name + ")"
	}

	run := s.store.Create(query)

	// Blocking path for interactive callers
	if r.URL.Query().Get("wait") == "true" {
		s.process(r.Context(), run.ID)
		result, _ := s.store.Get(run.ID)
		if result.Status == StatusFailed {
			writeError(w, http.StatusInternalServerError, result.Error)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	select {
	case s.queue <- run.ID:
	default:
		s.store.fail(run.ID, errQueueFull)
		writeError(w, http.StatusServiceUnavailable, "analysis queue is full")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"analysis_id": run.ID})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no such analysis")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

var errQueueFull = queueFullError{}

type queueFullError struct{}

func (queueFullError) Error() string { return "analysis queue is full" }

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
