// Package chi exposes the search service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/metrics"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/usecase/search"
)

// SearchService is the surface the transport needs from the search layer.
type SearchService interface {
	SearchGlobal(ctx context.Context, jobID string, count int) (*search.GlobalResult, error)
	SearchApplied(ctx context.Context, jobID string, page, pageSize int) (*search.AppliedResult, error)
}

// Pinger reports document-store connectivity for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server carries the handler dependencies.
type Server struct {
	searcher SearchService
	store    Pinger
	provider domain.HealthChecker
	logger   *zap.Logger
}

func NewServer(searcher SearchService, store Pinger, provider domain.HealthChecker, logger *zap.Logger) *Server {
	return &Server{searcher: searcher, store: store, provider: provider, logger: logger}
}

// Router assembles the HTTP surface: health probes, the two search
// endpoints and the Prometheus scrape target.
func (s *Server) Router(rateLimit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(s.jsonRecoverer)
	r.Use(metrics.Middleware())

	r.Get("/health", s.handleHealth)
	r.Get("/health/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/search", func(r chi.Router) {
		if rateLimit != nil {
			r.Use(rateLimit)
		}
		r.Get("/applied", s.handleSearchApplied)
		r.Get("/global", s.handleSearchGlobal)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"reason": "document store unreachable",
		})
		return
	}
	if s.provider != nil {
		if err := s.provider.HealthCheck(r.Context()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"reason": "embedding provider unreachable",
			})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSearchApplied(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		s.writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	page, ok := s.intParam(w, r, "page", 1)
	if !ok {
		return
	}
	if page < 1 {
		s.writeError(w, http.StatusBadRequest, "page must be >= 1")
		return
	}
	count, ok := s.intParam(w, r, "count", 0)
	if !ok {
		return
	}

	result, err := s.searcher.SearchApplied(r.Context(), jobID, page, count)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearchGlobal(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		s.writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	count, ok := s.intParam(w, r, "count", 0)
	if !ok {
		return
	}

	result, err := s.searcher.SearchGlobal(r.Context(), jobID, count)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// intParam parses an optional integer query parameter, writing a 400 and
// returning ok=false when the value is present but not a number.
func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}

func (s *Server) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.logger.Error("Search request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
