// Package search ranks candidate profiles against a job description by
// embedding similarity, either over the whole profile pool or over a job's
// applicant pool.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/metrics"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/usecase/embedding"
)

// Applied-search ranking strategies. Manual is the default: it fetches the
// applicant profiles and scores them exactly, so applicants can never be
// squeezed out by the ANN over-fetch window.
const (
	StrategyManual = "manual"
	StrategyIndex  = "index"
)

type JobStore interface {
	Get(ctx context.Context, id string) (domain.Job, error)
}

type ProfileStore interface {
	FindByUserIDs(ctx context.Context, ids []string) ([]domain.Profile, error)
	VectorSearch(ctx context.Context, queryVector []float64, limit int, userIDs []string) ([]domain.ScoredProfile, error)
}

type ApplicationStore interface {
	ListByJob(ctx context.Context, jobID string) ([]domain.Application, int64, error)
}

// QueryVectorSource yields a fresh job-description embedding.
type QueryVectorSource interface {
	EnsureFresh(ctx context.Context, entity embedding.Entity) (domain.QueryVector, error)
}

// Options are the tunables of the search service.
type Options struct {
	DefaultGlobalLimit int
	MaxGlobalLimit     int
	DefaultPageSize    int
	MaxPageSize        int
	AppliedStrategy    string
}

// Service coordinates job resolution, query-vector freshness, ranking and
// merging for both search surfaces.
type Service struct {
	jobs         JobStore
	profiles     ProfileStore
	applications ApplicationStore
	guard        QueryVectorSource
	opts         Options
	logger       *zap.Logger
}

func NewService(jobs JobStore, profiles ProfileStore, applications ApplicationStore, guard QueryVectorSource, opts Options, logger *zap.Logger) *Service {
	if opts.AppliedStrategy == "" {
		opts.AppliedStrategy = StrategyManual
	}
	return &Service{
		jobs:         jobs,
		profiles:     profiles,
		applications: applications,
		guard:        guard,
		opts:         opts,
		logger:       logger,
	}
}

// Pagination describes one page of an applied search. TotalMatches counts
// applications with status "Applied", which can exceed the number of
// mergeable results when profiles are missing.
type Pagination struct {
	Page         int   `json:"page"`
	PageSize     int   `json:"page_size"`
	TotalMatches int64 `json:"total_matches"`
}

// GlobalResult is the response of a global search.
type GlobalResult struct {
	JobID          string             `json:"job_id"`
	RequestedCount int                `json:"requested_count"`
	Results        []domain.RankedHit `json:"results"`
	CacheHit       bool               `json:"cache_hit"`
	EmbeddingModel string             `json:"embedding_model"`
}

// AppliedResult is the response of an applied search.
type AppliedResult struct {
	JobID          string             `json:"job_id"`
	Pagination     Pagination         `json:"pagination"`
	Results        []domain.MergedHit `json:"results"`
	CacheHit       bool               `json:"cache_hit"`
	EmbeddingModel string             `json:"embedding_model"`
}

// SearchGlobal ranks the entire profile pool against the job description.
// count <= 0 selects the configured default; values are clamped to
// [1, MaxGlobalLimit].
func (s *Service) SearchGlobal(ctx context.Context, jobID string, count int) (*GlobalResult, error) {
	requested := count
	if requested <= 0 {
		requested = s.opts.DefaultGlobalLimit
	}
	requested = clamp(requested, 1, s.opts.MaxGlobalLimit)

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	qv, err := s.guard.EnsureFresh(ctx, embedding.JobEntity{Job: job})
	if err != nil {
		return nil, fmt.Errorf("job %s query vector: %w", jobID, err)
	}

	start := time.Now()
	scored, err := s.profiles.VectorSearch(ctx, qv.Vector, requested, nil)
	if err != nil {
		return nil, fmt.Errorf("global vector search: %w", err)
	}
	metrics.RankingDuration.WithLabelValues(StrategyIndex).Observe(time.Since(start).Seconds())

	results := make([]domain.RankedHit, 0, len(scored))
	for _, sp := range scored {
		results = append(results, projectProfile(sp.Profile, sp.Score, domain.SourceGlobal))
	}

	s.logger.Info("Global search complete",
		zap.String("job_id", jobID),
		zap.Int("requested", requested),
		zap.Int("results", len(results)),
		zap.Bool("cache_hit", qv.CacheHit),
	)
	return &GlobalResult{
		JobID:          jobID,
		RequestedCount: requested,
		Results:        results,
		CacheHit:       qv.CacheHit,
		EmbeddingModel: qv.Model,
	}, nil
}

// SearchApplied ranks the applicant pool of a job, merges in the application
// records and paginates after ranking so every page reflects the full pool's
// order.
func (s *Service) SearchApplied(ctx context.Context, jobID string, page, pageSize int) (*AppliedResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.opts.DefaultPageSize
	}
	pageSize = clamp(pageSize, 1, s.opts.MaxPageSize)

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	qv, err := s.guard.EnsureFresh(ctx, embedding.JobEntity{Job: job})
	if err != nil {
		return nil, fmt.Errorf("job %s query vector: %w", jobID, err)
	}

	apps, total, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("applications for job %s: %w", jobID, err)
	}
	if len(apps) == 0 {
		return &AppliedResult{
			JobID:          jobID,
			Pagination:     Pagination{Page: page, PageSize: pageSize, TotalMatches: 0},
			Results:        []domain.MergedHit{},
			CacheHit:       qv.CacheHit,
			EmbeddingModel: qv.Model,
		}, nil
	}

	candidateIDs := make([]string, 0, len(apps))
	for _, app := range apps {
		if app.CandidateID != "" {
			candidateIDs = append(candidateIDs, app.CandidateID)
		}
	}

	hits, err := s.rankApplicants(ctx, qv.Vector, candidateIDs)
	if err != nil {
		return nil, err
	}

	merged := mergeApplications(apps, hits, s.logger)
	sortByScore(merged)
	pageHits := paginate(merged, page, pageSize)

	s.logger.Info("Applied search complete",
		zap.String("job_id", jobID),
		zap.Int64("total_matches", total),
		zap.Int("merged", len(merged)),
		zap.Int("page", page),
		zap.Int("page_results", len(pageHits)),
		zap.Bool("cache_hit", qv.CacheHit),
	)
	return &AppliedResult{
		JobID:          jobID,
		Pagination:     Pagination{Page: page, PageSize: pageSize, TotalMatches: total},
		Results:        pageHits,
		CacheHit:       qv.CacheHit,
		EmbeddingModel: qv.Model,
	}, nil
}

// rankApplicants scores the given candidate set with the configured
// strategy.
func (s *Service) rankApplicants(ctx context.Context, queryVector []float64, candidateIDs []string) ([]domain.RankedHit, error) {
	if s.opts.AppliedStrategy == StrategyIndex {
		start := time.Now()
		scored, err := s.profiles.VectorSearch(ctx, queryVector, len(candidateIDs), candidateIDs)
		if err != nil {
			return nil, fmt.Errorf("applied vector search: %w", err)
		}
		metrics.RankingDuration.WithLabelValues(StrategyIndex).Observe(time.Since(start).Seconds())

		hits := make([]domain.RankedHit, 0, len(scored))
		for _, sp := range scored {
			hits = append(hits, projectProfile(sp.Profile, sp.Score, domain.SourceApplied))
		}
		return hits, nil
	}

	start := time.Now()
	profiles, err := s.profiles.FindByUserIDs(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch applicant profiles: %w", err)
	}

	hits := make([]domain.RankedHit, 0, len(profiles))
	for _, p := range profiles {
		score := cosineSimilarity(queryVector, p.Embedding.Vector)
		hits = append(hits, projectProfile(p, score, domain.SourceApplied))
	}
	metrics.RankingDuration.WithLabelValues(StrategyManual).Observe(time.Since(start).Seconds())
	return hits, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
