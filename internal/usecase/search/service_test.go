package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/usecase/embedding"
)

type mockJobs struct {
	job domain.Job
	err error
}

func (m *mockJobs) Get(ctx context.Context, id string) (domain.Job, error) {
	if m.err != nil {
		return domain.Job{}, m.err
	}
	return m.job, nil
}

type mockProfiles struct {
	profiles []domain.Profile
	scored   []domain.ScoredProfile

	findCalledWith   []string
	searchCalledWith []string
	searchLimit      int
}

func (m *mockProfiles) FindByUserIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	m.findCalledWith = ids
	return m.profiles, nil
}

func (m *mockProfiles) VectorSearch(ctx context.Context, queryVector []float64, limit int, userIDs []string) ([]domain.ScoredProfile, error) {
	m.searchCalledWith = userIDs
	m.searchLimit = limit
	return m.scored, nil
}

type mockApplications struct {
	apps  []domain.Application
	total int64
}

func (m *mockApplications) ListByJob(ctx context.Context, jobID string) ([]domain.Application, int64, error) {
	return m.apps, m.total, nil
}

type mockGuard struct {
	qv domain.QueryVector
}

func (m *mockGuard) EnsureFresh(ctx context.Context, entity embedding.Entity) (domain.QueryVector, error) {
	return m.qv, nil
}

func defaultOptions() Options {
	return Options{
		DefaultGlobalLimit: 50,
		MaxGlobalLimit:     200,
		DefaultPageSize:    50,
		MaxPageSize:        200,
		AppliedStrategy:    StrategyManual,
	}
}

func profileWithVector(id, userID string, vector []float64) domain.Profile {
	return domain.Profile{
		ID:       id,
		UserID:   userID,
		Personal: domain.PersonalInfo{FullName: "Candidate " + userID},
		Embedding: domain.EmbeddingMeta{
			Vector: vector,
			Status: domain.StatusReady,
		},
	}
}

func TestSearchGlobalClampsCount(t *testing.T) {
	profiles := &mockProfiles{}
	svc := NewService(
		&mockJobs{job: domain.Job{ID: "j1"}},
		profiles,
		&mockApplications{},
		&mockGuard{qv: domain.QueryVector{Vector: []float64{1, 0}, Model: "m"}},
		defaultOptions(),
		zap.NewNop(),
	)

	res, err := svc.SearchGlobal(context.Background(), "j1", 10_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RequestedCount != 200 {
		t.Errorf("expected clamp to 200, got %d", res.RequestedCount)
	}
	if profiles.searchLimit != 200 {
		t.Errorf("store asked for %d results", profiles.searchLimit)
	}

	res, err = svc.SearchGlobal(context.Background(), "j1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.RequestedCount != 50 {
		t.Errorf("expected default 50, got %d", res.RequestedCount)
	}
}

func TestSearchGlobalJobNotFound(t *testing.T) {
	svc := NewService(
		&mockJobs{err: domain.ErrNotFound},
		&mockProfiles{},
		&mockApplications{},
		&mockGuard{},
		defaultOptions(),
		zap.NewNop(),
	)
	if _, err := svc.SearchGlobal(context.Background(), "deadbeef", 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchGlobalProjectsHits(t *testing.T) {
	profiles := &mockProfiles{scored: []domain.ScoredProfile{
		{Profile: profileWithVector("p1", "u1", nil), Score: 0.93},
	}}
	svc := NewService(
		&mockJobs{job: domain.Job{ID: "j1"}},
		profiles,
		&mockApplications{},
		&mockGuard{qv: domain.QueryVector{Vector: []float64{1, 0}, Model: "m", CacheHit: true}},
		defaultOptions(),
		zap.NewNop(),
	)

	res, err := svc.SearchGlobal(context.Background(), "j1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheHit {
		t.Error("expected cache hit propagated")
	}
	if len(res.Results) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(res.Results))
	}
	hit := res.Results[0]
	if hit.Source != domain.SourceGlobal {
		t.Errorf("unexpected source %q", hit.Source)
	}
	if hit.SimilarityScore != 0.93 {
		t.Errorf("expected store-computed score, got %v", hit.SimilarityScore)
	}
	if profiles.searchCalledWith != nil {
		t.Errorf("global search must not pass an id set, got %v", profiles.searchCalledWith)
	}
}

func TestSearchAppliedEmptyPool(t *testing.T) {
	svc := NewService(
		&mockJobs{job: domain.Job{ID: "j1"}},
		&mockProfiles{},
		&mockApplications{apps: nil, total: 0},
		&mockGuard{qv: domain.QueryVector{Vector: []float64{1, 0}, Model: "m"}},
		defaultOptions(),
		zap.NewNop(),
	)

	res, err := svc.SearchApplied(context.Background(), "j1", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pagination.TotalMatches != 0 {
		t.Errorf("expected 0 total matches, got %d", res.Pagination.TotalMatches)
	}
	if res.Results == nil || len(res.Results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", res.Results)
	}
}

func TestSearchAppliedManualRanking(t *testing.T) {
	// Second applicant's profile is closer to the query vector: ranking
	// must reorder them regardless of application order.
	query := []float64{1, 0}
	profiles := &mockProfiles{profiles: []domain.Profile{
		profileWithVector("p1", "u1", []float64{0.4, 0.6}),
		profileWithVector("p2", "u2", []float64{0.9, 0.1}),
	}}
	apps := &mockApplications{
		apps: []domain.Application{
			{ID: "a1", CandidateID: "u1", JobID: "j1", CurrentStatus: "Applied"},
			{ID: "a2", CandidateID: "u2", JobID: "j1", CurrentStatus: "Applied"},
		},
		total: 2,
	}
	svc := NewService(
		&mockJobs{job: domain.Job{ID: "j1"}},
		profiles,
		apps,
		&mockGuard{qv: domain.QueryVector{Vector: query, Model: "m"}},
		defaultOptions(),
		zap.NewNop(),
	)

	res, err := svc.SearchApplied(context.Background(), "j1", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pagination.TotalMatches != 2 {
		t.Errorf("expected total_matches 2, got %d", res.Pagination.TotalMatches)
	}
	if len(res.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res.Results))
	}
	if res.Results[0].CandidateID != "u2" || res.Results[1].CandidateID != "u1" {
		t.Errorf("expected u2 ranked first, got %s then %s",
			res.Results[0].CandidateID, res.Results[1].CandidateID)
	}
	if profiles.findCalledWith == nil {
		t.Error("manual strategy must fetch profiles by user ids")
	}
}

func TestSearchAppliedUnembeddedProfileScoresZero(t *testing.T) {
	profiles := &mockProfiles{profiles: []domain.Profile{
		profileWithVector("p1", "u1", nil),
		profileWithVector("p2", "u2", []float64{1, 0}),
	}}
	apps := &mockApplications{
		apps: []domain.Application{
			{ID: "a1", CandidateID: "u1", JobID: "j1", CurrentStatus: "Applied"},
			{ID: "a2", CandidateID: "u2", JobID: "j1", CurrentStatus: "Applied"},
		},
		total: 2,
	}
	svc := NewService(
		&mockJobs{job: domain.Job{ID: "j1"}},
		profiles,
		apps,
		&mockGuard{qv: domain.QueryVector{Vector: []float64{1, 0}, Model: "m"}},
		defaultOptions(),
		zap.NewNop(),
	)

	res, err := svc.SearchApplied(context.Background(), "j1", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Results[0].CandidateID != "u2" {
		t.Errorf("embedded profile must outrank unembedded one, got %s first", res.Results[0].CandidateID)
	}
	if got := *res.Results[1].SimilarityScore; got != 0 {
		t.Errorf("unembedded profile must score 0.0, got %v", got)
	}
}

func TestSearchAppliedIndexStrategy(t *testing.T) {
	profiles := &mockProfiles{scored: []domain.ScoredProfile{
		{Profile: profileWithVector("p1", "u1", nil), Score: 0.8},
	}}
	apps := &mockApplications{
		apps:  []domain.Application{{ID: "a1", CandidateID: "u1", JobID: "j1", CurrentStatus: "Applied"}},
		total: 1,
	}
	opts := defaultOptions()
	opts.AppliedStrategy = StrategyIndex
	svc := NewService(
		&mockJobs{job: domain.Job{ID: "j1"}},
		profiles,
		apps,
		&mockGuard{qv: domain.QueryVector{Vector: []float64{1, 0}, Model: "m"}},
		opts,
		zap.NewNop(),
	)

	res, err := svc.SearchApplied(context.Background(), "j1", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles.searchCalledWith) != 1 || profiles.searchCalledWith[0] != "u1" {
		t.Errorf("index strategy must pass the applicant id set, got %v", profiles.searchCalledWith)
	}
	if len(res.Results) != 1 || *res.Results[0].SimilarityScore != 0.8 {
		t.Errorf("unexpected results: %+v", res.Results)
	}
}

func TestSearchAppliedPaginatesAfterRanking(t *testing.T) {
	query := []float64{1, 0}
	profiles := &mockProfiles{profiles: []domain.Profile{
		profileWithVector("p1", "u1", []float64{0.2, 0.8}),
		profileWithVector("p2", "u2", []float64{0.9, 0.1}),
		profileWithVector("p3", "u3", []float64{0.5, 0.5}),
	}}
	apps := &mockApplications{
		apps: []domain.Application{
			{ID: "a1", CandidateID: "u1", JobID: "j1", CurrentStatus: "Applied"},
			{ID: "a2", CandidateID: "u2", JobID: "j1", CurrentStatus: "Applied"},
			{ID: "a3", CandidateID: "u3", JobID: "j1", CurrentStatus: "Applied"},
		},
		total: 3,
	}
	svc := NewService(
		&mockJobs{job: domain.Job{ID: "j1"}},
		profiles,
		apps,
		&mockGuard{qv: domain.QueryVector{Vector: query, Model: "m"}},
		defaultOptions(),
		zap.NewNop(),
	)

	page2, err := svc.SearchApplied(context.Background(), "j1", 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Results) != 1 || page2.Results[0].CandidateID != "u3" {
		t.Errorf("page 2 of size 1 must hold the second-ranked candidate, got %+v", page2.Results)
	}

	beyond, err := svc.SearchApplied(context.Background(), "j1", 9, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(beyond.Results) != 0 {
		t.Errorf("page beyond the end must be empty, got %+v", beyond.Results)
	}
	if beyond.Pagination.TotalMatches != 3 {
		t.Errorf("total stays at pool size, got %d", beyond.Pagination.TotalMatches)
	}
}
