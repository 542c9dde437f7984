package search

import (
	"testing"

	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
)

func rankedHit(userID string, score float64) domain.RankedHit {
	return domain.RankedHit{
		CandidateID:     "p-" + userID,
		UserID:          userID,
		FullName:        "Candidate " + userID,
		SimilarityScore: score,
		Source:          domain.SourceApplied,
	}
}

func application(id, candidateID string) domain.Application {
	return domain.Application{ID: id, CandidateID: candidateID, JobID: "job-1", CurrentStatus: "Applied"}
}

func TestMergeKeysByUserID(t *testing.T) {
	apps := []domain.Application{application("a1", "u1"), application("a2", "u2")}
	hits := []domain.RankedHit{rankedHit("u1", 0.9), rankedHit("u2", 0.4)}

	merged := mergeApplications(apps, hits, zap.NewNop())
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged hits, got %d", len(merged))
	}
	if merged[0].FullName != "Candidate u1" {
		t.Errorf("unexpected merge for first application: %+v", merged[0])
	}
}

func TestMergeDropsUnmatchedApplications(t *testing.T) {
	apps := []domain.Application{application("a1", "u1"), application("a2", "missing")}
	hits := []domain.RankedHit{rankedHit("u1", 0.9)}

	merged := mergeApplications(apps, hits, zap.NewNop())
	if len(merged) != 1 {
		t.Fatalf("expected unmatched application dropped, got %d results", len(merged))
	}
	if merged[0].ApplicationID != "a1" {
		t.Errorf("wrong survivor: %+v", merged[0])
	}
}

func TestDeriveJobStatus(t *testing.T) {
	cases := []struct {
		name string
		hit  domain.RankedHit
		want string
	}{
		{
			"no experience is a fresher",
			domain.RankedHit{},
			"Fresher",
		},
		{
			"company from matching title",
			domain.RankedHit{
				CurrentJobTitle: "SRE",
				Experience: []domain.ExperienceDetail{
					{JobTitle: "Engineer", CompanyName: "Acme"},
					{JobTitle: "SRE", CompanyName: "Beta"},
				},
			},
			"SRE at Beta",
		},
		{
			"falls back to first experience company",
			domain.RankedHit{
				CurrentJobTitle: "SRE",
				Experience: []domain.ExperienceDetail{
					{JobTitle: "Engineer", CompanyName: "Acme"},
				},
			},
			"SRE at Acme",
		},
		{
			"unknown company when nothing matches",
			domain.RankedHit{
				CurrentJobTitle: "SRE",
				Experience:      []domain.ExperienceDetail{{JobTitle: "Engineer"}},
			},
			"SRE at Unknown Company",
		},
		{
			"no current title uses latest entry",
			domain.RankedHit{
				Experience: []domain.ExperienceDetail{{JobTitle: "Analyst", CompanyName: "Gamma"}},
			},
			"Analyst at Gamma",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := deriveJobStatus(tc.hit); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSortByScoreMissingScoreSinks(t *testing.T) {
	low, high := 0.1, 0.8
	hits := []domain.MergedHit{
		{ApplicationID: "a", SimilarityScore: &low},
		{ApplicationID: "b", SimilarityScore: nil},
		{ApplicationID: "c", SimilarityScore: &high},
	}
	sortByScore(hits)
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if hits[i].ApplicationID != id {
			t.Fatalf("position %d: got %s, want %s (order %+v)", i, hits[i].ApplicationID, id, hits)
		}
	}
}

func TestPaginate(t *testing.T) {
	hits := make([]domain.MergedHit, 5)
	for i := range hits {
		hits[i].ApplicationID = string(rune('a' + i))
	}

	if got := paginate(hits, 1, 2); len(got) != 2 || got[0].ApplicationID != "a" {
		t.Errorf("page 1: %+v", got)
	}
	if got := paginate(hits, 3, 2); len(got) != 1 || got[0].ApplicationID != "e" {
		t.Errorf("last partial page: %+v", got)
	}
	if got := paginate(hits, 4, 2); len(got) != 0 {
		t.Errorf("page past the end must be empty, got %+v", got)
	}
	if got := paginate(hits, 0, 2); len(got) != 2 {
		t.Errorf("page below 1 clamps to first page, got %+v", got)
	}
}
