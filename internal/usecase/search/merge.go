package search

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
)

// mergeApplications joins application records with their ranked hits.
// Hits are keyed by user id because Application.CandidateID references the
// profile's owning user, not the profile document. Applications without a
// matching hit are dropped with a warning rather than failing the search.
func mergeApplications(apps []domain.Application, hits []domain.RankedHit, logger *zap.Logger) []domain.MergedHit {
	byUser := make(map[string]domain.RankedHit, len(hits))
	for _, hit := range hits {
		if hit.UserID != "" {
			byUser[hit.UserID] = hit
		}
	}

	merged := make([]domain.MergedHit, 0, len(apps))
	for _, app := range apps {
		hit, ok := byUser[app.CandidateID]
		if !ok {
			logger.Warn("No ranked profile for applied candidate",
				zap.String("candidate_id", app.CandidateID),
				zap.String("application_id", app.ID),
			)
			continue
		}

		score := hit.SimilarityScore
		merged = append(merged, domain.MergedHit{
			ApplicationID:    app.ID,
			CandidateID:      app.CandidateID,
			JobID:            app.JobID,
			FullName:         hit.FullName,
			JobStatus:        deriveJobStatus(hit),
			Skills:           hit.Skills,
			InitialQuestions: app.InitialQuestions,
			CurrentStatus:    app.CurrentStatus,
			ScreeningStages:  app.ScreeningStages,
			MovedToRecruiter: app.MovedToRecruiter,
			Notes:            app.Notes,
			AppliedAt:        app.AppliedAt,
			RecruiterStages:  app.RecruiterStages,
			Documents:        app.Documents,
			CreatedAt:        app.CreatedAt,
			UpdatedAt:        app.UpdatedAt,
			SimilarityScore:  &score,
		})
	}
	return merged
}

// deriveJobStatus summarizes a candidate's employment: "Fresher" without
// any experience, otherwise "<title> at <company>". The company comes from
// the experience entry matching the current title, falling back to the
// first entry, then to "Unknown Company".
func deriveJobStatus(hit domain.RankedHit) string {
	if hit.CurrentJobTitle != "" {
		company := "Unknown Company"
		for _, exp := range hit.Experience {
			if exp.JobTitle == hit.CurrentJobTitle {
				if exp.CompanyName != "" {
					company = exp.CompanyName
				}
				break
			}
		}
		if company == "Unknown Company" && len(hit.Experience) > 0 && hit.Experience[0].CompanyName != "" {
			company = hit.Experience[0].CompanyName
		}
		return hit.CurrentJobTitle + " at " + company
	}
	if len(hit.Experience) > 0 {
		latest := hit.Experience[0]
		return latest.JobTitle + " at " + latest.CompanyName
	}
	return "Fresher"
}

// sortByScore orders merged hits by similarity descending; hits without a
// score sort as -1.0, below any real cosine value.
func sortByScore(hits []domain.MergedHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return scoreOf(hits[i]) > scoreOf(hits[j])
	})
}

func scoreOf(h domain.MergedHit) float64 {
	if h.SimilarityScore == nil {
		return -1.0
	}
	return *h.SimilarityScore
}

// paginate slices a ranked result list 1-indexed, clamped so any page is
// safe to request: pages past the end return an empty slice.
func paginate(hits []domain.MergedHit, page, pageSize int) []domain.MergedHit {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(hits) {
		return []domain.MergedHit{}
	}
	end := start + pageSize
	if end > len(hits) {
		end = len(hits)
	}
	return hits[start:end]
}
