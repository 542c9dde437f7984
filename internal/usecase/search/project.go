package search

import (
	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
)

// projectProfile renders a profile into the hit shape shared by both
// ranking strategies, so ANN results and manually scored results are
// indistinguishable to callers.
func projectProfile(p domain.Profile, score float64, source string) domain.RankedHit {
	hit := domain.RankedHit{
		CandidateID:          p.ID,
		UserID:               p.UserID,
		FullName:             p.Personal.DisplayName(),
		Location:             p.Location,
		SimilarityScore:      score,
		Source:               source,
		EmbeddingModel:       p.Embedding.Model,
		EmbeddingGeneratedAt: p.Embedding.GeneratedAt,
		ContactInfo: domain.ContactInfo{
			Email:    p.Personal.Email,
			Phone:    p.Personal.Phone,
			GitHub:   p.Socials.GitHub,
			LinkedIn: p.Socials.LinkedIn,
		},
		Skills:     make([]domain.SkillDetail, 0, len(p.Skills)),
		Experience: make([]domain.ExperienceDetail, 0, len(p.Experience)),
	}

	if len(p.Experience) > 0 {
		latest := p.Experience[0]
		hit.CurrentJobTitle = latest.Title
		if latest.EndDate.Current() {
			hit.EmploymentStatus = "Currently Working"
		} else {
			hit.EmploymentStatus = "Open to Opportunities"
		}
	}

	for _, s := range p.Skills {
		hit.Skills = append(hit.Skills, domain.SkillDetail{
			SkillName:        s.Name,
			ProficiencyLevel: s.Proficiency,
		})
	}
	hit.SkillsCount = len(hit.Skills)

	for _, e := range p.Experience {
		start := renderDate(e.StartDate)
		end := renderDate(e.EndDate)
		if end == "" {
			end = "Present"
		}
		duration := ""
		if start != "" {
			duration = start + " - " + end
		}
		hit.Experience = append(hit.Experience, domain.ExperienceDetail{
			CompanyName: e.Company,
			JobTitle:    e.Title,
			Duration:    duration,
			StartDate:   start,
			EndDate:     end,
			Description: e.Description,
			IsCurrent:   e.EndDate.Current(),
		})
	}
	hit.ExperienceCount = len(hit.Experience)

	return hit
}

// renderDate turns a stored date into its display form: datetimes become
// "Jun 2022", raw strings pass through untouched.
func renderDate(d domain.DateValue) string {
	if d.Time != nil {
		return d.Time.Format("Jan 2006")
	}
	return d.Raw
}
