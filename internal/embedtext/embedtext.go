// Package embedtext builds the deterministic embedding input strings for
// jobs and candidate profiles. The output is a reproducibility contract:
// identical entity fields must always yield byte-identical text, and
// missing optional fields render as fixed placeholders so the input shape
// stays stable across entities.
package embedtext

import (
	"fmt"
	"strings"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
)

const (
	placeholderTitle       = "Untitled role"
	placeholderType        = "Type n/a"
	placeholderWorkModel   = "Work model n/a"
	placeholderExpRange    = "Experience range n/a"
	placeholderSkills      = "Skills not provided"
	placeholderIndustry    = "Industry n/a"
	placeholderLocations   = "Locations not provided"
	placeholderDescription = "Description not provided"

	placeholderName       = "Unnamed candidate"
	placeholderExperience = "Experience not provided"
	placeholderSummary    = "No summary provided"
	placeholderRole       = "Role n/a"
	placeholderCompany    = "Org n/a"
)

// Job renders a job listing into its embedding input string.
func Job(j domain.Job) string {
	parts := []string{
		orElse(j.Title, placeholderTitle),
		orElse(j.EmploymentType, placeholderType),
		orElse(j.WorkModel, placeholderWorkModel),
		orElse(j.ExperienceSummary, placeholderExpRange),
		"Skills: " + joinOrElse(j.Skills, placeholderSkills),
		"Industry: " + joinOrElse(j.Industries, placeholderIndustry),
		"Locations: " + locations(j.Locations),
		"Description: " + orElse(j.Description, placeholderDescription),
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, " | ")
}

// Candidate renders a candidate profile into its embedding input string.
func Candidate(p domain.Profile) string {
	name := orElse(p.Personal.DisplayName(), placeholderName)

	skills := placeholderSkills
	if len(p.Skills) > 0 {
		names := make([]string, len(p.Skills))
		for i, s := range p.Skills {
			names[i] = s.Name
		}
		skills = strings.Join(names, ", ")
	}

	experience := placeholderExperience
	if len(p.Experience) > 0 {
		segments := make([]string, len(p.Experience))
		for i, exp := range p.Experience {
			role := orElse(exp.Title, placeholderRole)
			company := orElse(exp.Company, placeholderCompany)
			segments[i] = strings.TrimSpace(fmt.Sprintf("%s at %s (%s)", role, company, exp.Duration))
		}
		experience = strings.Join(segments, "; ")
	}

	summary := orElse(p.Summary, placeholderSummary)

	return fmt.Sprintf("%s | Skills: %s | Experience: %s | Summary: %s", name, skills, experience, summary)
}

func locations(locs []domain.Location) string {
	rendered := make([]string, 0, len(locs))
	for _, l := range locs {
		if s := l.String(); s != "" {
			rendered = append(rendered, s)
		}
	}
	if len(rendered) == 0 {
		return placeholderLocations
	}
	return strings.Join(rendered, ", ")
}

func joinOrElse(values []string, placeholder string) string {
	if len(values) == 0 {
		return placeholder
	}
	return strings.Join(values, ", ")
}

func orElse(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
