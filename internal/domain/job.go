package domain

import (
	"strings"
	"time"
)

// Job is a job listing with the fields the ranking engine needs.
// Legacy field aliases are resolved by the repository before a Job
// reaches this layer.
type Job struct {
	ID                string
	Title             string
	Description       string
	EmploymentType    string
	WorkModel         string
	ExperienceSummary string
	Skills            []string
	Industries        []string
	Locations         []Location
	UpdatedAt         time.Time
	Embedding         EmbeddingMeta
}

// Location is either a structured city/state/country triple or a raw string.
type Location struct {
	City    string
	State   string
	Country string
	Raw     string
}

// String renders "city, state, country" for structured locations,
// else the raw string.
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return l.Raw
}
