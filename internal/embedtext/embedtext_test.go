package embedtext

import (
	"testing"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
)

func TestJob_AllFields(t *testing.T) {
	j := domain.Job{
		Title:             "Backend Engineer",
		Description:       "Build services.",
		EmploymentType:    "Full-time",
		WorkModel:         "Remote",
		ExperienceSummary: "3-5 years",
		Skills:            []string{"Go", "SQL"},
		Industries:        []string{"Software"},
		Locations: []domain.Location{
			{City: "Bengaluru", State: "Karnataka", Country: "India"},
			{Raw: "Remote"},
		},
	}

	got := Job(j)
	want := "Backend Engineer | Full-time | Remote | 3-5 years | " +
		"Skills: Go, SQL | Industry: Software | " +
		"Locations: Bengaluru, Karnataka, India, Remote | Description: Build services."
	if got != want {
		t.Errorf("unexpected job text:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestJob_Placeholders(t *testing.T) {
	got := Job(domain.Job{})
	want := "Untitled role | Type n/a | Work model n/a | Experience range n/a | " +
		"Skills: Skills not provided | Industry: Industry n/a | " +
		"Locations: Locations not provided | Description: Description not provided"
	if got != want {
		t.Errorf("unexpected placeholder text:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestJob_Deterministic(t *testing.T) {
	j := domain.Job{Title: "Data Engineer", Skills: []string{"Python", "Spark"}}

	first := Job(j)
	for i := 0; i < 10; i++ {
		if got := Job(j); got != first {
			t.Fatalf("job text not reproducible: %q != %q", got, first)
		}
	}
}

func TestCandidate_AllFields(t *testing.T) {
	p := domain.Profile{
		Personal: domain.PersonalInfo{FirstName: "Asha", LastName: "Verma"},
		Skills:   []domain.Skill{{Name: "Go"}, {Name: "Kubernetes", Proficiency: "Expert"}},
		Experience: []domain.Experience{
			{Title: "SRE", Company: "Acme", Duration: "2 years"},
			{Title: "Developer", Company: "Initech", Duration: "1 year"},
		},
		Summary: "Systems engineer.",
	}

	got := Candidate(p)
	want := "Asha Verma | Skills: Go, Kubernetes | " +
		"Experience: SRE at Acme (2 years); Developer at Initech (1 year) | " +
		"Summary: Systems engineer."
	if got != want {
		t.Errorf("unexpected candidate text:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestCandidate_Placeholders(t *testing.T) {
	got := Candidate(domain.Profile{})
	want := "Unnamed candidate | Skills: Skills not provided | " +
		"Experience: Experience not provided | Summary: No summary provided"
	if got != want {
		t.Errorf("unexpected placeholder text:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestCandidate_PrefersFullName(t *testing.T) {
	p := domain.Profile{
		Personal: domain.PersonalInfo{FirstName: "A", LastName: "B", FullName: "Asha B. Verma"},
	}

	got := Candidate(p)
	if got[:len("Asha B. Verma")] != "Asha B. Verma" {
		t.Errorf("expected precomposed full name, got %q", got)
	}
}

func TestCandidate_MissingExperienceFields(t *testing.T) {
	p := domain.Profile{
		Personal:   domain.PersonalInfo{FullName: "Ravi"},
		Experience: []domain.Experience{{}},
	}

	got := Candidate(p)
	want := "Ravi | Skills: Skills not provided | " +
		"Experience: Role n/a at Org n/a () | Summary: No summary provided"
	if got != want {
		t.Errorf("unexpected text:\ngot:  %q\nwant: %q", got, want)
	}
}
