package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
)

func decodeProfile(t *testing.T, doc bson.M) domain.Profile {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	var pd profileDoc
	if err := bson.Unmarshal(raw, &pd); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return pd.toDomain()
}

func TestProfileDecodeStringSkills(t *testing.T) {
	p := decodeProfile(t, bson.M{
		"_id":    primitive.NewObjectID(),
		"skills": bson.A{"Go", "Python"},
	})
	if len(p.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(p.Skills))
	}
	if p.Skills[0].Name != "Go" || p.Skills[0].Proficiency != "" {
		t.Errorf("unexpected first skill: %+v", p.Skills[0])
	}
}

func TestProfileDecodeStructuredSkillAliases(t *testing.T) {
	cases := []struct {
		name  string
		skill bson.M
		want  string
	}{
		{"skill_proficiency wins", bson.M{"skill_name": "Go", "skill_proficiency": "Expert", "level": "Low"}, "Expert"},
		{"proficiency_level next", bson.M{"name": "Go", "proficiency_level": "Advanced"}, "Advanced"},
		{"proficiency next", bson.M{"name": "Go", "proficiency": "Mid"}, "Mid"},
		{"level last", bson.M{"name": "Go", "level": "Junior"}, "Junior"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := decodeProfile(t, bson.M{
				"_id":    primitive.NewObjectID(),
				"skills": bson.A{tc.skill},
			})
			if len(p.Skills) != 1 {
				t.Fatalf("expected 1 skill, got %d", len(p.Skills))
			}
			if p.Skills[0].Proficiency != tc.want {
				t.Errorf("got proficiency %q, want %q", p.Skills[0].Proficiency, tc.want)
			}
		})
	}
}

func TestProfileDecodeExperienceAliases(t *testing.T) {
	start := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	p := decodeProfile(t, bson.M{
		"_id": primitive.NewObjectID(),
		"experience": bson.A{
			bson.M{
				"position":   "Backend Engineer",
				"company":    "Acme",
				"start_date": primitive.NewDateTimeFromTime(start),
				"end_date":   "Present",
			},
			bson.M{
				"title":        "Intern",
				"organization": "Beta Labs",
				"years":        2,
			},
		},
	})
	if len(p.Experience) != 2 {
		t.Fatalf("expected 2 experience entries, got %d", len(p.Experience))
	}

	first := p.Experience[0]
	if first.Title != "Backend Engineer" || first.Company != "Acme" {
		t.Errorf("unexpected first entry: %+v", first)
	}
	if first.StartDate.Time == nil || !first.StartDate.Time.Equal(start) {
		t.Errorf("expected datetime start date, got %+v", first.StartDate)
	}
	if !first.EndDate.Current() {
		t.Errorf("expected raw Present end date to be current, got %+v", first.EndDate)
	}

	second := p.Experience[1]
	if second.Title != "Intern" || second.Company != "Beta Labs" {
		t.Errorf("unexpected second entry: %+v", second)
	}
	if second.Duration != "2" {
		t.Errorf("expected numeric years coerced to %q, got %q", "2", second.Duration)
	}
}

func TestProfileDecodeNullFields(t *testing.T) {
	p := decodeProfile(t, bson.M{
		"_id":              primitive.NewObjectID(),
		"summary":          nil,
		"about":            "Seasoned engineer",
		"embedding_vector": nil,
		"embedding_model":  nil,
		"embedding_error":  nil,
		"location":         nil,
	})
	if p.Summary != "Seasoned engineer" {
		t.Errorf("expected about fallback, got %q", p.Summary)
	}
	if p.Embedding.Vector != nil {
		t.Errorf("expected nil vector, got %v", p.Embedding.Vector)
	}
}

func TestProfileDecodeStructuredLocation(t *testing.T) {
	p := decodeProfile(t, bson.M{
		"_id": primitive.NewObjectID(),
		"personal_information": bson.M{
			"first_name": "Ada",
			"last_name":  "Lovelace",
			"location":   bson.M{"city": "Pune", "country": "India"},
		},
	})
	if p.Location != "Pune, India" {
		t.Errorf("expected flattened location, got %q", p.Location)
	}
	if p.Personal.DisplayName() != "Ada Lovelace" {
		t.Errorf("unexpected display name %q", p.Personal.DisplayName())
	}
}

func TestJobDecodeAliases(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"_id":             primitive.NewObjectID(),
		"title":           "Platform Engineer",
		"employment_type": "Full-time",
		"workModel":       "Remote",
		"experienceRange": bson.M{"summary": "3-5 years"},
		"skills":          bson.A{"Go", "Kubernetes"},
		"industry":        "Fintech",
		"locations": bson.A{
			bson.M{"city": "Pune", "state": "MH", "country": "India"},
			"Bengaluru",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	var jd jobDoc
	if err := bson.Unmarshal(raw, &jd); err != nil {
		t.Fatal(err)
	}
	job := jd.toDomain()

	if job.EmploymentType != "Full-time" {
		t.Errorf("expected snake_case alias pickup, got %q", job.EmploymentType)
	}
	if job.WorkModel != "Remote" {
		t.Errorf("unexpected work model %q", job.WorkModel)
	}
	if job.ExperienceSummary != "3-5 years" {
		t.Errorf("unexpected experience summary %q", job.ExperienceSummary)
	}
	if len(job.Skills) != 2 {
		t.Errorf("expected skills fallback to skills field, got %v", job.Skills)
	}
	if len(job.Industries) != 1 || job.Industries[0] != "Fintech" {
		t.Errorf("expected single-string industry wrapped, got %v", job.Industries)
	}
	if len(job.Locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(job.Locations))
	}
	if got := job.Locations[0].String(); got != "Pune, MH, India" {
		t.Errorf("unexpected structured location %q", got)
	}
	if got := job.Locations[1].String(); got != "Bengaluru" {
		t.Errorf("unexpected raw location %q", got)
	}
}

func TestTouchesEmbeddingFields(t *testing.T) {
	if !TouchesEmbeddingFields([]string{"phone", "skills"}) {
		t.Error("skills update must invalidate the embedding")
	}
	if TouchesEmbeddingFields([]string{"phone", "email"}) {
		t.Error("contact-only update must not invalidate the embedding")
	}
}
