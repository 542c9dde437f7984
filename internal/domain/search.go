package domain

import "time"

// Source tags which ranking strategy produced a hit.
const (
	SourceGlobal  = "global"
	SourceApplied = "applied"
)

// RankedHit is a similarity-scored candidate with its denormalized
// profile projection.
type RankedHit struct {
	CandidateID          string             `json:"candidate_id"`
	UserID               string             `json:"user_id,omitempty"`
	FullName             string             `json:"full_name"`
	CurrentJobTitle      string             `json:"current_job_title,omitempty"`
	EmploymentStatus     string             `json:"employment_status,omitempty"`
	Location             string             `json:"location,omitempty"`
	ContactInfo          ContactInfo        `json:"contact_info"`
	Skills               []SkillDetail      `json:"skills"`
	SkillsCount          int                `json:"skills_count"`
	Experience           []ExperienceDetail `json:"experience"`
	ExperienceCount      int                `json:"experience_count"`
	SimilarityScore      float64            `json:"similarity_score"`
	Source               string             `json:"source"`
	EmbeddingModel       string             `json:"embedding_model,omitempty"`
	EmbeddingGeneratedAt *time.Time         `json:"embedding_generated_at,omitempty"`
}

// ContactInfo is the flattened contact block of a hit.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// SkillDetail is a rendered skill entry.
type SkillDetail struct {
	SkillName        string `json:"skill_name"`
	ProficiencyLevel string `json:"proficiency_level,omitempty"`
}

// ExperienceDetail is a rendered work history entry.
type ExperienceDetail struct {
	CompanyName string `json:"company_name,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	Duration    string `json:"duration,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
	IsCurrent   bool   `json:"is_current"`
}

// ScoredProfile pairs a profile with the similarity score attached by a
// ranking strategy.
type ScoredProfile struct {
	Profile Profile
	Score   float64
}

// MergedHit is an application record enriched with the matching ranked
// hit's profile fields and score. It exists only in responses.
type MergedHit struct {
	ApplicationID    string           `json:"_id"`
	CandidateID      string           `json:"candidateId"`
	JobID            string           `json:"jobId"`
	FullName         string           `json:"full_name"`
	JobStatus        string           `json:"job_status"`
	Skills           []SkillDetail    `json:"skills"`
	InitialQuestions []QuestionAnswer `json:"initialQuestionsAnswers"`
	CurrentStatus    string           `json:"currentStatus"`
	ScreeningStages  []ScreeningStage `json:"ruthiSideStages"`
	MovedToRecruiter bool             `json:"movedToRecruiter"`
	Notes            string           `json:"notes"`
	AppliedAt        *time.Time       `json:"appliedAt,omitempty"`
	RecruiterStages  []map[string]any `json:"recruiterSideStages"`
	Documents        []map[string]any `json:"documents"`
	CreatedAt        *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time       `json:"updatedAt,omitempty"`
	SimilarityScore  *float64         `json:"similarity_score,omitempty"`
}
