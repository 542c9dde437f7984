package domain

import "time"

// Application is a read-only application record. CandidateID references
// the profile's owning-user id (Profile.UserID), not the profile id.
type Application struct {
	ID               string
	CandidateID      string
	JobID            string
	CurrentStatus    string
	InitialQuestions []QuestionAnswer
	ScreeningStages  []ScreeningStage
	MovedToRecruiter bool
	Notes            string
	AppliedAt        *time.Time
	RecruiterStages  []map[string]any
	Documents        []map[string]any
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}

// QuestionAnswer is an initial screening question with the candidate's answer.
type QuestionAnswer struct {
	ID              string `json:"_id,omitempty"`
	Question        string `json:"question"`
	CandidateAnswer *bool  `json:"candidateAnswer,omitempty"`
	ExpectedAnswer  *bool  `json:"expectedAnswer,omitempty"`
}

// ScreeningStage is one ordered step of the screening workflow.
type ScreeningStage struct {
	ID          string           `json:"_id,omitempty"`
	Name        string           `json:"name"`
	Order       int              `json:"order"`
	IsCompleted bool             `json:"isCompleted"`
	Timestamps  *StageTimestamps `json:"timestamps,omitempty"`
}

// StageTimestamps tracks when a screening stage was created and last updated.
type StageTimestamps struct {
	ID        string     `json:"_id,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
