package domain

import (
	"strings"
	"time"
)

// Profile is a candidate profile. UserID is the owning-user identifier,
// the field application records reference. It is distinct from the
// profile document's own ID.
type Profile struct {
	ID         string
	UserID     string
	Personal   PersonalInfo
	Socials    Socials
	Location   string
	Skills     []Skill
	Experience []Experience
	Summary    string
	UpdatedAt  time.Time
	Embedding  EmbeddingMeta
}

// PersonalInfo holds the personal-information block of a profile.
type PersonalInfo struct {
	FirstName string
	LastName  string
	FullName  string
	Email     string
	Phone     string
	Location  string
}

// Socials holds the profile's social links.
type Socials struct {
	GitHub   string
	LinkedIn string
}

// Skill is a skill entry. Proficiency is empty for plain string entries.
type Skill struct {
	Name        string
	Proficiency string
}

// Experience is a work history entry with alias-resolved fields.
type Experience struct {
	Company     string
	Title       string
	StartDate   DateValue
	EndDate     DateValue
	Duration    string
	Description string
}

// DateValue is a date stored either as a real datetime or as a raw string
// ("Jun 2022", "Present", ...). Exactly one of Time and Raw is set.
type DateValue struct {
	Time *time.Time
	Raw  string
}

// IsZero reports whether no date was supplied at all.
func (d DateValue) IsZero() bool {
	return d.Time == nil && d.Raw == ""
}

// Current reports whether this end date marks an ongoing position:
// absent entirely, or a raw string saying "present" in any case.
func (d DateValue) Current() bool {
	if d.IsZero() {
		return true
	}
	return d.Time == nil && strings.EqualFold(d.Raw, "present")
}

// DisplayName returns the precomposed full name when present, else
// first and last joined.
func (p PersonalInfo) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}
