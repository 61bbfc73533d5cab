package models

import (
	"time"
)

type JobStatus string

const (
	StatusNew          JobStatus = "New"
	StatusThinking     JobStatus = "Thinking"
	StatusApplied      JobStatus = "Applied"
	StatusInterviewing JobStatus = "Interviewing"
	StatusRejected     JobStatus = "Rejected"
	StatusOffer        JobStatus = "Offer"
	StatusDeclined     JobStatus = "Declined"
	StatusIgnored      JobStatus = "Ignored"
)

// SearchSubscription is one user's recurring search. The scraper only ever
// reads these; creation/toggle/delete belongs to the web layer.
type SearchSubscription struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Keywords        string    `json:"keywords"`
	Location        string    `json:"location"`
	RemoteOnly      bool      `json:"is_remote"`
	ExperienceLevel *string   `json:"experience_level,omitempty"`
	Pages           int       `json:"pages"`
	Active          bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// JobRecord is a scraped posting as persisted per user.
type JobRecord struct {
	ID       string `json:"id,omitempty"`
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
	// DedupKey is the sha256 fingerprint of title+company+location,
	// unique per (user, source).
	DedupKey string    `json:"job_hash"`
	Source   string    `json:"source"`
	Status   JobStatus `json:"status"`

	SalaryMin       *int       `json:"salary_min,omitempty"`
	SalaryMax       *int       `json:"salary_max,omitempty"`
	Currency        string     `json:"currency,omitempty"`
	JobType         string     `json:"job_type,omitempty"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	WorkArrangement string     `json:"work_arrangement,omitempty"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
	ApplicantCount  *int       `json:"applicant_count,omitempty"`
	EasyApply       bool       `json:"easy_apply,omitempty"`

	Description    string   `json:"description,omitempty"`
	AISummary      string   `json:"ai_summary,omitempty"`
	AIRequirements []string `json:"ai_requirements,omitempty"`

	Notes     string     `json:"notes,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// RawFragment is one unparsed listing card straight off a search results
// page. Any field may be empty; the normalizer decides what survives.
// Fragments are never persisted.
type RawFragment struct {
	Title        string
	Subtitle     string //company line
	LocationText string
	SalaryText   string
	PostedText   string
	MetadataText string //seniority / job type / applicant blurbs, site dependent
	URL          string
	ExternalID   string
}
