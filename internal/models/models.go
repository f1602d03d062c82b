package models

import (
	"time"
)

type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusRunning   SessionStatus = "running"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
	StatusCancelled SessionStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

type ErrorKind string

const (
	ErrorKindNavigation  ErrorKind = "navigation"
	ErrorKindExtraction  ErrorKind = "extraction"
	ErrorKindPersistence ErrorKind = "persistence"
	ErrorKindOrchestrator ErrorKind = "orchestrator"
)

// SessionError is one recorded failure inside a session run. Page is zero
// for errors not tied to a specific page.
type SessionError struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	Page      int       `json:"page,omitempty"`
}

// SessionStats accumulates while a session is running and freezes once the
// session reaches a terminal status.
type SessionStats struct {
	PagesScraped int `json:"pages_scraped"`
	JobsFound    int `json:"jobs_found"`
	JobsSaved    int `json:"jobs_saved"`
	Duplicates   int `json:"duplicates"`
	ErrorsCount  int `json:"errors_count"`
}

// Filters are the recognized LinkedIn search refinements. Unknown values are
// tolerated by the URL builder and simply dropped from the query string.
type Filters struct {
	ExperienceLevel string `json:"experience_level,omitempty" yaml:"experience_level"`
	JobType         string `json:"job_type,omitempty" yaml:"job_type"`
	DatePosted      string `json:"date_posted,omitempty" yaml:"date_posted"`
	CompanySize     string `json:"company_size,omitempty" yaml:"company_size"`
}

type SearchParams struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Location string   `json:"location" yaml:"location"`
	MaxPages int      `json:"max_pages" yaml:"max_pages"`
	Filters  Filters  `json:"filters" yaml:"filters"`
}

// ScrapingSession is one end-to-end multi-page run. Mutated only by the
// session orchestrator; readers get copies.
type ScrapingSession struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Params    SearchParams   `json:"params"`
	Status    SessionStatus  `json:"status"`
	StartTime time.Time      `json:"start_time"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Stats     SessionStats   `json:"stats"`
	Errors    []SessionError `json:"errors,omitempty"`
}

// JobPosting is one normalized listing. Identity is the normalized
// (title, company, location) tuple; the store enforces uniqueness on it.
type JobPosting struct {
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Location        string     `json:"location"`
	Remote          bool       `json:"remote"`
	Urgent          bool       `json:"urgent"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
	URL             string     `json:"url"`
	SourceJobID     string     `json:"source_job_id,omitempty"`
	Description     string     `json:"description"`
	Requirements    []string   `json:"requirements,omitempty"`
	Benefits        []string   `json:"benefits,omitempty"`
	Salary          string     `json:"salary,omitempty"`
	JobType         string     `json:"job_type,omitempty"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	Views           int        `json:"views"`
	Applications    int        `json:"applications"`
	Source          string     `json:"source"`
	Status          string     `json:"status"`
	ScrapedAt       time.Time  `json:"scraped_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
