// Package store persists job postings and scraping sessions. Postings are
// keyed by the normalized (title, company, location) tuple; the backing
// database enforces uniqueness on it, which makes concurrent sessions writing
// the same posting race safely (atomic upsert, last writer wins).
package store

import (
	"context"
	"errors"

	"go-jobradar-automation/internal/models"
)

// ErrNotFound is returned by lookups that miss.
var ErrNotFound = errors.New("not found")

// ErrTerminalStatus rejects a session update that would move a session out of
// a terminal status. Terminal states are final; rewriting the same terminal
// status (e.g. with richer stats) stays allowed.
var ErrTerminalStatus = errors.New("session already in a terminal status")

// errEmptyTitleKey marks a record whose dedup key collapses to nothing.
var errEmptyTitleKey = errors.New("job has empty title key")

// UpsertResult reports what an upsert actually did. Replacing a record with
// identical content sets neither flag.
type UpsertResult struct {
	Inserted bool
	Modified bool
}

// Store is the document-store surface the core needs. Postgres backs it in
// production; Memory backs it in tests.
type Store interface {
	EnsureIndexes(ctx context.Context) error

	UpsertJob(ctx context.Context, job models.JobPosting) (UpsertResult, error)
	FindJob(ctx context.Context, title, company, location string) (*models.JobPosting, error)
	CountJobs(ctx context.Context) (int64, error)

	CreateSession(ctx context.Context, session *models.ScrapingSession) error
	GetSession(ctx context.Context, id string) (*models.ScrapingSession, error)
	UpdateSession(ctx context.Context, session *models.ScrapingSession) error
	ListSessions(ctx context.Context, userID string, limit int) ([]models.ScrapingSession, error)
}
