package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"go-jobradar-automation/internal/models"
)

// Memory is an in-process Store with the same upsert semantics as Postgres.
// Maps are not safe for concurrent use, hence the mutex.
type Memory struct {
	mu       sync.Mutex
	jobs     map[JobKey]models.JobPosting
	sessions map[string]models.ScrapingSession
}

func NewMemory() *Memory {
	return &Memory{
		jobs:     make(map[JobKey]models.JobPosting),
		sessions: make(map[string]models.ScrapingSession),
	}
}

func (m *Memory) EnsureIndexes(ctx context.Context) error { return nil }

func (m *Memory) UpsertJob(ctx context.Context, job models.JobPosting) (UpsertResult, error) {
	key := KeyFor(job.Title, job.Company, job.Location)
	if key.Title == "" {
		return UpsertResult{}, errEmptyTitleKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, found := m.jobs[key]
	if found && sameContent(existing, job) {
		return UpsertResult{}, nil
	}
	m.jobs[key] = job
	if found {
		return UpsertResult{Modified: true}, nil
	}
	return UpsertResult{Inserted: true}, nil
}

// sameContent compares postings ignoring the scrape timestamps, mirroring the
// DISTINCT-FROM guard in the Postgres upsert: both sides are serialized to
// their stored document form with the volatile fields zeroed.
func sameContent(a, b models.JobPosting) bool {
	a.ScrapedAt, b.ScrapedAt = time.Time{}, time.Time{}
	a.UpdatedAt, b.UpdatedAt = time.Time{}, time.Time{}
	da, err := json.Marshal(a)
	if err != nil {
		return false
	}
	db, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(da, db)
}

func (m *Memory) FindJob(ctx context.Context, title, company, location string) (*models.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[KeyFor(title, company, location)]
	if !ok {
		return nil, ErrNotFound
	}
	out := job
	return &out, nil
}

func (m *Memory) CountJobs(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.jobs)), nil
}

func (m *Memory) CreateSession(ctx context.Context, session *models.ScrapingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (m *Memory) GetSession(ctx context.Context, id string) (*models.ScrapingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneSession(session)
	return &out, nil
}

func (m *Memory) UpdateSession(ctx context.Context, session *models.ScrapingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sessions[session.ID]
	if !ok {
		return ErrNotFound
	}
	if existing.Status.Terminal() && session.Status != existing.Status {
		return ErrTerminalStatus
	}
	m.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (m *Memory) ListSessions(ctx context.Context, userID string, limit int) ([]models.ScrapingSession, error) {
	if limit <= 0 {
		limit = 10
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var sessions []models.ScrapingSession
	for _, session := range m.sessions {
		if session.UserID == userID {
			sessions = append(sessions, cloneSession(session))
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func cloneSession(s models.ScrapingSession) models.ScrapingSession {
	if s.EndTime != nil {
		end := *s.EndTime
		s.EndTime = &end
	}
	if s.Errors != nil {
		errs := make([]models.SessionError, len(s.Errors))
		copy(errs, s.Errors)
		s.Errors = errs
	}
	return s
}
