package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobradar-automation/internal/models"
)

func posting(title, company, location, description string) models.JobPosting {
	return models.JobPosting{
		Title:       title,
		Company:     company,
		Location:    location,
		Description: description,
		Source:      "linkedin",
		Status:      "active",
		ScrapedAt:   time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemory_UpsertInsertThenModify(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	res, err := m.UpsertJob(ctx, posting("Go Dev", "Acme", "Paris", "first"))
	require.NoError(t, err)
	assert.True(t, res.Inserted)
	assert.False(t, res.Modified)

	//same key, different content: exactly one record, second content wins
	res, err = m.UpsertJob(ctx, posting("Go Dev", "Acme", "Paris", "second"))
	require.NoError(t, err)
	assert.False(t, res.Inserted)
	assert.True(t, res.Modified)

	count, err := m.CountJobs(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	stored, err := m.FindJob(ctx, "Go Dev", "Acme", "Paris")
	require.NoError(t, err)
	assert.Equal(t, "second", stored.Description)
}

func TestMemory_UpsertIdenticalContentIsNoOp(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first := posting("Go Dev", "Acme", "Paris", "same")
	_, err := m.UpsertJob(ctx, first)
	require.NoError(t, err)

	//only the scrape timestamps differ
	second := first
	second.ScrapedAt = first.ScrapedAt.Add(time.Hour)
	second.UpdatedAt = first.UpdatedAt.Add(time.Hour)

	res, err := m.UpsertJob(ctx, second)
	require.NoError(t, err)
	assert.False(t, res.Inserted)
	assert.False(t, res.Modified)
}

func TestMemory_UpsertComparesListFields(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	posted := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	first := posting("Go Dev", "Acme", "Paris", "same")
	first.PostedAt = &posted
	first.Requirements = []string{"5 years of Go", "SQL"}
	first.Benefits = []string{"remote work three days a week"}

	_, err := m.UpsertJob(ctx, first)
	require.NoError(t, err)

	//identical lists, fresher scrape timestamp: still a no-op
	second := first
	second.ScrapedAt = first.ScrapedAt.Add(time.Hour)
	res, err := m.UpsertJob(ctx, second)
	require.NoError(t, err)
	assert.False(t, res.Inserted)
	assert.False(t, res.Modified)

	//a changed requirement is a content change
	third := first
	third.Requirements = []string{"5 years of Go", "Kubernetes"}
	res, err = m.UpsertJob(ctx, third)
	require.NoError(t, err)
	assert.True(t, res.Modified)

	stored, err := m.FindJob(ctx, "Go Dev", "Acme", "Paris")
	require.NoError(t, err)
	assert.Equal(t, []string{"5 years of Go", "Kubernetes"}, stored.Requirements)
}

func TestMemory_DedupKeyIsNormalized(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.UpsertJob(ctx, posting("Développeur Go", "Acme", "Paris", "a"))
	require.NoError(t, err)
	res, err := m.UpsertJob(ctx, posting("  developpeur   go ", "ACME", "paris", "b"))
	require.NoError(t, err)
	assert.True(t, res.Modified, "accent/case/whitespace variants hit the same record")

	count, _ := m.CountJobs(ctx)
	assert.EqualValues(t, 1, count)
}

func TestMemory_UpsertRejectsEmptyTitle(t *testing.T) {
	m := NewMemory()

	_, err := m.UpsertJob(context.Background(), posting("   ", "Acme", "Paris", "x"))
	assert.Error(t, err)
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	posted := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	in := posting("Platform Engineer", "Acme", "Remote, France", "desc")
	in.PostedAt = &posted
	in.Remote = true
	in.Requirements = []string{"go", "postgres"}
	in.Benefits = []string{"health insurance coverage"}
	in.SourceJobID = "123456"
	in.URL = "https://www.linkedin.com/jobs/view/123456"

	_, err := m.UpsertJob(ctx, in)
	require.NoError(t, err)

	out, err := m.FindJob(ctx, in.Title, in.Company, in.Location)
	require.NoError(t, err)
	assert.Equal(t, &in, out)
}

func TestMemory_FindJobMiss(t *testing.T) {
	m := NewMemory()

	_, err := m.FindJob(context.Background(), "Ghost", "Nowhere", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	session := &models.ScrapingSession{
		ID:        "s-1",
		UserID:    "u-1",
		Status:    models.StatusPending,
		StartTime: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, m.CreateSession(ctx, session))

	session.Status = models.StatusRunning
	session.Stats.JobsFound = 7
	require.NoError(t, m.UpdateSession(ctx, session))

	got, err := m.GetSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, got.Status)
	assert.Equal(t, 7, got.Stats.JobsFound)

	_, err = m.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = m.UpdateSession(ctx, &models.ScrapingSession{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdateSessionTerminalIsFinal(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	end := time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)
	session := &models.ScrapingSession{
		ID:        "s-1",
		UserID:    "u-1",
		Status:    models.StatusCancelled,
		StartTime: end.Add(-time.Hour),
		EndTime:   &end,
	}
	require.NoError(t, m.CreateSession(ctx, session))

	//no transitions out of a terminal state
	session.Status = models.StatusCompleted
	assert.ErrorIs(t, m.UpdateSession(ctx, session), ErrTerminalStatus)

	got, _ := m.GetSession(ctx, "s-1")
	assert.Equal(t, models.StatusCancelled, got.Status)

	//rewriting the same terminal status with richer stats is allowed
	session.Status = models.StatusCancelled
	session.Stats.PagesScraped = 2
	require.NoError(t, m.UpdateSession(ctx, session))

	got, _ = m.GetSession(ctx, "s-1")
	assert.Equal(t, 2, got.Stats.PagesScraped)
}

func TestMemory_ListSessionsOrderedAndLimited(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, m.CreateSession(ctx, &models.ScrapingSession{
			ID:        string(rune('a' + i)),
			UserID:    "u-1",
			Status:    models.StatusCompleted,
			StartTime: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, m.CreateSession(ctx, &models.ScrapingSession{
		ID: "other", UserID: "u-2", StartTime: base.Add(24 * time.Hour),
	}))

	sessions, err := m.ListSessions(ctx, "u-1", 3)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "e", sessions[0].ID, "newest first")
	assert.Equal(t, "d", sessions[1].ID)
	assert.Equal(t, "c", sessions[2].ID)
}
