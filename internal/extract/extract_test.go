package extract

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func page(cards ...string) string {
	html := "<html><body><main>"
	for _, c := range cards {
		html += c
	}
	return html + "</main></body></html>"
}

func card(title, company, location, datetime, href string) string {
	return fmt.Sprintf(`
		<div class="job-search-card">
			<h3 class="base-search-card__title"><a>%s</a></h3>
			<h4 class="base-search-card__subtitle"><a>%s</a></h4>
			<span class="job-search-card__location">%s</span>
			<time class="job-search-card__listdate" datetime="%s">posted</time>
			<a class="base-card__full-link" href="%s">view</a>
		</div>`, title, company, location, datetime, href)
}

func TestExtract_FullCard(t *testing.T) {
	e := New(nil, nil)
	html := page(card("Go Developer", "Acme", "Paris, France", "2026-03-10", "/jobs/view/4012345678"))

	jobs, err := e.Extract(html, now)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "Go Developer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "Paris, France", job.Location)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/4012345678", job.URL)
	assert.Equal(t, "4012345678", job.SourceJobID)
	require.NotNil(t, job.PostedAt)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *job.PostedAt)
	assert.Equal(t, "linkedin", job.Source)
	assert.Equal(t, "active", job.Status)
	assert.Equal(t, now, job.ScrapedAt)
	assert.Zero(t, job.Views)
	assert.Zero(t, job.Applications)
}

func TestExtract_DropsCardsWithoutTitle(t *testing.T) {
	e := New(nil, nil)
	html := page(
		card("Kept Job", "Acme", "Lyon", "2026-03-01", "/jobs/view/1"),
		`<div class="job-search-card"><span class="job-search-card__location">Nice</span></div>`,
	)

	jobs, err := e.Extract(html, now)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Kept Job", jobs[0].Title)
}

func TestExtract_EveryRecordHasTitle(t *testing.T) {
	e := New(nil, nil)
	html := page(
		card("A", "x", "y", "2026-03-01", "/jobs/view/1"),
		card("", "x", "y", "2026-03-01", "/jobs/view/2"),
		card("B", "x", "y", "2026-03-01", "/jobs/view/3"),
	)

	jobs, err := e.Extract(html, now)
	require.NoError(t, err)
	for _, job := range jobs {
		assert.NotEmpty(t, job.Title)
	}
	assert.Len(t, jobs, 2)
}

func TestExtract_NoCards(t *testing.T) {
	e := New(nil, nil)

	jobs, err := e.Extract("<html><body><main><p>No results</p></main></body></html>", now)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestExtract_RemoteAndUrgentClassification(t *testing.T) {
	e := New(nil, nil)
	html := page(
		card("URGENT Backend Dev", "Acme", "Remote, France", "2026-03-01", "/jobs/view/1"),
		card("Office Manager", "Acme", "Paris", "2026-03-01", "/jobs/view/2"),
	)

	jobs, err := e.Extract(html, now)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.True(t, jobs[0].Remote)
	assert.True(t, jobs[0].Urgent)
	assert.False(t, jobs[1].Remote)
	assert.False(t, jobs[1].Urgent)
}

func TestExtract_UnparsableDateLeavesPostedAtNil(t *testing.T) {
	e := New(nil, nil)
	html := page(card("Dev", "Acme", "Paris", "whenever", "/jobs/view/1"))

	jobs, err := e.Extract(html, now)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Nil(t, jobs[0].PostedAt)
}

func TestExtractJobID_PatternOrder(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.linkedin.com/jobs/view/123456", "123456"},
		{"https://www.linkedin.com/jobs/search/?currentJobId=777888", "777888"},
		{"https://example.com/postings?jobId=42", "42"},
		{"https://www.linkedin.com/jobs/go-developer-987654?refId=abc", "987654"},
		{"https://www.linkedin.com/jobs/no-id-here", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, extractJobID(tt.url), "url %s", tt.url)
	}
}

func TestExtractRequirements(t *testing.T) {
	desc := "Qualifications: 5 years building Go services\nRequired: solid PostgreSQL experience\nWe are nice people."

	reqs := ExtractRequirements(desc)
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs, "solid PostgreSQL experience")
	assert.Contains(t, reqs, "5 years building Go services")
}

func TestExtractBenefits(t *testing.T) {
	desc := "You will write Go all day. We offer health insurance and a yearly training budget. Cats welcome!"

	benefits := ExtractBenefits(desc)
	require.Len(t, benefits, 1)
	assert.Contains(t, benefits[0], "health insurance")
}
