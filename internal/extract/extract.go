// Package extract turns one rendered search page into normalized job postings.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-jobradar-automation/internal/filter"
	"go-jobradar-automation/internal/models"
	"go-jobradar-automation/internal/selectors"
)

const (
	sourceName = "linkedin"
	sourceHost = "https://www.linkedin.com"
)

// jobIDPatterns derive the source-native identifier from a detail link,
// ordered from the canonical form down to a last-ditch trailing-number guess.
var jobIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/jobs/view/(\d+)`),
	regexp.MustCompile(`currentJobId=(\d+)`),
	regexp.MustCompile(`jobId=(\d+)`),
	regexp.MustCompile(`-(\d+)(?:\?|$)`),
}

// Extractor parses rendered markup into postings via the selector fallback
// tables and the keyword classifiers.
type Extractor struct {
	resolver   *selectors.Resolver
	classifier *filter.Classifier
}

// New builds an extractor; nil arguments select the defaults.
func New(resolver *selectors.Resolver, classifier *filter.Classifier) *Extractor {
	if resolver == nil {
		resolver = selectors.New(nil)
	}
	if classifier == nil {
		classifier = filter.NewClassifier(nil, nil)
	}
	return &Extractor{resolver: resolver, classifier: classifier}
}

// Extract returns every posting found on the page. Cards without a resolvable
// title are dropped, not errored. An empty result with a nil error means the
// page rendered fine but held no recognizable cards.
func (e *Extractor) Extract(html string, now time.Time) ([]models.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	cards := e.resolver.ResolveAll(doc.Selection, selectors.FieldJobCards)
	if cards == nil {
		return nil, nil
	}

	var jobs []models.JobPosting
	cards.Each(func(_ int, card *goquery.Selection) {
		if job, ok := e.extractCard(card, now); ok {
			jobs = append(jobs, job)
		}
	})
	return jobs, nil
}

func (e *Extractor) extractCard(card *goquery.Selection, now time.Time) (models.JobPosting, bool) {
	title, ok := e.resolver.Resolve(card, selectors.FieldTitle)
	if !ok {
		return models.JobPosting{}, false
	}

	job := models.JobPosting{
		Title:     title,
		Source:    sourceName,
		Status:    "active",
		ScrapedAt: now,
		UpdatedAt: now,
	}

	job.Company, _ = e.resolver.Resolve(card, selectors.FieldCompany)
	job.Location, _ = e.resolver.Resolve(card, selectors.FieldLocation)

	if raw, ok := e.resolver.Resolve(card, selectors.FieldTimePosted); ok {
		if t, parsed := filter.ParsePostedDate(raw, now); parsed {
			job.PostedAt = &t
		}
	}

	if href, ok := e.resolver.Resolve(card, selectors.FieldLink); ok {
		job.URL = absoluteURL(href)
		job.SourceJobID = extractJobID(job.URL)
	}

	cardText := job.Title + " " + job.Location
	job.Remote = e.classifier.IsRemote(cardText)
	job.Urgent = e.classifier.IsUrgent(job.Title)

	if desc, ok := e.resolver.Resolve(card, selectors.FieldDescription); ok {
		job.Description = desc
		job.Requirements = ExtractRequirements(desc)
		job.Benefits = ExtractBenefits(desc)
	}

	return job, true
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return sourceHost + href
}

func extractJobID(url string) string {
	for _, pattern := range jobIDPatterns {
		if match := pattern.FindStringSubmatch(url); match != nil {
			return match[1]
		}
	}
	return ""
}
