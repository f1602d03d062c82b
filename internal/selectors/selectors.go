// Package selectors resolves semantic fields ("title", "company", ...) against
// page fragments through ordered fallback lists of CSS patterns. The source
// changes its markup regularly; keeping the patterns as data means surviving a
// layout change is a table edit, not a code change.
package selectors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rule is one structural pattern. When Attr is set the named attribute is
// returned instead of the node text.
type Rule struct {
	Query string
	Attr  string
}

// Fields known to the default table.
const (
	FieldJobCards    = "job_cards"
	FieldTitle       = "title"
	FieldCompany     = "company"
	FieldLocation    = "location"
	FieldTimePosted  = "time_posted"
	FieldLink        = "link"
	FieldDescription = "description"
)

// DefaultRules orders patterns from the current markup down to the oldest
// known generation. Order is load-bearing: the first non-empty match wins.
var DefaultRules = map[string][]Rule{
	FieldJobCards: {
		{Query: "div[data-job-id]"},
		{Query: ".job-search-card"},
		{Query: ".base-card"},
		{Query: "li[data-occludable-job-id]"},
	},
	FieldTitle: {
		{Query: "h3.base-search-card__title a"},
		{Query: ".job-search-card__title a"},
		{Query: "h4.job-search-card__title"},
		{Query: "a[data-control-name='job_search_job_title']"},
	},
	FieldCompany: {
		{Query: "h4.base-search-card__subtitle a"},
		{Query: ".job-search-card__company-name"},
		{Query: "a[data-control-name='job_search_company_name']"},
	},
	FieldLocation: {
		{Query: "span.job-search-card__location"},
		{Query: ".base-search-card__location"},
	},
	FieldTimePosted: {
		{Query: "time.job-search-card__listdate", Attr: "datetime"},
		{Query: ".job-search-card__listdate--new", Attr: "datetime"},
	},
	FieldLink: {
		{Query: "a.base-card__full-link", Attr: "href"},
		{Query: "a[href]", Attr: "href"},
	},
	FieldDescription: {
		{Query: "div.show-more-less-html__markup"},
		{Query: ".jobs-description__content"},
		{Query: ".job-details-description"},
	},
}

// Resolver evaluates a rule table against page fragments.
type Resolver struct {
	rules map[string][]Rule
}

// New returns a resolver over the given table; nil means DefaultRules.
func New(rules map[string][]Rule) *Resolver {
	if rules == nil {
		rules = DefaultRules
	}
	return &Resolver{rules: rules}
}

// Resolve tries each pattern registered for field in order and returns the
// trimmed text (or attribute value) of the first one matching a non-empty
// node. A miss on every pattern is a normal outcome, reported via ok=false.
func (r *Resolver) Resolve(sel *goquery.Selection, field string) (string, bool) {
	for _, rule := range r.rules[field] {
		found := sel.Find(rule.Query).First()
		if found.Length() == 0 {
			continue
		}
		var value string
		if rule.Attr != "" {
			value, _ = found.Attr(rule.Attr)
		} else {
			value = found.Text()
		}
		value = strings.TrimSpace(value)
		if value != "" {
			return value, true
		}
	}
	return "", false
}

// ResolveAll returns the matches of the first list-level pattern that yields
// at least one node. One pattern wins for the whole page so cards from
// different markup generations never mix.
func (r *Resolver) ResolveAll(sel *goquery.Selection, field string) *goquery.Selection {
	for _, rule := range r.rules[field] {
		found := sel.Find(rule.Query)
		if found.Length() > 0 {
			return found
		}
	}
	return nil
}
