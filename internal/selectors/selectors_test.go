package selectors

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fragment(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Selection
}

func TestResolve_FirstPatternWins(t *testing.T) {
	r := New(nil)
	sel := fragment(t, `
		<div class="job-search-card">
			<h3 class="base-search-card__title"><a>Backend Engineer</a></h3>
			<h4 class="job-search-card__title">Old Markup Title</h4>
		</div>`)

	got, ok := r.Resolve(sel, FieldTitle)
	assert.True(t, ok)
	assert.Equal(t, "Backend Engineer", got)
}

func TestResolve_FallsThroughToThirdPattern(t *testing.T) {
	r := New(nil)
	//only the third registered title pattern is present
	sel := fragment(t, `<div><h4 class="job-search-card__title">Data Engineer</h4></div>`)

	got, ok := r.Resolve(sel, FieldTitle)
	assert.True(t, ok)
	assert.Equal(t, "Data Engineer", got, "fallback order must be respected")
}

func TestResolve_SkipsEmptyNodes(t *testing.T) {
	r := New(nil)
	sel := fragment(t, `
		<div>
			<h3 class="base-search-card__title"><a>   </a></h3>
			<h4 class="job-search-card__title">Platform Engineer</h4>
		</div>`)

	got, ok := r.Resolve(sel, FieldTitle)
	assert.True(t, ok)
	assert.Equal(t, "Platform Engineer", got, "an empty match is a miss, not a result")
}

func TestResolve_AttributeRule(t *testing.T) {
	r := New(nil)
	sel := fragment(t, `<div><time class="job-search-card__listdate" datetime="2026-03-01">3 days ago</time></div>`)

	got, ok := r.Resolve(sel, FieldTimePosted)
	assert.True(t, ok)
	assert.Equal(t, "2026-03-01", got, "datetime attribute wins over display text")
}

func TestResolve_AllPatternsMiss(t *testing.T) {
	r := New(nil)
	sel := fragment(t, `<div><p>nothing relevant here</p></div>`)

	got, ok := r.Resolve(sel, FieldTitle)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestResolveAll_FirstNonEmptyListWins(t *testing.T) {
	r := New(nil)
	//two cards under the second-generation pattern, none under the first
	sel := fragment(t, `
		<main>
			<div class="job-search-card">a</div>
			<div class="job-search-card">b</div>
			<li data-occludable-job-id="1">legacy</li>
		</main>`)

	cards := r.ResolveAll(sel, FieldJobCards)
	require.NotNil(t, cards)
	assert.Equal(t, 2, cards.Length(), "layouts must not mix on one page")
}

func TestResolveAll_NoMatches(t *testing.T) {
	r := New(nil)
	assert.Nil(t, r.ResolveAll(fragment(t, `<div></div>`), FieldJobCards))
}
