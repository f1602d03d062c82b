package store

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey folds a key component: trim, collapse inner whitespace,
// lowercase and strip diacritics, so "Développeur  Go " and "developpeur go"
// dedup to the same record.
func NormalizeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

// JobKey is the normalized dedup key of a posting.
type JobKey struct {
	Title    string
	Company  string
	Location string
}

// KeyFor computes the dedup key for the raw tuple.
func KeyFor(title, company, location string) JobKey {
	return JobKey{
		Title:    NormalizeKey(title),
		Company:  NormalizeKey(company),
		Location: NormalizeKey(location),
	}
}
