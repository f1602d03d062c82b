package filter

import "strings"

// default keyword sets for the remote/urgent classifiers. The sets are
// bilingual (EN/FR) because the source mixes both. Config can override them.
var (
	defaultRemoteKeywords = []string{
		"remote", "télétravail", "teletravail", "home office", "work from home",
		"distributed", "anywhere", "telecommute", "virtual",
	}
	defaultUrgentKeywords = []string{
		"urgent", "asap", "immediately", "immédiat", "immediat",
		"quickly", "fast", "emergency", "prioritaire",
	}
)

// Classifier holds the keyword sets used to flag postings. The zero value is
// not usable; build one with NewClassifier.
type Classifier struct {
	remote []string
	urgent []string
}

// NewClassifier builds a classifier from the given keyword sets. Empty slices
// fall back to the built-in defaults.
func NewClassifier(remote, urgent []string) *Classifier {
	if len(remote) == 0 {
		remote = defaultRemoteKeywords
	}
	if len(urgent) == 0 {
		urgent = defaultUrgentKeywords
	}
	return &Classifier{remote: lowerAll(remote), urgent: lowerAll(urgent)}
}

// IsRemote reports whether the text mentions remote work.
func (c *Classifier) IsRemote(text string) bool {
	return containsAny(strings.ToLower(text), c.remote)
}

// IsUrgent reports whether the text signals an urgent opening.
func (c *Classifier) IsUrgent(text string) bool {
	return containsAny(strings.ToLower(text), c.urgent)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
