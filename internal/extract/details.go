package extract

import (
	"regexp"
	"strings"
)

const (
	maxRequirements = 10
	maxBenefits     = 5
)

// requirementPatterns pull likely requirement lines out of free-form
// description text. Best effort only.
var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)required?:?\s*(.+?)$`),
	regexp.MustCompile(`(?im)must have:?\s*(.+?)$`),
	regexp.MustCompile(`(?im)qualifications?:?\s*(.+?)$`),
	regexp.MustCompile(`(?im)experience:?\s*(.+?)$`),
}

var benefitKeywords = []string{
	"health insurance", "assurance santé", "401k", "vacation",
	"remote work", "flexible hours", "bonus", "stock options",
	"formation", "training", "development", "congés",
}

var sentenceSplit = regexp.MustCompile(`[.!?]`)

// ExtractRequirements scans a description for requirement-looking lines.
func ExtractRequirements(description string) []string {
	var requirements []string
	for _, pattern := range requirementPatterns {
		for _, match := range pattern.FindAllStringSubmatch(description, -1) {
			text := strings.TrimSpace(match[1])
			if len(text) > 10 && len(text) < 200 {
				requirements = append(requirements, text)
			}
			if len(requirements) >= maxRequirements {
				return requirements
			}
		}
	}
	return requirements
}

// ExtractBenefits returns sentences of the description that mention a known
// benefit keyword.
func ExtractBenefits(description string) []string {
	var benefits []string
	for _, sentence := range sentenceSplit.Split(description, -1) {
		lower := strings.ToLower(sentence)
		for _, kw := range benefitKeywords {
			if strings.Contains(lower, kw) {
				cleaned := strings.TrimSpace(sentence)
				if len(cleaned) > 20 && len(cleaned) < 150 {
					benefits = append(benefits, cleaned)
				}
				break
			}
		}
		if len(benefits) >= maxBenefits {
			break
		}
	}
	return benefits
}
