package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	amountRegex  = regexp.MustCompile(`(\d+)`)
)

// relative units accepted in both English and French listings.
// a month is approximated as 30 days.
var relativeUnits = []struct {
	keywords []string
	unit     time.Duration
}{
	{[]string{"minute"}, time.Minute},
	{[]string{"hour", "heure"}, time.Hour},
	{[]string{"day", "jour"}, 24 * time.Hour},
	{[]string{"week", "semaine"}, 7 * 24 * time.Hour},
	{[]string{"month", "mois"}, 30 * 24 * time.Hour},
}

// ParsePostedDate converts a raw posted-date string into an absolute
// timestamp. It accepts RFC3339 / ISO date strings and relative forms like
// "3 days ago" or "il y a 2 semaines". Unparsable input falls back to now,
// with ok=false so callers can tell a real date from the approximation.
func ParsePostedDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, false
	}

	//ISO with time component
	if strings.Contains(raw, "T") {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, true
		}
	}

	//ISO date only "2026-01-27"
	if isoDateRegex.MatchString(raw) {
		if t, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return t, true
		}
	}

	//relative forms: find the amount, then the unit keyword
	lower := strings.ToLower(raw)
	if match := amountRegex.FindStringSubmatch(lower); match != nil {
		amount, err := strconv.Atoi(match[1])
		if err == nil {
			for _, ru := range relativeUnits {
				for _, kw := range ru.keywords {
					if strings.Contains(lower, kw) {
						return now.Add(-time.Duration(amount) * ru.unit), true
					}
				}
			}
		}
	}

	return now, false
}
