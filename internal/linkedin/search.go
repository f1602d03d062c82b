// Package linkedin knows the source's query-parameter encoding for job search.
package linkedin

import (
	"net/url"
	"strconv"
	"strings"

	"go-jobradar-automation/internal/models"
)

const (
	searchBaseURL = "https://www.linkedin.com/jobs/search/?"

	// PageSize is the number of results per page; the pagination offset moves
	// in steps of this size.
	PageSize = 25
)

// fixed enumeration tables mapping recognized filter values to the source's
// codes. Unrecognized values are dropped silently so new filter names coming
// from callers never break URL building.
var (
	experienceLevels = map[string]string{
		"internship": "1",
		"entry":      "2",
		"associate":  "3",
		"mid_senior": "4",
		"director":   "5",
		"executive":  "6",
	}

	jobTypes = map[string]string{
		"full_time":  "F",
		"part_time":  "P",
		"contract":   "C",
		"temporary":  "T",
		"internship": "I",
		"volunteer":  "V",
		"other":      "O",
	}

	datePosted = map[string]string{
		"past_24h":   "r86400",
		"past_week":  "r604800",
		"past_month": "r2592000",
	}

	companySizes = map[string]string{
		"startup": "A,B",
		"small":   "C",
		"medium":  "D",
		"large":   "E,F,G",
	}
)

// BuildSearchURL maps a search into the source's address for one result page.
// Pure: identical inputs always yield an identical address. start is the
// pagination offset and advances by PageSize between pages.
func BuildSearchURL(keywords []string, location string, filters models.Filters, start int) string {
	params := url.Values{}
	params.Set("start", strconv.Itoa(start))
	params.Set("sortBy", "DD")

	if len(keywords) > 0 {
		params.Set("keywords", strings.Join(keywords, " "))
	}
	if location != "" {
		params.Set("location", location)
	}
	if code, ok := experienceLevels[filters.ExperienceLevel]; ok {
		params.Set("f_E", code)
	}
	if code, ok := jobTypes[filters.JobType]; ok {
		params.Set("f_JT", code)
	}
	if code, ok := datePosted[filters.DatePosted]; ok {
		params.Set("f_TPR", code)
	}
	if code, ok := companySizes[filters.CompanySize]; ok {
		params.Set("f_C", code)
	}

	return searchBaseURL + params.Encode()
}
