package linkedin

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-jobradar-automation/internal/models"
)

func TestBuildSearchURL_Deterministic(t *testing.T) {
	filters := models.Filters{ExperienceLevel: "entry", JobType: "full_time"}

	first := BuildSearchURL([]string{"golang", "backend"}, "Lyon, France", filters, 0)
	second := BuildSearchURL([]string{"golang", "backend"}, "Lyon, France", filters, 0)

	assert.Equal(t, first, second)
}

func TestBuildSearchURL_ParisMidSeniorScenario(t *testing.T) {
	addr := BuildSearchURL([]string{"python", "developer"}, "Paris, France",
		models.Filters{ExperienceLevel: "mid_senior"}, 0)

	assert.Contains(t, addr, "keywords=python+developer")
	assert.Contains(t, addr, "location=Paris%2C+France")
	assert.Contains(t, addr, "f_E=4")
}

func TestBuildSearchURL_PaginationStepsByPageSize(t *testing.T) {
	for page := 0; page < 4; page++ {
		addr := BuildSearchURL([]string{"golang"}, "", models.Filters{}, page*PageSize)
		assert.Contains(t, addr, fmt.Sprintf("start=%d", page*PageSize))
	}
}

func TestBuildSearchURL_AllRecognizedFilters(t *testing.T) {
	addr := BuildSearchURL(nil, "", models.Filters{
		ExperienceLevel: "director",
		JobType:         "contract",
		DatePosted:      "past_week",
		CompanySize:     "large",
	}, 50)

	assert.Contains(t, addr, "f_E=5")
	assert.Contains(t, addr, "f_JT=C")
	assert.Contains(t, addr, "f_TPR=r604800")
	assert.Contains(t, addr, "f_C=E%2CF%2CG")
	assert.Contains(t, addr, "sortBy=DD")
}

func TestBuildSearchURL_UnrecognizedFiltersOmitted(t *testing.T) {
	addr := BuildSearchURL([]string{"golang"}, "", models.Filters{
		ExperienceLevel: "wizard",
		JobType:         "gig",
		DatePosted:      "past_decade",
		CompanySize:     "mega",
	}, 0)

	assert.NotContains(t, addr, "f_E=")
	assert.NotContains(t, addr, "f_JT=")
	assert.NotContains(t, addr, "f_TPR=")
	assert.NotContains(t, addr, "f_C=")
}

func TestBuildSearchURL_EmptySearch(t *testing.T) {
	addr := BuildSearchURL(nil, "", models.Filters{}, 0)

	assert.Equal(t, "https://www.linkedin.com/jobs/search/?sortBy=DD&start=0", addr)
}
