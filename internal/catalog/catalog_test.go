package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundledCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Bundled()
	require.NoError(t, err)
	return c
}

func ids(jobs []Job) []int {
	out := make([]int, len(jobs))
	for i, job := range jobs {
		out[i] = job.ID
	}
	return out
}

func TestBundledCatalogLoads(t *testing.T) {
	c := bundledCatalog(t)
	assert.Equal(t, 12, c.Len())
	assert.Len(t, c.Categories(), 8)

	job, err := c.Job(1)
	require.NoError(t, err)
	assert.Equal(t, "Senior Frontend Developer", job.Title)
	assert.Equal(t, "techcorp", job.Company.Slug)
	assert.Equal(t, "$120,000 - $160,000", job.SalaryLabel())
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), job.PostedAt.UTC())

	_, err = c.Job(999)
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestMissingSalaryRendersEmpty(t *testing.T) {
	c := bundledCatalog(t)
	job, err := c.Job(10)
	require.NoError(t, err)
	assert.Nil(t, job.Salary)
	assert.Equal(t, "", job.SalaryLabel())
	assert.Equal(t, "Not disclosed", job.SalaryOrUndisclosed())

	job, err = c.Job(1)
	require.NoError(t, err)
	assert.Equal(t, job.SalaryLabel(), job.SalaryOrUndisclosed())
}

func TestQuestionsFallBackToDefaults(t *testing.T) {
	c := bundledCatalog(t)
	job, _ := c.Job(1)
	qs := c.Questions(job)
	require.Len(t, qs, 3)
	assert.True(t, qs[0].Required)
	assert.False(t, qs[2].Required)

	intern, _ := c.Job(12)
	assert.Len(t, c.Questions(intern), 2)
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	doc := []byte(`
jobs:
  - {id: 1, title: A}
  - {id: 1, title: B}
`)
	_, err := Parse(doc)
	assert.ErrorContains(t, err, "duplicate id")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	doc := []byte(`
jobs:
  - id: 7
    title: Barista
    company: {name: Bean There}
    location: Portland, OR
`)
	require.NoError(t, os.WriteFile(path, doc, 0o644))
	c, err := Load(path)
	require.NoError(t, err)
	job, err := c.Job(7)
	require.NoError(t, err)
	assert.Equal(t, "bean", job.Company.Slug)
}

func TestApplyFilters(t *testing.T) {
	c := bundledCatalog(t)
	now := time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		filters Filters
		want    []int
	}{
		{name: "none", filters: Filters{}, want: ids(c.All())},
		{name: "keywords match tags", filters: Filters{Keywords: "aws"}, want: []int{4, 6}},
		{name: "keywords match company", filters: Filters{Keywords: "techcorp"}, want: []int{1, 12}},
		{name: "experience equality", filters: Filters{ExperienceLevel: "senior"}, want: []int{1, 4, 6}},
		{name: "job type", filters: Filters{JobType: "contract"}, want: []int{3}},
		{name: "location substring", filters: Filters{Location: "austin"}, want: []int{3, 9}},
		{name: "company slug", filters: Filters{Company: "cloudtech"}, want: []int{4}},
		{name: "category", filters: Filters{Category: "design"}, want: []int{3}},
		{name: "combined", filters: Filters{Keywords: "react", Location: "new york"}, want: []int{8}},
		{name: "posted this week", filters: Filters{DatePosted: "week"}, want: []int{1, 2, 3, 5, 6, 7}},
		{name: "salary band excludes undisclosed", filters: Filters{SalaryRange: "0-50k"}, want: []int{12}},
		{name: "salary open band", filters: Filters{SalaryRange: "150k+"}, want: []int{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Apply(c.All(), tc.filters, now))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFiltersToggleAndCount(t *testing.T) {
	f := Filters{}.Toggle(FilterExperience, "senior")
	assert.Equal(t, "senior", f.ExperienceLevel)
	assert.Equal(t, 1, f.ActiveCount())

	f = f.Toggle(FilterExperience, "entry")
	assert.Equal(t, "entry", f.ExperienceLevel)

	f = f.Toggle(FilterExperience, "entry")
	assert.True(t, f.IsZero())

	f = Filters{Keywords: "go"}.With(FilterCategory, " Engineering ").With(FilterSalary, "150k+")
	assert.Equal(t, "Engineering", f.Get(FilterCategory))
	assert.Equal(t, 3, f.ActiveCount())
	assert.True(t, f.Clear().IsZero())
}

func TestHomeSearch(t *testing.T) {
	c := bundledCatalog(t)
	got := ids(Search(c.All(), "developer", "san francisco"))
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Fatalf("Search mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, Search(c.All(), "", ""), c.Len())
}

func TestSortOrders(t *testing.T) {
	c := bundledCatalog(t)
	jobs := c.All()

	newest := Sort(jobs, SortNewest, "")
	assert.Equal(t, 2, newest[0].ID)

	high := Sort(jobs, SortSalaryHigh, "")
	assert.Equal(t, 1, high[0].ID)
	assert.Equal(t, 10, high[len(high)-1].ID, "undisclosed salary sorts last")

	low := Sort(jobs, SortSalaryLow, "")
	assert.Equal(t, 12, low[0].ID)
	assert.Equal(t, 10, low[len(low)-1].ID)

	relevant := Sort(jobs, SortRelevance, "")
	assert.True(t, relevant[0].Featured)

	fuzzy := Sort(jobs, SortRelevance, "devops")
	assert.Equal(t, 6, fuzzy[0].ID)
	assert.Len(t, fuzzy, len(jobs))
}

func TestSimilarPrefersCategory(t *testing.T) {
	c := bundledCatalog(t)
	similar := c.Similar(1, 3)
	require.Len(t, similar, 3)
	for _, job := range similar {
		assert.NotEqual(t, 1, job.ID)
		assert.Equal(t, "Technology", job.Category)
	}
}

func TestCompanyOptionsAreUnique(t *testing.T) {
	c := bundledCatalog(t)
	opts := c.CompanyOptions()
	seen := map[string]bool{}
	for _, opt := range opts {
		assert.False(t, seen[opt.Value], "duplicate %s", opt.Value)
		seen[opt.Value] = true
	}
	opt, ok := FindOption(opts, "techcorp")
	require.True(t, ok)
	assert.Equal(t, "TechCorp Solutions", opt.Label)
}

func TestOptionLabelDefaultsToValue(t *testing.T) {
	assert.Equal(t, Option{Value: "Remote", Label: "Remote"}, NewOption("Remote", ""))
	assert.Equal(t, []Option{{Value: "a", Label: "a"}, {Value: "b", Label: "b"}}, Options("a", "b"))
}
