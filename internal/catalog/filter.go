package catalog

import (
	"math"
	"strings"
	"time"
)

// FilterKey names one of the search filters.
type FilterKey string

const (
	FilterDatePosted FilterKey = "datePosted"
	FilterExperience FilterKey = "experienceLevel"
	FilterSalary     FilterKey = "salaryRange"
	FilterJobType    FilterKey = "jobType"
	FilterCompany    FilterKey = "company"
	FilterLocation   FilterKey = "location"
	FilterKeywords   FilterKey = "keywords"
	FilterCategory   FilterKey = "category"
)

// AccordionKeys are the filters shown as toggle sections, in display order.
var AccordionKeys = []FilterKey{
	FilterDatePosted,
	FilterExperience,
	FilterSalary,
	FilterJobType,
	FilterCompany,
}

// Filters is the full search state of the results page. The zero value
// matches everything.
type Filters struct {
	Keywords        string
	Location        string
	ExperienceLevel string
	JobType         string
	Company         string
	DatePosted      string
	SalaryRange     string
	Category        string
}

// Get returns the value stored under key.
func (f Filters) Get(key FilterKey) string {
	switch key {
	case FilterKeywords:
		return f.Keywords
	case FilterLocation:
		return f.Location
	case FilterExperience:
		return f.ExperienceLevel
	case FilterJobType:
		return f.JobType
	case FilterCompany:
		return f.Company
	case FilterDatePosted:
		return f.DatePosted
	case FilterSalary:
		return f.SalaryRange
	case FilterCategory:
		return f.Category
	}
	return ""
}

// With returns a copy with key set to value.
func (f Filters) With(key FilterKey, value string) Filters {
	value = strings.TrimSpace(value)
	switch key {
	case FilterKeywords:
		f.Keywords = value
	case FilterLocation:
		f.Location = value
	case FilterExperience:
		f.ExperienceLevel = value
	case FilterJobType:
		f.JobType = value
	case FilterCompany:
		f.Company = value
	case FilterDatePosted:
		f.DatePosted = value
	case FilterSalary:
		f.SalaryRange = value
	case FilterCategory:
		f.Category = value
	}
	return f
}

// Toggle selects value for key, or clears key when value is already selected.
func (f Filters) Toggle(key FilterKey, value string) Filters {
	if f.Get(key) == value {
		return f.With(key, "")
	}
	return f.With(key, value)
}

// ActiveCount is the number of non-empty filters.
func (f Filters) ActiveCount() int {
	count := 0
	for _, v := range []string{f.Keywords, f.Location, f.ExperienceLevel, f.JobType, f.Company, f.DatePosted, f.SalaryRange, f.Category} {
		if v != "" {
			count++
		}
	}
	return count
}

// Clear returns the zero Filters.
func (f Filters) Clear() Filters {
	return Filters{}
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.ActiveCount() == 0
}

// Apply returns the jobs matching every set filter, preserving order.
func Apply(jobs []Job, f Filters, now time.Time) []Job {
	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if f.Matches(job, now) {
			out = append(out, job)
		}
	}
	return out
}

// Matches reports whether job satisfies every set filter.
func (f Filters) Matches(job Job, now time.Time) bool {
	if kw := strings.ToLower(f.Keywords); kw != "" && !matchesKeywords(job, kw) {
		return false
	}
	if f.ExperienceLevel != "" && !strings.EqualFold(job.Experience, f.ExperienceLevel) {
		return false
	}
	if f.JobType != "" && !strings.EqualFold(job.Type, f.JobType) {
		return false
	}
	if f.Location != "" && !containsFold(job.Location, f.Location) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(job.Category, f.Category) {
		return false
	}
	if f.Company != "" && !strings.EqualFold(job.Company.Slug, f.Company) {
		return false
	}
	if f.DatePosted != "" && !postedWithin(job.PostedAt, f.DatePosted, now) {
		return false
	}
	if f.SalaryRange != "" && !salaryOverlaps(job.Salary, f.SalaryRange) {
		return false
	}
	return true
}

// Search is the home page query: title or company, plus location.
func Search(jobs []Job, query, location string) []Job {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if query != "" && !containsFold(job.Title, query) && !containsFold(job.Company.Name, query) {
			continue
		}
		if location != "" && !containsFold(job.Location, location) {
			continue
		}
		out = append(out, job)
	}
	return out
}

func matchesKeywords(job Job, kw string) bool {
	if containsFold(job.Title, kw) || containsFold(job.Company.Name, kw) {
		return true
	}
	for _, tag := range job.Tags {
		if containsFold(tag, kw) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func postedWithin(posted time.Time, window string, now time.Time) bool {
	if posted.IsZero() {
		return window == "anytime"
	}
	switch window {
	case "today":
		y1, m1, d1 := posted.Date()
		y2, m2, d2 := now.In(posted.Location()).Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case "week":
		return now.Sub(posted) <= 7*24*time.Hour
	case "month":
		return now.Sub(posted) <= 30*24*time.Hour
	}
	return true
}

// salaryBand parses option values like "50k-75k" or "150k+".
func salaryBand(value string) (int, int, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if strings.HasSuffix(value, "+") {
		lo, ok := parseThousands(strings.TrimSuffix(value, "+"))
		return lo, math.MaxInt32, ok
	}
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, ok1 := parseThousands(parts[0])
	hi, ok2 := parseThousands(parts[1])
	return lo, hi, ok1 && ok2
}

func parseThousands(value string) (int, bool) {
	value = strings.TrimSpace(value)
	mult := 1
	if strings.HasSuffix(value, "k") {
		mult = 1000
		value = strings.TrimSuffix(value, "k")
	}
	n := 0
	if value == "" {
		return 0, false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n * mult, true
}

func salaryOverlaps(s *SalaryRange, band string) bool {
	if s == nil {
		return false
	}
	lo, hi, ok := salaryBand(band)
	if !ok {
		return true
	}
	max := s.Max
	if max <= 0 {
		max = s.Min
	}
	return s.Min <= hi && max >= lo
}
