package catalog

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// SortOrder selects how result lists are ordered.
type SortOrder string

const (
	SortRelevance  SortOrder = "relevance"
	SortNewest     SortOrder = "newest"
	SortSalaryHigh SortOrder = "salary-desc"
	SortSalaryLow  SortOrder = "salary-asc"
	SortCompany    SortOrder = "company"
)

// SortOptions are the results page sort choices.
func SortOptions() []Option {
	return []Option{
		NewOption(string(SortRelevance), "Most Relevant"),
		NewOption(string(SortNewest), "Newest First"),
		NewOption(string(SortSalaryHigh), "Salary: High to Low"),
		NewOption(string(SortSalaryLow), "Salary: Low to High"),
	}
}

// HomeSortOptions are the home page sort choices.
func HomeSortOptions() []Option {
	return []Option{
		NewOption(string(SortNewest), "Most Recent"),
		NewOption(string(SortSalaryHigh), "Salary: High to Low"),
		NewOption(string(SortSalaryLow), "Salary: Low to High"),
		NewOption(string(SortCompany), "Company A-Z"),
	}
}

type jobSource []Job

func (s jobSource) String(i int) string {
	job := s[i]
	return job.Title + " " + job.Company.Name + " " + strings.Join(job.Tags, " ")
}

func (s jobSource) Len() int { return len(s) }

// Sort returns a sorted copy of jobs. Relevance ranks fuzzy matches of
// keywords first; without keywords it puts featured listings first.
// Listings without a salary sort last in either salary order.
func Sort(jobs []Job, order SortOrder, keywords string) []Job {
	out := make([]Job, len(jobs))
	copy(out, jobs)
	switch order {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PostedAt.After(out[j].PostedAt) })
	case SortSalaryHigh:
		sort.SliceStable(out, func(i, j int) bool { return salaryKey(out[i], true) > salaryKey(out[j], true) })
	case SortSalaryLow:
		sort.SliceStable(out, func(i, j int) bool { return salaryKey(out[i], false) < salaryKey(out[j], false) })
	case SortCompany:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Company.Name) < strings.ToLower(out[j].Company.Name)
		})
	default:
		return sortRelevance(out, keywords)
	}
	return out
}

func sortRelevance(jobs []Job, keywords string) []Job {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].Featured && !jobs[j].Featured })
		return jobs
	}
	matches := fuzzy.FindFrom(keywords, jobSource(jobs))
	out := make([]Job, 0, len(jobs))
	used := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		out = append(out, jobs[m.Index])
		used[m.Index] = struct{}{}
	}
	for i, job := range jobs {
		if _, ok := used[i]; !ok {
			out = append(out, job)
		}
	}
	return out
}

func salaryKey(job Job, high bool) int {
	if job.Salary == nil {
		if high {
			return -1
		}
		return int(^uint(0) >> 1)
	}
	if high && job.Salary.Max > 0 {
		return job.Salary.Max
	}
	return job.Salary.Min
}
