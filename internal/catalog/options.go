package catalog

import "strings"

// Option is a selectable value with a display label. Every select, dropdown
// and filter section works with this one shape.
type Option struct {
	Value string
	Label string
}

// NewOption builds an option, defaulting the label to the value.
func NewOption(value, label string) Option {
	value = strings.TrimSpace(value)
	if strings.TrimSpace(label) == "" {
		label = value
	}
	return Option{Value: value, Label: label}
}

// Options builds label-less options from plain values.
func Options(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, NewOption(v, ""))
	}
	return out
}

// FindOption returns the option carrying value.
func FindOption(opts []Option, value string) (Option, bool) {
	for _, opt := range opts {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// DatePostedOptions are the "Date Posted" filter choices.
func DatePostedOptions() []Option {
	return []Option{
		NewOption("today", "Today"),
		NewOption("week", "Past week"),
		NewOption("month", "Past month"),
		NewOption("anytime", "Anytime"),
	}
}

// ExperienceOptions are the "Experience Level" filter choices.
func ExperienceOptions() []Option {
	return []Option{
		NewOption("entry", "Entry level"),
		NewOption("mid-level", "Mid level"),
		NewOption("senior", "Senior level"),
		NewOption("executive", "Executive"),
		NewOption("internship", "Internship"),
	}
}

// SalaryOptions are the "Salary Range" filter choices.
func SalaryOptions() []Option {
	return []Option{
		NewOption("0-50k", "$0 - $50,000"),
		NewOption("50k-75k", "$50,000 - $75,000"),
		NewOption("75k-100k", "$75,000 - $100,000"),
		NewOption("100k-150k", "$100,000 - $150,000"),
		NewOption("150k+", "$150,000+"),
	}
}

// JobTypeOptions are the "Job Type" filter choices.
func JobTypeOptions() []Option {
	return []Option{
		NewOption("full-time", "Full-time"),
		NewOption("part-time", "Part-time"),
		NewOption("contract", "Contract"),
		NewOption("freelance", "Freelance"),
		NewOption("internship", "Internship"),
	}
}

// CompanyOptions lists every employer in the catalog, in first-seen order.
func (c *Catalog) CompanyOptions() []Option {
	seen := map[string]struct{}{}
	var out []Option
	for _, job := range c.jobs {
		if _, ok := seen[job.Company.Slug]; ok {
			continue
		}
		seen[job.Company.Slug] = struct{}{}
		out = append(out, NewOption(job.Company.Slug, job.Company.Name))
	}
	return out
}

// LocationOptions lists every distinct location, in first-seen order.
func (c *Catalog) LocationOptions() []Option {
	seen := map[string]struct{}{}
	var out []Option
	for _, job := range c.jobs {
		key := strings.ToLower(job.Location)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, NewOption(job.Location, ""))
	}
	return out
}
