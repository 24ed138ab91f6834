// Package catalog holds the in-memory job listings the board browses: the
// bundled YAML document, lookups, filtering, sorting and page math.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed jobs.yaml
var bundled []byte

// ErrJobNotFound is returned when a job id is not in the catalog.
var ErrJobNotFound = errors.New("catalog: job not found")

// Company describes the employer behind a listing.
type Company struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// SalaryRange is an annual range in US dollars.
type SalaryRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// String renders the range like "$120,000 - $160,000".
func (s SalaryRange) String() string {
	p := message.NewPrinter(language.English)
	if s.Max <= 0 || s.Max == s.Min {
		return p.Sprintf("$%d", s.Min)
	}
	return p.Sprintf("$%d - $%d", s.Min, s.Max)
}

// Question is a screening question attached to a job's application.
type Question struct {
	ID       int    `yaml:"id"`
	Text     string `yaml:"text"`
	Required bool   `yaml:"required"`
}

// Category is a popular-category chip on the home page.
type Category struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Count int    `yaml:"count"`
}

// Job is a single listing.
type Job struct {
	ID              int          `yaml:"id"`
	Title           string       `yaml:"title"`
	Company         Company      `yaml:"company"`
	Location        string       `yaml:"location"`
	Type            string       `yaml:"type"`
	Experience      string       `yaml:"experience"`
	ExperienceYears string       `yaml:"experience_years"`
	Category        string       `yaml:"category"`
	PostedAt        time.Time    `yaml:"posted"`
	Salary          *SalaryRange `yaml:"salary,omitempty"`
	Remote          bool         `yaml:"remote"`
	Featured        bool         `yaml:"featured"`
	Tags            []string     `yaml:"tags"`
	Summary         string       `yaml:"summary"`
	Description     string       `yaml:"description"`
	Requirements    []string     `yaml:"requirements"`
	Benefits        []string     `yaml:"benefits"`
	Questions       []Question   `yaml:"questions,omitempty"`
}

// SalaryLabel returns the formatted salary, or "" when the listing has none.
func (j Job) SalaryLabel() string {
	if j.Salary == nil {
		return ""
	}
	return j.Salary.String()
}

// SalaryOrUndisclosed is SalaryLabel with "Not disclosed" for listings
// without a salary.
func (j Job) SalaryOrUndisclosed() string {
	if salary := j.SalaryLabel(); salary != "" {
		return salary
	}
	return "Not disclosed"
}

type document struct {
	Categories       []Category `yaml:"categories"`
	DefaultQuestions []Question `yaml:"default_questions"`
	Jobs             []Job      `yaml:"jobs"`
}

// Catalog is an immutable set of listings. Accessors return copies.
type Catalog struct {
	jobs             []Job
	byID             map[int]int
	categories       []Category
	defaultQuestions []Question
}

// Bundled parses the listings compiled into the binary.
func Bundled() (*Catalog, error) {
	return Parse(bundled)
}

// Load reads a catalog document from disk. An empty path loads the bundled one.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Bundled()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	c := &Catalog{
		byID:             make(map[int]int, len(doc.Jobs)),
		categories:       doc.Categories,
		defaultQuestions: doc.DefaultQuestions,
	}
	for i, job := range doc.Jobs {
		if job.ID <= 0 {
			return nil, fmt.Errorf("catalog: jobs[%d]: id must be positive", i)
		}
		if strings.TrimSpace(job.Title) == "" {
			return nil, fmt.Errorf("catalog: job %d: title is required", job.ID)
		}
		if _, dup := c.byID[job.ID]; dup {
			return nil, fmt.Errorf("catalog: job %d: duplicate id", job.ID)
		}
		if job.Salary != nil && job.Salary.Max > 0 && job.Salary.Max < job.Salary.Min {
			return nil, fmt.Errorf("catalog: job %d: salary max below min", job.ID)
		}
		if job.Company.Slug == "" {
			job.Company.Slug = slugify(job.Company.Name)
		}
		c.byID[job.ID] = len(c.jobs)
		c.jobs = append(c.jobs, job)
	}
	return c, nil
}

// All returns every listing in document order.
func (c *Catalog) All() []Job {
	out := make([]Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// Len is the number of listings.
func (c *Catalog) Len() int {
	return len(c.jobs)
}

// Job looks up a listing by id.
func (c *Catalog) Job(id int) (Job, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %d", ErrJobNotFound, id)
	}
	return c.jobs[idx], nil
}

// Categories returns the home page category chips.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Questions returns the screening questions for a job, falling back to the
// catalog-wide defaults when the job declares none.
func (c *Catalog) Questions(job Job) []Question {
	src := job.Questions
	if len(src) == 0 {
		src = c.defaultQuestions
	}
	out := make([]Question, len(src))
	copy(out, src)
	return out
}

// Similar returns up to n other listings, preferring the same category and
// then the most shared tags.
func (c *Catalog) Similar(id int, n int) []Job {
	base, err := c.Job(id)
	if err != nil || n <= 0 {
		return nil
	}
	type scored struct {
		job   Job
		score int
	}
	var candidates []scored
	for _, job := range c.jobs {
		if job.ID == id {
			continue
		}
		score := sharedTags(base.Tags, job.Tags)
		if strings.EqualFold(job.Category, base.Category) {
			score += 10
		}
		if score == 0 {
			continue
		}
		candidates = append(candidates, scored{job: job, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]Job, len(candidates))
	for i, cand := range candidates {
		out[i] = cand.job
	}
	return out
}

func sharedTags(a, b []string) int {
	seen := make(map[string]struct{}, len(a))
	for _, tag := range a {
		seen[strings.ToLower(tag)] = struct{}{}
	}
	count := 0
	for _, tag := range b {
		if _, ok := seen[strings.ToLower(tag)]; ok {
			count++
		}
	}
	return count
}

func slugify(value string) string {
	fields := strings.Fields(strings.ToLower(value))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
