package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/jobboard/internal/catalog"
)

type searchFocus int

const (
	searchFocusKeywords searchFocus = iota
	searchFocusLocation
	searchFocusFilters
	searchFocusResults
	searchFocusCount
)

var filterTitles = map[catalog.FilterKey]string{
	catalog.FilterDatePosted: "Date Posted",
	catalog.FilterExperience: "Experience Level",
	catalog.FilterSalary:     "Salary Range",
	catalog.FilterJobType:    "Job Type",
	catalog.FilterCompany:    "Company",
}

// filterRow is one line of the accordion: a section header when option is
// nil, otherwise a selectable option inside an expanded section.
type filterRow struct {
	key    catalog.FilterKey
	option *catalog.Option
}

type searchView struct {
	app *App

	keywords textinput.Model
	location textinput.Model
	focus    searchFocus

	filters   catalog.Filters
	expanded  map[catalog.FilterKey]bool
	filterRow int
	company   *dropdown
	sort      *dropdown

	results []catalog.Job
	page    int
	cursor  int

	loading bool
	seq     int
	err     error
}

func newSearchView(app *App) *searchView {
	keywords := textinput.New()
	keywords.Placeholder = "Search jobs"
	keywords.Prompt = "⌕ "
	keywords.Cursor.SetMode(app.cursorMode)
	location := textinput.New()
	location.Placeholder = "Location"
	location.Prompt = "⌖ "
	location.ShowSuggestions = true
	location.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("ctrl+y"))
	location.Cursor.SetMode(app.cursorMode)

	sort := newDropdown("Sort by", catalog.SortOptions(), app.cursorMode)
	sort.SetValue(string(catalog.SortRelevance))

	return &searchView{
		app:      app,
		keywords: keywords,
		location: location,
		focus:    searchFocusResults,
		expanded: map[catalog.FilterKey]bool{},
		company:  newDropdown("Company", nil, app.cursorMode, withSearch(), withPlaceholder("Any company")),
		sort:     sort,
		page:     1,
	}
}

func (s *searchView) setSize(width, _ int) {
	s.keywords.Width = max(20, width/2-8)
	s.location.Width = max(16, width/3-8)
}

// reset replaces the whole search state, as when arriving from another screen.
func (s *searchView) reset(filters catalog.Filters) {
	s.filters = filters
	s.keywords.SetValue(filters.Keywords)
	s.location.SetValue(filters.Location)
	s.company.SetValue(filters.Company)
	s.expanded = map[catalog.FilterKey]bool{}
	s.filterRow = 0
	s.focus = searchFocusResults
	s.keywords.Blur()
	s.location.Blur()
}

func (s *searchView) startLoading(seq int) {
	s.loading = true
	s.err = nil
	s.seq = seq
}

func (s *searchView) loaded(msg catalogLoadedMsg) {
	if msg.seq != s.seq {
		return
	}
	s.loading = false
	s.err = msg.err
	if msg.err != nil {
		s.results = nil
		return
	}
	s.company.SetOptions(s.app.catalog.CompanyOptions())
	var places []string
	for _, opt := range s.app.catalog.LocationOptions() {
		places = append(places, opt.Value)
	}
	s.location.SetSuggestions(places)
	s.recompute()
}

func (s *searchView) recompute() {
	if s.app.catalog == nil {
		s.results = nil
		return
	}
	matches := catalog.Apply(s.app.catalog.All(), s.filters, s.app.clock())
	s.results = catalog.Sort(matches, catalog.SortOrder(s.sort.Value()), s.filters.Keywords)
	s.page = 1
	s.cursor = 0
}

// apply commits a new filter set and refetches, the way a round trip to a
// search endpoint would.
func (s *searchView) apply(filters catalog.Filters) tea.Cmd {
	s.filters = filters
	s.page = 1
	s.cursor = 0
	s.app.logInfo("Search filters: %d active", filters.ActiveCount())
	return s.app.fetch(screenSearch)
}

func (s *searchView) clearAll() tea.Cmd {
	s.keywords.SetValue("")
	s.location.SetValue("")
	s.company.SetValue("")
	s.app.logInfo("Cleared all search filters")
	return s.apply(s.filters.Clear())
}

func (s *searchView) rows() []filterRow {
	var rows []filterRow
	for _, k := range catalog.AccordionKeys {
		rows = append(rows, filterRow{key: k})
		if !s.expanded[k] || k == catalog.FilterCompany {
			continue
		}
		for _, opt := range s.optionsFor(k) {
			opt := opt
			rows = append(rows, filterRow{key: k, option: &opt})
		}
	}
	return rows
}

func (s *searchView) optionsFor(k catalog.FilterKey) []catalog.Option {
	switch k {
	case catalog.FilterDatePosted:
		return catalog.DatePostedOptions()
	case catalog.FilterExperience:
		return catalog.ExperienceOptions()
	case catalog.FilterSalary:
		return catalog.SalaryOptions()
	case catalog.FilterJobType:
		return catalog.JobTypeOptions()
	case catalog.FilterCompany:
		if s.app.catalog != nil {
			return s.app.catalog.CompanyOptions()
		}
	}
	return nil
}

func (s *searchView) setFocus(focus searchFocus) tea.Cmd {
	s.focus = focus
	s.keywords.Blur()
	s.location.Blur()
	switch focus {
	case searchFocusKeywords:
		return s.keywords.Focus()
	case searchFocusLocation:
		return s.location.Focus()
	}
	return nil
}

func (s *searchView) pageBounds() (int, int) {
	return catalog.Paginate(len(s.results), s.page, s.app.config.ResultsPageSize())
}

func (s *searchView) selected() (catalog.Job, bool) {
	start, end := s.pageBounds()
	if start+s.cursor >= end {
		return catalog.Job{}, false
	}
	return s.results[start+s.cursor], true
}

func (s *searchView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmds []tea.Cmd
		var cmd tea.Cmd
		s.keywords, cmd = s.keywords.Update(msg)
		cmds = append(cmds, cmd)
		s.location, cmd = s.location.Update(msg)
		cmds = append(cmds, cmd)
		return tea.Batch(cmds...)
	}
	if s.company.IsOpen() {
		changed, cmd := s.company.Update(keyMsg)
		if changed {
			return s.apply(s.filters.With(catalog.FilterCompany, s.company.Value()))
		}
		return cmd
	}
	if s.sort.IsOpen() {
		changed, cmd := s.sort.Update(keyMsg)
		if changed {
			s.app.logInfo("Results sorted by %s", s.sort.Display())
			s.recompute()
		}
		return cmd
	}
	switch {
	case key.Matches(keyMsg, keys.Back):
		return s.app.back()
	case key.Matches(keyMsg, keys.Next):
		return s.setFocus((s.focus + 1) % searchFocusCount)
	case key.Matches(keyMsg, keys.Prev):
		return s.setFocus((s.focus + searchFocusCount - 1) % searchFocusCount)
	}
	switch s.focus {
	case searchFocusKeywords, searchFocusLocation:
		if keyMsg.Type == tea.KeyEnter {
			next := s.filters.
				With(catalog.FilterKeywords, s.keywords.Value()).
				With(catalog.FilterLocation, s.location.Value())
			s.setFocus(searchFocusResults)
			return s.apply(next)
		}
		var cmd tea.Cmd
		if s.focus == searchFocusKeywords {
			s.keywords, cmd = s.keywords.Update(msg)
		} else {
			s.location, cmd = s.location.Update(msg)
		}
		return cmd
	}
	switch {
	case key.Matches(keyMsg, keys.Retry) && s.err != nil:
		s.app.logInfo("Retrying search")
		return s.app.fetch(screenSearch)
	case key.Matches(keyMsg, keys.Clear):
		return s.clearAll()
	case key.Matches(keyMsg, keys.Sort):
		return s.sort.Open()
	}
	if s.focus == searchFocusFilters {
		return s.updateFilters(keyMsg)
	}
	return s.updateResults(keyMsg)
}

func (s *searchView) updateFilters(msg tea.KeyMsg) tea.Cmd {
	rows := s.rows()
	switch {
	case key.Matches(msg, keys.Up):
		if s.filterRow > 0 {
			s.filterRow--
		}
	case key.Matches(msg, keys.Down):
		if s.filterRow < len(rows)-1 {
			s.filterRow++
		}
	case key.Matches(msg, keys.Toggle):
		if s.filterRow >= len(rows) {
			return nil
		}
		row := rows[s.filterRow]
		if row.option != nil {
			return s.apply(s.filters.Toggle(row.key, row.option.Value))
		}
		if row.key == catalog.FilterCompany {
			return s.company.Open()
		}
		s.expanded[row.key] = !s.expanded[row.key]
	}
	return nil
}

func (s *searchView) updateResults(msg tea.KeyMsg) tea.Cmd {
	start, end := s.pageBounds()
	total := catalog.TotalPages(len(s.results), s.app.config.ResultsPageSize())
	switch {
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, keys.Down):
		if start+s.cursor < end-1 {
			s.cursor++
		}
	case key.Matches(msg, keys.Left):
		if s.page > 1 {
			s.page--
			s.cursor = 0
		}
	case key.Matches(msg, keys.Right):
		if s.page < total {
			s.page++
			s.cursor = 0
		}
	case key.Matches(msg, keys.Enter):
		if job, ok := s.selected(); ok {
			return s.app.openDetail(job.ID, screenSearch)
		}
	case key.Matches(msg, keys.Save):
		if job, ok := s.selected(); ok {
			s.app.toggleSaved(job)
		}
	}
	return nil
}

func (s *searchView) View() string {
	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		s.inputPanel(s.keywords.View(), s.focus == searchFocusKeywords),
		" ",
		s.inputPanel(s.location.View(), s.focus == searchFocusLocation),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		s.renderFilters(),
		"  ",
		s.renderResults(),
	)
	return strings.Join([]string{bar, "", body}, "\n")
}

func (s *searchView) inputPanel(content string, focused bool) string {
	if focused {
		return focusedPanelStyle.Render(content)
	}
	return panelStyle.Render(content)
}

func (s *searchView) renderFilters() string {
	head := accentStyle.Render("Filters")
	if n := s.filters.ActiveCount(); n > 0 {
		head += " " + warnStyle.Render(fmt.Sprintf("(%d)", n))
	}
	lines := []string{head}
	for i, row := range s.rows() {
		focused := s.focus == searchFocusFilters && i == s.filterRow
		var line string
		if row.option == nil {
			arrow := "▸"
			if s.expanded[row.key] {
				arrow = "▾"
			}
			line = fmt.Sprintf("%s %s", arrow, filterTitles[row.key])
			if row.key == catalog.FilterCompany {
				line = "▸ " + s.company.View()
			} else if value := s.filters.Get(row.key); value != "" {
				if opt, ok := catalog.FindOption(s.optionsFor(row.key), value); ok {
					line += mutedStyle.Render(" · " + opt.Label)
				}
			}
		} else {
			mark := "○"
			if s.filters.Get(row.key) == row.option.Value {
				mark = "●"
			}
			line = fmt.Sprintf("   %s %s", mark, row.option.Label)
		}
		if focused {
			line = cursorRowStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if s.filters.ActiveCount() > 0 {
		lines = append(lines, "", hintStyle.Render("c clear all"))
	}
	style := panelStyle
	if s.focus == searchFocusFilters {
		style = focusedPanelStyle
	}
	return style.Width(34).Render(strings.Join(lines, "\n"))
}

func (s *searchView) renderResults() string {
	head := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(plural(len(s.results), "job found", "jobs found")),
		"   ",
		s.sort.View(),
	)
	switch {
	case s.loading:
		return strings.Join([]string{
			titleStyle.Render("Searching..."),
			"",
			s.app.spinner.View() + mutedStyle.Render(" Loading results"),
			mutedStyle.Render(strings.Repeat("░", 36)),
			mutedStyle.Render(strings.Repeat("░", 28)),
			mutedStyle.Render(strings.Repeat("░", 32)),
		}, "\n")
	case s.err != nil:
		return strings.Join([]string{
			errorStyle.Render("Something went wrong"),
			mutedStyle.Render(s.err.Error()),
			"",
			hintStyle.Render("r try again"),
		}, "\n")
	case len(s.results) == 0:
		return strings.Join([]string{
			head,
			"",
			titleStyle.Render("No jobs found"),
			mutedStyle.Render("Try adjusting your search or filters to find what you're looking for."),
			"",
			hintStyle.Render("c clear all filters"),
		}, "\n")
	}
	lines := []string{head, ""}
	start, end := s.pageBounds()
	now := s.app.clock()
	for i, job := range s.results[start:end] {
		title := job.Title
		if s.app.saved[job.ID] {
			title = savedStyle.Render("♥ ") + title
		}
		if badges := jobBadges(job); badges != "" {
			title += "  " + badges
		}
		prefix := "  "
		if s.focus == searchFocusResults && i == s.cursor {
			prefix = cursorRowStyle.Render("› ")
			title = cursorRowStyle.Render(title)
		}
		lines = append(lines, prefix+title, "  "+mutedStyle.Render(truncate(jobMeta(job, now), 72)))
		if job.Summary != "" {
			lines = append(lines, "  "+hintStyle.Render(truncate(job.Summary, 72)))
		}
	}
	if pages := s.renderPages(); pages != "" {
		lines = append(lines, "", pages)
	}
	return strings.Join(lines, "\n")
}

func (s *searchView) renderPages() string {
	total := catalog.TotalPages(len(s.results), s.app.config.ResultsPageSize())
	if total <= 1 {
		return ""
	}
	var parts []string
	if s.page > 1 {
		parts = append(parts, hintStyle.Render("‹ Prev"))
	}
	for _, p := range catalog.PageWindow(s.page, total) {
		switch {
		case p == catalog.Ellipsis:
			parts = append(parts, mutedStyle.Render("…"))
		case p == s.page:
			parts = append(parts, accentStyle.Render(fmt.Sprintf("[%d]", p)))
		default:
			parts = append(parts, hintStyle.Render(fmt.Sprintf("%d", p)))
		}
	}
	if s.page < total {
		parts = append(parts, hintStyle.Render("Next ›"))
	}
	return strings.Join(parts, " ")
}
