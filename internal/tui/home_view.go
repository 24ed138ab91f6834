package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/jobboard/internal/catalog"
)

type homeFocus int

const (
	homeFocusQuery homeFocus = iota
	homeFocusLocation
	homeFocusCategories
	homeFocusJobs
	homeFocusCount
)

// jobItem adapts a listing to bubbles/list.
type jobItem struct {
	job   catalog.Job
	saved bool
	meta  string
}

func (i jobItem) Title() string {
	title := i.job.Title
	if i.saved {
		title = "♥ " + title
	}
	if badges := jobBadges(i.job); badges != "" {
		title += "  " + badges
	}
	return title
}

func (i jobItem) Description() string { return i.meta }
func (i jobItem) FilterValue() string { return i.job.Title }

type homeView struct {
	app *App

	query    textinput.Model
	location textinput.Model
	focus    homeFocus
	category int

	jobs  []catalog.Job
	list  list.Model
	pager paginator.Model
	sort  *dropdown

	loading bool
	seq     int
	err     error
}

func newHomeView(app *App) *homeView {
	query := textinput.New()
	query.Placeholder = "Job title, keywords, or company"
	query.Prompt = "⌕ "
	query.Cursor.SetMode(app.cursorMode)
	location := textinput.New()
	location.Placeholder = "City, state, or remote"
	location.Prompt = "⌖ "
	location.Cursor.SetMode(app.cursorMode)

	jobs := list.New(nil, list.NewDefaultDelegate(), 80, app.config.HomePageSize()*3)
	jobs.SetShowTitle(false)
	jobs.SetShowHelp(false)
	jobs.SetShowStatusBar(false)
	jobs.SetShowPagination(false)
	jobs.SetFilteringEnabled(false)

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.PerPage = app.config.HomePageSize()
	pager.ActiveDot = accentStyle.Render("●")
	pager.InactiveDot = mutedStyle.Render("○")

	sort := newDropdown("Sort", catalog.HomeSortOptions(), app.cursorMode)
	sort.SetValue(string(catalog.SortNewest))

	return &homeView{
		app:      app,
		query:    query,
		location: location,
		focus:    homeFocusJobs,
		list:     jobs,
		pager:    pager,
		sort:     sort,
	}
}

func (h *homeView) setSize(width, height int) {
	h.query.Width = max(20, width/2-8)
	h.location.Width = max(16, width/3-8)
	h.list.SetSize(max(20, width-6), max(6, min(height-16, h.app.config.HomePageSize()*3)))
}

func (h *homeView) startLoading(seq int) {
	h.loading = true
	h.err = nil
	h.seq = seq
}

func (h *homeView) loaded(msg catalogLoadedMsg) {
	if msg.seq != h.seq {
		return
	}
	h.loading = false
	h.err = msg.err
	h.refresh()
}

// refresh recomputes the listing from the search inputs and sort order and
// resets to the first page.
func (h *homeView) refresh() {
	if h.app.catalog == nil {
		h.jobs = nil
	} else {
		matches := catalog.Search(h.app.catalog.All(), h.query.Value(), h.location.Value())
		h.jobs = catalog.Sort(matches, catalog.SortOrder(h.sort.Value()), "")
	}
	h.pager.Page = 0
	h.pager.SetTotalPages(len(h.jobs))
	h.syncPage()
}

func (h *homeView) syncPage() {
	start, end := catalog.Paginate(len(h.jobs), h.pager.Page+1, h.pager.PerPage)
	items := make([]list.Item, 0, end-start)
	now := h.app.clock()
	for _, job := range h.jobs[start:end] {
		items = append(items, jobItem{job: job, saved: h.app.saved[job.ID], meta: jobMeta(job, now)})
	}
	h.list.SetItems(items)
	h.list.Select(0)
}

func (h *homeView) selected() (catalog.Job, bool) {
	item, ok := h.list.SelectedItem().(jobItem)
	if !ok {
		return catalog.Job{}, false
	}
	return item.job, true
}

func (h *homeView) setFocus(focus homeFocus) tea.Cmd {
	h.focus = focus
	h.query.Blur()
	h.location.Blur()
	switch focus {
	case homeFocusQuery:
		return h.query.Focus()
	case homeFocusLocation:
		return h.location.Focus()
	}
	return nil
}

func (h *homeView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h.updateInputs(msg)
	}
	if h.sort.IsOpen() {
		changed, cmd := h.sort.Update(keyMsg)
		if changed {
			h.app.logInfo("Home sorted by %s", h.sort.Display())
			h.refresh()
		}
		return cmd
	}
	switch {
	case key.Matches(keyMsg, keys.Next):
		return h.setFocus((h.focus + 1) % homeFocusCount)
	case key.Matches(keyMsg, keys.Prev):
		return h.setFocus((h.focus + homeFocusCount - 1) % homeFocusCount)
	}
	switch h.focus {
	case homeFocusQuery, homeFocusLocation:
		if keyMsg.Type == tea.KeyEnter {
			return h.app.openSearch(catalog.Filters{
				Keywords: strings.TrimSpace(h.query.Value()),
				Location: strings.TrimSpace(h.location.Value()),
			})
		}
		return h.updateInputs(msg)
	case homeFocusCategories:
		return h.updateCategories(keyMsg)
	}
	return h.updateJobs(keyMsg)
}

func (h *homeView) updateInputs(msg tea.Msg) tea.Cmd {
	before := h.query.Value() + "\x00" + h.location.Value()
	var cmds []tea.Cmd
	var cmd tea.Cmd
	h.query, cmd = h.query.Update(msg)
	cmds = append(cmds, cmd)
	h.location, cmd = h.location.Update(msg)
	cmds = append(cmds, cmd)
	if h.query.Value()+"\x00"+h.location.Value() != before {
		h.refresh()
	}
	return tea.Batch(cmds...)
}

func (h *homeView) updateCategories(msg tea.KeyMsg) tea.Cmd {
	if h.app.catalog == nil {
		return nil
	}
	categories := h.app.catalog.Categories()
	switch {
	case key.Matches(msg, keys.Left):
		if h.category > 0 {
			h.category--
		}
	case key.Matches(msg, keys.Right):
		if h.category < len(categories)-1 {
			h.category++
		}
	case key.Matches(msg, keys.Enter):
		if h.category < len(categories) {
			return h.app.openSearch(catalog.Filters{Category: categories[h.category].Name})
		}
	}
	return nil
}

func (h *homeView) updateJobs(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		h.list.CursorUp()
	case key.Matches(msg, keys.Down):
		h.list.CursorDown()
	case key.Matches(msg, keys.Left):
		if h.pager.Page > 0 {
			h.pager.PrevPage()
			h.syncPage()
		}
	case key.Matches(msg, keys.Right):
		if !h.pager.OnLastPage() {
			h.pager.NextPage()
			h.syncPage()
		}
	case key.Matches(msg, keys.Enter):
		if job, ok := h.selected(); ok {
			return h.app.openDetail(job.ID, screenHome)
		}
	case key.Matches(msg, keys.Save):
		if job, ok := h.selected(); ok {
			h.app.toggleSaved(job)
			index := h.list.Index()
			h.syncPage()
			h.list.Select(index)
		}
	case key.Matches(msg, keys.Search):
		return h.app.openSearch(catalog.Filters{
			Keywords: strings.TrimSpace(h.query.Value()),
			Location: strings.TrimSpace(h.location.Value()),
		})
	case key.Matches(msg, keys.Sort):
		return h.sort.Open()
	}
	return nil
}

func (h *homeView) View() string {
	sections := []string{
		titleStyle.Render("Find your next role"),
		mutedStyle.Render("Search thousands of openings from companies hiring right now."),
		"",
		h.renderSearchBar(),
		"",
		h.renderCategories(),
		"",
	}
	sections = append(sections, h.renderJobs())
	return strings.Join(sections, "\n")
}

func (h *homeView) renderSearchBar() string {
	query := panelStyle
	if h.focus == homeFocusQuery {
		query = focusedPanelStyle
	}
	location := panelStyle
	if h.focus == homeFocusLocation {
		location = focusedPanelStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		query.Render(h.query.View()),
		" ",
		location.Render(h.location.View()),
	)
}

func (h *homeView) renderCategories() string {
	head := accentStyle.Render("Popular Categories")
	if h.app.catalog == nil {
		return head
	}
	var chips []string
	for i, category := range h.app.catalog.Categories() {
		label := fmt.Sprintf("%s %s %s", category.Icon, category.Name, mutedStyle.Render(fmt.Sprintf("(%d)", category.Count)))
		style := chipStyle
		if h.focus == homeFocusCategories && i == h.category {
			style = activeChipStyle
		}
		chips = append(chips, style.Render(label))
	}
	return head + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (h *homeView) renderJobs() string {
	head := lipgloss.JoinHorizontal(lipgloss.Top,
		accentStyle.Render("Featured Jobs"),
		"   ",
		h.sort.View(),
	)
	switch {
	case h.loading:
		return head + "\n\n" + h.app.spinner.View() + " Loading jobs..."
	case h.err != nil:
		return head + "\n\n" + errorStyle.Render("Could not load jobs: "+h.err.Error())
	case len(h.jobs) == 0:
		return head + "\n\n" + mutedStyle.Render("No jobs match your search.")
	}
	body := h.list.View()
	if h.focus != homeFocusJobs {
		body = mutedStyle.Render(body)
	}
	footer := mutedStyle.Render(fmt.Sprintf("%s  ", plural(len(h.jobs), "job", "jobs")))
	if h.pager.TotalPages > 1 {
		footer += h.pager.View()
	}
	return strings.Join([]string{head, "", body, footer}, "\n")
}
