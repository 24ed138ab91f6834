package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/jobboard/internal/catalog"
)

type detailTab int

const (
	tabDescription detailTab = iota
	tabCompany
	tabSimilar
	tabCount
)

func (t detailTab) String() string {
	switch t {
	case tabDescription:
		return "Job Description"
	case tabCompany:
		return "Company"
	case tabSimilar:
		return "Similar Jobs"
	}
	return ""
}

const (
	similarJobs  = 4
	sidebarWidth = 32
)

type detailView struct {
	app *App

	jobID int
	from  screen
	job   catalog.Job
	found bool

	tab      detailTab
	viewport viewport.Model
	similar  []catalog.Job
	cursor   int

	loading bool
	seq     int
	err     error
}

func newDetailView(app *App) *detailView {
	return &detailView{
		app:      app,
		viewport: viewport.New(60, 16),
	}
}

func (d *detailView) setSize(width, height int) {
	d.viewport.Width = max(30, width-sidebarWidth-20)
	d.viewport.Height = max(6, height-20)
	d.renderContent()
}

func (d *detailView) open(id int, from screen) {
	d.jobID = id
	d.from = from
	d.found = false
	d.tab = tabDescription
	d.cursor = 0
}

func (d *detailView) startLoading(seq int) {
	d.loading = true
	d.err = nil
	d.seq = seq
}

func (d *detailView) loaded(msg catalogLoadedMsg) {
	if msg.seq != d.seq {
		return
	}
	d.loading = false
	d.err = msg.err
	if msg.err != nil {
		return
	}
	job, err := d.app.catalog.Job(d.jobID)
	if err != nil {
		d.err = err
		return
	}
	d.job = job
	d.found = true
	d.similar = d.app.catalog.Similar(job.ID, similarJobs)
	d.renderContent()
}

func (d *detailView) renderContent() {
	if !d.found {
		return
	}
	var text string
	switch d.tab {
	case tabDescription:
		text = descriptionText(d.job)
	case tabCompany:
		text = fmt.Sprintf("**About %s**\n\n%s", d.job.Company.Name, d.job.Company.Description)
	default:
		return
	}
	d.viewport.SetContent(formatTextBlock(text, d.viewport.Width))
	d.viewport.GotoTop()
}

func descriptionText(job catalog.Job) string {
	var b strings.Builder
	b.WriteString(job.Description)
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n\n**%s**\n", title)
		for _, item := range items {
			fmt.Fprintf(&b, "%s %s\n", bullet, item)
		}
	}
	section("Requirements", job.Requirements)
	section("Benefits", job.Benefits)
	return b.String()
}

func (d *detailView) setTab(tab detailTab) {
	d.tab = tab
	d.cursor = 0
	d.renderContent()
}

func (d *detailView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, keys.Back) {
		return d.app.back()
	}
	if !d.found {
		if key.Matches(keyMsg, keys.Retry) && d.err != nil && !errors.Is(d.err, catalog.ErrJobNotFound) {
			return d.app.openDetail(d.jobID, d.from)
		}
		return nil
	}
	switch {
	case key.Matches(keyMsg, keys.Next), key.Matches(keyMsg, keys.Right):
		d.setTab((d.tab + 1) % tabCount)
		return nil
	case key.Matches(keyMsg, keys.Prev), key.Matches(keyMsg, keys.Left):
		d.setTab((d.tab + tabCount - 1) % tabCount)
		return nil
	case key.Matches(keyMsg, keys.Save):
		d.app.toggleSaved(d.job)
		return nil
	case key.Matches(keyMsg, keys.Apply):
		return d.app.openApply(d.job)
	}
	if d.tab == tabSimilar {
		switch {
		case key.Matches(keyMsg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(keyMsg, keys.Down):
			if d.cursor < len(d.similar)-1 {
				d.cursor++
			}
		case key.Matches(keyMsg, keys.Enter):
			if d.cursor < len(d.similar) {
				return d.app.openDetail(d.similar[d.cursor].ID, d.from)
			}
		}
		return nil
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

func (d *detailView) View() string {
	switch {
	case d.loading:
		return d.app.spinner.View() + " Loading job details..."
	case errors.Is(d.err, catalog.ErrJobNotFound):
		return titleStyle.Render("Job not found") + "\n" +
			mutedStyle.Render("The job you're looking for doesn't exist or has been removed.") + "\n\n" +
			hintStyle.Render("esc back to jobs")
	case d.err != nil:
		return errorStyle.Render("Could not load this job: "+d.err.Error()) + "\n\n" + hintStyle.Render("r retry · esc back")
	case !d.found:
		return ""
	}
	main := strings.Join([]string{d.renderHeader(), "", d.renderTabs(), "", d.renderTabBody()}, "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", d.renderSidebar())
}

func (d *detailView) renderHeader() string {
	title := titleStyle.Render(d.job.Title)
	if d.app.saved[d.job.ID] {
		title = savedStyle.Render("♥ ") + title
	}
	if badges := jobBadges(d.job); badges != "" {
		title += "  " + badges
	}
	return title + "\n" + mutedStyle.Render(jobMeta(d.job, d.app.clock()))
}

func (d *detailView) renderTabs() string {
	var tabs []string
	for t := tabDescription; t < tabCount; t++ {
		if t == d.tab {
			tabs = append(tabs, activeChipStyle.Render(t.String()))
		} else {
			tabs = append(tabs, chipStyle.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (d *detailView) renderTabBody() string {
	if d.tab != tabSimilar {
		return d.viewport.View()
	}
	if len(d.similar) == 0 {
		return mutedStyle.Render("No similar jobs right now.")
	}
	now := d.app.clock()
	var lines []string
	for i, job := range d.similar {
		prefix := "  "
		title := job.Title
		if i == d.cursor {
			prefix = cursorRowStyle.Render("› ")
			title = cursorRowStyle.Render(title)
		}
		lines = append(lines, prefix+title, "  "+mutedStyle.Render(truncate(jobMeta(job, now), d.viewport.Width)))
	}
	return strings.Join(lines, "\n")
}

func (d *detailView) renderSidebar() string {
	row := func(label, value string) string {
		return hintStyle.Render(label) + "\n" + titleStyle.Render(value)
	}
	experience := d.job.Experience
	if d.job.ExperienceYears != "" {
		experience = fmt.Sprintf("%s (%s)", experience, d.job.ExperienceYears)
	}
	rows := []string{
		accentStyle.Render("Job Overview"),
		row("Salary Range", d.job.SalaryOrUndisclosed()),
		row("Experience", experience),
		row("Employment Type", d.job.Type),
		row("Location", d.job.Location),
		row("Work Style", workStyle(d.job)),
		row("Posted", postedDate(d.job.PostedAt)),
	}
	apply := primaryButtonStyle.Render("Apply Now (a)")
	save := buttonStyle.Render("Save Job (s)")
	if d.app.saved[d.job.ID] {
		save = buttonStyle.Render("Saved ♥ (s)")
	}
	rows = append(rows, "", apply, save)
	return panelStyle.Width(sidebarWidth).Render(strings.Join(rows, "\n\n"))
}
