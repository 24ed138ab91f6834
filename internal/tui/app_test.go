package tui

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/jobboard/internal/catalog"
	"github.com/kingrea/jobboard/internal/config"
)

var testNow = time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)

func TestInitLoadsFeaturedJobs(t *testing.T) {
	app := newTestApp(t)
	if app.home.loading {
		t.Fatalf("home should finish loading")
	}
	if got := len(app.home.jobs); got != 12 {
		t.Fatalf("expected 12 jobs, got %d", got)
	}
	if got := len(app.home.list.Items()); got != 9 {
		t.Fatalf("expected a first page of 9, got %d", got)
	}
	if app.home.pager.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", app.home.pager.TotalPages)
	}
	job, ok := app.home.selected()
	if !ok || job.ID != 2 {
		t.Fatalf("expected newest job 2 first, got %+v", job.ID)
	}
	view := app.View()
	for _, want := range []string{"JOBBOARD", "Featured Jobs", "Popular Categories", "LOG · session.log"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestHomePagingAndSort(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, "right")
	if app.home.pager.Page != 1 {
		t.Fatalf("expected second page, got %d", app.home.pager.Page)
	}
	if got := len(app.home.list.Items()); got != 3 {
		t.Fatalf("expected 3 jobs on the last page, got %d", got)
	}
	app = press(t, app, "right")
	if app.home.pager.Page != 1 {
		t.Fatalf("paging past the end should stay put, got %d", app.home.pager.Page)
	}

	app = press(t, app, "o", "down", "down", "down", "enter")
	if got := catalog.SortOrder(app.home.sort.Value()); got != catalog.SortCompany {
		t.Fatalf("expected company sort, got %s", got)
	}
	if app.home.pager.Page != 0 {
		t.Fatalf("sorting should reset to the first page")
	}
	names := make([]string, 0, len(app.home.jobs))
	for _, job := range app.home.jobs {
		names = append(names, job.Company.Name)
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("expected companies in order, got %v", names)
	}
}

func TestHomeQueryFiltersAndOpensSearch(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, "tab", "Designer")
	if app.home.focus != homeFocusQuery {
		t.Fatalf("expected query focus, got %d", app.home.focus)
	}
	if got := jobIDs(app.home.jobs); len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected only job 3 to match, got %v", got)
	}
	app = press(t, app, "enter")
	if app.screen != screenSearch {
		t.Fatalf("enter should open search, got %s", app.screen)
	}
	if app.search.filters.Keywords != "Designer" {
		t.Fatalf("expected keywords to carry over, got %q", app.search.filters.Keywords)
	}
}

func TestCategoryChipOpensFilteredSearch(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, "shift+tab", "right", "right", "enter")
	if app.screen != screenSearch {
		t.Fatalf("expected search screen, got %s", app.screen)
	}
	if app.search.filters.Category != "Design" {
		t.Fatalf("expected Design category, got %q", app.search.filters.Category)
	}
	if got := jobIDs(app.search.results); len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected job 3, got %v", got)
	}
	app = press(t, app, "esc")
	if app.screen != screenHome {
		t.Fatalf("esc should return home, got %s", app.screen)
	}
}

func TestSearchAccordionFilterAndClear(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, "/")
	if got := len(app.search.results); got != 12 {
		t.Fatalf("expected all 12 jobs, got %d", got)
	}
	// shift+tab from results lands on the filter panel; Date Posted is first.
	app = press(t, app, "shift+tab", "enter", "down", "down", " ")
	if app.search.filters.DatePosted != "week" {
		t.Fatalf("expected week filter, got %q", app.search.filters.DatePosted)
	}
	got := jobIDs(app.search.results)
	sort.Ints(got)
	want := []int{1, 2, 3, 5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if !strings.Contains(app.View(), "Filters (1)") {
		t.Fatalf("expected active filter count in view")
	}

	// Toggling the selected option again clears it.
	app = press(t, app, " ")
	if app.search.filters.DatePosted != "" {
		t.Fatalf("expected toggle to clear, got %q", app.search.filters.DatePosted)
	}

	app = press(t, app, " ", "c")
	if !app.search.filters.IsZero() {
		t.Fatalf("clear should reset every filter, got %+v", app.search.filters)
	}
	if got := len(app.search.results); got != 12 {
		t.Fatalf("expected all jobs after clear, got %d", got)
	}
}

func TestSearchCompanyDropdown(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, "/", "shift+tab")
	for i := 0; i < len(catalog.AccordionKeys)-1; i++ {
		app = press(t, app, "down")
	}
	app = press(t, app, "enter")
	if !app.search.company.IsOpen() {
		t.Fatalf("company dropdown should open")
	}
	app = press(t, app, "InnovateLabs", "enter")
	if app.search.company.IsOpen() {
		t.Fatalf("selecting should close the dropdown")
	}
	if app.search.filters.Company == "" {
		t.Fatalf("expected a company filter")
	}
	for _, job := range app.search.results {
		if job.Company.Name != "InnovateLabs" {
			t.Fatalf("unexpected company %q in results", job.Company.Name)
		}
	}
}

func TestSearchEmptyAndErrorStates(t *testing.T) {
	fail := false
	source := func() (*catalog.Catalog, error) {
		if fail {
			return nil, errors.New("catalog offline")
		}
		return catalog.Bundled()
	}
	app := newTestApp(t, WithCatalogSource(source))

	app = press(t, app, "/", "tab", "zzqqxx", "enter")
	if len(app.search.results) != 0 {
		t.Fatalf("expected no results, got %d", len(app.search.results))
	}
	if !strings.Contains(app.View(), "No jobs found") {
		t.Fatalf("expected empty state")
	}

	fail = true
	app = press(t, app, "c")
	if app.search.err == nil {
		t.Fatalf("expected error state")
	}
	if !strings.Contains(app.View(), "Something went wrong") {
		t.Fatalf("expected error view")
	}

	fail = false
	app = press(t, app, "r")
	if app.search.err != nil {
		t.Fatalf("retry should recover, got %v", app.search.err)
	}
	if got := len(app.search.results); got != 12 {
		t.Fatalf("expected 12 jobs after retry, got %d", got)
	}
}

func TestStaleLoadIsIgnored(t *testing.T) {
	app := newTestApp(t)
	app.search.startLoading(41)
	model, _ := app.Update(catalogLoadedMsg{target: screenSearch, seq: 40, err: errors.New("late")})
	app = model.(*App)
	if !app.search.loading || app.search.err != nil {
		t.Fatalf("superseded load should not settle the search screen")
	}
}

func TestDetailViewSidebarAndTabs(t *testing.T) {
	app := newTestApp(t)
	app = runCommands(t, app, app.openDetail(10, screenHome))
	if !app.detail.found {
		t.Fatalf("expected job 10 to load")
	}
	view := app.View()
	if !strings.Contains(view, "Not disclosed") {
		t.Fatalf("listing without salary should show Not disclosed")
	}
	app = runCommands(t, app, app.openDetail(1, screenHome))
	app = press(t, app, "tab")
	if app.detail.tab != tabCompany {
		t.Fatalf("expected company tab, got %s", app.detail.tab)
	}
	if !strings.Contains(app.View(), "About ") {
		t.Fatalf("company tab should render the about heading")
	}
	app = press(t, app, "tab", "enter")
	if app.detail.job.ID == 1 {
		t.Fatalf("enter on a similar job should open it")
	}
	app = press(t, app, "esc")
	if app.screen != screenHome {
		t.Fatalf("back from a similar job should return to the origin screen, got %s", app.screen)
	}
}

func TestDetailMissingJob(t *testing.T) {
	app := newTestApp(t)
	app = runCommands(t, app, app.openDetail(999, screenHome))
	if !errors.Is(app.detail.err, catalog.ErrJobNotFound) {
		t.Fatalf("expected not found, got %v", app.detail.err)
	}
	if !strings.Contains(app.View(), "Job not found") {
		t.Fatalf("expected not found view")
	}
}

func TestSaveToggle(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, "s")
	if !app.saved[2] {
		t.Fatalf("expected job 2 saved")
	}
	if !strings.Contains(app.View(), "♥ 1 saved") {
		t.Fatalf("header should count saved jobs")
	}
	app = press(t, app, "s")
	if app.saved[2] {
		t.Fatalf("second press should unsave")
	}
}

func TestQuit(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func newTestApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	dir := t.TempDir()
	if err := config.InitDataDir(dir); err != nil {
		t.Fatalf("init data dir: %v", err)
	}
	base := []AppOption{
		WithStaticCursor(),
		WithClock(func() time.Time { return testNow }),
		WithConfigure(func(cfg *config.Config) error {
			cfg.SetLatency(0, 0)
			return nil
		}),
	}
	app, err := NewApp(dir, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	app.Update(tea.WindowSizeMsg{Width: 200, Height: 60})
	return runCommands(t, app, app.Init())
}

// press feeds each key through Update and drains the resulting commands.
func press(t *testing.T, app *App, inputs ...string) *App {
	t.Helper()
	for _, input := range inputs {
		model, cmd := app.Update(keyMsg(input))
		app = runCommands(t, model, cmd)
	}
	return app
}

func keyMsg(input string) tea.KeyMsg {
	special := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEsc,
		"tab":       tea.KeyTab,
		"shift+tab": tea.KeyShiftTab,
		"up":        tea.KeyUp,
		"down":      tea.KeyDown,
		"left":      tea.KeyLeft,
		"right":     tea.KeyRight,
		"backspace": tea.KeyBackspace,
		" ":         tea.KeySpace,
		"ctrl+n":    tea.KeyCtrlN,
		"ctrl+p":    tea.KeyCtrlP,
		"ctrl+o":    tea.KeyCtrlO,
		"ctrl+x":    tea.KeyCtrlX,
	}
	if kt, ok := special[input]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(input)}
}

func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatalf("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, follow := app.Update(msg)
			app = updated.(*App)
			queue = append(queue, follow)
		}
	}
	return app
}

func jobIDs(jobs []catalog.Job) []int {
	ids := make([]int, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	return ids
}
