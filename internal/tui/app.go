// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for the job board.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// The board has three screens (home, search, detail). The application
// wizard opens as a modal on top of the detail screen.

package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/jobboard/internal/application"
	"github.com/kingrea/jobboard/internal/catalog"
	"github.com/kingrea/jobboard/internal/config"
	"github.com/kingrea/jobboard/internal/logbook"
)

const logPanelLines = 6

// ErrSimulatedFailure is returned by the submitter when failures are forced.
var ErrSimulatedFailure = errors.New("simulated network failure")

// CatalogSource produces the listings for a simulated fetch.
type CatalogSource func() (*catalog.Catalog, error)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithConfigure adjusts the loaded configuration before anything uses it.
func WithConfigure(fn func(*config.Config) error) AppOption {
	return func(a *App) {
		if fn != nil {
			a.configure = append(a.configure, fn)
		}
	}
}

// WithCatalogSource replaces the catalog loader.
func WithCatalogSource(source CatalogSource) AppOption {
	return func(a *App) {
		if source != nil {
			a.source = source
		}
	}
}

// WithSubmitter replaces the simulated submission backend.
func WithSubmitter(submitter application.Submitter) AppOption {
	return func(a *App) {
		if submitter != nil {
			a.submitter = submitter
		}
	}
}

// WithSimulatedFailure makes every submission through the default
// simulator fail.
func WithSimulatedFailure() AppOption {
	return func(a *App) {
		a.failSubmit = true
	}
}

// WithClock injects a deterministic clock.
func WithClock(clock func() time.Time) AppOption {
	return func(a *App) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithStaticCursor disables cursor blinking, which keeps tests free of
// blink commands.
func WithStaticCursor() AppOption {
	return func(a *App) {
		a.cursorMode = cursor.CursorStatic
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config    *config.Config
	configure []func(*config.Config) error
	logbook   *logbook.Logbook

	source     CatalogSource
	catalog    *catalog.Catalog
	submitter  application.Submitter
	failSubmit bool
	clock      func() time.Time
	cursorMode cursor.Mode

	screen screen
	home   *homeView
	search *searchView
	detail *detailView
	apply  *applyView

	saved   map[int]bool
	help    help.Model
	spinner spinner.Model
	loadSeq int

	statusMsg string
	width     int
	height    int
}

// NewApp creates a new App rooted at workDir.
func NewApp(workDir string, opts ...AppOption) (*App, error) {
	app := &App{
		clock:      time.Now,
		cursorMode: cursor.CursorBlink,
		saved:      map[int]bool{},
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	cfg, err := config.New(workDir)
	if err != nil {
		return nil, err
	}
	for _, configure := range app.configure {
		if err := configure(cfg); err != nil {
			return nil, err
		}
	}
	app.config = cfg

	if app.source == nil {
		path := cfg.CatalogPath()
		app.source = func() (*catalog.Catalog, error) { return catalog.Load(path) }
	}
	if app.submitter == nil {
		sim := application.NewSimulator(
			application.WithDelay(cfg.SubmitLatency()),
			application.WithClock(app.clock),
		)
		if app.failSubmit {
			sim.FailWith(ErrSimulatedFailure)
		}
		app.submitter = sim
	}

	lb, err := logbook.New(cfg.JournalPath(), logbook.WithLevel(cfg.LogLevel()))
	if err == nil {
		app.logbook = lb
		lb.Info("Session opened · catalog: %s", catalogLabel(cfg.CatalogPath()))
	} else {
		app.statusMsg = fmt.Sprintf("Journal unavailable: %v", err)
	}

	app.home = newHomeView(app)
	app.search = newSearchView(app)
	app.detail = newDetailView(app)
	return app, nil
}

func catalogLabel(path string) string {
	if path == "" {
		return "bundled"
	}
	return path
}

// Close flushes and closes the session journal.
func (a *App) Close() error {
	if a.logbook == nil {
		return nil
	}
	a.logbook.Info("Session closed · %d saved job(s)", len(a.saved))
	return a.logbook.Close()
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.fetch(screenHome)
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.home.setSize(msg.Width, msg.Height)
		a.search.setSize(msg.Width, msg.Height)
		a.detail.setSize(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case catalogLoadedMsg:
		a.handleLoaded(msg)
		return a, nil

	case submitDoneMsg:
		a.handleSubmitted(msg.outcome)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.logInfo("Quit requested")
			return a, tea.Quit
		}
	}

	if a.apply != nil {
		return a, a.apply.Update(msg)
	}
	switch a.screen {
	case screenSearch:
		return a, a.search.Update(msg)
	case screenDetail:
		return a, a.detail.Update(msg)
	}
	return a, a.home.Update(msg)
}

func (a *App) busy() bool {
	if a.apply != nil && a.apply.busy() {
		return true
	}
	return a.home.loading || a.search.loading || a.detail.loading
}

// fetch starts a simulated catalog round trip for target. Each call
// supersedes earlier loads for the same screen.
func (a *App) fetch(target screen) tea.Cmd {
	a.loadSeq++
	seq := a.loadSeq
	switch target {
	case screenHome:
		a.home.startLoading(seq)
	case screenSearch:
		a.search.startLoading(seq)
	case screenDetail:
		a.detail.startLoading(seq)
	}
	source := a.source
	load := func() tea.Msg {
		c, err := source()
		return catalogLoadedMsg{target: target, seq: seq, catalog: c, err: err}
	}
	latency := a.config.LoadLatency()
	if latency <= 0 {
		return load
	}
	return tea.Batch(
		tea.Tick(latency, func(time.Time) tea.Msg { return load() }),
		a.spinner.Tick,
	)
}

func (a *App) handleLoaded(msg catalogLoadedMsg) {
	if msg.err != nil {
		a.logError("Loading %s failed: %v", msg.target, msg.err)
	} else {
		a.catalog = msg.catalog
		a.logbook.Debug("Loaded %d jobs for %s", msg.catalog.Len(), msg.target)
	}
	switch msg.target {
	case screenHome:
		a.home.loaded(msg)
	case screenSearch:
		a.search.loaded(msg)
	case screenDetail:
		a.detail.loaded(msg)
	}
}

func (a *App) submit(req application.SubmitRequest) tea.Cmd {
	submitter := a.submitter
	run := func() tea.Msg {
		result, err := submitter.Submit(context.Background(), req.Draft)
		return submitDoneMsg{outcome: req.Outcome(result, err)}
	}
	if a.config.SubmitLatency() <= 0 {
		return run
	}
	return tea.Batch(run, a.spinner.Tick)
}

func (a *App) handleSubmitted(out application.Outcome) {
	if a.apply == nil || a.apply.snap.SessionID != out.Session {
		a.logbook.Debug("Dropped submission outcome for closed session %s", out.Session)
		return
	}
	a.apply.complete(out)
	switch {
	case out.Err != nil:
		a.logError("Submission failed: %v", out.Err)
		a.statusMsg = "Submission failed. Press ctrl+n to try again."
	case a.apply.snap.Submitted():
		a.logInfo("Application submitted · ref %s", out.Result.ApplicationRef)
		a.statusMsg = "Application submitted: " + out.Result.ApplicationRef
	}
}

func (a *App) openSearch(filters catalog.Filters) tea.Cmd {
	a.screen = screenSearch
	a.search.reset(filters)
	a.logInfo("Search opened · %d filter(s)", filters.ActiveCount())
	return a.fetch(screenSearch)
}

func (a *App) openDetail(id int, from screen) tea.Cmd {
	if from == screenDetail {
		from = screenHome
	}
	a.screen = screenDetail
	a.detail.open(id, from)
	a.logInfo("Viewing job %d", id)
	return a.fetch(screenDetail)
}

func (a *App) back() tea.Cmd {
	switch a.screen {
	case screenDetail:
		a.screen = a.detail.from
	case screenSearch:
		a.screen = screenHome
	}
	return nil
}

func (a *App) openApply(job catalog.Job) tea.Cmd {
	if a.catalog == nil {
		return nil
	}
	view, cmd := newApplyView(a, job)
	a.apply = view
	a.logInfo("Application started for job %d · session %s", job.ID, view.snap.SessionID)
	return cmd
}

func (a *App) closeApply() tea.Cmd {
	if a.apply == nil {
		return nil
	}
	if !a.apply.snap.Submitted() {
		a.apply.dispatch(application.Close{})
		a.logInfo("Application closed without submitting · session %s", a.apply.snap.SessionID)
	}
	a.apply = nil
	return nil
}

func (a *App) toggleSaved(job catalog.Job) {
	if a.saved[job.ID] {
		delete(a.saved, job.ID)
		a.statusMsg = fmt.Sprintf("Removed %q from saved jobs", job.Title)
		a.logInfo("Unsaved job %d", job.ID)
		return
	}
	a.saved[job.ID] = true
	a.statusMsg = fmt.Sprintf("Saved %q", job.Title)
	a.logInfo("Saved job %d", job.ID)
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.screen {
	case screenSearch:
		content = a.search.View()
	case screenDetail:
		content = a.detail.View()
	default:
		content = a.home.View()
	}
	main := panelStyle.Width(max(40, width-4)).Render(content)
	if a.apply != nil {
		modal := a.apply.View()
		main = lipgloss.Place(
			max(width-2, lipgloss.Width(modal)),
			max(lipgloss.Height(main), lipgloss.Height(modal)),
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars("░"),
			lipgloss.WithWhitespaceForeground(colorBackdrop),
		)
	}
	return a.renderBoard(main)
}

func (a *App) renderBoard(main string) string {
	header := headerStyle.MarginBottom(1).Render("⬡ JOBBOARD")
	if n := len(a.saved); n > 0 {
		header += "  " + savedStyle.Render(fmt.Sprintf("♥ %d saved", n))
	}
	sections := []string{header, main}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, a.help.View(a.helpKeys()))
	if a.statusMsg != "" {
		sections = append(sections, mutedStyle.Render(a.statusMsg))
	}
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := accentStyle.Render(fmt.Sprintf("LOG · %s · %d entries", fileName, total))
	width := max(40, a.width-8)
	for i, line := range lines {
		lines[i] = truncate(line, width)
	}
	body := hintStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

// contextKeys adapts a binding list to help.KeyMap.
type contextKeys []key.Binding

func (k contextKeys) ShortHelp() []key.Binding  { return k }
func (k contextKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k} }

func (a *App) helpKeys() contextKeys {
	if a.apply != nil {
		if a.apply.snap.Submitted() {
			return contextKeys{keys.Enter, keys.Quit}
		}
		bindings := contextKeys{keys.Submit, keys.Previous, keys.Next, keys.Back}
		if a.apply.snap.Step == application.StepResume {
			bindings = append(bindings, keys.Browse, keys.Remove)
		}
		return append(bindings, keys.Quit)
	}
	switch a.screen {
	case screenSearch:
		bindings := contextKeys{keys.Next, keys.Up, keys.Down, keys.Toggle, keys.Left, keys.Right, keys.Sort, keys.Clear}
		if a.search.err != nil {
			bindings = append(bindings, keys.Retry)
		}
		return append(bindings, keys.Back, keys.Quit)
	case screenDetail:
		return contextKeys{keys.Next, keys.Up, keys.Down, keys.Save, keys.Apply, keys.Back, keys.Quit}
	}
	return contextKeys{keys.Next, keys.Up, keys.Down, keys.Left, keys.Right, keys.Enter, keys.Save, keys.Search, keys.Sort, keys.Quit}
}
