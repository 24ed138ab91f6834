package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/kingrea/jobboard/internal/catalog"
)

const dropdownVisible = 6

// dropdown is a single select over catalog options with optional
// type-to-search.
type dropdown struct {
	label       string
	placeholder string
	options     []catalog.Option
	searchable  bool

	open     bool
	cursor   int
	search   textinput.Model
	selected string
}

type dropdownOption func(*dropdown)

func withSearch() dropdownOption {
	return func(d *dropdown) { d.searchable = true }
}

func withPlaceholder(text string) dropdownOption {
	return func(d *dropdown) { d.placeholder = text }
}

func newDropdown(label string, options []catalog.Option, mode cursor.Mode, opts ...dropdownOption) *dropdown {
	search := textinput.New()
	search.Prompt = "⌕ "
	search.Placeholder = "Type to search"
	search.Cursor.SetMode(mode)
	d := &dropdown{
		label:       label,
		placeholder: "Select an option",
		options:     options,
		search:      search,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *dropdown) Open() tea.Cmd {
	d.open = true
	d.cursor = 0
	d.search.SetValue("")
	if d.searchable {
		return d.search.Focus()
	}
	return nil
}

func (d *dropdown) Close() {
	d.open = false
	d.search.Blur()
	d.search.SetValue("")
}

func (d *dropdown) IsOpen() bool { return d.open }

// Value is the selection, or "".
func (d *dropdown) Value() string {
	return d.selected
}

func (d *dropdown) SetValue(value string) {
	d.selected = value
}

func (d *dropdown) SetOptions(options []catalog.Option) {
	d.options = options
	d.cursor = 0
}

// Display is the closed-state label: the selected option's label or the
// placeholder.
func (d *dropdown) Display() string {
	value := d.Value()
	if value == "" {
		return d.placeholder
	}
	if opt, ok := catalog.FindOption(d.options, value); ok {
		return opt.Label
	}
	return value
}

type optionLabels []catalog.Option

func (o optionLabels) String(i int) string { return o[i].Label }
func (o optionLabels) Len() int            { return len(o) }

// Visible lists the options matching the search term, best match first.
func (d *dropdown) Visible() []catalog.Option {
	term := strings.TrimSpace(d.search.Value())
	if !d.searchable || term == "" {
		return d.options
	}
	matches := fuzzy.FindFrom(term, optionLabels(d.options))
	out := make([]catalog.Option, 0, len(matches))
	for _, m := range matches {
		out = append(out, d.options[m.Index])
	}
	return out
}

// Update handles a key while the dropdown is open and reports whether the
// selection changed.
func (d *dropdown) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !d.open {
		return false, nil
	}
	visible := d.Visible()
	switch msg.String() {
	case "esc":
		d.Close()
		return false, nil
	case "up", "ctrl+p":
		if d.cursor > 0 {
			d.cursor--
		}
		return false, nil
	case "down", "ctrl+n":
		if d.cursor < len(visible)-1 {
			d.cursor++
		}
		return false, nil
	case "enter":
		return d.choose(visible), nil
	}
	if !d.searchable {
		switch msg.String() {
		case "k":
			if d.cursor > 0 {
				d.cursor--
			}
		case "j":
			if d.cursor < len(visible)-1 {
				d.cursor++
			}
		}
		return false, nil
	}
	var cmd tea.Cmd
	d.search, cmd = d.search.Update(msg)
	d.cursor = 0
	return false, cmd
}

func (d *dropdown) choose(visible []catalog.Option) bool {
	if d.cursor < 0 || d.cursor >= len(visible) {
		return false
	}
	d.selected = visible[d.cursor].Value
	d.Close()
	return true
}

func (d *dropdown) View() string {
	arrow := "▾"
	if d.open {
		arrow = "▴"
	}
	display := d.Display()
	style := titleStyle
	if display == d.placeholder {
		style = mutedStyle
	}
	head := fmt.Sprintf("%s %s %s", hintStyle.Render(d.label+":"), style.Render(display), mutedStyle.Render(arrow))
	if !d.open {
		return head
	}
	lines := []string{head}
	if d.searchable {
		lines = append(lines, "  "+d.search.View())
	}
	visible := d.Visible()
	if len(visible) == 0 {
		lines = append(lines, mutedStyle.Render("  No options found"))
		return strings.Join(lines, "\n")
	}
	start := 0
	if d.cursor >= dropdownVisible {
		start = d.cursor - dropdownVisible + 1
	}
	end := min(len(visible), start+dropdownVisible)
	for i := start; i < end; i++ {
		opt := visible[i]
		mark := " "
		if opt.Value == d.selected {
			mark = "✓"
		}
		row := fmt.Sprintf("  %s %s", mark, opt.Label)
		if i == d.cursor {
			row = cursorRowStyle.Render(fmt.Sprintf("› %s %s", mark, opt.Label))
		}
		lines = append(lines, row)
	}
	if end < len(visible) {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  … %d more", len(visible)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
