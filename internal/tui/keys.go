package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Toggle   key.Binding
	Save     key.Binding
	Search   key.Binding
	Sort     key.Binding
	Clear    key.Binding
	Retry    key.Binding
	Apply    key.Binding
	Submit   key.Binding
	Previous key.Binding
	Browse   key.Binding
	Remove   key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←/[", "prev")),
	Right:    key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→/]", "next")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
	Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save job")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
	Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	Apply:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply")),
	Submit:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next step")),
	Previous: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "previous step")),
	Browse:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "browse files")),
	Remove:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove file")),
}
