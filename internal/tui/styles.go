package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorHeader   = lipgloss.Color("#FF6B6B")
	colorAccent   = lipgloss.Color("#5B8DEF")
	colorBorder   = lipgloss.Color("#444444")
	colorMuted    = lipgloss.Color("#888888")
	colorHint     = lipgloss.Color("#AAAAAA")
	colorText     = lipgloss.Color("#DDDDDD")
	colorSuccess  = lipgloss.Color("#4CAF50")
	colorWarn     = lipgloss.Color("#F7B801")
	colorError    = lipgloss.Color("#FF6B6B")
	colorBackdrop = lipgloss.Color("#2A2A2A")
)

const modalWidth = 76

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorHeader)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	accentStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	hintStyle    = lipgloss.NewStyle().Foreground(colorHint)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	savedStyle   = lipgloss.NewStyle().Foreground(colorHeader)

	cursorRowStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.BorderForeground(colorAccent)

	chipStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	activeChipStyle = chipStyle.BorderForeground(colorAccent).Foreground(colorAccent).Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)
	primaryButtonStyle  = buttonStyle.BorderForeground(colorAccent).Foreground(colorAccent).Bold(true)
	disabledButtonStyle = buttonStyle.Foreground(colorMuted)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2).
			Width(modalWidth)
)
