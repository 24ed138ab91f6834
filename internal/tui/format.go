package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/kingrea/jobboard/internal/catalog"
)

const bullet = "•"

// postedAgo renders a posting date relative to now, e.g. "3 days ago".
func postedAgo(posted, now time.Time) string {
	if posted.IsZero() {
		return ""
	}
	return humanize.RelTime(posted, now, "ago", "from now")
}

func postedDate(posted time.Time) string {
	if posted.IsZero() {
		return "Unknown"
	}
	return posted.Format("Jan 2, 2006")
}

// jobMeta is the one-line summary under a job title. Listings without a
// salary simply omit it.
func jobMeta(job catalog.Job, now time.Time) string {
	parts := []string{job.Company.Name, job.Location}
	if job.Type != "" {
		parts = append(parts, job.Type)
	}
	if salary := job.SalaryLabel(); salary != "" {
		parts = append(parts, salary)
	}
	if ago := postedAgo(job.PostedAt, now); ago != "" {
		parts = append(parts, ago)
	}
	return strings.Join(nonEmpty(parts), " · ")
}

func jobBadges(job catalog.Job) string {
	var badges []string
	if job.Featured {
		badges = append(badges, warnStyle.Render("Featured"))
	}
	if job.Remote {
		badges = append(badges, successStyle.Render("Remote"))
	}
	return strings.Join(badges, " ")
}

func workStyle(job catalog.Job) string {
	if job.Remote {
		return "Remote friendly"
	}
	return "On-site"
}

// formatTextBlock renders listing prose: lines wrapped in ** become
// headings, lines starting with a bullet are indented, and blank lines
// separate paragraphs.
func formatTextBlock(text string, width int) string {
	width = max(20, width)
	heading := lipgloss.NewStyle().Bold(true).Foreground(colorText)
	body := lipgloss.NewStyle().Foreground(colorHint).Width(width)
	item := lipgloss.NewStyle().Foreground(colorHint).Width(width - 4)

	var out []string
	for _, paragraph := range strings.Split(strings.TrimSpace(text), "\n\n") {
		var block []string
		for _, line := range strings.Split(paragraph, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case line == "":
			case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4:
				block = append(block, heading.Render(strings.TrimSuffix(strings.TrimPrefix(line, "**"), "**")))
			case strings.HasPrefix(line, bullet):
				text := strings.TrimSpace(strings.TrimPrefix(line, bullet))
				block = append(block, lipgloss.JoinHorizontal(lipgloss.Top, accentStyle.Render("  "+bullet+" "), item.Render(text)))
			default:
				block = append(block, body.Render(line))
			}
		}
		if len(block) > 0 {
			out = append(out, strings.Join(block, "\n"))
		}
	}
	return strings.Join(out, "\n\n")
}

func truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(value, width, "…")
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
