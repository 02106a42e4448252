package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#B565A7")
	muted       = lipgloss.Color("#8A8F98")
	destructive = lipgloss.Color("#E53935")
	success     = lipgloss.Color("#8BC34A")
)

type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	OK       lipgloss.Style
	Label    lipgloss.Style
	Box      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(destructive),
		OK:       lipgloss.NewStyle().Foreground(success),
		Label:    lipgloss.NewStyle().Width(16).Foreground(muted),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
	}
}
