package commands

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#e0a458")
	dim     = lipgloss.Color("#6e7681")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(primary)
	labelStyle  = lipgloss.NewStyle().Foreground(dim)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(dim).Italic(true)
	borderStyle = lipgloss.NewStyle().Foreground(primary)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// field renders "label value" for the status line.
func field(label, value string) string {
	return labelStyle.Render(label) + " " + valueStyle.Render(value)
}
