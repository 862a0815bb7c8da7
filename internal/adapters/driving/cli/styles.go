package cli

import "github.com/charmbracelet/lipgloss"

// Output styles shared across commands.
var (
	styleHeading = lipgloss.NewStyle().Bold(true)
	styleScore   = lipgloss.NewStyle().Faint(true)
	styleLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)
