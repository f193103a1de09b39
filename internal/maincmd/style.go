package maincmd

import "github.com/charmbracelet/lipgloss"

var (
	tokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	literalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	opcodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	caretStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
)
