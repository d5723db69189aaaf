package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	HeaderStyle  lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	PromptStyle  lipgloss.Style
	MutedStyle   lipgloss.Style
	PathStyle    lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	HeaderStyle = lipgloss.NewStyle().
		Foreground(HeaderColor).
		Bold(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	WarningStyle = lipgloss.NewStyle().
		Foreground(WarningColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	PromptStyle = lipgloss.NewStyle().
		Foreground(PromptColor)

	MutedStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	PathStyle = lipgloss.NewStyle().
		Foreground(PathColor).
		Italic(true)
}
