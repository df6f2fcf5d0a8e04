// Package ui holds the styles used for plain (non-TUI) command output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("51")) // cyan

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("218")) // pink

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("114"))

	Failure = lipgloss.NewStyle().
		Foreground(lipgloss.Color("203")).
		Bold(true)

	DimText = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))
)

// Painter renders styles only when the output is a terminal.
type Painter struct {
	Color bool
}

// Paint renders s with style when color is enabled.
func (p Painter) Paint(style lipgloss.Style, s string) string {
	if !p.Color {
		return s
	}
	return style.Render(s)
}
