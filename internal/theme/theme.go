package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color palette used by all TUI panels.
// Panels hold a *Theme pointer so a theme switch is visible on the next View() call.
type Theme struct {
	Name     string
	Accent   lipgloss.Color
	Subtle   lipgloss.Color
	Text     lipgloss.Color
	Dim      lipgloss.Color
	Border   lipgloss.Color
	StatusBg lipgloss.Color
	StatusFg lipgloss.Color
	Error    lipgloss.Color
	Dir      lipgloss.Color
	Marked   lipgloss.Color
}

var themes = map[string]Theme{
	"catppuccin": {
		Name:     "catppuccin",
		Accent:   lipgloss.Color("#cba6f7"),
		Subtle:   lipgloss.Color("#6c7086"),
		Text:     lipgloss.Color("#cdd6f4"),
		Dim:      lipgloss.Color("#585b70"),
		Border:   lipgloss.Color("#45475a"),
		StatusBg: lipgloss.Color("#313244"),
		StatusFg: lipgloss.Color("#cdd6f4"),
		Error:    lipgloss.Color("#f38ba8"),
		Dir:      lipgloss.Color("#89b4fa"),
		Marked:   lipgloss.Color("#f9e2af"),
	},
	"nord": {
		Name:     "nord",
		Accent:   lipgloss.Color("#88c0d0"),
		Subtle:   lipgloss.Color("#4c566a"),
		Text:     lipgloss.Color("#eceff4"),
		Dim:      lipgloss.Color("#434c5e"),
		Border:   lipgloss.Color("#3b4252"),
		StatusBg: lipgloss.Color("#3b4252"),
		StatusFg: lipgloss.Color("#eceff4"),
		Error:    lipgloss.Color("#bf616a"),
		Dir:      lipgloss.Color("#81a1c1"),
		Marked:   lipgloss.Color("#ebcb8b"),
	},
	"gruvbox": {
		Name:     "gruvbox",
		Accent:   lipgloss.Color("#d79921"),
		Subtle:   lipgloss.Color("#665c54"),
		Text:     lipgloss.Color("#ebdbb2"),
		Dim:      lipgloss.Color("#504945"),
		Border:   lipgloss.Color("#3c3836"),
		StatusBg: lipgloss.Color("#3c3836"),
		StatusFg: lipgloss.Color("#ebdbb2"),
		Error:    lipgloss.Color("#fb4934"),
		Dir:      lipgloss.Color("#83a598"),
		Marked:   lipgloss.Color("#fabd2f"),
	},
	"tokyo-night": {
		Name:     "tokyo-night",
		Accent:   lipgloss.Color("#7aa2f7"),
		Subtle:   lipgloss.Color("#565f89"),
		Text:     lipgloss.Color("#c0caf5"),
		Dim:      lipgloss.Color("#414868"),
		Border:   lipgloss.Color("#292e42"),
		StatusBg: lipgloss.Color("#1f2335"),
		StatusFg: lipgloss.Color("#c0caf5"),
		Error:    lipgloss.Color("#f7768e"),
		Dir:      lipgloss.Color("#7aa2f7"),
		Marked:   lipgloss.Color("#e0af68"),
	},
}

// DefaultTheme returns the default color palette (catppuccin).
func DefaultTheme() Theme {
	return themes["catppuccin"]
}

// Get returns a theme by name, defaulting to catppuccin.
func Get(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return DefaultTheme()
}

// Names lists the built-in themes.
func Names() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
