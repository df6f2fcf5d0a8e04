package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/rovr/internal/theme"
)

// Footer is the bottom bar: the highlighted path, counts and transient
// notices, with an optional key help row beneath.
type Footer struct {
	width   int
	path    string
	count   int
	marked  int
	hidden  bool
	notice  string
	isError bool
	help    string
	theme   *theme.Theme
}

func NewFooter() Footer {
	return Footer{}
}

// SetTheme sets the color theme for the footer.
func (f *Footer) SetTheme(th *theme.Theme) { f.theme = th }

func (f *Footer) SetWidth(width int) {
	f.width = width
}

func (f *Footer) SetPath(path string) {
	f.path = path
}

// SetCounts sets the number of listed and marked entries, and whether
// dotfiles are shown.
func (f *Footer) SetCounts(count, marked int, hidden bool) {
	f.count = count
	f.marked = marked
	f.hidden = hidden
}

// SetNotice shows msg until it is replaced or cleared.
func (f *Footer) SetNotice(msg string) {
	f.notice = msg
	f.isError = false
}

func (f *Footer) SetError(msg string) {
	f.notice = msg
	f.isError = true
}

func (f *Footer) ClearNotice() {
	f.notice = ""
	f.isError = false
}

func (f Footer) Notice() string {
	return f.notice
}

// SetHelp sets the rendered help row; empty hides it.
func (f *Footer) SetHelp(help string) {
	f.help = help
}

// Height returns the number of rows View renders.
func (f Footer) Height() int {
	if f.help != "" {
		return 2
	}
	return 1
}

func (f Footer) View() string {
	th := theme.DefaultTheme()
	if f.theme != nil {
		th = *f.theme
	}

	barStyle := lipgloss.NewStyle().
		Background(th.StatusBg).
		Foreground(th.StatusFg).
		Width(f.width)

	right := fmt.Sprintf("%d items", f.count)
	if f.marked > 0 {
		right = fmt.Sprintf("%d marked  %s", f.marked, right)
	}
	if f.hidden {
		right = "hidden  " + right
	}

	left := displayDir(f.path)
	if f.notice != "" {
		style := lipgloss.NewStyle().Foreground(th.Accent)
		if f.isError {
			style = lipgloss.NewStyle().Foreground(th.Error).Bold(true)
		}
		left = style.Render(f.notice)
	}

	avail := f.width - lipgloss.Width(right) - 3
	if avail < 1 {
		avail = 1
	}
	left = ansi.Truncate(left, avail, "…")

	gap := f.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	bar := barStyle.Render(" " + left + strings.Repeat(" ", gap) + right + " ")

	if f.help == "" {
		return bar
	}
	return bar + "\n" + ansi.Truncate(" "+f.help, f.width, "")
}
