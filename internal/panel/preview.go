package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/rovr/internal/preview"
	"github.com/pfassina/rovr/internal/theme"
)

// Preview is the sidebar showing the highlighted entry.
type Preview struct {
	path    string
	title   string
	lines   []string
	err     error
	loading bool
	width   int
	height  int
	compact bool
	theme   *theme.Theme
}

func NewPreview() Preview {
	return Preview{}
}

// SetTheme sets the color theme for the preview sidebar.
func (p *Preview) SetTheme(th *theme.Theme) { p.theme = th }

// Loading marks path as pending until its result arrives.
func (p *Preview) Loading(path string) {
	p.path = path
	p.loading = true
	p.err = nil
}

// Set shows res. Results for a path other than the pending one are dropped,
// so a slow render cannot overwrite a newer selection.
func (p *Preview) Set(res preview.Result) bool {
	if p.path != "" && res.Path != p.path {
		return false
	}
	p.path = res.Path
	p.title = res.Title
	p.lines = res.Lines
	p.err = res.Err
	p.loading = false
	return true
}

func (p *Preview) Clear() {
	*p = Preview{width: p.width, height: p.height, compact: p.compact, theme: p.theme}
}

// Path returns the path currently shown or pending.
func (p Preview) Path() string {
	return p.path
}

func (p *Preview) SetCompact(compact bool) { p.compact = compact }

func (p *Preview) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p Preview) View() string {
	if p.width == 0 || p.height == 0 {
		return ""
	}

	th := theme.DefaultTheme()
	if p.theme != nil {
		th = *p.theme
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Accent)
	if !p.compact {
		titleStyle = titleStyle.Padding(0, 1)
	}
	dim := lipgloss.NewStyle().Foreground(th.Dim)
	text := lipgloss.NewStyle().Foreground(th.Text)

	title := p.title
	if title == "" {
		title = "Preview"
	}

	var lines []string
	lines = append(lines, ansi.Truncate(titleStyle.Render(title), p.width, "…"))

	switch {
	case p.loading:
		lines = append(lines, dim.Render(" loading..."))
	case p.err != nil:
		lines = append(lines, lipgloss.NewStyle().Foreground(th.Error).Render(" "+p.err.Error()))
	case len(p.lines) == 0:
		lines = append(lines, dim.Render(" nothing to preview"))
	default:
		for _, l := range p.lines {
			if len(lines) >= p.height {
				break
			}
			// Lines may already carry ANSI colour from bat.
			if !strings.Contains(l, "\x1b[") {
				l = text.Render(l)
			}
			lines = append(lines, ansi.Truncate(" "+l, p.width, ""))
		}
	}

	return strings.Join(lines, "\n")
}
