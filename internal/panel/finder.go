package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/pfassina/rovr/internal/theme"
)

// FinderItem represents an entry the finder can jump to.
type FinderItem struct {
	Name  string
	Path  string
	IsDir bool
}

// FinderResultMsg is sent when a finder item is selected.
type FinderResultMsg struct {
	Item FinderItem
}

// FinderClosedMsg is sent when the finder is dismissed.
type FinderClosedMsg struct{}

type finderMatch struct {
	item    FinderItem
	matched []int
}

// Finder is a fuzzy filter overlay over the entries of the current directory.
type Finder struct {
	input   textinput.Model
	items   []FinderItem
	matches []finderMatch
	cursor  int
	width   int
	height  int
	visible bool
	theme   *theme.Theme
}

// SetTheme sets the color theme for the finder panel.
func (f *Finder) SetTheme(th *theme.Theme) { f.theme = th }

func NewFinder() Finder {
	ti := textinput.New()
	ti.Placeholder = "Filter entries..."
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return Finder{
		input: ti,
	}
}

// Show opens the finder over items with an empty query.
func (f *Finder) Show(items []FinderItem) {
	f.visible = true
	f.items = items
	f.input.SetValue("")
	f.cursor = 0
	f.input.Focus()
	f.filter()
}

func (f *Finder) Hide() {
	f.visible = false
	f.input.Blur()
}

func (f Finder) Visible() bool {
	return f.visible
}

// Query returns the current filter text.
func (f Finder) Query() string {
	return f.input.Value()
}

// Results returns the items matching the current query, best first.
func (f Finder) Results() []FinderItem {
	out := make([]FinderItem, len(f.matches))
	for i, m := range f.matches {
		out[i] = m.item
	}
	return out
}

func (f *Finder) filter() {
	query := strings.TrimSpace(f.input.Value())
	f.matches = f.matches[:0]
	if query == "" {
		for _, it := range f.items {
			f.matches = append(f.matches, finderMatch{item: it})
		}
		return
	}

	names := make([]string, len(f.items))
	for i, it := range f.items {
		names[i] = it.Name
	}
	for _, m := range fuzzy.Find(query, names) {
		f.matches = append(f.matches, finderMatch{
			item:    f.items[m.Index],
			matched: m.MatchedIndexes,
		})
	}
}

func (f Finder) Update(msg tea.Msg) (Finder, tea.Cmd) {
	if !f.visible {
		return f, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			f.Hide()
			return f, func() tea.Msg { return FinderClosedMsg{} }

		case "enter":
			if f.cursor < len(f.matches) {
				item := f.matches[f.cursor].item
				f.Hide()
				return f, func() tea.Msg {
					return FinderResultMsg{Item: item}
				}
			}
			return f, nil

		case "up", "ctrl+p", "ctrl+k":
			if f.cursor > 0 {
				f.cursor--
			}
			return f, nil

		case "down", "ctrl+n", "ctrl+j":
			if f.cursor < len(f.matches)-1 {
				f.cursor++
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	prevValue := f.input.Value()
	f.input, cmd = f.input.Update(msg)

	if f.input.Value() != prevValue {
		f.filter()
		f.cursor = 0
	}

	return f, cmd
}

func (f Finder) View() string {
	if !f.visible {
		return ""
	}

	th := theme.DefaultTheme()
	if f.theme != nil {
		th = *f.theme
	}

	width := f.width
	if width == 0 {
		width = 60
	}
	innerWidth := width - 6

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Padding(0, 1).
		Width(innerWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Accent)

	dim := lipgloss.NewStyle().Foreground(th.Dim)

	var lines []string
	lines = append(lines, titleStyle.Render("Find"))
	lines = append(lines, f.input.View())
	lines = append(lines, "")

	maxResults := f.height/2 - 4
	if maxResults < 5 {
		maxResults = 5
	}
	if maxResults > len(f.matches) {
		maxResults = len(f.matches)
	}

	if len(f.matches) == 0 {
		lines = append(lines, dim.Render("No matches"))
	} else {
		for i := 0; i < maxResults; i++ {
			m := f.matches[i]
			prefix := "  "
			base := lipgloss.NewStyle().Foreground(th.Text)
			if m.item.IsDir {
				base = base.Foreground(th.Dir)
			}
			if i == f.cursor {
				prefix = "> "
				base = base.Bold(true)
			}

			name := highlight(m.item.Name, m.matched, base, base.Foreground(th.Accent).Underline(true))
			if m.item.IsDir {
				name += base.Render("/")
			}
			lines = append(lines, ansi.Truncate(prefix+name, innerWidth, "…"))
		}

		if len(f.matches) > maxResults {
			lines = append(lines, dim.Render(fmt.Sprintf("  ... and %d more", len(f.matches)-maxResults)))
		}
	}

	content := strings.Join(lines, "\n")
	return borderStyle.Render(content)
}

// highlight renders the runes of s at the matched byte offsets with hl.
func highlight(s string, matched []int, base, hl lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(s)
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func (f *Finder) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.input.Width = width/2 - 8
}
