package panel

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/pfassina/rovr/internal/listing"
	"github.com/pfassina/rovr/internal/theme"
)

// OpenDirMsg is sent when a directory is opened from the file list.
type OpenDirMsg struct {
	Path string
}

// ParentDirMsg is sent when the user asks for the parent directory.
type ParentDirMsg struct{}

// FileChosenMsg is sent when a file is opened from the file list.
type FileChosenMsg struct {
	Path string
}

// CursorMovedMsg is sent when the highlighted entry changes.
type CursorMovedMsg struct {
	Path string
}

// Files is the directory listing panel.
type Files struct {
	dir     string
	entries []listing.Entry
	marked  map[string]bool
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	compact bool
	theme   *theme.Theme
}

func NewFiles() Files {
	return Files{
		marked:  make(map[string]bool),
		focused: true,
	}
}

// SetTheme sets the color theme for the file panel.
func (f *Files) SetTheme(th *theme.Theme) { f.theme = th }

// SetEntries replaces the listing. The cursor stays on keep (an entry name)
// when it is still present, otherwise it is clamped.
func (f *Files) SetEntries(dir string, entries []listing.Entry, keep string) {
	if dir != f.dir {
		f.marked = make(map[string]bool)
		f.offset = 0
		f.cursor = 0
	}
	f.dir = dir
	f.entries = entries

	if keep != "" {
		for i, e := range entries {
			if e.Name == keep {
				f.cursor = i
				break
			}
		}
	}
	if f.cursor >= len(f.entries) {
		f.cursor = len(f.entries) - 1
	}
	if f.cursor < 0 {
		f.cursor = 0
	}
	f.ensureVisible()
}

// Selected returns the entry under the cursor.
func (f Files) Selected() (listing.Entry, bool) {
	if f.cursor < 0 || f.cursor >= len(f.entries) {
		return listing.Entry{}, false
	}
	return f.entries[f.cursor], true
}

// Entries returns the current listing.
func (f Files) Entries() []listing.Entry {
	return f.entries
}

// Marked returns the marked paths in sorted order.
func (f Files) Marked() []string {
	paths := make([]string, 0, len(f.marked))
	for p := range f.marked {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (f *Files) ClearMarks() {
	f.marked = make(map[string]bool)
}

func (f Files) Init() tea.Cmd {
	return nil
}

func (f Files) Update(msg tea.Msg) (Files, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}

	prev := f.cursor
	switch keyMsg.String() {
	case "j", "down":
		if f.cursor < len(f.entries)-1 {
			f.cursor++
		}
	case "k", "up":
		if f.cursor > 0 {
			f.cursor--
		}
	case "ctrl+d", "pgdown":
		f.cursor += f.viewHeight() / 2
		if f.cursor > len(f.entries)-1 {
			f.cursor = len(f.entries) - 1
		}
		if f.cursor < 0 {
			f.cursor = 0
		}
	case "ctrl+u", "pgup":
		f.cursor -= f.viewHeight() / 2
		if f.cursor < 0 {
			f.cursor = 0
		}
	case "G", "end":
		if len(f.entries) == 0 {
			break
		}
		f.cursor = len(f.entries) - 1
	case "g", "home":
		f.cursor = 0
	case "enter", "l", "right":
		entry, ok := f.Selected()
		if !ok {
			return f, nil
		}
		if entry.IsDir {
			return f, func() tea.Msg { return OpenDirMsg{Path: entry.Path} }
		}
		return f, func() tea.Msg { return FileChosenMsg{Path: entry.Path} }
	case "h", "left", "backspace":
		return f, func() tea.Msg { return ParentDirMsg{} }
	case " ":
		entry, ok := f.Selected()
		if !ok {
			return f, nil
		}
		if f.marked[entry.Path] {
			delete(f.marked, entry.Path)
		} else {
			f.marked[entry.Path] = true
		}
		if f.cursor < len(f.entries)-1 {
			f.cursor++
		}
	}

	f.ensureVisible()
	if f.cursor != prev {
		if entry, ok := f.Selected(); ok {
			return f, func() tea.Msg { return CursorMovedMsg{Path: entry.Path} }
		}
	}
	return f, nil
}

func (f *Files) viewHeight() int {
	h := f.height - 1 // title row
	if h < 0 {
		h = 0
	}
	return h
}

func (f *Files) ensureVisible() {
	vh := f.viewHeight()
	if vh <= 0 {
		f.offset = 0
		return
	}
	if f.cursor < f.offset {
		f.offset = f.cursor
	}
	if f.cursor >= f.offset+vh {
		f.offset = f.cursor - vh + 1
	}
	if f.offset < 0 {
		f.offset = 0
	}
}

func (f Files) View() string {
	if f.width == 0 || f.height == 0 {
		return ""
	}

	th := f.palette()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Accent)
	if !f.compact {
		titleStyle = titleStyle.Padding(0, 1)
	}

	var b strings.Builder
	b.WriteString(ansi.Truncate(titleStyle.Render(displayDir(f.dir)), f.width, "…"))
	b.WriteByte('\n')

	if len(f.entries) == 0 {
		dim := lipgloss.NewStyle().Foreground(th.Dim).Padding(0, 1)
		b.WriteString(dim.Render("empty"))
		return b.String()
	}

	vh := f.viewHeight()
	for i := f.offset; i < len(f.entries) && i-f.offset < vh; i++ {
		b.WriteString(f.renderEntry(i, th))
		b.WriteByte('\n')
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (f Files) renderEntry(i int, th theme.Theme) string {
	entry := f.entries[i]

	mark := "  "
	switch {
	case f.compact && f.marked[entry.Path]:
		mark = "●"
	case f.compact:
		mark = " "
	case f.marked[entry.Path]:
		mark = "● "
	}

	name := entry.Name
	if entry.IsDir {
		name += "/"
	}

	size := ""
	if !f.compact && !entry.IsDir {
		size = humanize.Bytes(uint64(entry.Size))
	}

	avail := f.width - lipgloss.Width(mark)
	if size != "" {
		avail -= lipgloss.Width(size) + 1
	}
	if avail < 1 {
		avail = 1
		size = ""
	}
	name = ansi.Truncate(name, avail, "…")

	line := mark + name
	if size != "" {
		gap := f.width - lipgloss.Width(line) - lipgloss.Width(size)
		if gap < 1 {
			gap = 1
		}
		line += strings.Repeat(" ", gap) + size
	} else if pad := f.width - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}

	style := lipgloss.NewStyle().Foreground(th.Text)
	switch {
	case f.marked[entry.Path]:
		style = style.Foreground(th.Marked)
	case entry.IsDir:
		style = style.Foreground(th.Dir)
	case entry.Hidden:
		style = style.Foreground(th.Subtle)
	}
	if i == f.cursor && f.focused {
		style = style.Bold(true).Reverse(true)
	}
	return style.Render(line)
}

func (f Files) palette() theme.Theme {
	if f.theme == nil {
		return theme.DefaultTheme()
	}
	return *f.theme
}

func (f *Files) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.ensureVisible()
}

func (f *Files) SetFocused(focused bool) {
	f.focused = focused
}

func (f *Files) SetCompact(compact bool) {
	f.compact = compact
}

// String is used by tests and debug logging.
func (f Files) String() string {
	return fmt.Sprintf("Files{dir=%s entries=%d cursor=%d}", f.dir, len(f.entries), f.cursor)
}

// displayDir shortens the home directory prefix to "~".
func displayDir(dir string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dir
	}
	if dir == home {
		return "~"
	}
	if strings.HasPrefix(dir, home+string(filepath.Separator)) {
		return "~" + dir[len(home):]
	}
	return dir
}
