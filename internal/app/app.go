package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/rovr/internal/config"
	"github.com/pfassina/rovr/internal/listing"
	"github.com/pfassina/rovr/internal/panel"
	"github.com/pfassina/rovr/internal/preview"
	"github.com/pfassina/rovr/internal/session"
	"github.com/pfassina/rovr/internal/theme"
	"github.com/pfassina/rovr/internal/watch"
)

// previewTimeout bounds one preview render, including a bat run.
const previewTimeout = 2 * time.Second

// Options configures one explorer instance.
type Options struct {
	Config      *config.Config
	Store       *session.Store
	StartPath   string
	CwdFile     string
	ChooserFile string

	// Remote is set for SSH sessions; files are never opened in a local
	// editor on the server.
	Remote bool
}

// App is the explorer's root Bubble Tea model.
type App struct {
	cfg     *config.Config
	store   *session.Store
	opts    Options
	keys    KeyMap
	help    help.Model
	files   panel.Files
	pinned  panel.Pinned
	preview panel.Preview
	footer  panel.Footer
	finder  panel.Finder
	prompt  panel.Prompt
	watcher *watch.Watcher
	theme   theme.Theme

	cwd    string
	width  int
	height int

	showHidden  bool
	showFooter  bool
	showPinned  bool
	showPreview bool
	tags        map[string]bool

	// chosen is written to the chooser file on exit.
	chosen    []string
	closeOnce sync.Once
}

// New builds an explorer rooted at opts.StartPath (the working directory when
// empty). Toggles start from the config and are then overridden by every
// field the stored UI state sets.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	store := opts.Store
	if store == nil {
		store = session.NewStore()
	}

	dir, keep, err := resolveStart(opts.StartPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:         cfg,
		store:       store,
		opts:        opts,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		files:       panel.NewFiles(),
		preview:     panel.NewPreview(),
		footer:      panel.NewFooter(),
		finder:      panel.NewFinder(),
		prompt:      panel.NewPrompt(),
		theme:       theme.Get(cfg.String("interface.theme", "catppuccin")),
		tags:        make(map[string]bool),
		showHidden:  cfg.Bool("settings.show_hidden_files", false),
		showFooter:  cfg.Bool("interface.footer", true),
		showPinned:  cfg.Bool("interface.pinned_sidebar", true),
		showPreview: cfg.Bool("interface.preview", true),
	}
	if cfg.Bool("interface.compact", false) {
		a.tags[session.CompactTag] = true
	}

	res := store.Load()
	switch res.Status {
	case session.StatusCorrupt, session.StatusUnreadable:
		log.Warn("ignoring ui state", "path", store.Path(), "status", res.Status, "err", res.Err)
	default:
		log.Debug("ui state", "path", store.Path(), "status", res.Status)
	}
	a.applyState(res.State)

	var pins []string
	for _, p := range cfg.Strings("pins.paths", nil) {
		pins = append(pins, filepath.Clean(config.ExpandHome(p)))
	}
	a.pinned = panel.NewPinned(panel.NewPins(pins))

	a.files.SetTheme(&a.theme)
	a.pinned.SetTheme(&a.theme)
	a.preview.SetTheme(&a.theme)
	a.footer.SetTheme(&a.theme)
	a.finder.SetTheme(&a.theme)
	a.prompt.SetTheme(&a.theme)
	a.styleHelp()
	a.applyCompact()

	if w, err := watch.New(watch.DefaultDebounce); err != nil {
		log.Warn("directory watcher unavailable", "err", err)
	} else {
		a.watcher = w
	}

	if err := a.chdir(dir, keep); err != nil {
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		return nil, err
	}

	return a, nil
}

// applyState overrides the current toggles with every non-nil field of st.
func (a *App) applyState(st session.State) {
	if st.ShowHiddenFiles != nil {
		a.showHidden = *st.ShowHiddenFiles
		if err := a.cfg.Set("settings.show_hidden_files", a.showHidden); err != nil {
			log.Warn("apply show_hidden_files", "err", err)
		}
	}
	if st.FooterVisible != nil {
		a.showFooter = *st.FooterVisible
	}
	if st.PinnedSidebarVisible != nil {
		a.showPinned = *st.PinnedSidebarVisible
	}
	if st.PreviewVisible != nil {
		a.showPreview = *st.PreviewVisible
	}
	if st.CompactMode != nil {
		if *st.CompactMode {
			a.tags[session.CompactTag] = true
		} else {
			delete(a.tags, session.CompactTag)
		}
	}
}

func resolveStart(path string) (dir, keep string, err error) {
	if path == "" {
		if path, err = os.Getwd(); err != nil {
			return "", "", fmt.Errorf("get working directory: %w", err)
		}
	}
	path, err = filepath.Abs(config.ExpandHome(path))
	if err != nil {
		return "", "", fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("open %s: %w", path, err)
	}
	if !info.IsDir() {
		return filepath.Dir(path), filepath.Base(path), nil
	}
	return path, "", nil
}

// RegionVisible implements session.Inspector.
func (a *App) RegionVisible(r session.Region) (visible, ok bool) {
	switch r {
	case session.RegionFooter:
		return a.showFooter, true
	case session.RegionPinnedSidebar:
		return a.showPinned, true
	case session.RegionPreviewSidebar:
		return a.showPreview, true
	}
	return false, false
}

// StyleTags implements session.Inspector.
func (a *App) StyleTags() (tags []string, ok bool) {
	if a.tags == nil {
		return nil, false
	}
	tags = make([]string, 0, len(a.tags))
	for t := range a.tags {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, true
}

// Cwd returns the directory shown in the file list.
func (a *App) Cwd() string {
	return a.cwd
}

// Chosen returns the paths picked for the chooser file.
func (a *App) Chosen() []string {
	return a.chosen
}

func (a *App) compact() bool {
	return a.tags[session.CompactTag]
}

// Init starts the first preview and the directory watcher.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.watchCmd(), a.previewSelected())
}

// Update routes a message to the focused panel or the app's own handlers.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case panel.OpenDirMsg:
		return a, a.open(msg.Path, "")

	case panel.ParentDirMsg:
		parent := filepath.Dir(a.cwd)
		if parent == a.cwd {
			return a, nil
		}
		return a, a.open(parent, filepath.Base(a.cwd))

	case panel.CursorMovedMsg:
		return a, a.previewSelected()

	case panel.FileChosenMsg:
		return a, a.choose(msg.Path)

	case panel.FinderResultMsg:
		if msg.Item.IsDir {
			return a, a.open(msg.Item.Path, "")
		}
		a.files.SetEntries(a.cwd, a.files.Entries(), msg.Item.Name)
		a.syncFooter()
		return a, a.previewSelected()

	case panel.FinderClosedMsg, panel.PromptCancelledMsg:
		return a, nil

	case panel.PromptResultMsg:
		return a, a.goTo(msg.Value)

	case dirChangedMsg:
		var cmd tea.Cmd
		if msg.dir == a.cwd {
			cmd = a.refresh()
		}
		return a, tea.Batch(cmd, a.watchCmd())

	case watchErrMsg:
		log.Warn("directory watcher", "dir", a.cwd, "err", msg.err)
		return a, a.watchCmd()

	case previewMsg:
		a.preview.Set(msg.res)
		return a, nil

	case editorDoneMsg:
		if msg.err != nil {
			a.footer.SetError(fmt.Sprintf("editor: %v", msg.err))
		}
		return a, a.refresh()
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return a.quit()
	}

	if a.prompt.Visible() {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return cmd
	}
	if a.finder.Visible() {
		var cmd tea.Cmd
		a.finder, cmd = a.finder.Update(msg)
		return cmd
	}

	a.footer.ClearNotice()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()

	case key.Matches(msg, a.keys.ToggleHidden):
		return a.toggleHidden()

	case key.Matches(msg, a.keys.ToggleFooter):
		a.showFooter = !a.showFooter
		a.updateLayout()
		return nil

	case key.Matches(msg, a.keys.TogglePinned):
		a.showPinned = !a.showPinned
		a.updateLayout()
		return nil

	case key.Matches(msg, a.keys.TogglePreview):
		a.showPreview = !a.showPreview
		a.updateLayout()
		if a.showPreview {
			return a.previewSelected()
		}
		return nil

	case key.Matches(msg, a.keys.ToggleCompact):
		if a.compact() {
			delete(a.tags, session.CompactTag)
		} else {
			a.tags[session.CompactTag] = true
		}
		a.applyCompact()
		a.updateLayout()
		return nil

	case key.Matches(msg, a.keys.Pin):
		n, _ := strconv.Atoi(msg.String())
		pin, ok := a.pinned.Pin(n)
		if !ok {
			a.footer.SetError(fmt.Sprintf("no pin %d", n))
			return nil
		}
		return a.open(pin.Path, "")

	case key.Matches(msg, a.keys.Find):
		entries := a.files.Entries()
		items := make([]panel.FinderItem, len(entries))
		for i, e := range entries {
			items[i] = panel.FinderItem{Name: e.Name, Path: e.Path, IsDir: e.IsDir}
		}
		a.finder.Show(items)
		return nil

	case key.Matches(msg, a.keys.GoTo):
		a.prompt.Show("Go to", a.cwd+string(filepath.Separator))
		return nil

	case key.Matches(msg, a.keys.Save):
		if res := a.saveState(); res.Ignored() {
			a.footer.SetError(fmt.Sprintf("UI state not saved: %v", res.Err))
		} else {
			a.footer.SetNotice("UI state saved to " + config.Normalise(res.Path))
		}
		return nil
	}

	var cmd tea.Cmd
	a.files, cmd = a.files.Update(msg)
	a.syncFooter()
	return cmd
}

// chdir lists dir and makes it current. The cursor lands on keep when it is
// one of the entries.
func (a *App) chdir(dir, keep string) error {
	entries, err := listing.List(dir, a.showHidden)
	if err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	a.cwd = dir
	a.files.SetEntries(dir, entries, keep)
	a.pinned.SetCurrent(dir)
	if a.watcher != nil {
		if err := a.watcher.Watch(dir); err != nil {
			log.Warn("watch directory", "dir", dir, "err", err)
		}
	}
	a.syncFooter()
	return nil
}

func (a *App) open(dir, keep string) tea.Cmd {
	if err := a.chdir(dir, keep); err != nil {
		a.footer.SetError(err.Error())
		return nil
	}
	return a.previewSelected()
}

// refresh re-lists the current directory, keeping the cursor on the same
// entry when it still exists.
func (a *App) refresh() tea.Cmd {
	keep := ""
	if e, ok := a.files.Selected(); ok {
		keep = e.Name
	}
	return a.open(a.cwd, keep)
}

func (a *App) toggleHidden() tea.Cmd {
	a.showHidden = !a.showHidden
	if err := a.cfg.Set("settings.show_hidden_files", a.showHidden); err != nil {
		log.Warn("toggle hidden files", "err", err)
	}
	return a.refresh()
}

func (a *App) goTo(value string) tea.Cmd {
	path := config.ExpandHome(value)
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cwd, path)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		a.footer.SetError(fmt.Sprintf("go to %s: %v", value, err))
		return nil
	}
	if info.IsDir() {
		return a.open(path, "")
	}
	return a.open(filepath.Dir(path), filepath.Base(path))
}

// choose handles a file opened from the list: in chooser mode it records the
// marked files (or this one) and quits, otherwise the file goes to $EDITOR.
func (a *App) choose(path string) tea.Cmd {
	if a.opts.ChooserFile != "" {
		a.chosen = a.files.Marked()
		if len(a.chosen) == 0 {
			a.chosen = []string{path}
		}
		return a.quit()
	}

	if a.opts.Remote {
		a.footer.SetNotice(config.Normalise(path))
		return nil
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		a.footer.SetError("set $EDITOR to open files")
		return nil
	}
	c := exec.Command(fields[0], append(fields[1:], path)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	})
}

func (a *App) previewSelected() tea.Cmd {
	if !a.showPreview {
		return nil
	}
	entry, ok := a.files.Selected()
	if !ok {
		a.preview.Clear()
		return nil
	}

	a.preview.Loading(entry.Path)
	opts := preview.Options{
		MaxBytes:   a.cfg.Int("settings.preview_max_bytes", preview.DefaultOptions().MaxBytes),
		MaxLines:   preview.DefaultOptions().MaxLines,
		ShowHidden: a.showHidden,
		Bat:        a.cfg.Bool("plugins.bat", false),
	}
	path := entry.Path
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()
		return previewMsg{res: preview.Render(ctx, path, opts)}
	}
}

// watchCmd waits for the next watcher event. It returns nil once the watcher
// is closed.
func (a *App) watchCmd() tea.Cmd {
	w := a.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case dir := <-w.Changes():
			return dirChangedMsg{dir: dir}
		case err := <-w.Errors():
			return watchErrMsg{err: err}
		case <-w.Done():
			return nil
		}
	}
}

func (a *App) saveState() session.SaveResult {
	res := a.store.Save(session.FromApp(a, a.cfg))
	if res.Ignored() {
		log.Warn("ui state not saved", "path", res.Path, "err", res.Err)
	}
	return res
}

func (a *App) quit() tea.Cmd {
	a.Close()
	return tea.Quit
}

// Close saves the UI state, stops the watcher and writes the exit files.
// Only the first call does anything.
func (a *App) Close() {
	a.closeOnce.Do(a.close)
}

func (a *App) close() {
	a.saveState()

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Warn("stop watcher", "err", err)
		}
	}

	chosen := a.chosen
	if len(chosen) == 0 {
		chosen = a.files.Marked()
	}
	if err := writeExitFiles(a.opts.CwdFile, a.opts.ChooserFile, a.cwd, chosen); err != nil {
		log.Error("write exit files", "err", err)
	}
}

func (a *App) applyCompact() {
	c := a.compact()
	a.files.SetCompact(c)
	a.pinned.SetCompact(c)
	a.preview.SetCompact(c)
}

func (a *App) styleHelp() {
	a.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(a.theme.Accent)
	a.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(a.theme.Subtle)
	a.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(a.theme.Dim)
}

func (a *App) syncHelp() {
	if !a.cfg.Bool("interface.tooltips", true) || a.compact() {
		a.footer.SetHelp("")
		return
	}
	a.help.Width = a.width
	a.footer.SetHelp(a.help.View(a.keys))
}

func (a *App) syncFooter() {
	path := a.cwd
	if e, ok := a.files.Selected(); ok {
		path = e.Path
	}
	a.footer.SetPath(path)
	a.footer.SetCounts(len(a.files.Entries()), len(a.files.Marked()), a.showHidden)
}

func (a *App) footerHeight() int {
	if !a.showFooter {
		return 0
	}
	return a.footer.Height()
}

func (a *App) layout() Layout {
	return ComputeLayout(a.width, a.height, a.showPinned, a.showPreview, a.footerHeight(),
		a.cfg.Int("interface.pinned_width", 24), a.cfg.Int("interface.preview_width", 40))
}

func (a *App) updateLayout() {
	a.syncHelp()
	l := a.layout()

	a.pinned.SetSize(max(l.PinnedWidth-1, 0), l.Height)
	a.files.SetSize(l.FilesWidth, l.Height)
	a.preview.SetSize(max(l.PreviewWidth-1, 0), l.Height)
	a.footer.SetWidth(a.width)
	a.finder.SetSize(a.width, a.height)
	a.prompt.SetSize(a.width, a.height)
}

func minWindowSize() (minW, minH int) {
	return 40, 8
}

// View renders the panels for the current layout.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	minW, minH := minWindowSize()
	if a.width < minW || a.height < minH {
		msg := fmt.Sprintf("Window too small (%dx%d)\nMinimum supported: %dx%d", a.width, a.height, minW, minH)
		box := lipgloss.NewStyle().
			Foreground(a.theme.Text).
			Padding(1, 2).
			Render(msg)
		return overlayCenter(strings.Repeat("\n", a.height), box, a.width, a.height)
	}

	l := a.layout()

	var columns []string
	if a.showPinned && l.PinnedWidth > 1 {
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, true, false, false).
			BorderForeground(a.theme.Border).
			Width(l.PinnedWidth - 1).
			Height(l.Height)
		columns = append(columns, style.Render(a.pinned.View()))
	}

	filesStyle := lipgloss.NewStyle().
		Width(l.FilesWidth).
		Height(l.Height)
	columns = append(columns, filesStyle.Render(a.files.View()))

	if a.showPreview && l.PreviewWidth > 1 {
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(a.theme.Border).
			Width(l.PreviewWidth - 1).
			Height(l.Height)
		columns = append(columns, style.Render(a.preview.View()))
	}

	result := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	if a.showFooter {
		result += "\n" + a.footer.View()
	}

	if a.finder.Visible() {
		result = overlayCenter(result, a.finder.View(), a.width, a.height)
	}
	if a.prompt.Visible() {
		result = overlayCenter(result, a.prompt.View(), a.width, a.height)
	}

	return result
}

// overlayCenter draws overlay over the middle of base without breaking ANSI
// sequences in either.
func overlayCenter(base, overlay string, width, height int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := 0
	for _, line := range overlayLines {
		if w := lipgloss.Width(line); w > overlayWidth {
			overlayWidth = w
		}
	}

	startRow := max((height-len(overlayLines))/2, 0)
	startCol := max((width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		row := startRow + i
		if row >= len(baseLines) {
			break
		}

		baseLine := baseLines[row]
		if pad := startCol - lipgloss.Width(baseLine); pad > 0 {
			baseLine += strings.Repeat(" ", pad)
		}

		left := ansi.Cut(baseLine, 0, startCol)
		right := ansi.Cut(baseLine, startCol+overlayWidth, width)
		baseLines[row] = ansi.Truncate(left+overlayLine+right, width, "")
	}

	return strings.Join(baseLines, "\n")
}
