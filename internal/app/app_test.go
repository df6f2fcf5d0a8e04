package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/rovr/internal/config"
	"github.com/pfassina/rovr/internal/panel"
	"github.com/pfassina/rovr/internal/session"
)

type fixture struct {
	dir      string
	stateDir string
	store    *session.Store
	cfg      *config.Config
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	stateDir := t.TempDir()
	return fixture{
		dir:      dir,
		stateDir: stateDir,
		store:    session.NewStoreAt(func() string { return stateDir }),
		cfg:      config.Default(),
	}
}

func (f fixture) app(t *testing.T, opts Options) *App {
	t.Helper()
	opts.Config = f.cfg
	opts.Store = f.store
	if opts.StartPath == "" {
		opts.StartPath = f.dir
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(a *App, msgs ...tea.Msg) {
	for _, msg := range msgs {
		_, cmd := a.Update(msg)
		drain(a, cmd)
	}
}

// drain feeds panel messages produced by cmd back into the app. Preview and
// watcher commands are skipped so tests stay synchronous.
func drain(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case panel.OpenDirMsg, panel.ParentDirMsg, panel.FileChosenMsg, panel.FinderResultMsg, panel.PromptResultMsg:
		_, next := a.Update(msg)
		drain(a, next)
	}
}

func visible(t *testing.T, a *App, r session.Region) bool {
	t.Helper()
	v, ok := a.RegionVisible(r)
	if !ok {
		t.Fatalf("region %s not answered", r)
	}
	return v
}

func TestNew_DefaultsFromConfig(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, Options{})

	for _, r := range []session.Region{session.RegionFooter, session.RegionPinnedSidebar, session.RegionPreviewSidebar} {
		if !visible(t, a, r) {
			t.Errorf("%s should start visible", r)
		}
	}
	tags, ok := a.StyleTags()
	if !ok || len(tags) != 0 {
		t.Errorf("StyleTags() = %v, %v", tags, ok)
	}
	if a.Cwd() != f.dir {
		t.Errorf("Cwd() = %q, want %q", a.Cwd(), f.dir)
	}
	if got := len(a.files.Entries()); got != 3 {
		t.Errorf("entries = %d, want 3 (hidden skipped)", got)
	}
}

func TestNew_AppliesStoredState(t *testing.T) {
	f := newFixture(t)
	res := f.store.Save(session.State{
		ShowHiddenFiles: session.Ptr(true),
		FooterVisible:   session.Ptr(false),
		CompactMode:     session.Ptr(true),
	})
	if res.Ignored() {
		t.Fatal(res.Err)
	}

	a := f.app(t, Options{})

	if visible(t, a, session.RegionFooter) {
		t.Error("footer should be hidden by stored state")
	}
	if !visible(t, a, session.RegionPinnedSidebar) {
		t.Error("pinned sidebar should keep its default")
	}
	tags, _ := a.StyleTags()
	if len(tags) != 1 || tags[0] != session.CompactTag {
		t.Errorf("StyleTags() = %v", tags)
	}
	if !f.cfg.Bool("settings.show_hidden_files", false) {
		t.Error("show_hidden_files not written into config")
	}
	if got := len(a.files.Entries()); got != 4 {
		t.Errorf("entries = %d, want 4", got)
	}
}

func TestNew_CorruptStateUsesConfig(t *testing.T) {
	f := newFixture(t)
	if err := os.WriteFile(f.store.Path(), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := f.app(t, Options{})
	if !visible(t, a, session.RegionFooter) {
		t.Error("footer should fall back to config")
	}
}

func TestNew_StartAtFile(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, Options{StartPath: filepath.Join(f.dir, "b.txt")})
	if a.Cwd() != f.dir {
		t.Errorf("Cwd() = %q", a.Cwd())
	}
	if e, _ := a.files.Selected(); e.Name != "b.txt" {
		t.Errorf("selected = %q, want b.txt", e.Name)
	}
}

func TestNew_MissingStartPath(t *testing.T) {
	f := newFixture(t)
	_, err := New(Options{Config: f.cfg, Store: f.store, StartPath: filepath.Join(f.dir, "nope")})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRegionVisible_Unknown(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, Options{})
	if _, ok := a.RegionVisible(session.Region(99)); ok {
		t.Error("unknown region should not be answered")
	}
}

func TestToggles(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, Options{})
	press(a, tea.WindowSizeMsg{Width: 100, Height: 30})

	press(a, runes("F"), runes("P"), runes("p"), runes("c"), runes("."))

	if visible(t, a, session.RegionFooter) {
		t.Error("footer still visible")
	}
	if visible(t, a, session.RegionPinnedSidebar) {
		t.Error("pinned sidebar still visible")
	}
	if visible(t, a, session.RegionPreviewSidebar) {
		t.Error("preview still visible")
	}
	if !a.compact() {
		t.Error("compact not enabled")
	}
	if !f.cfg.Bool("settings.show_hidden_files", false) {
		t.Error("hidden toggle not reflected in config")
	}
	if got := len(a.files.Entries()); got != 4 {
		t.Errorf("entries = %d, want 4", got)
	}

	if v := a.View(); v == "" {
		t.Error("empty view")
	}
}

func TestClose_SavesSnapshot(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, Options{})
	press(a, runes("p"), runes("c"))

	a.Close()

	res := f.store.Load()
	if res.Status != session.StatusCurrent {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}
	st := res.State
	if session.Bool(st.PreviewVisible, true) {
		t.Error("preview_visible should be false")
	}
	if !session.Bool(st.CompactMode, false) {
		t.Error("compact_mode should be true")
	}
	if !session.Bool(st.FooterVisible, false) || !session.Bool(st.PinnedSidebarVisible, false) {
		t.Error("untouched regions should be saved as visible")
	}
	if session.Bool(st.ShowHiddenFiles, true) {
		t.Error("show_hidden_files should be false")
	}
}

func TestSaveKey(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, Options{})
	press(a, runes("F"), runes("S"))

	if !strings.Contains(a.footer.Notice(), "UI state saved") {
		t.Errorf("notice = %q", a.footer.Notice())
	}
	if st := f.store.Load().State; session.Bool(st.FooterVisible, true) {
		t.Error("footer_visible should be saved as false")
	}
}

func TestNavigation(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, Options{})

	// Directories sort first.
	press(a, tea.KeyMsg{Type: tea.KeyEnter})
	want := filepath.Join(f.dir, "sub")
	if a.Cwd() != want {
		t.Fatalf("Cwd() = %q, want %q", a.Cwd(), want)
	}

	press(a, runes("h"))
	if a.Cwd() != f.dir {
		t.Fatalf("Cwd() = %q after parent", a.Cwd())
	}
	if e, _ := a.files.Selected(); e.Name != "sub" {
		t.Errorf("cursor should return to sub, got %q", e.Name)
	}
}

func TestPins(t *testing.T) {
	f := newFixture(t)
	sub := filepath.Join(f.dir, "sub")
	if err := f.cfg.Set("pins.paths", []any{sub}); err != nil {
		t.Fatal(err)
	}
	a := f.app(t, Options{})

	press(a, runes("1"))
	if a.Cwd() != sub {
		t.Errorf("Cwd() = %q, want %q", a.Cwd(), sub)
	}

	press(a, runes("9"))
	if !strings.Contains(a.footer.Notice(), "no pin 9") {
		t.Errorf("notice = %q", a.footer.Notice())
	}
}

func TestGoTo(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, Options{StartPath: filepath.Join(f.dir, "sub")})

	press(a, panel.PromptResultMsg{Value: filepath.Join(f.dir, "b.txt")})
	if a.Cwd() != f.dir {
		t.Errorf("Cwd() = %q", a.Cwd())
	}
	if e, _ := a.files.Selected(); e.Name != "b.txt" {
		t.Errorf("selected = %q", e.Name)
	}

	press(a, panel.PromptResultMsg{Value: "does-not-exist"})
	if !strings.Contains(a.footer.Notice(), "go to does-not-exist") {
		t.Errorf("notice = %q", a.footer.Notice())
	}
}

func TestChooser_WritesCursorFile(t *testing.T) {
	f := newFixture(t)
	out := t.TempDir()
	chooser := filepath.Join(out, "chosen")
	cwdFile := filepath.Join(out, "cwd")
	a := f.app(t, Options{
		StartPath:   filepath.Join(f.dir, "a.txt"),
		ChooserFile: chooser,
		CwdFile:     cwdFile,
	})

	press(a, tea.KeyMsg{Type: tea.KeyEnter})

	data, err := os.ReadFile(chooser)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), filepath.Join(f.dir, "a.txt")+"\n"; got != want {
		t.Errorf("chooser file = %q, want %q", got, want)
	}

	data, err = os.ReadFile(cwdFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != f.dir {
		t.Errorf("cwd file = %q, want %q", data, f.dir)
	}
}

func TestChooser_WritesMarkedFiles(t *testing.T) {
	f := newFixture(t)
	chooser := filepath.Join(t.TempDir(), "chosen")
	a := f.app(t, Options{
		StartPath:   filepath.Join(f.dir, "a.txt"),
		ChooserFile: chooser,
	})

	// Mark a.txt and b.txt, then quit without choosing.
	press(a, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	press(a, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	press(a, runes("q"))

	data, err := os.ReadFile(chooser)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(f.dir, "a.txt") + "\n" + filepath.Join(f.dir, "b.txt") + "\n"
	if string(data) != want {
		t.Errorf("chooser file = %q, want %q", data, want)
	}
}

func TestQuit_NoChooserOutputWithoutSelection(t *testing.T) {
	f := newFixture(t)
	chooser := filepath.Join(t.TempDir(), "chosen")
	a := f.app(t, Options{ChooserFile: chooser})

	press(a, runes("q"))
	if _, err := os.Stat(chooser); !os.IsNotExist(err) {
		t.Errorf("chooser file should not exist, stat err = %v", err)
	}
}

func TestFinder(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, Options{})

	press(a, runes("/"))
	if !a.finder.Visible() {
		t.Fatal("finder not visible")
	}
	// Typing returns cursor blink commands; don't run them.
	for _, r := range "b.t" {
		a.Update(runes(string(r)))
	}
	press(a, tea.KeyMsg{Type: tea.KeyEnter})

	if a.finder.Visible() {
		t.Error("finder should close")
	}
	if e, _ := a.files.Selected(); e.Name != "b.txt" {
		t.Errorf("selected = %q, want b.txt", e.Name)
	}
}
