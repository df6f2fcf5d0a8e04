package panel

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/rovr/internal/listing"
)

func testEntries(dir string) []listing.Entry {
	return []listing.Entry{
		{Name: "docs", Path: filepath.Join(dir, "docs"), IsDir: true},
		{Name: "a.txt", Path: filepath.Join(dir, "a.txt"), Size: 1200},
		{Name: "b.txt", Path: filepath.Join(dir, "b.txt"), Size: 5},
		{Name: "c.md", Path: filepath.Join(dir, "c.md"), Size: 42},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFiles_Navigation(t *testing.T) {
	f := NewFiles()
	f.SetSize(40, 10)
	f.SetEntries("/tmp/x", testEntries("/tmp/x"), "")

	f, _ = f.Update(keyMsg("j"))
	f, _ = f.Update(keyMsg("j"))
	if e, _ := f.Selected(); e.Name != "b.txt" {
		t.Errorf("after jj selected = %q, want b.txt", e.Name)
	}

	f, _ = f.Update(keyMsg("G"))
	if e, _ := f.Selected(); e.Name != "c.md" {
		t.Errorf("after G selected = %q, want c.md", e.Name)
	}

	// Bottom stays put.
	f, cmd := f.Update(keyMsg("j"))
	if cmd != nil {
		t.Error("expected no cursor-moved cmd at the bottom")
	}

	f, _ = f.Update(keyMsg("g"))
	if e, _ := f.Selected(); e.Name != "docs" {
		t.Errorf("after g selected = %q, want docs", e.Name)
	}
}

func TestFiles_CursorMovedMsg(t *testing.T) {
	f := NewFiles()
	f.SetSize(40, 10)
	f.SetEntries("/tmp/x", testEntries("/tmp/x"), "")

	_, cmd := f.Update(keyMsg("j"))
	if cmd == nil {
		t.Fatal("expected a cmd")
	}
	msg, ok := cmd().(CursorMovedMsg)
	if !ok {
		t.Fatalf("expected CursorMovedMsg, got %T", cmd())
	}
	if msg.Path != "/tmp/x/a.txt" {
		t.Errorf("path = %q", msg.Path)
	}
}

func TestFiles_OpenAndParent(t *testing.T) {
	f := NewFiles()
	f.SetSize(40, 10)
	f.SetEntries("/tmp/x", testEntries("/tmp/x"), "")

	_, cmd := f.Update(keyMsg("enter"))
	if msg, ok := cmd().(OpenDirMsg); !ok || msg.Path != "/tmp/x/docs" {
		t.Errorf("enter on dir: got %#v", cmd())
	}

	f, _ = f.Update(keyMsg("j"))
	_, cmd = f.Update(keyMsg("l"))
	if msg, ok := cmd().(FileChosenMsg); !ok || msg.Path != "/tmp/x/a.txt" {
		t.Errorf("l on file: got %#v", cmd())
	}

	_, cmd = f.Update(keyMsg("h"))
	if _, ok := cmd().(ParentDirMsg); !ok {
		t.Errorf("h: got %#v", cmd())
	}
}

func TestFiles_Marks(t *testing.T) {
	f := NewFiles()
	f.SetSize(40, 10)
	f.SetEntries("/tmp/x", testEntries("/tmp/x"), "a.txt")

	f, _ = f.Update(keyMsg(" "))
	f, _ = f.Update(keyMsg(" "))
	got := f.Marked()
	want := []string{"/tmp/x/a.txt", "/tmp/x/b.txt"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Marked() = %v, want %v", got, want)
	}

	// Same dir keeps marks, a new dir drops them.
	f.SetEntries("/tmp/x", testEntries("/tmp/x"), "")
	if len(f.Marked()) != 2 {
		t.Errorf("marks lost on refresh")
	}
	f.SetEntries("/tmp/y", testEntries("/tmp/y"), "")
	if len(f.Marked()) != 0 {
		t.Errorf("marks kept across directories")
	}
}

func TestFiles_SetEntriesKeepsCursor(t *testing.T) {
	f := NewFiles()
	f.SetSize(40, 10)
	f.SetEntries("/tmp/x", testEntries("/tmp/x"), "c.md")
	if e, _ := f.Selected(); e.Name != "c.md" {
		t.Errorf("selected = %q, want c.md", e.Name)
	}

	// Shrinking the listing clamps the cursor.
	f.SetEntries("/tmp/x", testEntries("/tmp/x")[:2], "")
	if e, _ := f.Selected(); e.Name != "a.txt" {
		t.Errorf("selected = %q, want a.txt", e.Name)
	}
}

func TestFiles_Empty(t *testing.T) {
	f := NewFiles()
	f.SetSize(40, 10)
	f.SetEntries("/tmp/x", nil, "")
	if _, ok := f.Selected(); ok {
		t.Error("expected no selection")
	}
	if !strings.Contains(f.View(), "empty") {
		t.Error("expected empty marker in view")
	}
	f, cmd := f.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("enter on empty list should do nothing")
	}
}

func TestFiles_CompactHidesSizes(t *testing.T) {
	f := NewFiles()
	f.SetSize(40, 10)
	f.SetEntries("/tmp/x", testEntries("/tmp/x"), "")

	if !strings.Contains(f.View(), "1.2 kB") {
		t.Errorf("expected humanized size in view:\n%s", f.View())
	}
	f.SetCompact(true)
	if strings.Contains(f.View(), "kB") {
		t.Errorf("compact view should not show sizes:\n%s", f.View())
	}
}

func TestFiles_Scroll(t *testing.T) {
	var entries []listing.Entry
	for i := 0; i < 20; i++ {
		name := string(rune('a'+i)) + ".txt"
		entries = append(entries, listing.Entry{Name: name, Path: "/d/" + name})
	}
	f := NewFiles()
	f.SetSize(30, 6)
	f.SetEntries("/d", entries, "")
	for i := 0; i < 10; i++ {
		f, _ = f.Update(keyMsg("j"))
	}
	if !strings.Contains(f.View(), "k.txt") {
		t.Errorf("cursor row not visible:\n%s", f.View())
	}
	if strings.Contains(f.View(), "a.txt") {
		t.Errorf("first row should have scrolled out:\n%s", f.View())
	}
}
