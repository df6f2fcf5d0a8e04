package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitChange(t *testing.T, w *Watcher) (string, bool) {
	t.Helper()
	select {
	case dir := <-w.Changes():
		return dir, true
	case <-time.After(3 * time.Second):
		return "", false
	}
}

func TestWatcher_SignalsOnCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(dir); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		os.WriteFile(filepath.Join(dir, "f"+string(rune('a'+i))), []byte("x"), 0644)
	}

	got, ok := waitChange(t, w)
	if !ok {
		t.Fatal("no change signalled")
	}
	if got != dir {
		t.Errorf("changed dir = %q, want %q", got, dir)
	}
}

func TestWatcher_Retarget(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(first); err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(second); err != nil {
		t.Fatal(err)
	}
	if w.Dir() != second {
		t.Errorf("Dir() = %q, want %q", w.Dir(), second)
	}

	os.WriteFile(filepath.Join(second, "new"), []byte("x"), 0644)
	got, ok := waitChange(t, w)
	if !ok {
		t.Fatal("no change signalled")
	}
	if got != second {
		t.Errorf("changed dir = %q, want %q", got, second)
	}
}

func TestWatcher_WatchMissing(t *testing.T) {
	w, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(filepath.Join(t.TempDir(), "gone")); err == nil {
		t.Error("expected error watching a missing directory")
	}
	if w.Dir() != "" {
		t.Errorf("Dir() = %q after failed Watch, want empty", w.Dir())
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	w, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if err := w.Watch(t.TempDir()); err == nil {
		t.Error("Watch after Close should fail")
	}
}
