// Package watch reports changes to the directory shown in the file panel.
package watch

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts (e.g. an editor's write-rename-chmod).
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a single directory, non-recursively, and emits one signal
// per burst of events on Changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	changes  chan string
	errs     chan error
	debounce time.Duration

	mu     sync.Mutex
	dir    string
	timer  *time.Timer
	closed bool
	done   chan struct{}
}

func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		watcher:  fw,
		changes:  make(chan string, 1),
		errs:     make(chan error, 1),
		debounce: debounce,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes yields the watched directory after each debounced burst.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Errors yields watcher errors. Only the latest unread error is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Watch switches the watcher to dir, dropping the previous directory.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fsnotify.ErrClosed
	}
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.watcher.Remove(w.dir)
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.dir = ""
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	return nil
}

// Done is closed by Close.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Dir returns the directory currently watched.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	dir := w.dir
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		stale := w.closed || w.dir != dir
		w.timer = nil
		w.mu.Unlock()
		if stale {
			return
		}
		// A pending signal already covers this burst.
		select {
		case w.changes <- dir:
		default:
		}
	})
}

// Close stops the watcher. Changes is never closed so readers simply stop
// receiving.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()
	return w.watcher.Close()
}
