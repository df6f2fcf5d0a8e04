// Package listing reads one directory level for the file panel.
package listing

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry represents a file or directory in the current directory.
type Entry struct {
	Name    string
	Path    string // absolute
	IsDir   bool
	Size    int64
	ModTime time.Time
	Hidden  bool
}

// IsHidden reports whether name is a dotfile.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// List returns the entries of dir, directories first, then by case-insensitive
// name. Dotfiles are skipped unless showHidden. Entries that vanish or cannot
// be stat'ed while listing are skipped.
func List(dir string, showHidden bool) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		name := de.Name()
		hidden := IsHidden(name)
		if hidden && !showHidden {
			continue
		}

		path := filepath.Join(dir, name)
		info, err := os.Stat(path) // follow symlinks so linked dirs open
		if err != nil {
			info, err = de.Info()
			if err != nil {
				continue
			}
		}

		entries = append(entries, Entry{
			Name:    name,
			Path:    path,
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Hidden:  hidden,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		li, lj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if li != lj {
			return li < lj
		}
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// Names returns the entry names in order.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
