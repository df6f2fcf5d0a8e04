package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pfassina/rovr/internal/config"
)

// FileName is the UI state file inside the config directory.
const FileName = "ui_state.json"

// LoadStatus says which branch of Load produced the state.
type LoadStatus int

const (
	// StatusMissing: no file; the state is empty.
	StatusMissing LoadStatus = iota
	// StatusCurrent: the file matched SchemaVersion and was returned as is.
	StatusCurrent
	// StatusMigrated: the file had another or no version and was overlaid on Default().
	StatusMigrated
	// StatusCorrupt: the file was not a JSON object; the state is empty.
	StatusCorrupt
	// StatusUnreadable: the file could not be read; the state is empty.
	StatusUnreadable
)

func (s LoadStatus) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusCurrent:
		return "current"
	case StatusMigrated:
		return "migrated"
	case StatusCorrupt:
		return "corrupt"
	case StatusUnreadable:
		return "unreadable"
	}
	return fmt.Sprintf("LoadStatus(%d)", int(s))
}

// LoadResult is what Load found. Err is only for logging; State is always usable.
type LoadResult struct {
	State  State
	Status LoadStatus
	Err    error
}

// SaveResult reports the outcome of a best-effort Save.
type SaveResult struct {
	Path string
	Err  error
}

// Ignored reports whether the save failed and the failure was swallowed.
func (r SaveResult) Ignored() bool {
	return r.Err != nil
}

// Store persists UI state as JSON in the config directory.
type Store struct {
	dir func() string
}

// NewStore creates a store rooted at the rovr config directory. The directory
// is resolved on every call.
func NewStore() *Store {
	return &Store{dir: config.ConfigDir}
}

// NewStoreAt creates a store whose directory comes from dir.
func NewStoreAt(dir func() string) *Store {
	return &Store{dir: dir}
}

// Path returns the current location of the state file.
func (s *Store) Path() string {
	return filepath.Join(s.dir(), FileName)
}

// Load reads the UI state from disk. It never fails: a missing, unreadable
// or malformed file yields an empty state.
func (s *Store) Load() LoadResult {
	path := s.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{Status: StatusMissing}
		}
		return LoadResult{Status: StatusUnreadable, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	fields, err := decodeObject(data)
	if err != nil {
		return LoadResult{Status: StatusCorrupt, Err: fmt.Errorf("parse %s: %w", path, err)}
	}

	parsed, hasVersion := fromFields(fields)
	if hasVersion && parsed.Version == SchemaVersion {
		return LoadResult{State: parsed, Status: StatusCurrent}
	}

	// Another (or no) version: overlay what we can on the defaults.
	merged := Merge(Default(), parsed)
	if hasVersion {
		merged.Version = parsed.Version
	}
	return LoadResult{State: merged, Status: StatusMigrated}
}

// Save merges partial over Default(), stamps SchemaVersion and writes the
// result atomically. Failures are returned in the result, never raised.
func (s *Store) Save(partial State) SaveResult {
	path := s.Path()

	state := Merge(Default(), partial)
	state.Version = SchemaVersion

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return SaveResult{Path: path, Err: fmt.Errorf("encode ui state: %w", err)}
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return SaveResult{Path: path, Err: fmt.Errorf("create config directory: %w", err)}
	}

	tmpName, err := writeTemp(path, data)
	if err != nil {
		return SaveResult{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return SaveResult{Path: path, Err: fmt.Errorf("replace %s: %w", path, err)}
	}
	return SaveResult{Path: path}
}

// errIsDir is returned by Remove when a directory sits at the state path.
var errIsDir = errors.New("is a directory")

// Remove deletes the state file. removed is false when there was nothing to
// delete. A directory at the path is never removed.
func (s *Store) Remove() (removed bool, err error) {
	path := s.Path()
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, &fs.PathError{Op: "remove", Path: path, Err: errIsDir}
	}
	if err := os.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}

// writeTemp writes data to a new file next to path and returns its name.
// The caller renames it into place.
func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+FileName+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmpName, nil
}
