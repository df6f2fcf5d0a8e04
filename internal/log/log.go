// Package log sets up the process-wide charmbracelet logger.
//
// The TUI owns the terminal, so records go to a file rather than stderr.
package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	levelEnv = "ROVR_LOG"
	fileEnv  = "ROVR_LOG_FILE"
)

// FilePath returns where log records are written: ROVR_LOG_FILE if set,
// otherwise rovr.log under the user cache directory.
func FilePath() string {
	if p := os.Getenv(fileEnv); p != "" {
		return p
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "rovr", "rovr.log")
}

// Level parses the ROVR_LOG value, defaulting to error.
func Level() log.Level {
	env := strings.ToLower(strings.TrimSpace(os.Getenv(levelEnv)))
	if env == "" {
		return log.ErrorLevel
	}
	lvl, err := log.ParseLevel(env)
	if err != nil {
		return log.ErrorLevel
	}
	return lvl
}

// Init installs the default logger and returns a closer for its file. If the
// log file cannot be opened, records are discarded.
func Init() io.Closer {
	var w io.Writer = io.Discard
	var closer io.Closer = nopCloser{}

	path := FilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			w = f
			closer = f
		}
	}

	log.SetDefault(New(w, Level()))
	return closer
}

// New builds a logger writing to w at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "rovr",
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
