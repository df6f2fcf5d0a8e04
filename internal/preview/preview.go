// Package preview renders the preview sidebar content for a path.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pfassina/rovr/internal/listing"
)

// Options tunes what Render reads.
type Options struct {
	MaxBytes   int  // read at most this much of a file
	MaxLines   int  // keep at most this many lines
	ShowHidden bool // list dotfiles in directory previews
	Bat        bool // render text through bat when it is installed
}

// Result is the preview for one path.
type Result struct {
	Path  string
	Title string
	Lines []string
	Err   error
}

// DefaultOptions are used when the config carries nothing better.
func DefaultOptions() Options {
	return Options{MaxBytes: 64 * 1024, MaxLines: 200}
}

// Render builds the preview for path. It never fails outright: problems are
// reported in Result.Err and as a single explanatory line.
func Render(ctx context.Context, path string, opts Options) Result {
	if opts.MaxLines <= 0 {
		opts.MaxLines = DefaultOptions().MaxLines
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultOptions().MaxBytes
	}

	res := Result{Path: path, Title: filepath.Base(path)}

	info, err := os.Stat(path)
	if err != nil {
		res.Err = err
		res.Lines = []string{"cannot preview: " + err.Error()}
		return res
	}

	if info.IsDir() {
		return renderDir(res, path, opts)
	}

	res.Title = fmt.Sprintf("%s (%s)", res.Title, humanize.Bytes(uint64(info.Size())))

	head, err := readHead(path, opts.MaxBytes)
	if err != nil {
		res.Err = err
		res.Lines = []string{"cannot preview: " + err.Error()}
		return res
	}
	if isBinary(head) {
		res.Lines = []string{fmt.Sprintf("binary file, %s", humanize.Bytes(uint64(info.Size())))}
		return res
	}

	if isMarkdown(path) {
		if outline := Outline(head); len(outline) > 0 {
			lines := ParseFrontmatter(head).Lines()
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			res.Lines = clip(append(lines, outline...), opts.MaxLines)
			return res
		}
	}

	if opts.Bat {
		if lines, err := renderBat(ctx, path, opts.MaxLines); err == nil {
			res.Lines = lines
			return res
		}
	}

	res.Lines = textLines(head, opts.MaxLines)
	return res
}

func renderDir(res Result, path string, opts Options) Result {
	entries, err := listing.List(path, opts.ShowHidden)
	if err != nil {
		res.Err = err
		res.Lines = []string{"cannot list: " + err.Error()}
		return res
	}
	res.Title = fmt.Sprintf("%s/ (%d items)", res.Title, len(entries))
	if len(entries) == 0 {
		res.Lines = []string{"empty directory"}
		return res
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		lines = append(lines, name)
	}
	res.Lines = clip(lines, opts.MaxLines)
	return res
}

func readHead(path string, max int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, int64(max)))
}

// isBinary uses the same heuristic as git: a NUL byte in the first chunk.
func isBinary(data []byte) bool {
	n := len(data)
	if n > 8000 {
		n = 8000
	}
	return bytes.IndexByte(data[:n], 0) >= 0
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return true
	}
	return false
}

func textLines(data []byte, max int) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return []string{"empty file"}
	}
	return clip(strings.Split(text, "\n"), max)
}

func renderBat(ctx context.Context, path string, maxLines int) ([]string, error) {
	bin, err := exec.LookPath("bat")
	if err != nil {
		return nil, err
	}
	out, err := exec.CommandContext(ctx, bin,
		"--color=always",
		"--style=plain",
		"--paging=never",
		"--line-range=:"+strconv.Itoa(maxLines),
		path,
	).Output()
	if err != nil {
		return nil, fmt.Errorf("bat: %w", err)
	}
	return textLines(out, maxLines), nil
}

func clip(lines []string, max int) []string {
	if len(lines) > max {
		return lines[:max]
	}
	return lines
}
