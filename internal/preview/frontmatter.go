package preview

import (
	"bufio"
	"bytes"
	"strings"
)

// Frontmatter holds the fields of a markdown file's --- block that the
// preview shows above the outline.
type Frontmatter struct {
	Title string
	Tags  []string
}

// ParseFrontmatter reads simple "key: value" lines from a leading --- block.
// It returns nil when there is no block or it is never closed.
func ParseFrontmatter(content []byte) *Frontmatter {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return nil
	}

	fm := &Frontmatter{}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			return fm
		}

		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.Trim(strings.TrimSpace(val), `"'`)

		switch strings.TrimSpace(key) {
		case "title":
			fm.Title = val
		case "tags":
			// [a, b] or a, b
			for _, tag := range strings.Split(strings.Trim(val, "[]"), ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					fm.Tags = append(fm.Tags, tag)
				}
			}
		}
	}
	return nil
}

// Lines renders the fields worth showing; empty fields are skipped.
func (fm *Frontmatter) Lines() []string {
	if fm == nil {
		return nil
	}
	var lines []string
	if fm.Title != "" {
		lines = append(lines, "title: "+fm.Title)
	}
	if len(fm.Tags) > 0 {
		lines = append(lines, "tags: "+strings.Join(fm.Tags, ", "))
	}
	return lines
}
