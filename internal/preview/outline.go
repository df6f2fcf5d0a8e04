package preview

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// Heading is one entry of a markdown outline.
type Heading struct {
	Level int
	Text  string
}

// Headings parses content with goldmark and returns its headings in order.
// YAML frontmatter is skipped so its closing fence is not read as a heading.
func Headings(content []byte) []Heading {
	source := stripFrontmatter(content)
	doc := md.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		lines := h.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}
		if t := strings.TrimSpace(buf.String()); t != "" {
			headings = append(headings, Heading{Level: h.Level, Text: t})
		}
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// Outline renders Headings as indented lines.
func Outline(content []byte) []string {
	headings := Headings(content)
	lines := make([]string, len(headings))
	for i, h := range headings {
		lines[i] = strings.Repeat("  ", h.Level-1) + "• " + h.Text
	}
	return lines
}

func stripFrontmatter(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return content
	}
	rest := content[bytes.IndexByte(content, '\n')+1:]
	for off := 0; off < len(rest); {
		end := bytes.IndexByte(rest[off:], '\n')
		var line []byte
		if end < 0 {
			line = rest[off:]
		} else {
			line = rest[off : off+end]
		}
		if strings.TrimSpace(string(line)) == "---" {
			if end < 0 {
				return nil
			}
			return rest[off+end+1:]
		}
		if end < 0 {
			break
		}
		off += end + 1
	}
	return content
}
