package panel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/rovr/internal/theme"
)

// MaxPins is the number of pins reachable with the digit keys.
const MaxPins = 9

// Pin is a directory shown in the pinned sidebar.
type Pin struct {
	Label string
	Path  string
}

// NewPins builds pins from absolute paths, dropping duplicates and anything
// past MaxPins.
func NewPins(paths []string) []Pin {
	seen := make(map[string]bool)
	var pins []Pin
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		pins = append(pins, Pin{Label: pinLabel(p), Path: p})
		if len(pins) == MaxPins {
			break
		}
	}
	return pins
}

func pinLabel(path string) string {
	if d := displayDir(path); d == "~" {
		return d
	}
	base := filepath.Base(path)
	if base == string(filepath.Separator) || base == "." {
		return path
	}
	return base
}

// Pinned is the sidebar listing pinned directories.
type Pinned struct {
	pins    []Pin
	current string
	width   int
	height  int
	compact bool
	theme   *theme.Theme
}

func NewPinned(pins []Pin) Pinned {
	return Pinned{pins: pins}
}

// SetTheme sets the color theme for the pinned sidebar.
func (p *Pinned) SetTheme(th *theme.Theme) { p.theme = th }

// SetCurrent marks the pin matching dir as active.
func (p *Pinned) SetCurrent(dir string) { p.current = dir }

func (p *Pinned) SetCompact(compact bool) { p.compact = compact }

// Pin returns the pin for the 1-based digit n.
func (p Pinned) Pin(n int) (Pin, bool) {
	if n < 1 || n > len(p.pins) {
		return Pin{}, false
	}
	return p.pins[n-1], true
}

func (p Pinned) Pins() []Pin {
	return p.pins
}

func (p *Pinned) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p Pinned) View() string {
	if p.width == 0 || p.height == 0 {
		return ""
	}

	th := theme.DefaultTheme()
	if p.theme != nil {
		th = *p.theme
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Accent)
	if !p.compact {
		titleStyle = titleStyle.Padding(0, 1)
	}
	dim := lipgloss.NewStyle().Foreground(th.Dim)

	var lines []string
	lines = append(lines, titleStyle.Render("Pinned"))

	if len(p.pins) == 0 {
		lines = append(lines, dim.Render(" none"))
	}
	for i, pin := range p.pins {
		if len(lines) >= p.height {
			break
		}
		style := lipgloss.NewStyle().Foreground(th.Dir)
		if pin.Path == p.current {
			style = style.Bold(true).Foreground(th.Accent)
		}
		line := fmt.Sprintf("%s %s", dim.Render(fmt.Sprint(i+1)), style.Render(pin.Label))
		lines = append(lines, ansi.Truncate(" "+line, p.width, "…"))
	}

	return strings.Join(lines, "\n")
}
