package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the explorer's global bindings. Cursor movement inside the
// file list is handled by panel.Files; those bindings are listed here only so
// the help row can show them.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Open          key.Binding
	Parent        key.Binding
	Top           key.Binding
	Bottom        key.Binding
	Mark          key.Binding
	ToggleHidden  key.Binding
	ToggleFooter  key.Binding
	TogglePinned  key.Binding
	TogglePreview key.Binding
	ToggleCompact key.Binding
	Pin           key.Binding
	Find          key.Binding
	GoTo          key.Binding
	Save          key.Binding
	Quit          key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("l", "enter", "right"),
			key.WithHelp("l", "open"),
		),
		Parent: key.NewBinding(
			key.WithKeys("h", "backspace", "left"),
			key.WithHelp("h", "parent"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "mark"),
		),
		ToggleHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden"),
		),
		ToggleFooter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "footer"),
		),
		TogglePinned: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "pinned"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		ToggleCompact: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compact"),
		),
		Pin: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "pin"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find"),
		),
		GoTo: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "go to"),
		),
		Save: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "save ui"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Parent, k.Mark, k.Find, k.GoTo, k.ToggleHidden, k.TogglePreview, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Parent},
		{k.Mark, k.Pin, k.Find, k.GoTo},
		{k.ToggleHidden, k.ToggleFooter, k.TogglePinned, k.TogglePreview, k.ToggleCompact},
		{k.Save, k.Quit},
	}
}
