package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
)

// SchemaVersion is the on-disk shape of ui_state.json.
const SchemaVersion = 1

// JSON keys of the persisted record.
const (
	keyVersion              = "version"
	keyShowHiddenFiles      = "show_hidden_files"
	keyFooterVisible        = "footer_visible"
	keyPinnedSidebarVisible = "pinned_sidebar_visible"
	keyPreviewVisible       = "preview_visible"
	keyCompactMode          = "compact_mode"
)

var errNotObject = errors.New("ui state: top-level value is not an object")

var knownKeys = map[string]bool{
	keyVersion:              true,
	keyShowHiddenFiles:      true,
	keyFooterVisible:        true,
	keyPinnedSidebarVisible: true,
	keyPreviewVisible:       true,
	keyCompactMode:          true,
}

// State is the last known UI toggle state. A nil field means unset: the
// caller falls back to its runtime default.
type State struct {
	// Version is kept as the number written in the file, so 1.0 matches
	// SchemaVersion and a foreign 2.5 survives a load.
	Version              float64
	ShowHiddenFiles      *bool
	FooterVisible        *bool
	PinnedSidebarVisible *bool
	PreviewVisible       *bool
	CompactMode          *bool

	// Extra holds keys this version does not know about. They are written
	// back unchanged.
	Extra map[string]json.RawMessage
}

// wireState is the fixed part of the document. Pointer fields without
// omitempty so every key is written, null when unset.
type wireState struct {
	Version              float64 `json:"version"`
	ShowHiddenFiles      *bool   `json:"show_hidden_files"`
	FooterVisible        *bool   `json:"footer_visible"`
	PinnedSidebarVisible *bool   `json:"pinned_sidebar_visible"`
	PreviewVisible       *bool   `json:"preview_visible"`
	CompactMode          *bool   `json:"compact_mode"`
}

// Default returns the default record: every toggle unset.
func Default() State {
	return State{Version: SchemaVersion}
}

// IsZero reports whether s carries no information at all.
func (s State) IsZero() bool {
	return s.Version == 0 &&
		s.ShowHiddenFiles == nil &&
		s.FooterVisible == nil &&
		s.PinnedSidebarVisible == nil &&
		s.PreviewVisible == nil &&
		s.CompactMode == nil &&
		len(s.Extra) == 0
}

// Merge returns base with every set field of over applied on top. Extra keys
// are merged the same way. A non-zero over.Version wins.
func Merge(base, over State) State {
	out := base
	if over.Version != 0 {
		out.Version = over.Version
	}
	if over.ShowHiddenFiles != nil {
		out.ShowHiddenFiles = over.ShowHiddenFiles
	}
	if over.FooterVisible != nil {
		out.FooterVisible = over.FooterVisible
	}
	if over.PinnedSidebarVisible != nil {
		out.PinnedSidebarVisible = over.PinnedSidebarVisible
	}
	if over.PreviewVisible != nil {
		out.PreviewVisible = over.PreviewVisible
	}
	if over.CompactMode != nil {
		out.CompactMode = over.CompactMode
	}
	if len(base.Extra) > 0 || len(over.Extra) > 0 {
		out.Extra = make(map[string]json.RawMessage, len(base.Extra)+len(over.Extra))
		for k, v := range base.Extra {
			out.Extra[k] = v
		}
		for k, v := range over.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Bool dereferences p, returning fallback when it is unset.
func Bool(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

// Ptr returns a pointer to b.
func Ptr(b bool) *bool {
	return &b
}

// MarshalJSON writes the six known keys followed by any passthrough keys.
func (s State) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(wireState{
		Version:              s.Version,
		ShowHiddenFiles:      s.ShowHiddenFiles,
		FooterVisible:        s.FooterVisible,
		PinnedSidebarVisible: s.PinnedSidebarVisible,
		PreviewVisible:       s.PreviewVisible,
		CompactMode:          s.CompactMode,
	})
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return known, nil
	}

	var buf bytes.Buffer
	buf.Write(known[:len(known)-1]) // drop the closing brace
	for _, k := range sortedKeys(s.Extra) {
		if knownKeys[k] {
			continue
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		raw := s.Extra[k]
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts only a JSON object. A known key holding the wrong
// type reads as unset; unknown keys land in Extra.
func (s *State) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	*s, _ = fromFields(fields)
	return nil
}

// decodeObject parses data as a JSON object, rejecting arrays, scalars and null.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotObject
	}
	return fields, nil
}

// fromFields builds a State from a decoded object. hasVersion reports whether
// the object carried a numeric version key.
func fromFields(fields map[string]json.RawMessage) (s State, hasVersion bool) {
	for k, raw := range fields {
		switch k {
		case keyVersion:
			var n *float64
			if json.Unmarshal(raw, &n) == nil && n != nil {
				s.Version = *n
				hasVersion = true
			}
		case keyShowHiddenFiles:
			s.ShowHiddenFiles = decodeBool(raw)
		case keyFooterVisible:
			s.FooterVisible = decodeBool(raw)
		case keyPinnedSidebarVisible:
			s.PinnedSidebarVisible = decodeBool(raw)
		case keyPreviewVisible:
			s.PreviewVisible = decodeBool(raw)
		case keyCompactMode:
			s.CompactMode = decodeBool(raw)
		default:
			if s.Extra == nil {
				s.Extra = map[string]json.RawMessage{}
			}
			s.Extra[k] = append(json.RawMessage(nil), raw...)
		}
	}
	return s, hasVersion
}

func decodeBool(raw json.RawMessage) *bool {
	var b *bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil
	}
	return b
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
