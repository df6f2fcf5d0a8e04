package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultTOML string

// Config is the merged configuration tree. It is built once at startup and
// handed to the explorer; there is no package-level instance.
type Config struct {
	source string
	data   map[string]any
}

// Default returns a Config holding only the built-in defaults.
func Default() *Config {
	var data map[string]any
	if _, err := toml.Decode(defaultTOML, &data); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return &Config{data: data}
}

// Load returns the defaults merged with the user's config.toml. A missing file
// is not an error.
func Load() (*Config, error) {
	cfg := Default()
	if _, err := LoadFile(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Source is the path of the user file merged into cfg, or "" if none was.
func (c *Config) Source() string {
	return c.source
}

// Lookup traverses the tree along a dotted key path (e.g. "settings.show_hidden_files").
func (c *Config) Lookup(path string) (any, bool) {
	var current any = c.data
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set writes v at a dotted key path, creating intermediate tables. It fails
// when an intermediate key already holds a non-table value.
func (c *Config) Set(path string, v any) error {
	keys := strings.Split(path, ".")
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("invalid config path %q", path)
		}
	}
	if c.data == nil {
		c.data = map[string]any{}
	}

	m := c.data
	for i, key := range keys[:len(keys)-1] {
		next, ok := m[key]
		if !ok {
			child := map[string]any{}
			m[key] = child
			m = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("config path %q: %q is not a table", path, strings.Join(keys[:i+1], "."))
		}
		m = child
	}
	m[keys[len(keys)-1]] = v
	return nil
}

// Bool returns the boolean at path, or def if it is missing or not a bool.
func (c *Config) Bool(path string, def bool) bool {
	v, ok := c.Lookup(path)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// String returns the string at path, or def.
func (c *Config) String(path, def string) string {
	v, ok := c.Lookup(path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// Int returns the integer at path, or def. TOML integers decode as int64.
func (c *Config) Int(path string, def int) int {
	v, ok := c.Lookup(path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

// Strings returns the string array at path, or def. Non-string elements make
// the whole value invalid.
func (c *Config) Strings(path string, def []string) []string {
	v, ok := c.Lookup(path)
	if !ok {
		return def
	}
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...)
	case []any:
		out := make([]string, len(s))
		for i, item := range s {
			str, ok := item.(string)
			if !ok {
				return def
			}
			out[i] = str
		}
		return out
	default:
		return def
	}
}

// Clone returns a deep copy, so one session's toggles never leak into another.
func (c *Config) Clone() *Config {
	data, _ := cloneValue(c.data).(map[string]any)
	return &Config{source: c.source, data: data}
}

// ApplyFeatures enables every --with path and then disables every --without path.
func ApplyFeatures(cfg *Config, with, without []string) error {
	for _, p := range with {
		if err := cfg.Set(p, true); err != nil {
			return fmt.Errorf("--with %s: %w", p, err)
		}
	}
	for _, p := range without {
		if err := cfg.Set(p, false); err != nil {
			return fmt.Errorf("--without %s: %w", p, err)
		}
	}
	return nil
}

// merge copies src into dst, recursing where both sides hold a table.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				merge(dv, sv)
				continue
			}
		}
		dst[k] = cloneValue(v)
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, item := range t {
			out[i], _ = cloneValue(item).(map[string]any)
		}
		return out
	default:
		return v
	}
}
