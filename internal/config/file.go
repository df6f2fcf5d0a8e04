package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigDir returns the rovr config directory, respecting XDG_CONFIG_HOME.
// It is resolved on every call so environment overrides take effect.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rovr")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rovr")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads config.toml and merges it over cfg.
// Returns true if the file existed, false otherwise.
func LoadFile(cfg *Config) (bool, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	var user map[string]any
	if err := toml.Unmarshal(data, &user); err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.data == nil {
		cfg.data = map[string]any{}
	}
	merge(cfg.data, user)
	cfg.source = path
	return true, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// Normalise converts a path to forward slashes for display.
func Normalise(path string) string {
	return strings.ReplaceAll(filepath.Clean(path), `\`, "/")
}
