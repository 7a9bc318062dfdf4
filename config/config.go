// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: User configuration: key bindings and shell settings loaded
//          from lattice.yaml.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/latticeshell/lattice/shell"
)

// Config is the parsed lattice.yaml.
type Config struct {
	// PaneMoveKey toggles pane-move mode.
	PaneMoveKey string `yaml:"pane_move_key"`
	// Keybindings maps action names to key strings, e.g. palette: ctrl+p.
	Keybindings map[string]string `yaml:"keybindings"`
	// DataDir holds the snapshot database and widget files.
	DataDir string `yaml:"data_dir"`
	// Workspaces is how many workspaces the number-switch bindings cover.
	Workspaces int `yaml:"workspaces"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PaneMoveKey: "ctrl+b",
		Keybindings: map[string]string{
			"palette":        "ctrl+p",
			"quit":           "ctrl+q",
			"close-pane":     "ctrl+w",
			"new-notes":      "ctrl+n",
			"save":           "ctrl+s",
			"copy":           "ctrl+c",
			"cut":            "ctrl+x",
			"paste":          "ctrl+v",
			"next-workspace": "alt+right",
			"prev-workspace": "alt+left",
		},
		DataDir:    defaultDataDir(),
		Workspaces: 9,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "lattice")
	}
	return ".lattice"
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "lattice.yaml")
}

// Load reads path and overlays it on the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every key string parses. Bad bindings fail load rather
// than surfacing later as dead keys.
func (c *Config) Validate() error {
	if _, err := shell.ParseKeyStroke(c.PaneMoveKey); err != nil {
		return fmt.Errorf("pane_move_key: %w", err)
	}
	for action, key := range c.Keybindings {
		if _, err := shell.ParseKeyStroke(key); err != nil {
			return fmt.Errorf("keybinding %q: %w", action, err)
		}
	}
	if c.Workspaces < 1 {
		return fmt.Errorf("workspaces must be at least 1, got %d", c.Workspaces)
	}
	return nil
}

// Stroke parses the binding for action, falling back to the default table
// when the user's config omits it.
func (c *Config) Stroke(action string) (shell.KeyStroke, bool) {
	key, ok := c.Keybindings[action]
	if !ok {
		key, ok = Default().Keybindings[action]
		if !ok {
			return shell.KeyStroke{}, false
		}
	}
	ks, err := shell.ParseKeyStroke(key)
	if err != nil {
		return shell.KeyStroke{}, false
	}
	return ks, true
}

// Save writes the config to path, creating directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
