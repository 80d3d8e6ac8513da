// Package config loads optional display preferences. A missing file is not
// an error; everything has a default.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Columns lists the columns to display, by header name. Empty means
	// the default set.
	Columns []string `yaml:"columns,omitempty"`
	// Color is "auto", "always" or "never".
	Color string `yaml:"color,omitempty"`
	// Sort is the sibling ordering convention: "kind" (kind precedence,
	// then name) or "name" (name only).
	Sort string `yaml:"sort,omitempty"`
	// Header toggles the column header row.
	Header *bool `yaml:"header,omitempty"`
	// HistoryDB overrides the snapshot database location.
	HistoryDB string `yaml:"history_db,omitempty"`
}

var defaultConfig = Config{
	Color: "auto",
	Sort:  "kind",
}

// Load reads the config at path, or the first of the default locations
// when path is empty. No file at all yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		candidates := []string{
			filepath.Join(os.Getenv("HOME"), ".config/blktree/config.yaml"),
			"/etc/blktree/config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	cfg := defaultConfig
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q", c.Color)
	}
	switch c.Sort {
	case "", "kind", "name":
	default:
		return fmt.Errorf("invalid sort %q", c.Sort)
	}
	return nil
}

// ShowHeader reports whether the header row is enabled (default true).
func (c *Config) ShowHeader() bool {
	return c.Header == nil || *c.Header
}
