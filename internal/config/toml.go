// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	Store   StoreConfig   `toml:"store"`
	Corpus  CorpusConfig  `toml:"corpus"`
}

// SessionConfig maps the default session settings.
type SessionConfig struct {
	Mode       *string `toml:"mode"`
	Value      *int    `toml:"value"`
	Difficulty *string `toml:"difficulty"`
	Method     *string `toml:"input-method"`
}

// StoreConfig selects the history backend.
type StoreConfig struct {
	Driver *string `toml:"driver"`
	DSN    *string `toml:"dsn"`
}

// CorpusConfig points at a custom question file.
type CorpusConfig struct {
	Path *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Encode writes cfg as TOML, omitting unset values.
func Encode(cfg FileConfig) (string, error) {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.String(), nil
}
