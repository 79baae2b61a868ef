package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the store section.
const (
	EnvDBDriver = "TYPERANK_DB_DRIVER"
	EnvDBDSN    = "TYPERANK_DB_DSN"
	EnvCorpus   = "TYPERANK_CORPUS"
)

// LoadEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overlays TYPERANK_* variables onto cfg.
func ApplyEnv(cfg *FileConfig) {
	if v := os.Getenv(EnvDBDriver); v != "" {
		cfg.Store.Driver = &v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		cfg.Store.DSN = &v
	}
	if v := os.Getenv(EnvCorpus); v != "" {
		cfg.Corpus.Path = &v
	}
}
