package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Mode != nil || cfg.Store.Driver != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[session]
mode = "time"
value = 60
difficulty = "hard"

[store]
driver = "postgres"
dsn = "postgres://localhost/typerank"

[corpus]
path = "/tmp/questions.toml"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Mode == nil || *cfg.Session.Mode != "time" {
		t.Fatalf("unexpected mode %v", cfg.Session.Mode)
	}
	if cfg.Session.Value == nil || *cfg.Session.Value != 60 {
		t.Fatalf("unexpected value %v", cfg.Session.Value)
	}
	if cfg.Session.Method != nil {
		t.Fatalf("expected unset input method")
	}
	if cfg.Store.Driver == nil || *cfg.Store.Driver != "postgres" {
		t.Fatalf("unexpected driver %v", cfg.Store.Driver)
	}
	if cfg.Corpus.Path == nil || *cfg.Corpus.Path != "/tmp/questions.toml" {
		t.Fatalf("unexpected corpus path %v", cfg.Corpus.Path)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[session]\nmodes = \"count\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "session.modes") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	mode := "count"
	value := 5
	out, err := Encode(FileConfig{Session: SessionConfig{Mode: &mode, Value: &value}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(out, `mode = "count"`) || !strings.Contains(out, "value = 5") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "typerank", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "typerank", "typerank.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultEnvPath(); got != filepath.Join("/cfg", "typerank", ".env") {
		t.Fatalf("unexpected env path %q", got)
	}
}

func TestLoadEnvAndApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TYPERANK_DB_DRIVER=postgres\nTYPERANK_DB_DSN=from-file\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvDBDriver, "")
	t.Setenv(EnvDBDSN, "from-env")
	t.Setenv(EnvCorpus, "")
	os.Unsetenv(EnvDBDriver)

	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load env: %v", err)
	}

	var cfg FileConfig
	ApplyEnv(&cfg)
	if cfg.Store.Driver == nil || *cfg.Store.Driver != "postgres" {
		t.Fatalf("expected driver from .env, got %v", cfg.Store.Driver)
	}
	if cfg.Store.DSN == nil || *cfg.Store.DSN != "from-env" {
		t.Fatalf("expected existing env to win, got %v", cfg.Store.DSN)
	}
	if cfg.Corpus.Path != nil {
		t.Fatalf("expected no corpus override")
	}
}
