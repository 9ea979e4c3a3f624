package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Poll.DBPath != nil || cfg.Poll.CatalogPath != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigPollSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[poll]\ndb = \"/tmp/votes.db\"\ncatalog = \"/tmp/election.toml\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Poll.DBPath == nil || *cfg.Poll.DBPath != "/tmp/votes.db" {
		t.Fatalf("unexpected db path: %v", cfg.Poll.DBPath)
	}
	if cfg.Poll.CatalogPath == nil || *cfg.Poll.CatalogPath != "/tmp/election.toml" {
		t.Fatalf("unexpected catalog path: %v", cfg.Poll.CatalogPath)
	}
	if cfg.Poll.DebugLog != nil {
		t.Fatalf("expected debug-log unset")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[poll]\ndatabase = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "poll.database") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "jorip", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "jorip", "jorip.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}

func TestResolveCatalogPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := ResolveCatalogPath("")
	if err != nil || got != "" {
		t.Fatalf("expected built-in catalog without a file, got %q, %v", got, err)
	}

	path := filepath.Join(dir, "jorip", "catalog.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("title = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	got, err = ResolveCatalogPath("")
	if err != nil || got != path {
		t.Fatalf("expected default catalog file %q, got %q, %v", path, got, err)
	}

	got, err = ResolveCatalogPath("/explicit.toml")
	if err != nil || got != "/explicit.toml" {
		t.Fatalf("expected explicit path to win, got %q, %v", got, err)
	}
}

func TestLoadConfigExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[poll]\ndb = \"~/votes.db\"\ncatalog = \"/abs/c.toml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got := *cfg.Poll.DBPath; got != filepath.Join(home, "votes.db") {
		t.Fatalf("expected expanded db path, got %q", got)
	}
	if got := *cfg.Poll.CatalogPath; got != "/abs/c.toml" {
		t.Fatalf("expected absolute path unchanged, got %q", got)
	}
}
