package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/manabcodes/bangladesh-election-poll/internal/config"
	"github.com/manabcodes/bangladesh-election-poll/internal/model"
)

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Poll.DBPath != nil || cfg.Poll.CatalogPath != nil || cfg.Poll.DebugLog != nil {
		t.Fatalf("expected commented template to set nothing, got %+v", cfg.Poll)
	}
}

func TestApplyStringConfigRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var db string
	cmd.Flags().StringVar(&db, "db", "flag-default", "")
	fromFile := "from-file"

	applyStringConfig(cmd, "db", &db, &fromFile)
	if db != "from-file" {
		t.Fatalf("expected config value, got %q", db)
	}

	if err := cmd.Flags().Set("db", "from-flag"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	applyStringConfig(cmd, "db", &db, &fromFile)
	if db != "from-flag" {
		t.Fatalf("expected flag to win, got %q", db)
	}

	applyStringConfig(cmd, "db", &db, nil)
	if db != "from-flag" {
		t.Fatalf("nil config value must not override, got %q", db)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(model.Config{DBPath: " "}); err == nil {
		t.Fatalf("expected empty db path to fail")
	}
	if err := validateConfig(model.Config{Ephemeral: true}); err != nil {
		t.Fatalf("ephemeral runs need no db path: %v", err)
	}
	if err := validateConfig(model.Config{DBPath: "x.db"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRootRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"results", "fingerprint", "voters", "catalog", "config"} {
		if sub, _, err := root.Find([]string{name}); err != nil || sub.Name() != name {
			t.Fatalf("expected %s subcommand", name)
		}
	}
}
