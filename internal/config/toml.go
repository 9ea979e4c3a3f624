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

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Poll PollConfig `toml:"poll"`
}

// PollConfig maps the [poll] section. Nil fields were not set in the file.
type PollConfig struct {
	DBPath      *string `toml:"db"`
	CatalogPath *string `toml:"catalog"`
	DebugLog    *string `toml:"debug-log"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an
// error; unknown keys are. Path values starting with "~/" are expanded.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.Decode(string(raw), &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	for _, p := range []*string{cfg.Poll.DBPath, cfg.Poll.CatalogPath, cfg.Poll.DebugLog} {
		if p != nil {
			*p = expandHome(*p)
		}
	}
	return cfg, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, path[2:])
}
