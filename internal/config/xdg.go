// Package config locates and reads jorip's files under the XDG base directories.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const appDir = "jorip"

// XDGConfigHome returns $XDG_CONFIG_HOME, or ~/.config.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns $XDG_DATA_HOME, or ~/.local/share.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", ".local", "share")
}

func xdgHome(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultDBPath returns the default path for the SQLite vote store.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appDir, "jorip.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}

// DefaultCatalogPath returns where a user-provided election catalog is looked up.
func DefaultCatalogPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "catalog.toml")
}

// ResolveCatalogPath returns path when set, else the default catalog file if
// it exists, else "" for the built-in catalog.
func ResolveCatalogPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	candidate := DefaultCatalogPath()
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return candidate, nil
}
