// Package fingerprint derives a best-effort pseudo-identity for this terminal.
//
// The identifier is a heuristic built from environment signals. It is neither
// unique nor tamper-proof: two machines with identical settings collide, and
// changing any signal (switching locale, zone or emulator) yields a new
// identity. The duplicate-vote check built on it is advisory.
//
// A terminal has no screen resolution; that signal is always Placeholder.
// Window size is not used since it changes on every resize.
package fingerprint

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Placeholder replaces any signal that cannot be read.
const Placeholder = "unknown"

const (
	renderText = "fingerprint"
	// Ambiguous-width runes make the width probe depend on the locale's East Asian setting.
	widthProbe = "fingerprint ±·§"
	renderKeep = 16
)

// Signals is the environment bundle the fingerprint encodes. Field order is fixed.
type Signals struct {
	UserAgent        string `json:"userAgent"`
	Language         string `json:"language"`
	Platform         string `json:"platform"`
	ScreenResolution string `json:"screenResolution"`
	Timezone         string `json:"timezone"`
	Canvas           string `json:"canvas"`
}

// Probe reads the raw environment. Nil fields fall back to placeholders.
type Probe struct {
	Version   string
	Getenv    func(string) string
	Timezone  func() string
	Render    func(text string) string
	TextWidth func(text string) int
	GOOS      string
	GOARCH    string
}

// DefaultProbe reads signals from the running process and its terminal.
func DefaultProbe(version string) Probe {
	return Probe{
		Version:  version,
		Getenv:   os.Getenv,
		Timezone: localZoneName,
		// Layout only: colors and attributes depend on whether stdout is a TTY.
		Render: func(text string) string {
			return lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				Render(text)
		},
		TextWidth: runewidth.StringWidth,
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
	}
}

// Collect gathers the signal bundle.
func (p Probe) Collect() Signals {
	return Signals{
		UserAgent:        p.userAgent(),
		Language:         p.language(),
		Platform:         p.platform(),
		ScreenResolution: Placeholder,
		Timezone:         p.timezone(),
		Canvas:           p.canvas(),
	}
}

// Compute returns the encoded fingerprint for the probe's environment.
func (p Probe) Compute() string {
	return Encode(p.Collect())
}

// Encode returns base64 of the canonical JSON form of the signals.
func Encode(s Signals) string {
	raw, err := json.Marshal(s)
	if err != nil {
		// Signals holds only strings; Marshal cannot fail.
		return base64.StdEncoding.EncodeToString([]byte(Placeholder))
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// Decode reverses Encode.
func Decode(fp string) (Signals, error) {
	raw, err := base64.StdEncoding.DecodeString(fp)
	if err != nil {
		return Signals{}, fmt.Errorf("failed to decode fingerprint: %w", err)
	}
	var s Signals
	if err := json.Unmarshal(raw, &s); err != nil {
		return Signals{}, fmt.Errorf("failed to decode fingerprint: %w", err)
	}
	return s, nil
}

func (p Probe) env(keys ...string) string {
	if p.Getenv == nil {
		return ""
	}
	for _, k := range keys {
		if v := strings.TrimSpace(p.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func (p Probe) userAgent() string {
	termName := orPlaceholder(p.env("TERM"))
	program := orPlaceholder(p.env("TERM_PROGRAM"))
	version := orPlaceholder(p.Version)
	return fmt.Sprintf("jorip/%s (%s; %s)", version, termName, program)
}

func (p Probe) language() string {
	return orPlaceholder(p.env("LC_ALL", "LC_MESSAGES", "LANG"))
}

func (p Probe) platform() string {
	if p.GOOS == "" || p.GOARCH == "" {
		return Placeholder
	}
	return p.GOOS + "/" + p.GOARCH
}

func (p Probe) timezone() string {
	if tz := strings.TrimPrefix(p.env("TZ"), ":"); tz != "" {
		return tz
	}
	if p.Timezone == nil {
		return Placeholder
	}
	return orPlaceholder(p.Timezone())
}

func (p Probe) canvas() string {
	if p.Render == nil || p.TextWidth == nil {
		return Placeholder
	}
	data := fmt.Sprintf("%s|%d", p.Render(renderText), p.TextWidth(widthProbe))
	sum := sha256.Sum256([]byte(data))
	enc := base64.StdEncoding.EncodeToString(sum[:])
	return enc[len(enc)-renderKeep:]
}

// localZoneName resolves the IANA name of the system zone from /etc/localtime.
func localZoneName() string {
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if i := strings.LastIndex(target, "zoneinfo"+string(filepath.Separator)); i >= 0 {
			return target[i+len("zoneinfo")+1:]
		}
	}
	if raw, err := os.ReadFile("/etc/timezone"); err == nil {
		return strings.TrimSpace(string(raw))
	}
	return ""
}

func orPlaceholder(v string) string {
	if v == "" {
		return Placeholder
	}
	return v
}
