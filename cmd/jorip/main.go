// Package main provides the CLI entrypoint for jorip.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manabcodes/bangladesh-election-poll/internal/catalog"
	"github.com/manabcodes/bangladesh-election-poll/internal/config"
	"github.com/manabcodes/bangladesh-election-poll/internal/fingerprint"
	"github.com/manabcodes/bangladesh-election-poll/internal/generator"
	"github.com/manabcodes/bangladesh-election-poll/internal/model"
	"github.com/manabcodes/bangladesh-election-poll/internal/poll"
	"github.com/manabcodes/bangladesh-election-poll/internal/resultsui"
	"github.com/manabcodes/bangladesh-election-poll/internal/store"
	"github.com/manabcodes/bangladesh-election-poll/internal/tally"
	"github.com/manabcodes/bangladesh-election-poll/internal/tui"
)

var version = "dev"

var (
	pollDBPath      string
	pollCatalogPath string
	pollEphemeral   bool
	pollDebugLog    string

	resultsConstituency string
	resultsPlain        bool
)

// pollStore is the storage surface the CLI needs from either backend.
type pollStore interface {
	poll.VoteStore
	Voters(ctx context.Context) ([]model.VoterRecord, error)
	Close() error
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jorip",
		Short:         "Bangladesh election opinion poll",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPollCmd,
	}

	rootCmd.PersistentFlags().StringVar(&pollDBPath, "db", config.DefaultDBPath(), "path to the poll database")
	rootCmd.PersistentFlags().StringVar(&pollCatalogPath, "catalog", "", "TOML election catalog (default: catalog.toml in the config dir, else built-in)")
	rootCmd.PersistentFlags().StringVar(&pollDebugLog, "debug-log", "", "append debug logs to this file")
	rootCmd.Flags().BoolVar(&pollEphemeral, "ephemeral", false, "keep votes in memory only")

	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newFingerprintCmd())
	rootCmd.AddCommand(newVotersCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func loadModelConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &pollDBPath, fileCfg.Poll.DBPath)
	applyStringConfig(cmd, "catalog", &pollCatalogPath, fileCfg.Poll.CatalogPath)
	applyStringConfig(cmd, "debug-log", &pollDebugLog, fileCfg.Poll.DebugLog)

	cfg := model.Config{
		DBPath:      pollDBPath,
		CatalogPath: pollCatalogPath,
		Ephemeral:   pollEphemeral,
		DebugLog:    pollDebugLog,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if !cfg.Ephemeral && strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("--db must not be empty")
	}
	return nil
}

// setupLogging routes log output to the debug file, or discards it so the TUI stays clean.
func setupLogging(cfg model.Config) (io.Closer, error) {
	if cfg.DebugLog == "" {
		log.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}
	f, err := tea.LogToFile(cfg.DebugLog, "jorip")
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return f, nil
}

func loadCatalog(cfg model.Config) (*catalog.Catalog, error) {
	path, err := config.ResolveCatalogPath(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to locate catalog: %w", err)
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return c, nil
}

func openStore(cfg model.Config) (pollStore, error) {
	if cfg.Ephemeral {
		return store.NewMemory(), nil
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st pollStore) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func runPollCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadModelConfig(cmd)
	if err != nil {
		return err
	}
	logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	c, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	gen := generator.New()
	factory := func(ctx context.Context) (*poll.Session, error) {
		fp := fingerprint.DefaultProbe(version).Compute()
		log.Printf("session start: fingerprint=%s", fp)
		return poll.New(ctx, c, st, gen, fp)
	}
	session, err := factory(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	m := tui.NewModel(session, factory)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show live results",
		Args:  cobra.NoArgs,
		RunE:  runResultsCmd,
	}
	cmd.Flags().StringVar(&resultsConstituency, "constituency", "", "constituency id")
	cmd.Flags().BoolVar(&resultsPlain, "plain", false, "print a plain text table")
	return cmd
}

func runResultsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadModelConfig(cmd)
	if err != nil {
		return err
	}
	c, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	if resultsConstituency != "" {
		if _, ok := c.Constituency(resultsConstituency); !ok {
			return fmt.Errorf("unknown constituency %q (available: %s)", resultsConstituency, strings.Join(c.IDs(), ", "))
		}
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if resultsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		t, err := st.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load tally: %w", err)
		}
		var ids []string
		if resultsConstituency != "" {
			ids = []string{resultsConstituency}
		}
		return tally.RenderResults(cmd.OutOrStdout(), c, t, ids)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	m := resultsui.NewModel(st, c, resultsConstituency)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run results TUI: %w", err)
	}
	return nil
}

func newFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Show this device's fingerprint",
		Args:  cobra.NoArgs,
		RunE:  runFingerprintCmd,
	}
}

func runFingerprintCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadModelConfig(cmd)
	if err != nil {
		return err
	}
	probe := fingerprint.DefaultProbe(version)
	signals := probe.Collect()
	fp := fingerprint.Encode(signals)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)
	voted, err := st.HasVoted(cmd.Context(), fp)
	if err != nil {
		return fmt.Errorf("failed to check voter record: %w", err)
	}

	lines := []string{
		fmt.Sprintf("user agent:  %s", signals.UserAgent),
		fmt.Sprintf("language:    %s", signals.Language),
		fmt.Sprintf("platform:    %s", signals.Platform),
		fmt.Sprintf("screen:      %s", signals.ScreenResolution),
		fmt.Sprintf("timezone:    %s", signals.Timezone),
		fmt.Sprintf("canvas:      %s", signals.Canvas),
		fmt.Sprintf("fingerprint: %s", fp),
		fmt.Sprintf("voted:       %t", voted),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newVotersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voters",
		Short: "List recorded voter fingerprints",
		Args:  cobra.NoArgs,
		RunE:  runVotersCmd,
	}
}

func runVotersCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadModelConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	records, err := st.Voters(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list voters: %w", err)
	}
	if len(records) == 0 {
		logErrln("no voters recorded yet")
		return nil
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", r.VotedAt.Local().Format(time.RFC3339), r.Fingerprint); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the active election catalog as TOML",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadModelConfig(cmd)
	if err != nil {
		return err
	}
	c, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	if err := c.Write(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# jorip configuration
# Uncomment a value to enable it. CLI flags override config values.

[poll]
# db = %q
# catalog = ""            # TOML election catalog; empty uses the built-in one
# debug-log = ""          # Append debug logs to this file
`,
		config.DefaultDBPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
