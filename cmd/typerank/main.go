// Package main provides the CLI entrypoint for typerank.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typerank/internal/config"
	"github.com/verte-zerg/typerank/internal/corpus"
	"github.com/verte-zerg/typerank/internal/history"
	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/session"
	"github.com/verte-zerg/typerank/internal/store"
	"github.com/verte-zerg/typerank/internal/tui"
)

const (
	defaultMode       = "count"
	defaultValue      = 5
	defaultDifficulty = "all"
	defaultMethod     = "all"
)

var (
	playMode       string
	playValue      int
	playDifficulty string
	playMethod     string

	configPath string
	dbDriver   string
	dbDSN      string
	corpusPath string
	verbose    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "typerank",
		Short:             "Typing practice with scores, ranks and history",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupLogging,
		RunE:              runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", store.DriverSQLite, "history backend (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", "", "database path or DSN (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&corpusPath, "corpus", "", "TOML question file (default: built-in set)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "session mode (count or time)")
	rootCmd.Flags().IntVar(&playValue, "value", defaultValue, "question count or time limit in seconds")
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "question difficulty (all, easy, medium, hard)")
	rootCmd.Flags().StringVar(&playMethod, "input-method", defaultMethod, "recorded input method (all detects it)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newQuestionsCmd())

	return rootCmd
}

func setupLogging(_ *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadSettings reads the config file and environment, then lets explicitly
// set flags win over both.
func loadSettings(cmd *cobra.Command) (config.FileConfig, error) {
	if err := config.LoadEnv(config.DefaultEnvPath(), ".env"); err != nil {
		return config.FileConfig{}, err
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)
	applyStringConfig(cmd, "db-driver", &dbDriver, fileCfg.Store.Driver)
	applyStringConfig(cmd, "db-dsn", &dbDSN, fileCfg.Store.DSN)
	applyStringConfig(cmd, "corpus", &corpusPath, fileCfg.Corpus.Path)
	return fileCfg, nil
}

func openRepository(ctx context.Context) (*history.Repository, func(), error) {
	dsn := dbDSN
	if dsn == "" {
		if dbDriver != store.DriverSQLite {
			return nil, nil, fmt.Errorf("--db-dsn is required for the %s driver", dbDriver)
		}
		dsn = config.DefaultDBPath()
	}
	st, err := store.Open(ctx, dbDriver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	slog.Debug("history store opened", "driver", dbDriver)
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			slog.Error("failed to close db", "error", cerr)
		}
	}
	return history.NewRepository(st), closeFn, nil
}

func loadCorpus() (*corpus.Corpus, error) {
	if corpusPath == "" {
		return corpus.Default()
	}
	c, err := corpus.Load(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	slog.Debug("corpus loaded", "path", corpusPath, "questions", len(c.All()))
	return c, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Session.Mode)
	applyIntConfig(cmd, "value", &playValue, fileCfg.Session.Value)
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Session.Difficulty)
	applyStringConfig(cmd, "input-method", &playMethod, fileCfg.Session.Method)

	cfg, method, err := sessionSettings()
	if err != nil {
		return err
	}

	questions, err := loadCorpus()
	if err != nil {
		return err
	}
	sess, err := session.New(questions, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	repo, closeRepo, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	m := tui.NewModel(sess, tui.Options{Repo: repo, InputMethod: method, Logger: slog.Default()})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func sessionSettings() (model.SessionConfig, model.InputMethod, error) {
	mode, err := model.ParseMode(playMode)
	if err != nil {
		return model.SessionConfig{}, "", fmt.Errorf("invalid --mode: %w", err)
	}
	if playValue <= 0 {
		return model.SessionConfig{}, "", fmt.Errorf("--value must be > 0")
	}
	difficulty, err := model.ParseDifficulty(playDifficulty)
	if err != nil {
		return model.SessionConfig{}, "", fmt.Errorf("invalid --difficulty: %w", err)
	}
	method, err := model.ParseInputMethod(playMethod)
	if err != nil {
		return model.SessionConfig{}, "", fmt.Errorf("invalid --input-method: %w", err)
	}
	return model.SessionConfig{Mode: mode, ModeValue: playValue, Difficulty: difficulty}, method, nil
}

var configPrint bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configPrint, "print", false, "print the effective file and environment settings instead of editing")
	return cmd
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	if configPrint {
		fileCfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		out, err := config.Encode(fileCfg)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	path := configPath
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
	editCmd := exec.Command(parts[0], append(parts[1:], path)...)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typerank configuration
# Uncomment a value to enable it. CLI flags override config values,
# %s and %s override the [store] section.

[session]
# mode = %q            # count or time
# value = %d              # Questions (count) or seconds (time)
# difficulty = %q        # all, easy, medium or hard
# input-method = %q      # all (detect), keyboard, voice or other

[store]
# driver = %q        # sqlite or postgres
# dsn = %q

[corpus]
# path = ""               # TOML question file; empty uses the built-in set
`,
		config.EnvDBDriver,
		config.EnvDBDSN,
		defaultMode,
		defaultValue,
		defaultDifficulty,
		defaultMethod,
		store.DriverSQLite,
		config.DefaultDBPath(),
	)
}
