package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/backend/hosted"
	"github.com/abhisek/promptquest/internal/backend/local"
	"github.com/abhisek/promptquest/internal/catalog"
	"github.com/abhisek/promptquest/internal/config"
	"github.com/abhisek/promptquest/internal/logging"
	"github.com/abhisek/promptquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "promptquest",
	Short: "Bite-sized prompt engineering lessons in your terminal",
	Long:  "PromptQuest is a terminal app that teaches prompt writing through short lessons, quizzes, XP and streaks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/promptquest/config.yaml)")
	pf.String("backend", "", "Data backend: local or hosted (overrides PROMPTQUEST_BACKEND)")
	pf.String("db", "", "Path to SQLite database file for the local backend (overrides PROMPTQUEST_DB)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(authorCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration and applies the persistent flags,
// which take precedence over the file and the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if b, _ := cmd.Flags().GetString("backend"); b != "" && b != cfg.Backend {
		// The session file follows the backend unless it was set explicitly.
		if cfg.SessionPath == defaultSessionPath(cfg) {
			cfg.SessionPath = ""
		}
		cfg.Backend = b
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaultSessionPath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir, "session-"+cfg.Backend+".json")
}

// deps is what every command that touches the backend needs.
type deps struct {
	cfg    config.Config
	log    *logging.Logger
	client backend.Client

	// local is set when the local backend is in use.
	local *local.Backend
}

func (d *deps) Close() {
	if err := d.client.Close(); err != nil {
		d.log.Warn("close backend", "error", err)
	}
	d.log.Sync()
}

// open resolves the configuration, starts logging and connects to the
// configured backend.
func open(cmd *cobra.Command) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("start logging: %w", err)
	}
	log = log.With("backend", cfg.Backend)

	sessions := backend.NewSessionFile(cfg.SessionPath)
	d := &deps{cfg: cfg, log: log}

	switch cfg.Backend {
	case config.BackendLocal:
		if err := store.EnsureDir(cfg.DBPath); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		lb, err := local.Open(cfg.DBPath, sessions, local.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		d.client, d.local = lb, lb
	case config.BackendHosted:
		d.client = hosted.New(cfg.Hosted.URL, cfg.Hosted.AnonKey, sessions, hosted.WithLogger(log))
	}
	return d, nil
}

// ensureTrack seeds the built-in lessons into an empty local database.
// Hosted projects are seeded explicitly with the seed command.
func ensureTrack(ctx context.Context, d *deps) error {
	if d.local == nil {
		return nil
	}
	seeded, err := catalog.EnsureSeeded(ctx, d.local)
	if err != nil {
		return fmt.Errorf("seed default lessons: %w", err)
	}
	if seeded {
		d.log.Info("seeded default lesson track")
	}
	return nil
}

// requestContext bounds a single CLI backend call by the configured
// request timeout.
func requestContext(cmd *cobra.Command, d *deps) (context.Context, context.CancelFunc) {
	return context.WithTimeout(commandContext(cmd), d.cfg.RequestTimeout)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
