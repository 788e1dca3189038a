// Package config resolves PromptQuest settings from defaults, an optional
// YAML file and PROMPTQUEST_* environment variables. Command-line flags
// are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/promptquest/internal/llm"
)

// Backend kinds.
const (
	BackendLocal  = "local"
	BackendHosted = "hosted"
)

// Config holds all application settings.
type Config struct {
	// Backend selects the data backend: "local" or "hosted".
	Backend string `yaml:"backend"`

	// DataDir holds the database, session and log files unless their
	// paths are set explicitly.
	DataDir     string `yaml:"data_dir"`
	DBPath      string `yaml:"db_path"`
	SessionPath string `yaml:"session_path"`
	LogPath     string `yaml:"log_path"`
	LogLevel    string `yaml:"log_level"`

	// RequestTimeout bounds every backend call made by the UI.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	Hosted HostedConfig `yaml:"hosted"`

	// LLM configures lesson authoring. Vendor keys are usually left to
	// the environment.
	LLM llm.Config `yaml:"llm"`
}

// HostedConfig points at a hosted project.
type HostedConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend:        BackendLocal,
		DataDir:        defaultDataDir(),
		LogLevel:       "info",
		RequestTimeout: 15 * time.Second,
		LLM:            llm.DefaultConfig(),
	}
}

// DefaultPath is the config file read when none is given:
// $XDG_CONFIG_HOME/promptquest/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "promptquest", "config.yaml")
}

// Load resolves the configuration. An explicit path must exist; the
// default path is optional.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.mergeEnv()
	cfg.Resolve()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Backend, "PROMPTQUEST_BACKEND")
	set(&c.DataDir, "PROMPTQUEST_DATA_DIR")
	set(&c.DBPath, "PROMPTQUEST_DB")
	set(&c.SessionPath, "PROMPTQUEST_SESSION")
	set(&c.LogPath, "PROMPTQUEST_LOG")
	set(&c.LogLevel, "PROMPTQUEST_LOG_LEVEL")
	set(&c.Hosted.URL, "PROMPTQUEST_SUPABASE_URL")
	set(&c.Hosted.AnonKey, "PROMPTQUEST_SUPABASE_ANON_KEY")

	if v := os.Getenv("PROMPTQUEST_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	c.LLM.MergeEnv()
}

// Resolve fills file paths left empty from DataDir. The session file is
// per backend so signing in to one does not leak into the other.
func (c *Config) Resolve() {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "promptquest.db")
	}
	if c.SessionPath == "" {
		c.SessionPath = filepath.Join(c.DataDir, "session-"+c.Backend+".json")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.DataDir, "promptquest.log")
	}
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendLocal:
		if c.DBPath == "" {
			return fmt.Errorf("db path is required for the local backend")
		}
	case BackendHosted:
		if c.Hosted.URL == "" {
			return fmt.Errorf("PROMPTQUEST_SUPABASE_URL is required for the hosted backend")
		}
		if c.Hosted.AnonKey == "" {
			return fmt.Errorf("PROMPTQUEST_SUPABASE_ANON_KEY is required for the hosted backend")
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	return nil
}

// defaultDataDir is $XDG_DATA_HOME/promptquest, falling back to
// ~/.local/share/promptquest.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "promptquest")
}
