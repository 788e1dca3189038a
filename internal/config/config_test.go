package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at a temp dir and clears PROMPTQUEST_* vars.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{
		"PROMPTQUEST_BACKEND", "PROMPTQUEST_DATA_DIR", "PROMPTQUEST_DB", "PROMPTQUEST_SESSION",
		"PROMPTQUEST_LOG", "PROMPTQUEST_LOG_LEVEL", "PROMPTQUEST_SUPABASE_URL",
		"PROMPTQUEST_SUPABASE_ANON_KEY", "PROMPTQUEST_REQUEST_TIMEOUT",
		"PROMPTQUEST_LLM_PROVIDER", "PROMPTQUEST_LLM_MODEL", "PROMPTQUEST_LLM_API_KEY",
		"PROMPTQUEST_LLM_BASE_URL",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "data", "promptquest"), cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "promptquest.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(cfg.DataDir, "session-local.json"), cfg.SessionPath)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "promptquest", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
backend: hosted
log_level: debug
request_timeout: 5s
hosted:
  url: https://example.supabase.co
  anon_key: from-file
`), 0o644))
	t.Setenv("PROMPTQUEST_SUPABASE_ANON_KEY", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendHosted, cfg.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "https://example.supabase.co", cfg.Hosted.URL)
	assert.Equal(t, "from-env", cfg.Hosted.AnonKey)
	assert.Equal(t, filepath.Join(cfg.DataDir, "session-hosted.json"), cfg.SessionPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvTimeoutAndDB(t *testing.T) {
	isolate(t)
	t.Setenv("PROMPTQUEST_REQUEST_TIMEOUT", "2s")
	t.Setenv("PROMPTQUEST_DB", "/tmp/custom.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
}

func TestLoad_LLMSection(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "llm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  model: gpt-4.1-mini
  timeout: 45s
  retry:
    attempts: 5
`), 0o644))
	t.Setenv("PROMPTQUEST_LLM_MODEL", "gpt-4o")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5, cfg.LLM.Retry.Attempts)
	// Untouched retry settings keep their defaults.
	assert.Equal(t, time.Second, cfg.LLM.Retry.Initial)
}

func TestValidate(t *testing.T) {
	base := Default()
	base.Resolve()

	tests := []struct {
		name    string
		mod     func(*Config)
		wantErr bool
	}{
		{"default ok", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Backend = "ftp" }, true},
		{"hosted without url", func(c *Config) { c.Backend = BackendHosted; c.Hosted.AnonKey = "k" }, true},
		{"hosted without key", func(c *Config) { c.Backend = BackendHosted; c.Hosted.URL = "u" }, true},
		{"hosted ok", func(c *Config) { c.Backend = BackendHosted; c.Hosted = HostedConfig{URL: "u", AnonKey: "k"} }, false},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mod(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
