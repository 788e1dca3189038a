package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Vendor names accepted in Config.Provider.
const (
	VendorAnthropic  = "anthropic"
	VendorOpenAI     = "openai"
	VendorGemini     = "gemini"
	VendorOpenRouter = "openrouter"
	VendorMock       = "mock"
)

// vendorKeyEnv is the conventional key variable for each vendor, in the
// order Discover probes them.
var vendorKeyEnv = []struct{ vendor, env string }{
	{VendorAnthropic, "ANTHROPIC_API_KEY"},
	{VendorOpenAI, "OPENAI_API_KEY"},
	{VendorGemini, "GEMINI_API_KEY"},
	{VendorOpenRouter, "OPENROUTER_API_KEY"},
}

var defaultModels = map[string]string{
	VendorAnthropic:  "claude-haiku-4-5",
	VendorOpenAI:     "gpt-4o-mini",
	VendorGemini:     "gemini-2.5-flash",
	VendorOpenRouter: "openai/gpt-4o-mini",
	VendorMock:       VendorMock,
}

// Config selects one vendor. An empty Provider means "use whichever vendor
// key is present in the environment".
type Config struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key,omitempty"`
	BaseURL  string        `yaml:"base_url,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
	Retry    Backoff       `yaml:"retry"`
}

func DefaultConfig() Config {
	return Config{
		Timeout: 90 * time.Second,
		Retry: Backoff{
			Attempts: 3,
			Initial:  time.Second,
			Max:      10 * time.Second,
			Factor:   2,
		},
	}
}

// MergeEnv overlays PROMPTQUEST_LLM_* variables.
func (c *Config) MergeEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Provider, "PROMPTQUEST_LLM_PROVIDER")
	set(&c.Model, "PROMPTQUEST_LLM_MODEL")
	set(&c.APIKey, "PROMPTQUEST_LLM_API_KEY")
	set(&c.BaseURL, "PROMPTQUEST_LLM_BASE_URL")
}

// Discover fills Provider and APIKey from the vendors' own key variables
// when they were not configured, and picks the default model. It reports
// false when no vendor could be resolved.
func (c *Config) Discover() bool {
	if c.Provider == "" {
		for _, v := range vendorKeyEnv {
			if os.Getenv(v.env) != "" {
				c.Provider = v.vendor
				break
			}
		}
	}
	if c.Provider == "" {
		return false
	}
	if c.APIKey == "" {
		for _, v := range vendorKeyEnv {
			if v.vendor == c.Provider {
				c.APIKey = os.Getenv(v.env)
			}
		}
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	return true
}

func (c Config) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		if c.Provider == "" {
			return fmt.Errorf("no LLM provider configured: set PROMPTQUEST_LLM_PROVIDER or a vendor API key")
		}
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Provider != VendorMock && c.APIKey == "" {
		return fmt.Errorf("an API key is required for the %s provider", c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("LLM timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
