package llm

import (
	"context"
	"testing"
)

func clearVendorEnv(t *testing.T) {
	t.Helper()
	for _, v := range vendorKeyEnv {
		t.Setenv(v.env, "")
	}
	for _, k := range []string{"PROMPTQUEST_LLM_PROVIDER", "PROMPTQUEST_LLM_MODEL", "PROMPTQUEST_LLM_API_KEY", "PROMPTQUEST_LLM_BASE_URL"} {
		t.Setenv(k, "")
	}
}

func TestDiscoverPicksFirstVendorKey(t *testing.T) {
	clearVendorEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	cfg := DefaultConfig()
	if !cfg.Discover() {
		t.Fatal("expected a vendor")
	}
	if cfg.Provider != VendorGemini || cfg.APIKey != "g-key" || cfg.Model != "gemini-2.5-flash" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestDiscoverNothing(t *testing.T) {
	clearVendorEnv(t)
	cfg := DefaultConfig()
	if cfg.Discover() {
		t.Fatalf("unexpected vendor %q", cfg.Provider)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestMergeEnvOverridesDiscovery(t *testing.T) {
	clearVendorEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("PROMPTQUEST_LLM_PROVIDER", "openrouter")
	t.Setenv("PROMPTQUEST_LLM_MODEL", "google/gemini-2.5-flash")

	cfg := DefaultConfig()
	cfg.MergeEnv()
	cfg.Discover()
	if cfg.Provider != VendorOpenRouter || cfg.APIKey != "or-key" || cfg.Model != "google/gemini-2.5-flash" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mock needs no key", Config{Provider: VendorMock, Timeout: 1}, false},
		{"missing key", Config{Provider: VendorOpenAI, Timeout: 1}, true},
		{"unknown vendor", Config{Provider: "llama", APIKey: "k", Timeout: 1}, true},
		{"zero timeout", Config{Provider: VendorMock}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewBuildsDecoratedMock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = VendorMock
	cfg.Model = VendorMock

	p, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*retrying); !ok {
		t.Fatalf("outer provider is %T", p)
	}
	if p.Model() != VendorMock {
		t.Fatalf("model = %q", p.Model())
	}
}
