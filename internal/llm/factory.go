package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/promptquest/internal/logging"
)

// New builds the configured vendor and wraps it so each attempt is logged
// and transient failures are retried: caller → retry → logging → vendor.
func New(ctx context.Context, cfg Config, log *logging.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case VendorAnthropic:
		base, err = NewAnthropic(cfg.APIKey, cfg.Model)
	case VendorOpenAI:
		base, err = NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case VendorOpenRouter:
		base, err = NewOpenRouter(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case VendorGemini:
		base, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	case VendorMock:
		base = NewMock()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, log), cfg.Retry), nil
}
