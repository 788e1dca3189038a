package llm

import (
	"context"
	"time"

	"github.com/abhisek/promptquest/internal/logging"
)

type logged struct {
	inner Provider
	log   *logging.Logger
}

// WithLogging writes one log line per request: purpose, model, latency,
// token counts and, for priced models, an estimated cost. Prompt and reply
// bodies are only logged at debug level.
func WithLogging(p Provider, log *logging.Logger) Provider {
	return &logged{inner: p, log: logging.OrNop(log)}
}

func (l *logged) Model() string { return l.inner.Model() }

func (l *logged) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	kv := []any{
		"purpose", PurposeFrom(ctx),
		"model", l.inner.Model(),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if req.Schema != nil {
		kv = append(kv, "schema", req.Schema.Name)
	}
	if err != nil {
		if kind, ok := KindOf(err); ok {
			kv = append(kv, "kind", kind.String())
		}
		l.log.Warn("llm request failed", append(kv, "error", err)...)
		return nil, err
	}

	kv = append(kv,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	if price, ok := LookupPrice(resp.Model); ok {
		kv = append(kv, "cost_usd", price.Cost(resp.Usage))
	}
	l.log.Info("llm request", kv...)
	l.log.Debug("llm exchange", "system", req.System, "messages", len(req.Messages), "reply", string(resp.Content))
	return resp, nil
}
