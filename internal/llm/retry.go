package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Backoff is an exponential retry policy.
type Backoff struct {
	Attempts int           `yaml:"attempts"`
	Initial  time.Duration `yaml:"initial"`
	Max      time.Duration `yaml:"max"`
	Factor   float64       `yaml:"factor"`
}

// Delay is the pause before retry number n (zero based), with ±20% jitter.
func (b Backoff) Delay(n int) time.Duration {
	d := float64(b.Initial) * math.Pow(b.Factor, float64(n))
	if d > float64(b.Max) {
		d = float64(b.Max)
	}
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(d, 0))
}

type retrying struct {
	inner  Provider
	policy Backoff
}

// WithRetry retries rate limits, outages and unclassified errors up to
// policy.Attempts times. An invalid reply is retried once; rejections and
// truncation are returned immediately.
func WithRetry(p Provider, policy Backoff) Provider {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &retrying{inner: p, policy: policy}
}

func (r *retrying) Model() string { return r.inner.Model() }

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err          error
		resp         *Response
		retriedReply bool
	)
	for n := range r.policy.Attempts {
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &retriedReply) || n == r.policy.Attempts-1 {
			break
		}

		wait := r.policy.Delay(n)
		var pe *Error
		if errors.As(err, &pe) && pe.RetryAfter > 0 {
			wait = pe.RetryAfter
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}

func retryable(err error, retriedReply *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	kind, ok := KindOf(err)
	if !ok {
		return true
	}
	switch kind {
	case KindRejected, KindTruncated:
		return false
	case KindInvalid:
		if *retriedReply {
			return false
		}
		*retriedReply = true
	}
	return true
}
