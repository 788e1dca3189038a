package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindUnavailable covers transport failures and vendor 5xx responses.
	KindUnavailable Kind = iota
	KindRateLimited
	// KindRejected is a vendor 4xx other than 429: bad key, bad request.
	KindRejected
	// KindInvalid means the model answered with content that is not valid
	// JSON or does not match the requested schema.
	KindInvalid
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate_limited"
	case KindRejected:
		return "rejected"
	case KindInvalid:
		return "invalid_response"
	case KindTruncated:
		return "truncated"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every provider in this package.
type Error struct {
	Kind       Kind
	Vendor     string
	RetryAfter time.Duration
	// Content is the offending model output for KindInvalid and KindTruncated.
	Content json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("llm %s: %s", e.Vendor, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err, or false when err did not come from a
// provider.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// statusError maps an HTTP status reported by a vendor SDK.
func statusError(vendor string, status int, err error) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Vendor: vendor, Err: err}
	case status >= 400 && status < 500:
		return &Error{Kind: KindRejected, Vendor: vendor, Err: err}
	default:
		return &Error{Kind: KindUnavailable, Vendor: vendor, Err: err}
	}
}

func invalid(vendor string, content json.RawMessage, err error) *Error {
	return &Error{Kind: KindInvalid, Vendor: vendor, Content: content, Err: err}
}
