// Package hosted is a backend.Client for a hosted Supabase-style service:
// GoTrue for accounts under /auth/v1 and PostgREST for tables under
// /rest/v1.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/logging"
)

// Client talks to the hosted service.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	sessions   *backend.SessionFile
	log        *logging.Logger
	now        func() time.Time
}

var _ backend.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(l) }
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for the project at baseURL, authenticating
// anonymous requests with anonKey.
func New(baseURL, anonKey string, sessions *backend.SessionFile, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		sessions:   sessions,
		log:        logging.Nop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Close is a no-op; the client holds no connections of its own.
func (c *Client) Close() error { return nil }

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Code             any    `json:"code"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.Error} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func (e errorResponse) code() string {
	if e.ErrorCode != "" {
		return e.ErrorCode
	}
	if s, ok := e.Code.(string); ok && s != "" {
		return s
	}
	return e.Error
}

type request struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   any
	out    any
	bearer string
}

// do sends r and decodes a 2xx JSON response into r.out. Transport
// failures wrap backend.ErrUnavailable; other statuses become
// *backend.APIError.
func (c *Client) do(ctx context.Context, r request) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		encoded, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return err
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("apikey", c.anonKey)
	bearer := r.bearer
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &backend.APIError{Status: resp.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.text()
			apiErr.Code = payload.code()
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		c.log.Debug("backend request failed", "method", r.method, "path", r.path, "status", resp.StatusCode, "code", apiErr.Code)
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %w", backend.ErrUnavailable, apiErr)
		}
		return apiErr
	}

	if r.out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(r.out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
