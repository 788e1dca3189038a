package hosted

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhisek/promptquest/internal/backend"
)

// expiryLeeway refreshes tokens slightly before they expire.
const expiryLeeway = 30 * time.Second

type userPayload struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u *userPayload) principal() *backend.Principal {
	p := &backend.Principal{ID: u.ID, Email: u.Email, Attrs: map[string]string{}}
	for k, v := range u.UserMetadata {
		if s, ok := v.(string); ok {
			p.Attrs[k] = s
		}
	}
	return p
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         userPayload `json:"user"`
}

// signupResponse covers both GoTrue shapes: a bare user when email
// confirmation is pending, or a token response when it is not.
type signupResponse struct {
	userPayload
	User *userPayload `json:"user"`
}

// CurrentUser resolves the stored session, refreshing the access token
// when it has expired. A session the service rejects is cleared and
// reported as no principal.
func (c *Client) CurrentUser(ctx context.Context) (*backend.Principal, error) {
	s, err := c.session(ctx)
	if err != nil || s == nil {
		return nil, err
	}

	var u userPayload
	err = c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user", out: &u, bearer: s.AccessToken})
	if isAuthRejection(err) {
		c.log.Info("stored session rejected", "user", s.UserID)
		_ = c.sessions.Clear()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u.principal(), nil
}

// SignUp registers an account with attrs as user metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, attrs map[string]string) (*backend.Principal, error) {
	body := map[string]any{"email": email, "password": password, "data": attrs}
	var resp signupResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/signup", body: body, out: &resp})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == "user_already_exists" ||
			strings.Contains(strings.ToLower(apiErr.Message), "already registered")) {
			return nil, backend.ErrUserExists
		}
		return nil, err
	}
	u := &resp.userPayload
	if resp.User != nil {
		u = resp.User
	}
	return u.principal(), nil
}

// SignIn exchanges email and password for a session and stores it.
func (c *Client) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	var tok tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
		out:    &tok,
	})
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
		return nil, backend.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := c.storeToken(&tok); err != nil {
		return nil, err
	}
	return tok.User.principal(), nil
}

// SignOut revokes the session server-side when possible and always
// forgets it locally.
func (c *Client) SignOut(ctx context.Context) error {
	s, err := c.sessions.Load()
	if err != nil {
		return err
	}
	if s != nil && s.AccessToken != "" {
		err := c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/logout", bearer: s.AccessToken})
		if err != nil && !isAuthRejection(err) {
			c.log.Warn("remote sign out failed", "error", err)
		}
	}
	return c.sessions.Clear()
}

// session returns the stored session with a usable access token, or nil
// when signed out.
func (c *Client) session(ctx context.Context) (*backend.Session, error) {
	s, err := c.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
	}
	if s == nil || s.AccessToken == "" {
		return nil, nil
	}
	if !c.expired(s) {
		return s, nil
	}
	if s.RefreshToken == "" {
		_ = c.sessions.Clear()
		return nil, nil
	}

	var tok tokenResponse
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": s.RefreshToken},
		out:    &tok,
	})
	if isAuthRejection(err) {
		c.log.Info("refresh token rejected", "user", s.UserID)
		_ = c.sessions.Clear()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if tok.User.ID == "" {
		tok.User = userPayload{ID: s.UserID, Email: s.Email}
	}
	if err := c.storeToken(&tok); err != nil {
		return nil, err
	}
	return c.sessions.Load()
}

// expired reads the exp claim of the access token. The signature is not
// checked; the service does that on every request.
func (c *Client) expired(s *backend.Session) bool {
	exp := s.ExpiresAt
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err == nil && claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	if exp.IsZero() {
		return false
	}
	return !c.now().Add(expiryLeeway).Before(exp)
}

func (c *Client) storeToken(tok *tokenResponse) error {
	exp := time.Time{}
	switch {
	case tok.ExpiresAt > 0:
		exp = time.Unix(tok.ExpiresAt, 0)
	case tok.ExpiresIn > 0:
		exp = c.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	p := tok.User.principal()
	err := c.sessions.Save(&backend.Session{
		UserID:       p.ID,
		Email:        p.Email,
		Attrs:        p.Attrs,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    exp,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
	}
	return nil
}

// bearer returns the access token for data requests, or "" to fall back
// to the anon key.
func (c *Client) bearer(ctx context.Context) (string, error) {
	s, err := c.session(ctx)
	if err != nil || s == nil {
		return "", err
	}
	return s.AccessToken, nil
}

func isAuthRejection(err error) bool {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
