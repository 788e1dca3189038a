// Package account validates sign-up and sign-in input and forwards it to
// the backend.
package account

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/logging"
)

// MinPasswordLength is the shortest password accepted at sign up.
const MinPasswordLength = 6

// DefaultDisplayName greets learners who never set a username.
const DefaultDisplayName = "champion"

// ValidationError is a problem with user input. No backend call is made
// when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Signup is the sign-up form.
type Signup struct {
	Username string
	Email    string
	Password string
}

// ValidateSignup checks that every field is filled, the email parses and
// the password is long enough. Fields are checked in form order.
func ValidateSignup(f Signup) error {
	if strings.TrimSpace(f.Username) == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if err := validateEmail(f.Email); err != nil {
		return err
	}
	if f.Password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	if len([]rune(f.Password)) < MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		}
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Message: "email is not valid"}
	}
	return nil
}

// DisplayName is the name shown in greetings.
func DisplayName(p *backend.Principal) string {
	if name := strings.TrimSpace(p.Username()); name != "" {
		return name
	}
	return DefaultDisplayName
}

// Service signs learners up, in and out.
type Service struct {
	auth backend.Auth
	log  *logging.Logger
}

// NewService creates a Service over auth.
func NewService(auth backend.Auth, log *logging.Logger) *Service {
	return &Service{auth: auth, log: logging.OrNop(log)}
}

// SignUp validates f and registers the account. The username is stored as
// the "username" attribute.
func (s *Service) SignUp(ctx context.Context, f Signup) (*backend.Principal, error) {
	if err := ValidateSignup(f); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(f.Email)
	p, err := s.auth.SignUp(ctx, email, f.Password, map[string]string{
		"username": strings.TrimSpace(f.Username),
	})
	if err != nil {
		s.log.Warn("sign up failed", "email", email, "error", err)
		return nil, fmt.Errorf("sign up: %w", err)
	}
	s.log.Info("signed up", "user", p.ID)
	return p, nil
}

// SignIn starts a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}
	p, err := s.auth.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		s.log.Warn("sign in failed", "email", email, "error", err)
		return nil, fmt.Errorf("sign in: %w", err)
	}
	s.log.Info("signed in", "user", p.ID)
	return p, nil
}

// SignOut ends the session.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.auth.SignOut(ctx); err != nil {
		s.log.Warn("sign out failed", "error", err)
		return fmt.Errorf("sign out: %w", err)
	}
	s.log.Info("signed out")
	return nil
}
