package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by QueryOne when no row matches.
	ErrNotFound = errors.New("backend: not found")

	// ErrUnavailable wraps transport failures (network, timeouts, 5xx).
	ErrUnavailable = errors.New("backend: unavailable")

	// ErrInvalidCredentials is returned by SignIn on a bad email/password.
	ErrInvalidCredentials = errors.New("backend: invalid credentials")

	// ErrUserExists is returned by SignUp when the email is taken.
	ErrUserExists = errors.New("backend: user already exists")

	// ErrNoSession is returned by data calls that need a principal when
	// nobody is signed in.
	ErrNoSession = errors.New("backend: no active session")
)

// APIError is a non-transport error reported by the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend: %d: %s", e.Status, e.Message)
}

// IsTransient reports whether err is worth telling the user to try again
// later rather than fixing their input.
func IsTransient(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == 429
	}
	return false
}
