// Package backend defines the contract between PromptQuest and the
// identity-and-data service that owns accounts, lessons and progress.
package backend

import (
	"context"
)

// Logical table names.
const (
	TableLessons      = "lessons"
	TableExercises    = "exercises"
	TableProfiles     = "profiles"
	TableUserProgress = "user_progress"
)

// Principal is the signed-in user as reported by the backend.
type Principal struct {
	ID    string
	Email string

	// Attrs holds user metadata supplied at sign up (e.g. "username").
	Attrs map[string]string
}

// Username returns the username attribute, or "" when absent.
func (p *Principal) Username() string {
	if p == nil || p.Attrs == nil {
		return ""
	}
	return p.Attrs["username"]
}

// Record is a loosely typed row as returned by the backend. Records are
// converted into typed values at the boundary (see package records).
type Record map[string]any

// Auth is the identity half of the backend.
type Auth interface {
	// CurrentUser returns the signed-in principal, or (nil, nil) when
	// nobody is signed in.
	CurrentUser(ctx context.Context) (*Principal, error)

	// SignUp registers a new account. attrs is stored as user metadata.
	SignUp(ctx context.Context, email, password string, attrs map[string]string) (*Principal, error)

	// SignIn starts a session for an existing account.
	SignIn(ctx context.Context, email, password string) (*Principal, error)

	// SignOut ends the current session. Signing out with no session is
	// not an error.
	SignOut(ctx context.Context) error
}

// Store is the data half of the backend.
type Store interface {
	// QueryOne returns exactly one row, or ErrNotFound.
	QueryOne(ctx context.Context, q Query) (Record, error)

	// QueryMany returns all matching rows in the requested order.
	QueryMany(ctx context.Context, q Query) ([]Record, error)

	// Upsert inserts rec or, when a row with the same onConflict columns
	// exists, overwrites it.
	Upsert(ctx context.Context, table string, rec Record, onConflict ...string) error

	// Update sets fields on every row matching key.
	Update(ctx context.Context, table string, key []Filter, fields Record) error
}

// Client is a full backend connection.
type Client interface {
	Auth
	Store
	Close() error
}
