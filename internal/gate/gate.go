// Package gate decides whether a screen that needs a signed-in learner may
// proceed.
package gate

import (
	"context"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/logging"
)

// Status is the outcome of a session check.
type Status int

const (
	// Authenticated means a principal is present.
	Authenticated Status = iota
	// Anonymous means nobody is signed in. Callers redirect to login.
	Anonymous
	// Unavailable means the backend could not answer. Callers redirect to
	// login and show Err.
	Unavailable
)

func (s Status) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

// Result is the outcome of Check.
type Result struct {
	Status    Status
	Principal *backend.Principal // set when Authenticated
	Err       error              // set when Unavailable
}

// Allowed reports whether the caller may proceed.
func (r Result) Allowed() bool {
	return r.Status == Authenticated && r.Principal != nil
}

// Gate checks the current session.
type Gate struct {
	auth backend.Auth
	log  *logging.Logger
}

// New creates a Gate over auth.
func New(auth backend.Auth, log *logging.Logger) *Gate {
	return &Gate{auth: auth, log: logging.OrNop(log)}
}

// Check asks the backend for the current principal once. It does not retry.
func (g *Gate) Check(ctx context.Context) Result {
	p, err := g.auth.CurrentUser(ctx)
	switch {
	case err != nil:
		g.log.Warn("session check failed", "error", err)
		return Result{Status: Unavailable, Err: err}
	case p == nil:
		g.log.Debug("no active session")
		return Result{Status: Anonymous}
	default:
		g.log.Debug("session ok", "user", p.ID)
		return Result{Status: Authenticated, Principal: p}
	}
}
