package screen

import (
	"context"
	"time"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/logging"
)

// Navigator builds screens by name so screens can link to each other
// without importing each other.
type Navigator interface {
	Landing(notice string) Screen
	Signup() Screen
	Login(notice string) Screen
	Dashboard(p backend.Principal) Screen
	Lesson(p backend.Principal, lessonID string) Screen
}

// Env is shared by all screens of one program run.
type Env struct {
	Client  backend.Client
	Log     *logging.Logger
	Nav     Navigator
	Timeout time.Duration
	Now     func() time.Time
}

// Context bounds one backend call. Calls are not tied to the screen that
// started them, so leaving a screen does not cancel them.
func (e *Env) Context() (context.Context, context.CancelFunc) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (e *Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Logger never returns nil.
func (e *Env) Logger() *logging.Logger {
	return logging.OrNop(e.Log)
}
