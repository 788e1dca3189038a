// Package login is the sign-in form. Screens that need a session send the
// learner here.
package login

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/promptquest/internal/account"
	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/router"
	"github.com/abhisek/promptquest/internal/screen"
	"github.com/abhisek/promptquest/internal/ui/components"
	"github.com/abhisek/promptquest/internal/ui/layout"
	"github.com/abhisek/promptquest/internal/ui/theme"
)

type signedInMsg struct {
	principal *backend.Principal
	err       error
}

// LoginScreen asks for email and password.
type LoginScreen struct {
	env      *screen.Env
	svc      *account.Service
	email    components.TextInput
	password components.TextInput
	notice   string
	formErr  string
	pending  bool
}

var _ screen.Screen = (*LoginScreen)(nil)

// New creates the form. notice explains why the learner is here, for
// example after sign up or a failed session check.
func New(env *screen.Env, notice string) *LoginScreen {
	l := &LoginScreen{
		env:      env,
		svc:      account.NewService(env.Client, env.Logger()),
		email:    components.NewTextInput("Email", "you@example.com", false),
		password: components.NewTextInput("Password", "", true),
		notice:   notice,
	}
	l.email.Focus()
	return l
}

func (l *LoginScreen) Title() string { return "Sign in" }

func (l *LoginScreen) Init() tea.Cmd { return textinput.Blink }

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		l.pending = false
		if msg.err == nil {
			return l, router.Reset(l.env.Nav.Dashboard(*msg.principal))
		}
		l.showError(msg.err)
		return l, nil

	case tea.KeyPressMsg:
		if l.pending {
			return l, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			l.toggleFocus()
			return l, nil
		case "enter":
			if l.email.Model.Focused() {
				l.toggleFocus()
				return l, nil
			}
			return l, l.submit()
		}
	}

	var cmd tea.Cmd
	if l.email.Model.Focused() {
		l.email, cmd = l.email.Update(msg)
	} else {
		l.password, cmd = l.password.Update(msg)
	}
	return l, cmd
}

func (l *LoginScreen) toggleFocus() {
	if l.email.Model.Focused() {
		l.email.Blur()
		l.password.Focus()
		return
	}
	l.password.Blur()
	l.email.Focus()
}

func (l *LoginScreen) submit() tea.Cmd {
	l.formErr, l.email.Err, l.password.Err = "", "", ""
	l.pending = true
	svc, env := l.svc, l.env
	email, password := l.email.Value(), l.password.Value()
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		p, err := svc.SignIn(ctx, email, password)
		return signedInMsg{principal: p, err: err}
	}
}

func (l *LoginScreen) showError(err error) {
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		if verr.Field == "password" {
			l.password.Err = verr.Message
		} else {
			l.email.Err = verr.Message
		}
	case errors.Is(err, backend.ErrInvalidCredentials):
		l.formErr = "Wrong email or password"
		l.password.SetValue("")
	case errors.Is(err, backend.ErrUnavailable):
		l.formErr = "Could not reach the server. Try again in a moment."
	default:
		l.formErr = "Sign in failed: " + err.Error()
	}
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Esc", Description: "Back"},
	}
}

func (l *LoginScreen) View(width, height int) string {
	w := min(components.ContentWidth(width), 56)

	var parts []string
	if l.notice != "" {
		parts = append(parts, theme.Subtitle.Render(l.notice), "")
	}
	parts = append(parts, l.email.View(), "", l.password.View(), "")
	if l.formErr != "" {
		parts = append(parts, theme.ErrorText.Render(l.formErr), "")
	}
	if l.pending {
		parts = append(parts, theme.Hint.Render("Signing in..."))
	}

	return components.Center(components.Card("Welcome back", strings.Join(parts, "\n"), w), width, height)
}
