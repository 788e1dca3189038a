// Package signup is the account creation form.
package signup

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

const createdNotice = "Account created. Check your email to confirm it, then sign in."

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldCount
)

type signedUpMsg struct {
	err error
}

// SignupScreen collects a username, email and password.
type SignupScreen struct {
	env     *screen.Env
	svc     *account.Service
	fields  [fieldCount]components.TextInput
	focus   int
	pending bool
	formErr string
}

var _ screen.Screen = (*SignupScreen)(nil)

func New(env *screen.Env) *SignupScreen {
	s := &SignupScreen{
		env: env,
		svc: account.NewService(env.Client, env.Logger()),
	}
	s.fields[fieldUsername] = components.NewTextInput("Username", "prompt_wizard", false)
	s.fields[fieldEmail] = components.NewTextInput("Email", "you@example.com", false)
	s.fields[fieldPassword] = components.NewTextInput("Password", "at least 6 characters", true)
	s.fields[fieldUsername].Focus()
	return s
}

func (s *SignupScreen) Title() string { return "Create account" }

func (s *SignupScreen) Init() tea.Cmd { return textinput.Blink }

func (s *SignupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedUpMsg:
		s.pending = false
		if msg.err == nil {
			return s, router.Replace(s.env.Nav.Login(createdNotice))
		}
		s.showError(msg.err)
		return s, nil

	case tea.KeyPressMsg:
		if s.pending {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			s.moveFocus(1)
			return s, nil
		case "shift+tab", "up":
			s.moveFocus(-1)
			return s, nil
		case "enter":
			if s.focus < fieldPassword {
				s.moveFocus(1)
				return s, nil
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *SignupScreen) moveFocus(step int) {
	s.fields[s.focus].Blur()
	s.focus = (s.focus + step + fieldCount) % fieldCount
	s.fields[s.focus].Focus()
}

// submit validates locally first; an invalid form never reaches the
// backend.
func (s *SignupScreen) submit() tea.Cmd {
	s.clearErrors()
	form := account.Signup{
		Username: s.fields[fieldUsername].Value(),
		Email:    s.fields[fieldEmail].Value(),
		Password: s.fields[fieldPassword].Value(),
	}
	if err := account.ValidateSignup(form); err != nil {
		s.showError(err)
		return nil
	}

	s.pending = true
	svc, env := s.svc, s.env
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		_, err := svc.SignUp(ctx, form)
		return signedUpMsg{err: err}
	}
}

func (s *SignupScreen) clearErrors() {
	s.formErr = ""
	for i := range s.fields {
		s.fields[i].Err = ""
	}
}

func (s *SignupScreen) showError(err error) {
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		switch verr.Field {
		case "username":
			s.fields[fieldUsername].Err = verr.Message
		case "email":
			s.fields[fieldEmail].Err = verr.Message
		case "password":
			s.fields[fieldPassword].Err = verr.Message
		default:
			s.formErr = verr.Message
		}
	case errors.Is(err, backend.ErrUserExists):
		s.fields[fieldEmail].Err = "An account with this email already exists"
	case errors.Is(err, backend.ErrUnavailable):
		s.formErr = "Could not reach the server. Try again in a moment."
	default:
		s.formErr = "Sign up failed: " + err.Error()
	}
}

func (s *SignupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Create account"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SignupScreen) View(width, height int) string {
	w := min(components.ContentWidth(width), 56)

	var parts []string
	parts = append(parts, theme.Subtitle.Render("Join PromptQuest and start your first lesson."), "")
	for i := range s.fields {
		parts = append(parts, s.fields[i].View(), "")
	}
	if s.formErr != "" {
		parts = append(parts, theme.ErrorText.Render(s.formErr), "")
	}
	if s.pending {
		parts = append(parts, theme.Hint.Render("Creating your account..."))
	}

	return components.Center(components.Card("Create account", strings.Join(parts, "\n"), w), width, height)
}
