// Package landing is the first screen an anonymous learner sees.
package landing

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/promptquest/internal/gate"
	"github.com/abhisek/promptquest/internal/router"
	"github.com/abhisek/promptquest/internal/screen"
	"github.com/abhisek/promptquest/internal/ui/components"
	"github.com/abhisek/promptquest/internal/ui/layout"
	"github.com/abhisek/promptquest/internal/ui/theme"
)

const tagline = "Level up your prompting, one bite-sized lesson at a time."

var features = []string{
	"Short lessons with hands-on quizzes",
	"Earn XP and climb from Novice to Master",
	"Keep your streak alive by learning daily",
}

type sessionCheckedMsg struct {
	result gate.Result
}

// LandingScreen checks for an existing session and otherwise offers sign up
// and sign in.
type LandingScreen struct {
	env      *screen.Env
	menu     components.Menu
	notice   string
	failed   bool
	checking bool
}

var _ screen.Screen = (*LandingScreen)(nil)

// New creates the landing screen. notice is shown above the menu, e.g.
// after signing out.
func New(env *screen.Env, notice string) *LandingScreen {
	l := &LandingScreen{env: env, notice: notice}
	l.menu = components.NewMenu([]components.MenuItem{
		{Label: "Create account", Action: func() tea.Cmd { return router.Push(env.Nav.Signup()) }},
		{Label: "Sign in", Action: func() tea.Cmd { return router.Push(env.Nav.Login("")) }},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return l
}

func (l *LandingScreen) Title() string { return "" }

func (l *LandingScreen) Init() tea.Cmd {
	l.checking = true
	g := gate.New(l.env.Client, l.env.Logger())
	return func() tea.Msg {
		ctx, cancel := l.env.Context()
		defer cancel()
		return sessionCheckedMsg{result: g.Check(ctx)}
	}
}

func (l *LandingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionCheckedMsg:
		l.checking = false
		switch msg.result.Status {
		case gate.Authenticated:
			return l, router.Reset(l.env.Nav.Dashboard(*msg.result.Principal))
		case gate.Unavailable:
			l.notice = "Could not reach the server. You can still try to sign in."
			l.failed = true
		}
		return l, nil

	case tea.KeyPressMsg:
		if l.checking {
			return l, nil
		}
		var cmd tea.Cmd
		l.menu, cmd = l.menu.Update(msg)
		return l, cmd
	}
	return l, nil
}

func (l *LandingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (l *LandingScreen) View(width, height int) string {
	sections := []string{RenderBanner(width), ""}

	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(tagline), "")

	for _, f := range features {
		sections = append(sections, theme.Body.Render("  ✦ "+f))
	}
	sections = append(sections, "")

	switch {
	case l.failed:
		sections = append(sections, theme.ErrorText.Render(l.notice), "")
	case l.notice != "":
		sections = append(sections, theme.Subtitle.Render(l.notice), "")
	}

	if l.checking {
		sections = append(sections, theme.Hint.Render("Checking your session..."))
	} else {
		sections = append(sections, l.menu.View())
	}

	return components.Center(strings.Join(sections, "\n"), width, height)
}
