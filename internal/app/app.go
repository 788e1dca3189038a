// Package app is the root Bubble Tea model: it owns the screen stack and
// draws the frame around the active screen.
package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/logging"
	"github.com/abhisek/promptquest/internal/router"
	"github.com/abhisek/promptquest/internal/screen"
	"github.com/abhisek/promptquest/internal/screens/dashboard"
	"github.com/abhisek/promptquest/internal/screens/landing"
	"github.com/abhisek/promptquest/internal/screens/lesson"
	"github.com/abhisek/promptquest/internal/screens/login"
	"github.com/abhisek/promptquest/internal/screens/signup"
	"github.com/abhisek/promptquest/internal/ui/layout"
)

// Options configures a program run.
type Options struct {
	Client  backend.Client
	Log     *logging.Logger
	Timeout time.Duration

	// LessonID opens that lesson directly, with the dashboard under it.
	LessonID string
}

// navigator builds the concrete screens for screen.Env.Nav.
type navigator struct {
	env *screen.Env
}

func (n navigator) Landing(notice string) screen.Screen { return landing.New(n.env, notice) }
func (n navigator) Signup() screen.Screen               { return signup.New(n.env) }
func (n navigator) Login(notice string) screen.Screen   { return login.New(n.env, notice) }

func (n navigator) Dashboard(p backend.Principal) screen.Screen {
	return dashboard.New(n.env, p)
}

func (n navigator) Lesson(p backend.Principal, lessonID string) screen.Screen {
	return lesson.New(n.env, p, lessonID)
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	start  tea.Cmd
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	env := &screen.Env{Client: opts.Client, Log: opts.Log, Timeout: opts.Timeout}
	nav := navigator{env: env}
	env.Nav = nav

	if opts.LessonID != "" {
		// The dashboard loads when the lesson is popped.
		r := router.New(nav.Dashboard(backend.Principal{}))
		start := r.Push(nav.Lesson(backend.Principal{}, opts.LessonID))
		return AppModel{router: r, start: start}
	}

	first := nav.Landing("")
	return AppModel{router: router.New(first), start: first.Init()}
}

func (m AppModel) Init() tea.Cmd {
	return m.start
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !handlesEscape(m.router.Active()) {
				if m.router.Depth() > 1 {
					return m, router.Pop()
				}
				return m, nil
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func handlesEscape(s screen.Screen) bool {
	h, ok := s.(screen.EscapeHandler)
	return ok && h.HandlesEscape()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders the whole window: header, active screen and footer.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); hints != nil {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	log := logging.OrNop(opts.Log)
	opts.Log = log

	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		log.Error("program exited with error", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
