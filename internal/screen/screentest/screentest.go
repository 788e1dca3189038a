// Package screentest holds helpers for driving screens in tests.
package screentest

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/router"
	"github.com/abhisek/promptquest/internal/screen"
)

// Stub stands in for a screen built by the Nav.
type Stub struct {
	Name string
	Arg  string
}

var _ screen.Screen = (*Stub)(nil)

func (s *Stub) Init() tea.Cmd                          { return nil }
func (s *Stub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *Stub) View(int, int) string                   { return s.Name }
func (s *Stub) Title() string                          { return s.Name }

// Nav is a screen.Navigator returning Stubs.
type Nav struct{}

func (Nav) Landing(notice string) screen.Screen { return &Stub{Name: "landing", Arg: notice} }
func (Nav) Signup() screen.Screen               { return &Stub{Name: "signup"} }
func (Nav) Login(notice string) screen.Screen   { return &Stub{Name: "login", Arg: notice} }
func (Nav) Dashboard(p backend.Principal) screen.Screen {
	return &Stub{Name: "dashboard", Arg: p.ID}
}
func (Nav) Lesson(p backend.Principal, lessonID string) screen.Screen {
	return &Stub{Name: "lesson", Arg: lessonID}
}

// Today is the fixed clock of Env.
var Today = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// Env wires client to a Nav, a no-op logger and a fixed clock.
func Env(client backend.Client) *screen.Env {
	return &screen.Env{
		Client:  client,
		Nav:     Nav{},
		Timeout: time.Second,
		Now:     func() time.Time { return Today },
	}
}

// Run executes cmd and every command it batches, returning the messages
// in order. Nil commands and nil messages are dropped.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Feed runs cmd and delivers each resulting message to s, following any
// commands s returns, until no messages are left or limit updates have
// happened. Router messages are returned instead of delivered.
func Feed(s screen.Screen, cmd tea.Cmd, limit int) (screen.Screen, []tea.Msg) {
	var nav []tea.Msg
	queue := Run(cmd)
	for n := 0; len(queue) > 0 && n < limit; n++ {
		msg := queue[0]
		queue = queue[1:]
		if isRouterMsg(msg) {
			nav = append(nav, msg)
			continue
		}
		var next tea.Cmd
		s, next = s.Update(msg)
		queue = append(queue, Run(next)...)
	}
	return s, nav
}

func isRouterMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.ResetScreenMsg:
		return true
	}
	return false
}

// Key is a printable key press.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special is a non-printable key press such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Type sends each rune of text to s as a key press.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(Key(r))
	}
	return s
}
