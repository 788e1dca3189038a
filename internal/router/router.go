// Package router keeps the stack of screens the TUI navigates through.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/promptquest/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the current screen for Screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// ResetScreenMsg drops the whole stack and starts again at Screen. Used
// when the signed-in user changes.
type ResetScreenMsg struct {
	Screen screen.Screen
}

// ResumedMsg is delivered to a screen when the one above it is popped.
type ResumedMsg struct{}

// Push, Pop, Replace and Reset wrap the messages as commands.
func Push(s screen.Screen) tea.Cmd    { return msgCmd(PushScreenMsg{Screen: s}) }
func Pop() tea.Cmd                    { return msgCmd(PopScreenMsg{}) }
func Replace(s screen.Screen) tea.Cmd { return msgCmd(ReplaceScreenMsg{Screen: s}) }
func Reset(s screen.Screen) tea.Cmd   { return msgCmd(ResetScreenMsg{Screen: s}) }

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

type Router struct {
	stack []screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

// Push adds s on top and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen and tells the one below it. The bottom
// screen is never popped.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return msgCmd(ResumedMsg{})
}

// Replace swaps the top screen, keeping the depth.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Reset makes s the only screen.
func (r *Router) Reset(s screen.Screen) tea.Cmd {
	r.stack = []screen.Screen{s}
	return s.Init()
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case ResetScreenMsg:
		return r.Reset(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
