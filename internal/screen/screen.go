// Package screen defines what the router stacks and what every screen
// receives from the application.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/promptquest/internal/ui/layout"
)

// Screen is one full-window view.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders the content area, excluding header and footer.
	View(width, height int) string
	// Title is shown in the header.
	Title() string
}

// KeyHintProvider screens choose their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider screens that know the learner's profile fill the header
// status.
type StatusProvider interface {
	Status() layout.Status
}

// EscapeHandler screens receive esc themselves instead of the app popping
// them.
type EscapeHandler interface {
	HandlesEscape() bool
}
