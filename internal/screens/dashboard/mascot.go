package dashboard

import (
	"time"

	"charm.land/lipgloss/v2"

	dash "github.com/abhisek/promptquest/internal/dashboard"
	"github.com/abhisek/promptquest/internal/progress"
	"github.com/abhisek/promptquest/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // learned something today
	MascotAlert                     // streak lapsed
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ >_  │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ >_  │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ >_  │
└─────┘`

// mascotFor picks the variant for s as of today.
func mascotFor(s *dash.Summary, today time.Time) MascotVariant {
	last, ok := s.Profile.LastActivity()
	switch {
	case !ok:
		return MascotIdle
	case progress.DaysBetween(last, today) == 0:
		return MascotCelebrating
	case s.Profile.StreakDays > 0 && s.CurrentStreak(today) == 0:
		return MascotAlert
	}
	return MascotIdle
}

// RenderMascot returns the mascot art for v.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.Accent
	case MascotAlert:
		art, fg = mascotAlert, theme.Warning
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
