// Package dashboard is the signed-in home: stats, the lesson track and a
// shortcut to the next lesson.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/promptquest/internal/account"
	"github.com/abhisek/promptquest/internal/backend"
	dash "github.com/abhisek/promptquest/internal/dashboard"
	"github.com/abhisek/promptquest/internal/gate"
	"github.com/abhisek/promptquest/internal/router"
	"github.com/abhisek/promptquest/internal/screen"
	"github.com/abhisek/promptquest/internal/ui/components"
	"github.com/abhisek/promptquest/internal/ui/layout"
	"github.com/abhisek/promptquest/internal/ui/theme"
)

type sessionCheckedMsg struct {
	result gate.Result
}

type summaryLoadedMsg struct {
	summary *dash.Summary
	err     error
}

type signedOutMsg struct {
	err error
}

// DashboardScreen shows the signed-in learner's progress.
type DashboardScreen struct {
	env       *screen.Env
	principal backend.Principal

	summary *dash.Summary
	loadErr error
	loading bool
	pending bool // sign out in flight
	notice  string
	cursor  int
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates the dashboard for p. The session is checked again on Init.
func New(env *screen.Env, p backend.Principal) *DashboardScreen {
	return &DashboardScreen{env: env, principal: p}
}

func (d *DashboardScreen) Title() string { return "Dashboard" }

func (d *DashboardScreen) Init() tea.Cmd {
	d.loading = true
	d.loadErr = nil
	g := gate.New(d.env.Client, d.env.Logger())
	env := d.env
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		return sessionCheckedMsg{result: g.Check(ctx)}
	}
}

func (d *DashboardScreen) load(p backend.Principal) tea.Cmd {
	env := d.env
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		s, err := dash.Load(ctx, env.Client, &p)
		if err != nil {
			env.Logger().Warn("dashboard load failed", "user", p.ID, "error", err)
		}
		return summaryLoadedMsg{summary: s, err: err}
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionCheckedMsg:
		switch msg.result.Status {
		case gate.Authenticated:
			d.principal = *msg.result.Principal
			return d, d.load(d.principal)
		case gate.Unavailable:
			return d, router.Reset(d.env.Nav.Login("Could not reach the server. Please sign in again."))
		default:
			return d, router.Reset(d.env.Nav.Login("Please sign in to continue."))
		}

	case summaryLoadedMsg:
		d.loading = false
		d.loadErr = msg.err
		if msg.err != nil {
			if d.summary != nil {
				d.notice = "Could not refresh. Showing earlier numbers."
			}
			return d, nil
		}
		d.notice = ""
		d.summary = msg.summary
		d.cursor = d.nextIndex()
		return d, nil

	case signedOutMsg:
		d.pending = false
		if msg.err != nil {
			d.notice = "Sign out failed. Try again."
			return d, nil
		}
		return d, router.Reset(d.env.Nav.Landing("Signed out."))

	case router.ResumedMsg:
		// Back from a lesson: totals may have changed.
		return d, d.Init()

	case tea.KeyPressMsg:
		return d, d.handleKey(msg)
	}
	return d, nil
}

func (d *DashboardScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if d.pending {
		return nil
	}
	key := msg.String()
	if key == "o" {
		return d.signOut()
	}
	if d.loading {
		return nil
	}
	if key == "r" {
		return d.Init()
	}
	if d.summary == nil {
		return nil
	}

	switch key {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.summary.Lessons)-1 {
			d.cursor++
		}
	case "enter":
		if d.cursor < len(d.summary.Lessons) {
			return router.Push(d.env.Nav.Lesson(d.principal, d.summary.Lessons[d.cursor].Lesson.ID))
		}
	case "c":
		if next := d.summary.Next(); next != nil {
			return router.Push(d.env.Nav.Lesson(d.principal, next.ID))
		}
	}
	return nil
}

func (d *DashboardScreen) signOut() tea.Cmd {
	d.pending = true
	d.notice = ""
	svc := account.NewService(d.env.Client, d.env.Logger())
	env := d.env
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		return signedOutMsg{err: svc.SignOut(ctx)}
	}
}

// nextIndex is the position of Summary.Next in the list, or 0.
func (d *DashboardScreen) nextIndex() int {
	next := d.summary.Next()
	if next == nil {
		return 0
	}
	for i, l := range d.summary.Lessons {
		if l.Lesson.ID == next.ID {
			return i
		}
	}
	return 0
}

func (d *DashboardScreen) Status() layout.Status {
	if d.summary == nil {
		return layout.Status{}
	}
	return layout.Status{
		XP:     d.summary.Profile.XP,
		Streak: d.summary.CurrentStreak(d.env.Clock()),
	}
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Open"},
		{Key: "c", Description: "Continue"},
		{Key: "r", Description: "Refresh"},
		{Key: "o", Description: "Sign out"},
	}
}

func (d *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if d.summary == nil {
		if d.loadErr != nil {
			msg := theme.ErrorText.Render("Could not load your dashboard.") + "\n" +
				theme.Hint.Render("Press r to retry or o to sign out.")
			return components.Center(components.Card("", msg, cw), width, height)
		}
		return components.Center(theme.Hint.Render("Loading your dashboard..."), width, height)
	}

	s := d.summary
	today := d.env.Clock()
	compact := layout.IsCompactWidth(width) || height < 30

	var sections []string
	greeting := theme.Title.Render(fmt.Sprintf("Welcome back, %s!", s.DisplayName))
	if !compact {
		greeting = lipgloss.JoinHorizontal(lipgloss.Center, RenderMascot(mascotFor(s, today)), "   ", greeting)
	}
	sections = append(sections, greeting)

	if d.notice != "" {
		sections = append(sections, theme.ErrorText.Render(d.notice))
	}

	sections = append(sections, renderStats(s, today, cw))
	sections = append(sections, components.NewProgressBar("Track", float64(s.TrackPercent())/100, true, cw).View())
	sections = append(sections, renderContinue(s, cw))
	sections = append(sections, renderLessons(s, d.cursor, cw))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n\n"))
}

// renderStats lays the three stat cards side by side, or falls back to one
// line when there is no room.
func renderStats(s *dash.Summary, today time.Time, cw int) string {
	streak := s.CurrentStreak(today)
	w := (cw - 2) / 3
	if w < 18 {
		return theme.XP.Render(fmt.Sprintf("%d day streak  •  %d XP (Lv %d %s)  •  %d/%d lessons",
			streak, s.Profile.XP, s.Profile.Level, s.LevelTitle(), s.Completed(), s.Total()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		components.StatCard(fmt.Sprintf("%d", streak), "day streak", w), " ",
		components.StatCard(fmt.Sprintf("%d XP", s.Profile.XP), fmt.Sprintf("Lv %d %s", s.Profile.Level, s.LevelTitle()), w), " ",
		components.StatCard(fmt.Sprintf("%d/%d", s.Completed(), s.Total()), "lessons done", w),
	)
}

func renderContinue(s *dash.Summary, cw int) string {
	next := s.Next()
	if next == nil {
		if s.Total() == 0 {
			return components.Card("Continue learning", theme.Subtitle.Render("No lessons yet. Check back soon."), cw)
		}
		return components.Card("Continue learning", theme.Done.Render("Track complete. Nice work!"), cw)
	}
	body := theme.Body.Bold(true).Render(next.Title) + "\n" +
		theme.Subtitle.Render(fmt.Sprintf("%d min  •  %d XP", next.DurationMinutes, next.XPReward)) + "\n" +
		theme.Hint.Render("press c to start")
	return components.Card("Continue learning", body, cw)
}

func renderLessons(s *dash.Summary, cursor, cw int) string {
	if s.Total() == 0 {
		return ""
	}
	var lines []string
	for i, l := range s.Lessons {
		prefix := "  "
		if i == cursor {
			prefix = "▸ "
		}
		mark := theme.Subtitle.Render("○")
		detail := theme.Subtitle.Render(fmt.Sprintf("%d XP", l.Lesson.XPReward))
		if l.Completed {
			mark = theme.Done.Render("✓")
			detail = theme.Done.Render(fmt.Sprintf("%d%%", l.Score))
		}
		title := theme.Unselected.Render(l.Lesson.Title)
		if i == cursor {
			title = theme.Selected.Render(l.Lesson.Title)
		}
		lines = append(lines, fmt.Sprintf("%s%s %s  %s", prefix, mark, title, detail))
	}
	return components.Card("Lessons", strings.Join(lines, "\n"), cw)
}
