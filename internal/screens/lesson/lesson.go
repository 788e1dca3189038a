// Package lesson plays one lesson: intro, the exercises in order, then the
// final tally once progress has been saved.
package lesson

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/promptquest/internal/attempt"
	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/gate"
	"github.com/abhisek/promptquest/internal/loader"
	"github.com/abhisek/promptquest/internal/progress"
	"github.com/abhisek/promptquest/internal/router"
	"github.com/abhisek/promptquest/internal/screen"
	"github.com/abhisek/promptquest/internal/ui/layout"
)

// LessonScreen implements screen.Screen for one lesson attempt.
type LessonScreen struct {
	env       *screen.Env
	principal backend.Principal
	lessonID  string

	attempt *attempt.State
	loadErr error

	cursor int
	hint   string

	saving         bool
	result         attempt.Result
	outcome        *progress.Outcome
	persistErr     error
	noticeOpen     bool
	confirmingQuit bool
}

var (
	_ screen.Screen          = (*LessonScreen)(nil)
	_ screen.KeyHintProvider = (*LessonScreen)(nil)
	_ screen.EscapeHandler   = (*LessonScreen)(nil)
)

// New creates the screen for lessonID. The session is checked before the
// content is fetched.
func New(env *screen.Env, p backend.Principal, lessonID string) *LessonScreen {
	return &LessonScreen{env: env, principal: p, lessonID: lessonID}
}

func (s *LessonScreen) Title() string {
	if s.attempt != nil {
		return s.attempt.Lesson().Title
	}
	return "Lesson"
}

func (s *LessonScreen) Init() tea.Cmd {
	g := gate.New(s.env.Client, s.env.Logger())
	env := s.env
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		return sessionCheckedMsg{result: g.Check(ctx)}
	}
}

func (s *LessonScreen) loadContent() tea.Cmd {
	env, id := s.env, s.lessonID
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		c, err := loader.Load(ctx, env.Client, id)
		if err != nil {
			env.Logger().Warn("lesson load failed", "lesson", id, "error", err)
		}
		return contentLoadedMsg{content: c, err: err}
	}
}

// persist writes the finished attempt. The attempt reaches Complete
// whatever the outcome.
func (s *LessonScreen) persist() tea.Cmd {
	res, err := s.attempt.Result()
	if err != nil {
		return nil
	}
	s.result = res
	s.saving = true

	env := s.env
	userID, lessonID := s.principal.ID, s.attempt.Lesson().ID
	p := progress.NewPersister(env.Client, progress.WithClock(env.Clock), progress.WithLogger(env.Logger()))
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		out, err := p.Complete(ctx, userID, lessonID, res)
		return persistDoneMsg{outcome: out, err: err}
	}
}

// HandlesEscape is true while an exercise is on screen so esc asks before
// abandoning the attempt.
func (s *LessonScreen) HandlesEscape() bool {
	if s.attempt == nil {
		return false
	}
	switch s.attempt.Phase() {
	case attempt.PhaseExercise, attempt.PhaseCompleting:
		return true
	}
	return s.noticeOpen
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionCheckedMsg:
		return s.handleSession(msg)

	case contentLoadedMsg:
		if msg.err != nil {
			s.loadErr = msg.err
			return s, nil
		}
		s.attempt = attempt.New(msg.content.Lesson, msg.content.Exercises)
		return s, nil

	case persistDoneMsg:
		return s.handlePersisted(msg)

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonScreen) handleSession(msg sessionCheckedMsg) (screen.Screen, tea.Cmd) {
	switch msg.result.Status {
	case gate.Authenticated:
		s.principal = *msg.result.Principal
		return s, s.loadContent()
	case gate.Unavailable:
		return s, router.Reset(s.env.Nav.Login("Could not reach the server. Please sign in again."))
	default:
		return s, router.Reset(s.env.Nav.Login("Please sign in to continue."))
	}
}

func (s *LessonScreen) handlePersisted(msg persistDoneMsg) (screen.Screen, tea.Cmd) {
	s.saving = false
	if err := s.attempt.MarkComplete(); err != nil {
		s.env.Logger().Error("lesson completion out of order", "lesson", s.lessonID, "error", err)
	}
	if msg.err != nil {
		s.persistErr = msg.err
		s.noticeOpen = true
		return s, nil
	}
	s.outcome = msg.outcome
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if s.loadErr != nil {
		return router.Pop()
	}
	if s.attempt == nil || s.saving {
		return nil
	}
	if s.noticeOpen {
		s.noticeOpen = false
		return nil
	}
	if s.confirmingQuit {
		switch key {
		case "y", "Y":
			return router.Pop()
		case "n", "N", "esc":
			s.confirmingQuit = false
		}
		return nil
	}

	switch s.attempt.Phase() {
	case attempt.PhaseIntro:
		if isConfirm(key) {
			if err := s.attempt.Start(); err != nil {
				return nil
			}
			s.cursor = 0
			if s.attempt.Phase() == attempt.PhaseCompleting {
				return s.persist()
			}
		}

	case attempt.PhaseExercise:
		if key == "esc" {
			s.confirmingQuit = true
			return nil
		}
		if s.attempt.Answered() {
			if isConfirm(key) {
				return s.advance()
			}
			return nil
		}
		return s.handleAnswerKey(key)

	case attempt.PhaseComplete:
		if key == "enter" {
			return router.Pop()
		}
	}
	return nil
}

func (s *LessonScreen) handleAnswerKey(key string) tea.Cmd {
	ex, _ := s.attempt.Exercise()
	n := len(ex.Content.Options)

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < n-1 {
			s.cursor++
		}
	case "space", " ":
		s.choose(s.cursor)
	case "enter":
		err := s.attempt.Submit()
		if errors.Is(err, attempt.ErrNoSelection) {
			s.hint = "Pick an answer first (space or 1-9)."
			return nil
		}
		s.hint = ""
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < n {
				s.cursor = i
				s.choose(i)
			}
		}
	}
	return nil
}

func isConfirm(key string) bool {
	return key == "enter" || key == "space" || key == " "
}

func (s *LessonScreen) choose(i int) {
	if err := s.attempt.Select(i); err == nil {
		s.hint = ""
	}
}

func (s *LessonScreen) advance() tea.Cmd {
	if err := s.attempt.Advance(); err != nil {
		return nil
	}
	s.cursor = 0
	if s.attempt.Phase() == attempt.PhaseCompleting {
		return s.persist()
	}
	return nil
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.loadErr != nil || s.noticeOpen:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.attempt == nil || s.saving:
		return nil
	case s.confirmingQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave lesson"},
			{Key: "N", Description: "Keep going"},
		}
	}

	switch s.attempt.Phase() {
	case attempt.PhaseIntro:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case attempt.PhaseExercise:
		if s.attempt.Answered() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Continue"},
				{Key: "Esc", Description: "Quit"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Space/1-9", Description: "Choose"},
			{Key: "Enter", Description: "Check"},
			{Key: "Esc", Description: "Quit"},
		}
	case attempt.PhaseComplete:
		return []layout.KeyHint{{Key: "Enter", Description: "Back to dashboard"}}
	}
	return nil
}

// notFound reports whether the lesson id did not resolve.
func (s *LessonScreen) notFound() bool {
	var le *loader.LoadError
	return errors.As(s.loadErr, &le) && le.NotFound()
}
