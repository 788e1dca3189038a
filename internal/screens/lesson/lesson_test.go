package lesson

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/promptquest/internal/attempt"
	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/backend/backendtest"
	"github.com/abhisek/promptquest/internal/router"
	"github.com/abhisek/promptquest/internal/screen/screentest"
)

var ada = backend.Principal{ID: "u1", Email: "ada@example.com"}

func exercise(id string, order, correct int) backend.Record {
	return backend.Record{
		"id": id, "lesson_id": "l1", "order_index": order, "xp_reward": 50,
		"content": map[string]any{
			"question":    "Question " + id,
			"options":     []any{"first", "second", "third"},
			"explanation": "Because " + id,
		},
		"correct_answer": map[string]any{"correctIndex": correct},
	}
}

func seeded() *backendtest.Fake {
	f := backendtest.New()
	f.Seed(backend.TableLessons, backend.Record{
		"id": "l1", "title": "Prompt basics", "xp_reward": 20, "duration_minutes": 5,
		"content": map[string]any{"intro": map[string]any{"content": "Be specific."}},
	})
	f.Seed(backend.TableExercises, exercise("e2", 2, 1), exercise("e1", 1, 0))
	f.Seed(backend.TableProfiles, backend.Record{
		"id": "u1", "xp": 450, "level": 1, "streak_days": 2, "last_activity_date": "2025-03-13",
	})
	p := ada
	f.SignInAs(&p)
	return f
}

func open(t *testing.T, f *backendtest.Fake, id string) *LessonScreen {
	t.Helper()
	s := New(screentest.Env(f), ada, id)
	_, nav := screentest.Feed(s, s.Init(), 10)
	if len(nav) != 0 {
		t.Fatalf("unexpected navigation: %v", nav)
	}
	return s
}

func press(s *LessonScreen, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(k)
	}
	return cmd
}

var (
	enter = screentest.Special(tea.KeyEnter)
	esc   = screentest.Special(tea.KeyEscape)
)

func TestFullAttempt(t *testing.T) {
	f := seeded()
	s := open(t, f, "l1")
	if s.attempt == nil {
		t.Fatalf("lesson not loaded: %v", s.loadErr)
	}
	if !strings.Contains(s.View(100, 30), "Prompt basics") {
		t.Error("intro should show the lesson title")
	}

	press(s, enter)
	if s.attempt.Phase() != attempt.PhaseExercise || s.attempt.Step() != 1 {
		t.Fatalf("after start: phase %s step %d", s.attempt.Phase(), s.attempt.Step())
	}
	if !strings.Contains(s.View(100, 30), "Question 1/2") {
		t.Error("expected exercise header")
	}

	// Submitting with nothing chosen is refused.
	press(s, enter)
	if s.attempt.Answered() || s.hint == "" {
		t.Error("submit without a selection should be rejected with a hint")
	}

	// The last selection wins.
	press(s, screentest.Key('2'), screentest.Key('1'), enter)
	if !s.attempt.Answered() || !s.attempt.LastCorrect() {
		t.Fatal("first exercise should be answered correctly")
	}
	if s.attempt.XP() != 50 {
		t.Errorf("xp = %d, want 50", s.attempt.XP())
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "+50 XP") || !strings.Contains(view, "Because e1") {
		t.Error("feedback should show the XP gained and the explanation")
	}

	// Selection is locked once feedback shows.
	press(s, screentest.Key('3'))
	if sel, _ := s.attempt.Selected(); sel != 0 {
		t.Errorf("selection changed after submit: %d", sel)
	}

	press(s, enter)
	if s.attempt.Step() != 2 || s.cursor != 0 {
		t.Fatalf("after advance: step %d cursor %d", s.attempt.Step(), s.cursor)
	}

	press(s, screentest.Key('1'), enter)
	if s.attempt.LastCorrect() {
		t.Fatal("second exercise should be wrong")
	}
	if !strings.Contains(s.View(100, 30), "The answer is B") {
		t.Error("wrong answer should reveal the correct option")
	}

	cmd := press(s, enter)
	if s.attempt.Phase() != attempt.PhaseCompleting || !s.saving {
		t.Fatalf("phase %s saving %v, want completing and saving", s.attempt.Phase(), s.saving)
	}
	if press(s, enter) != nil {
		t.Error("keys should be ignored while saving")
	}

	screentest.Feed(s, cmd, 5)
	if s.attempt.Phase() != attempt.PhaseComplete {
		t.Fatalf("phase = %s, want complete", s.attempt.Phase())
	}
	want := attempt.Result{Correct: 1, Total: 2, Score: 50, FinalXP: 70}
	if s.result != want {
		t.Errorf("result = %+v, want %+v", s.result, want)
	}
	if s.outcome == nil || !s.outcome.LevelUp() || s.outcome.Profile.XP != 520 {
		t.Errorf("outcome = %+v, want level up at 520 XP", s.outcome)
	}
	view = s.View(100, 30)
	for _, w := range []string{"50%", "+70 XP", "Level up!"} {
		if !strings.Contains(view, w) {
			t.Errorf("complete view missing %q", w)
		}
	}

	prog := f.Rows(backend.TableUserProgress)
	if len(prog) != 1 || prog[0]["score"] != 50 {
		t.Errorf("progress rows = %v", prog)
	}

	msgs := screentest.Run(press(s, enter))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(router.PopScreenMsg); !ok {
		t.Errorf("got %T, want PopScreenMsg", msgs[0])
	}
}

func TestNotFound(t *testing.T) {
	s := open(t, seeded(), "missing")
	if !s.notFound() {
		t.Fatalf("load error = %v, want not found", s.loadErr)
	}
	if !strings.Contains(s.View(100, 30), "Lesson not found") {
		t.Error("expected not-found notice")
	}
	msgs := screentest.Run(press(s, screentest.Key('x')))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(router.PopScreenMsg); !ok {
		t.Errorf("any key should pop, got %T", msgs[0])
	}
}

func TestLoadFailure(t *testing.T) {
	f := seeded()
	f.FailOn("QueryMany", backend.TableExercises, backend.ErrUnavailable)
	s := open(t, f, "l1")
	if s.loadErr == nil || s.notFound() {
		t.Fatalf("load error = %v, want a non-not-found failure", s.loadErr)
	}
	if !strings.Contains(s.View(100, 30), "Could not load this lesson") {
		t.Error("expected load failure notice")
	}
}

func TestPersistFailureStillCompletes(t *testing.T) {
	f := seeded()
	f.FailOn("Upsert", backend.TableUserProgress, backend.ErrUnavailable)
	s := open(t, f, "l1")

	press(s, enter, screentest.Key('1'), enter, enter, screentest.Key('2'), enter)
	cmd := press(s, enter)
	screentest.Feed(s, cmd, 5)

	if s.attempt.Phase() != attempt.PhaseComplete {
		t.Fatalf("phase = %s, want complete", s.attempt.Phase())
	}
	if !s.noticeOpen || s.persistErr == nil {
		t.Fatal("expected a blocking notice")
	}
	if !s.HandlesEscape() {
		t.Error("the notice should swallow esc")
	}
	if !strings.Contains(s.View(100, 30), "Progress not saved") {
		t.Error("expected the notice view")
	}

	if press(s, screentest.Key('x')) != nil {
		t.Error("dismissing the notice should not navigate")
	}
	if s.noticeOpen {
		t.Error("notice should close on any key")
	}
	if s.result.Score != 100 {
		t.Errorf("score = %d, want 100", s.result.Score)
	}
	if !strings.Contains(s.View(100, 30), "Not saved to your profile") {
		t.Error("complete view should mention the failed save")
	}
}

func TestQuitConfirm(t *testing.T) {
	s := open(t, seeded(), "l1")
	if s.HandlesEscape() {
		t.Error("intro should let the app handle esc")
	}
	press(s, enter)
	if !s.HandlesEscape() {
		t.Fatal("exercise should handle esc")
	}

	press(s, esc)
	if !s.confirmingQuit {
		t.Fatal("esc should ask before leaving")
	}
	press(s, screentest.Key('n'))
	if s.confirmingQuit {
		t.Error("n should resume")
	}

	press(s, esc)
	msgs := screentest.Run(press(s, screentest.Key('y')))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(router.PopScreenMsg); !ok {
		t.Errorf("y should pop, got %T", msgs[0])
	}
}

func TestEmptyLessonCompletesWithLessonXP(t *testing.T) {
	f := seeded()
	f.Seed(backend.TableLessons, backend.Record{"id": "empty", "title": "Empty", "xp_reward": 20, "content": map[string]any{}})
	s := open(t, f, "empty")

	screentest.Feed(s, press(s, enter), 5)
	if s.attempt.Phase() != attempt.PhaseComplete {
		t.Fatalf("phase = %s, want complete", s.attempt.Phase())
	}
	if s.result.Score != 0 || s.result.FinalXP != 20 {
		t.Errorf("result = %+v, want score 0 and 20 XP", s.result)
	}
}

func TestAnonymousRedirectsToLogin(t *testing.T) {
	s := New(screentest.Env(backendtest.New()), ada, "l1")
	_, nav := screentest.Feed(s, s.Init(), 5)
	if len(nav) != 1 {
		t.Fatalf("got %d navigation messages, want 1", len(nav))
	}
	reset, ok := nav[0].(router.ResetScreenMsg)
	if !ok || reset.Screen.(*screentest.Stub).Name != "login" {
		t.Errorf("got %#v, want reset to login", nav[0])
	}
}
