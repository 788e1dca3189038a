package attempt

import (
	"errors"
	"testing"

	"github.com/abhisek/promptquest/internal/records"
)

func mcq(id string, xp, correct int) records.Exercise {
	return records.Exercise{
		ID:       id,
		XPReward: xp,
		Content: records.ExerciseContent{
			Question: "q " + id,
			Options:  []string{"a", "b", "c", "d"},
		},
		CorrectAnswer: records.Answer{CorrectIndex: correct},
	}
}

func lesson(xp int) records.Lesson {
	return records.Lesson{ID: "l1", Title: "Prompt basics", XPReward: xp}
}

// answer selects choice, submits and advances.
func answer(t *testing.T, s *State, choice int) {
	t.Helper()
	if err := s.Select(choice); err != nil {
		t.Fatalf("Select(%d): %v", choice, err)
	}
	if err := s.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
}

func TestTwoExerciseExample(t *testing.T) {
	s := New(lesson(20), []records.Exercise{mcq("e1", 50, 0), mcq("e2", 50, 2)})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	answer(t, s, 0) // correct
	answer(t, s, 1) // wrong

	if s.Phase() != PhaseCompleting {
		t.Fatalf("phase = %s, want completing", s.Phase())
	}
	r, err := s.Result()
	if err != nil {
		t.Fatal(err)
	}
	want := Result{Correct: 1, Total: 2, Score: 50, FinalXP: 70}
	if r != want {
		t.Errorf("Result() = %+v, want %+v", r, want)
	}
}

func TestAllCorrectAndNoneCorrect(t *testing.T) {
	ex := []records.Exercise{mcq("e1", 10, 1), mcq("e2", 15, 2), mcq("e3", 25, 3)}

	tests := []struct {
		name    string
		choices []int
		want    Result
	}{
		{"all correct", []int{1, 2, 3}, Result{Correct: 3, Total: 3, Score: 100, FinalXP: 30 + 50}},
		{"none correct", []int{0, 0, 0}, Result{Correct: 0, Total: 3, Score: 0, FinalXP: 30}},
		{"one of three", []int{1, 0, 0}, Result{Correct: 1, Total: 3, Score: 33, FinalXP: 30 + 10}},
		{"two of three", []int{1, 2, 0}, Result{Correct: 2, Total: 3, Score: 67, FinalXP: 30 + 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(lesson(30), ex)
			if err := s.Start(); err != nil {
				t.Fatal(err)
			}
			for _, c := range tt.choices {
				answer(t, s, c)
			}
			got, err := s.Result()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Result() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLastSelectionWins(t *testing.T) {
	s := New(lesson(0), []records.Exercise{mcq("e1", 10, 2)})
	_ = s.Start()

	for _, i := range []int{0, 3, 2} {
		if err := s.Select(i); err != nil {
			t.Fatalf("Select(%d): %v", i, err)
		}
	}
	if err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if !s.LastCorrect() {
		t.Error("expected latest selection (2) to be scored as correct")
	}
	if s.XP() != 10 || s.Correct() != 1 {
		t.Errorf("xp=%d correct=%d, want 10 and 1", s.XP(), s.Correct())
	}
}

func TestReselectSameOptionIsIdempotent(t *testing.T) {
	s := New(lesson(0), []records.Exercise{mcq("e1", 10, 1)})
	_ = s.Start()
	_ = s.Select(1)
	if err := s.Select(1); err != nil {
		t.Fatalf("second Select: %v", err)
	}
	if got, ok := s.Selected(); !ok || got != 1 {
		t.Errorf("Selected() = %d,%v want 1,true", got, ok)
	}
}

func TestSubmitWithoutSelectionRejected(t *testing.T) {
	s := New(lesson(0), []records.Exercise{mcq("e1", 10, 1)})
	_ = s.Start()

	if err := s.Submit(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("Submit() err = %v, want ErrNoSelection", err)
	}
	if s.Answered() || s.Step() != 1 || s.XP() != 0 {
		t.Error("rejected submit must not change state")
	}
}

func TestSelectionLockedAfterFeedback(t *testing.T) {
	s := New(lesson(0), []records.Exercise{mcq("e1", 10, 1)})
	_ = s.Start()
	_ = s.Select(0)
	_ = s.Submit()

	if err := s.Select(1); !errors.Is(err, ErrAnswerLocked) {
		t.Fatalf("Select after submit err = %v, want ErrAnswerLocked", err)
	}
	if got, _ := s.Selected(); got != 0 {
		t.Errorf("selection changed to %d after feedback", got)
	}
	if err := s.Submit(); !errors.Is(err, ErrAnswerLocked) {
		t.Errorf("second Submit err = %v, want ErrAnswerLocked", err)
	}
	if s.XP() != 0 || s.Correct() != 0 {
		t.Error("wrong answer must not change accumulators")
	}
}

func TestSelectOutOfRange(t *testing.T) {
	s := New(lesson(0), []records.Exercise{mcq("e1", 10, 1)})
	_ = s.Start()
	for _, i := range []int{-1, 4} {
		if err := s.Select(i); !errors.Is(err, ErrOptionOutOfRange) {
			t.Errorf("Select(%d) err = %v, want ErrOptionOutOfRange", i, err)
		}
	}
	if _, ok := s.Selected(); ok {
		t.Error("out-of-range select must not set a selection")
	}
}

func TestAdvanceClearsSelection(t *testing.T) {
	s := New(lesson(0), []records.Exercise{mcq("e1", 10, 1), mcq("e2", 10, 1)})
	_ = s.Start()

	if err := s.Advance(); !errors.Is(err, ErrNotAnswered) {
		t.Fatalf("Advance before submit err = %v, want ErrNotAnswered", err)
	}
	answer(t, s, 1)

	if s.Step() != 2 {
		t.Fatalf("step = %d, want 2", s.Step())
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection not cleared on advance")
	}
	if s.Answered() {
		t.Error("feedback not cleared on advance")
	}
}

func TestStepBoundsAndMonotonic(t *testing.T) {
	ex := []records.Exercise{mcq("e1", 1, 0), mcq("e2", 1, 0), mcq("e3", 1, 0)}
	s := New(lesson(0), ex)
	n := len(ex)

	last := s.Step()
	check := func() {
		t.Helper()
		if s.Step() < last {
			t.Fatalf("step decreased from %d to %d", last, s.Step())
		}
		if s.Step() < 0 || s.Step() > n+1 {
			t.Fatalf("step %d outside [0,%d]", s.Step(), n+1)
		}
		if f := s.ProgressFraction(); f < 0 || f > 1 {
			t.Fatalf("progress fraction %f outside [0,1]", f)
		}
		last = s.Step()
	}

	_ = s.Start()
	check()
	for i := 0; i < n; i++ {
		_ = s.Select(0)
		check()
		_ = s.Submit()
		check()
		_ = s.Advance()
		check()
	}
	// Nothing moves past completing.
	if err := s.Start(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Start at end err = %v", err)
	}
	if err := s.Advance(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Advance at end err = %v", err)
	}
	check()
	if s.Step() != n+1 {
		t.Errorf("final step = %d, want %d", s.Step(), n+1)
	}
	if s.ProgressFraction() != 1 {
		t.Errorf("final progress = %f, want 1", s.ProgressFraction())
	}
}

func TestNoExercises(t *testing.T) {
	s := New(lesson(20), nil)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseCompleting {
		t.Fatalf("phase = %s, want completing", s.Phase())
	}
	r, err := s.Result()
	if err != nil {
		t.Fatal(err)
	}
	if r.Score != 0 || r.FinalXP != 20 || r.Total != 0 {
		t.Errorf("Result() = %+v", r)
	}
}

func TestPhaseTransitions(t *testing.T) {
	s := New(lesson(5), []records.Exercise{mcq("e1", 10, 0)})

	if s.Phase() != PhaseIntro {
		t.Fatalf("initial phase = %s", s.Phase())
	}
	if err := s.Select(0); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Select in intro err = %v", err)
	}
	if _, err := s.Result(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Result in intro err = %v", err)
	}
	if err := s.MarkComplete(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("MarkComplete in intro err = %v", err)
	}

	_ = s.Start()
	if ex, ok := s.Exercise(); !ok || ex.ID != "e1" {
		t.Fatalf("Exercise() = %v,%v", ex.ID, ok)
	}
	answer(t, s, 0)

	if err := s.MarkComplete(); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseComplete {
		t.Fatalf("phase = %s, want complete", s.Phase())
	}
	if err := s.MarkComplete(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("second MarkComplete err = %v", err)
	}
	r, err := s.Result()
	if err != nil || r.FinalXP != 15 {
		t.Errorf("Result() after complete = %+v, %v", r, err)
	}
}

func TestNewCopiesExercises(t *testing.T) {
	ex := []records.Exercise{mcq("e1", 10, 0)}
	s := New(lesson(0), ex)
	ex[0].XPReward = 999
	_ = s.Start()
	answer(t, s, 0)
	if s.XP() != 10 {
		t.Errorf("xp = %d, state must not alias caller's slice", s.XP())
	}
}

func TestScore(t *testing.T) {
	tests := []struct{ correct, total, want int }{
		{0, 0, 0},
		{0, 4, 0},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds half up
		{2, 3, 67},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := Score(tt.correct, tt.total); got != tt.want {
			t.Errorf("Score(%d,%d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}
