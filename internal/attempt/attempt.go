// Package attempt implements the lesson progression state machine: intro,
// one multiple-choice step per exercise, then completion.
//
// A State is owned by a single lesson screen. It is never persisted; a new
// visit to the lesson starts over at the intro.
package attempt

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/promptquest/internal/records"
)

// Phase identifies where the learner is in the lesson.
type Phase int

const (
	// PhaseIntro shows the lesson content (step 0).
	PhaseIntro Phase = iota
	// PhaseExercise shows exercise k (step k, 1..N). See State.Answered.
	PhaseExercise
	// PhaseCompleting is the terminal step while progress is being saved.
	PhaseCompleting
	// PhaseComplete shows the final tally.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseExercise:
		return "exercise"
	case PhaseCompleting:
		return "completing"
	case PhaseComplete:
		return "complete"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

var (
	ErrWrongPhase       = errors.New("attempt: operation not allowed in this phase")
	ErrNoSelection      = errors.New("attempt: no option selected")
	ErrAnswerLocked     = errors.New("attempt: answer already submitted")
	ErrNotAnswered      = errors.New("attempt: current exercise not answered yet")
	ErrOptionOutOfRange = errors.New("attempt: option index out of range")
)

const noSelection = -1

// State is one pass through a lesson.
type State struct {
	lesson    records.Lesson
	exercises []records.Exercise

	step        int
	selected    int
	answered    bool
	lastCorrect bool
	xp          int
	correct     int
	complete    bool
}

// New starts an attempt at the intro step. Exercises must already be in
// play order.
func New(lesson records.Lesson, exercises []records.Exercise) *State {
	ex := make([]records.Exercise, len(exercises))
	copy(ex, exercises)
	return &State{
		lesson:    lesson,
		exercises: ex,
		selected:  noSelection,
	}
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	switch {
	case s.step == 0:
		return PhaseIntro
	case s.step <= len(s.exercises):
		return PhaseExercise
	case s.complete:
		return PhaseComplete
	default:
		return PhaseCompleting
	}
}

// Start leaves the intro. With no exercises it goes straight to completing.
func (s *State) Start() error {
	if s.Phase() != PhaseIntro {
		return fmt.Errorf("start from %s: %w", s.Phase(), ErrWrongPhase)
	}
	s.step = 1
	return nil
}

// Select marks option i as the learner's choice for the current exercise.
// A later Select before Submit replaces the earlier one.
func (s *State) Select(i int) error {
	if s.Phase() != PhaseExercise {
		return fmt.Errorf("select in %s: %w", s.Phase(), ErrWrongPhase)
	}
	if s.answered {
		return ErrAnswerLocked
	}
	ex := s.exercises[s.step-1]
	if i < 0 || i >= len(ex.Content.Options) {
		return fmt.Errorf("select %d of %d: %w", i, len(ex.Content.Options), ErrOptionOutOfRange)
	}
	s.selected = i
	return nil
}

// Submit locks in the selection and reveals feedback. A correct answer
// adds the exercise's XP reward and counts toward the score.
func (s *State) Submit() error {
	if s.Phase() != PhaseExercise {
		return fmt.Errorf("submit in %s: %w", s.Phase(), ErrWrongPhase)
	}
	if s.answered {
		return ErrAnswerLocked
	}
	if s.selected == noSelection {
		return ErrNoSelection
	}
	ex := s.exercises[s.step-1]
	s.answered = true
	s.lastCorrect = ex.IsCorrect(s.selected)
	if s.lastCorrect {
		s.xp += ex.XPReward
		s.correct++
	}
	return nil
}

// Advance moves past an answered exercise, to the next one or, after the
// last, to completing.
func (s *State) Advance() error {
	if s.Phase() != PhaseExercise {
		return fmt.Errorf("advance from %s: %w", s.Phase(), ErrWrongPhase)
	}
	if !s.answered {
		return ErrNotAnswered
	}
	s.step++
	s.selected = noSelection
	s.answered = false
	s.lastCorrect = false
	return nil
}

// MarkComplete records that the completion side effects have finished,
// whether or not they succeeded.
func (s *State) MarkComplete() error {
	if s.Phase() != PhaseCompleting {
		return fmt.Errorf("complete from %s: %w", s.Phase(), ErrWrongPhase)
	}
	s.complete = true
	return nil
}

// Result is the final tally of an attempt.
type Result struct {
	Correct int
	Total   int
	Score   int // percent, 0..100
	FinalXP int // exercise XP earned plus the lesson's own reward
}

// Result returns the final tally. Only valid once every exercise is done.
func (s *State) Result() (Result, error) {
	if p := s.Phase(); p != PhaseCompleting && p != PhaseComplete {
		return Result{}, fmt.Errorf("result in %s: %w", p, ErrWrongPhase)
	}
	return Result{
		Correct: s.correct,
		Total:   len(s.exercises),
		Score:   Score(s.correct, len(s.exercises)),
		FinalXP: s.xp + s.lesson.XPReward,
	}, nil
}

// Score is the rounded percentage of correct answers. A lesson with no
// exercises scores 0.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// ProgressFraction is step/(N+1), in [0, 1].
func (s *State) ProgressFraction() float64 {
	return float64(s.step) / float64(len(s.exercises)+1)
}

// Lesson returns the lesson being played.
func (s *State) Lesson() records.Lesson { return s.lesson }

// Step returns the current step index in [0, N+1].
func (s *State) Step() int { return s.step }

// Total returns the number of exercises.
func (s *State) Total() int { return len(s.exercises) }

// Exercise returns the current exercise when in the exercise phase.
func (s *State) Exercise() (records.Exercise, bool) {
	if s.Phase() != PhaseExercise {
		return records.Exercise{}, false
	}
	return s.exercises[s.step-1], true
}

// Selected returns the selected option for the current exercise.
func (s *State) Selected() (int, bool) {
	return s.selected, s.selected != noSelection
}

// Answered reports whether feedback is showing for the current exercise.
func (s *State) Answered() bool { return s.answered }

// LastCorrect reports whether the submitted answer was correct. Only
// meaningful while Answered is true.
func (s *State) LastCorrect() bool { return s.lastCorrect }

// XP returns the XP earned from exercises so far.
func (s *State) XP() int { return s.xp }

// Correct returns the number of correct answers so far.
func (s *State) Correct() int { return s.correct }
