// Package records holds the typed rows exchanged with the backend and
// converts between them and loosely typed backend.Record values.
package records

import (
	"fmt"
	"time"
)

// Lesson is a unit of learning content. Immutable once loaded.
type Lesson struct {
	ID              string        `json:"id" yaml:"id,omitempty"`
	Title           string        `json:"title" yaml:"title"`
	Content         LessonContent `json:"content" yaml:"content"`
	DurationMinutes int           `json:"duration_minutes" yaml:"duration_minutes"`
	XPReward        int           `json:"xp_reward" yaml:"xp_reward"`
	OrderIndex      int           `json:"order_index" yaml:"order_index"`
}

// LessonContent is the body shown on the intro step.
type LessonContent struct {
	Intro    *Intro    `json:"intro,omitempty" yaml:"intro,omitempty"`
	Sections []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Intro is the lead paragraph of a lesson.
type Intro struct {
	Content string `json:"content" yaml:"content"`
}

// Section is a titled block of lesson text.
type Section struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// ExerciseTypeMultipleChoice is the only exercise type the lesson flow plays.
const ExerciseTypeMultipleChoice = "multiple_choice"

// Exercise is a single multiple-choice question belonging to a lesson.
type Exercise struct {
	ID            string          `json:"id" yaml:"id,omitempty"`
	LessonID      string          `json:"lesson_id" yaml:"lesson_id,omitempty"`
	Type          string          `json:"type" yaml:"type,omitempty"`
	OrderIndex    int             `json:"order_index" yaml:"order_index"`
	Content       ExerciseContent `json:"content" yaml:"content"`
	CorrectAnswer Answer          `json:"correct_answer" yaml:"correct_answer"`
	XPReward      int             `json:"xp_reward" yaml:"xp_reward"`
}

// ExerciseContent is what the learner sees.
type ExerciseContent struct {
	Question    string   `json:"question" yaml:"question"`
	Options     []string `json:"options" yaml:"options"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Answer identifies the correct option by index.
type Answer struct {
	CorrectIndex int `json:"correctIndex" yaml:"correctIndex"`
}

// Validate checks constraints the JSON schema cannot express.
func (e *Exercise) Validate() error {
	if e.CorrectAnswer.CorrectIndex < 0 || e.CorrectAnswer.CorrectIndex >= len(e.Content.Options) {
		return fmt.Errorf("exercise %q: correct index %d out of range [0,%d)",
			e.ID, e.CorrectAnswer.CorrectIndex, len(e.Content.Options))
	}
	return nil
}

// IsCorrect reports whether choice is the correct option.
func (e *Exercise) IsCorrect(choice int) bool {
	return choice == e.CorrectAnswer.CorrectIndex
}

// Profile is the learner's cumulative standing.
type Profile struct {
	ID               string `json:"id"`
	Username         string `json:"username,omitempty"`
	XP               int    `json:"xp"`
	Level            int    `json:"level"`
	LastActivityDate string `json:"last_activity_date,omitempty"`
	StreakDays       int    `json:"streak_days"`
}

// LastActivity parses LastActivityDate. ok is false when it is unset or
// malformed.
func (p *Profile) LastActivity() (t time.Time, ok bool) {
	if p.LastActivityDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, p.LastActivityDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateLayout is the calendar-date format of Profile.LastActivityDate.
const DateLayout = "2006-01-02"

// StatusCompleted is the only status the lesson flow writes.
const StatusCompleted = "completed"

// Progress is the per-(user, lesson) completion record.
type Progress struct {
	UserID      string `json:"user_id"`
	LessonID    string `json:"lesson_id"`
	Status      string `json:"status"`
	Score       int    `json:"score"`
	CompletedAt string `json:"completed_at,omitempty"`
}
