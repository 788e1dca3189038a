package authoring

import (
	"fmt"
	"strings"
)

// MaxExercises caps a single generated lesson.
const MaxExercises = 8

// Brief describes the lesson to write.
type Brief struct {
	Topic     string
	Audience  string
	Exercises int
	Minutes   int
	XPReward  int
	// OrderIndex places the lesson in the track; zero leaves it to the
	// catalog defaults.
	OrderIndex int
	// Avoid lists titles already in the track so the model picks a new
	// angle.
	Avoid []string
}

func (b Brief) Validate() error {
	if strings.TrimSpace(b.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	if b.Exercises < 1 || b.Exercises > MaxExercises {
		return fmt.Errorf("exercises must be between 1 and %d, got %d", MaxExercises, b.Exercises)
	}
	if b.Minutes < 0 {
		return fmt.Errorf("minutes must not be negative")
	}
	return nil
}
