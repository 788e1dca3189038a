package authoring

// Config tunes generation requests.
type Config struct {
	MaxTokens   int
	Temperature float64
	// ExerciseXP is the reward written to every generated exercise.
	ExerciseXP int
	// LessonXP is the lesson reward when the brief does not set one.
	LessonXP int
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		ExerciseXP:  10,
		LessonXP:    20,
	}
}
