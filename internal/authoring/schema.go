package authoring

import "github.com/abhisek/promptquest/internal/llm"

// LessonSchema is the shape the model must answer in.
var LessonSchema = &llm.Schema{
	Name:        "promptquest-lesson",
	Description: "A short lesson with multiple-choice exercises",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"title", "intro", "sections", "duration_minutes", "exercises"},
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Lesson title, 3-8 words",
			},
			"intro": map[string]any{
				"type":        "string",
				"description": "One or two sentences framing the lesson",
			},
			"sections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"title", "content"},
					"properties": map[string]any{
						"title":   map[string]any{"type": "string"},
						"content": map[string]any{"type": "string", "description": "Plain text, 2-5 sentences"},
					},
				},
			},
			"duration_minutes": map[string]any{"type": "integer"},
			"exercises": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"question", "options", "correct_index", "explanation"},
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "3 or 4 answer options",
						},
						"correct_index": map[string]any{
							"type":        "integer",
							"description": "Zero-based index of the correct option",
						},
						"explanation": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

type draft struct {
	Title    string `json:"title"`
	Intro    string `json:"intro"`
	Sections []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"sections"`
	DurationMinutes int `json:"duration_minutes"`
	Exercises       []struct {
		Question     string   `json:"question"`
		Options      []string `json:"options"`
		CorrectIndex int      `json:"correct_index"`
		Explanation  string   `json:"explanation"`
	} `json:"exercises"`
}
