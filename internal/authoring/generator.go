// Package authoring drafts new lessons with a language model and turns
// the reply into a catalog entry ready to seed.
package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/promptquest/internal/catalog"
	"github.com/abhisek/promptquest/internal/llm"
	"github.com/abhisek/promptquest/internal/records"
)

// DraftError reports a reply that matched the schema but cannot be played.
type DraftError struct {
	Exercise int // 1-based; 0 for lesson-level problems
	Reason   string
}

func (e *DraftError) Error() string {
	if e.Exercise == 0 {
		return "draft lesson: " + e.Reason
	}
	return fmt.Sprintf("draft exercise %d: %s", e.Exercise, e.Reason)
}

type Generator struct {
	provider llm.Provider
	cfg      Config
}

func NewGenerator(p llm.Provider, cfg Config) *Generator {
	return &Generator{provider: p, cfg: cfg}
}

// Generate asks the model for one lesson. Ids are fresh random UUIDs, so
// seeding the result never overwrites an existing lesson.
func (g *Generator) Generate(ctx context.Context, b Brief) (*catalog.Entry, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, "author"), llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserPrompt(userMessage(b)),
		Schema:      LessonSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate lesson: %w", err)
	}

	var d draft
	if err := json.Unmarshal(resp.Content, &d); err != nil {
		return nil, fmt.Errorf("decode lesson draft: %w", err)
	}
	entry, err := g.build(b, d)
	if err != nil {
		return nil, err
	}

	check := catalog.Catalog{Lessons: []catalog.Entry{*entry}}
	if err := check.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (g *Generator) build(b Brief, d draft) (*catalog.Entry, error) {
	if strings.TrimSpace(d.Title) == "" {
		return nil, &DraftError{Reason: "empty title"}
	}
	if len(d.Exercises) < b.Exercises {
		return nil, &DraftError{Reason: fmt.Sprintf("asked for %d exercises, got %d", b.Exercises, len(d.Exercises))}
	}
	d.Exercises = d.Exercises[:b.Exercises]

	lesson := records.Lesson{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(d.Title),
		DurationMinutes: max(d.DurationMinutes, 0),
		XPReward:        b.XPReward,
		OrderIndex:      b.OrderIndex,
	}
	if b.Minutes > 0 {
		lesson.DurationMinutes = b.Minutes
	}
	if lesson.XPReward == 0 {
		lesson.XPReward = g.cfg.LessonXP
	}
	if intro := strings.TrimSpace(d.Intro); intro != "" {
		lesson.Content.Intro = &records.Intro{Content: intro}
	}
	for _, s := range d.Sections {
		lesson.Content.Sections = append(lesson.Content.Sections, records.Section{
			Title:   strings.TrimSpace(s.Title),
			Content: strings.TrimSpace(s.Content),
		})
	}

	entry := &catalog.Entry{Lesson: lesson}
	for i, x := range d.Exercises {
		if len(x.Options) < 2 {
			return nil, &DraftError{Exercise: i + 1, Reason: "fewer than two options"}
		}
		if x.CorrectIndex < 0 || x.CorrectIndex >= len(x.Options) {
			return nil, &DraftError{
				Exercise: i + 1,
				Reason:   fmt.Sprintf("correct index %d outside %d options", x.CorrectIndex, len(x.Options)),
			}
		}
		entry.Exercises = append(entry.Exercises, records.Exercise{
			ID:         uuid.NewString(),
			LessonID:   lesson.ID,
			Type:       records.ExerciseTypeMultipleChoice,
			OrderIndex: i + 1,
			Content: records.ExerciseContent{
				Question:    strings.TrimSpace(x.Question),
				Options:     x.Options,
				Explanation: strings.TrimSpace(x.Explanation),
			},
			CorrectAnswer: records.Answer{CorrectIndex: x.CorrectIndex},
			XPReward:      g.cfg.ExerciseXP,
		})
	}
	return entry, nil
}
