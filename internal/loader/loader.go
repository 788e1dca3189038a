// Package loader fetches a lesson and its exercises.
package loader

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/records"
)

// Stage names the lookup that failed.
type Stage string

const (
	StageLesson    Stage = "lesson"
	StageExercises Stage = "exercises"
)

// LoadError reports that a lesson could not be loaded.
type LoadError struct {
	LessonID string
	Stage    Stage
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load lesson %q (%s): %v", e.LessonID, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NotFound reports whether the lesson itself does not exist.
func (e *LoadError) NotFound() bool {
	return e.Stage == StageLesson && errors.Is(e.Err, backend.ErrNotFound)
}

// Content is a lesson ready to play: the lesson plus its exercises in
// play order.
type Content struct {
	Lesson    records.Lesson
	Exercises []records.Exercise
}

// Load fetches the lesson by id and its exercises ordered by position.
// Both lookups run concurrently and both must succeed. Nothing is cached.
func Load(ctx context.Context, store backend.Store, lessonID string) (*Content, error) {
	var (
		lesson    *records.Lesson
		exercises []records.Exercise
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := store.QueryOne(gctx, backend.From(backend.TableLessons).Where("id", lessonID))
		if err != nil {
			return &LoadError{LessonID: lessonID, Stage: StageLesson, Err: err}
		}
		l, err := records.DecodeLesson(rec)
		if err != nil {
			return &LoadError{LessonID: lessonID, Stage: StageLesson, Err: err}
		}
		lesson = l
		return nil
	})
	g.Go(func() error {
		recs, err := store.QueryMany(gctx, backend.From(backend.TableExercises).
			Where("lesson_id", lessonID).
			OrderBy(backend.Asc("order_index")))
		if err != nil {
			return &LoadError{LessonID: lessonID, Stage: StageExercises, Err: err}
		}
		ex, err := records.DecodeExercises(recs)
		if err != nil {
			return &LoadError{LessonID: lessonID, Stage: StageExercises, Err: err}
		}
		exercises = ex
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Content{Lesson: *lesson, Exercises: exercises}, nil
}
