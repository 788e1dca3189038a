package catalog

import (
	"context"
	"fmt"

	"github.com/abhisek/promptquest/internal/backend"
)

// SeedStats counts rows written by Seed.
type SeedStats struct {
	Lessons   int
	Exercises int
}

// Seed upserts every lesson and exercise in c. Reseeding overwrites rows
// with the same id.
func Seed(ctx context.Context, store backend.Store, c *Catalog) (SeedStats, error) {
	var st SeedStats
	for i := range c.Lessons {
		e := &c.Lessons[i]
		if err := store.Upsert(ctx, backend.TableLessons, e.Record(), "id"); err != nil {
			return st, fmt.Errorf("seed lesson %q: %w", e.Title, err)
		}
		st.Lessons++
		for j := range e.Exercises {
			if err := store.Upsert(ctx, backend.TableExercises, e.Exercises[j].Record(), "id"); err != nil {
				return st, fmt.Errorf("seed lesson %q exercise %d: %w", e.Title, j+1, err)
			}
			st.Exercises++
		}
	}
	return st, nil
}

// EnsureSeeded seeds the default track when the backend has no lessons.
// It reports whether anything was written.
func EnsureSeeded(ctx context.Context, store backend.Store) (bool, error) {
	recs, err := store.QueryMany(ctx, backend.From(backend.TableLessons).Select("id").Take(1))
	if err != nil {
		return false, fmt.Errorf("check lessons: %w", err)
	}
	if len(recs) > 0 {
		return false, nil
	}
	c, err := Default()
	if err != nil {
		return false, err
	}
	if _, err := Seed(ctx, store, c); err != nil {
		return false, err
	}
	return true, nil
}
