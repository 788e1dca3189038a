// Package dashboard assembles the signed-in learner's overview: profile
// stats, the lesson track and what to play next.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/promptquest/internal/account"
	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/progress"
	"github.com/abhisek/promptquest/internal/records"
)

// LessonStatus is one lesson on the track.
type LessonStatus struct {
	Lesson    records.Lesson
	Completed bool
	Score     int
}

// Summary is everything the dashboard shows.
type Summary struct {
	Principal   backend.Principal
	DisplayName string
	Profile     records.Profile
	Lessons     []LessonStatus
}

// Completed returns how many lessons on the track are done.
func (s *Summary) Completed() int {
	n := 0
	for _, l := range s.Lessons {
		if l.Completed {
			n++
		}
	}
	return n
}

// Total returns the number of lessons on the track.
func (s *Summary) Total() int { return len(s.Lessons) }

// TrackPercent is completed/total as a rounded percentage.
func (s *Summary) TrackPercent() int {
	if s.Total() == 0 {
		return 0
	}
	return (s.Completed()*100 + s.Total()/2) / s.Total()
}

// Next returns the first lesson by position not yet completed, or nil when
// the track is finished or empty.
func (s *Summary) Next() *records.Lesson {
	for i := range s.Lessons {
		if !s.Lessons[i].Completed {
			return &s.Lessons[i].Lesson
		}
	}
	return nil
}

// LevelTitle names the learner's level.
func (s *Summary) LevelTitle() string {
	return progress.LevelTitle(s.Profile.Level)
}

// CurrentStreak is the streak still alive on today: zero once a full
// calendar day has passed without activity.
func (s *Summary) CurrentStreak(today time.Time) int {
	last, ok := s.Profile.LastActivity()
	if !ok || progress.DaysBetween(last, today) > 1 {
		return 0
	}
	return s.Profile.StreakDays
}

// Load fetches the principal's profile, the lesson track and their
// progress rows concurrently.
func Load(ctx context.Context, store backend.Store, p *backend.Principal) (*Summary, error) {
	var (
		profile  *records.Profile
		lessons  []records.Lesson
		progRows []records.Progress
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := store.QueryOne(gctx, backend.From(backend.TableProfiles).Where("id", p.ID))
		if errors.Is(err, backend.ErrNotFound) {
			profile = &records.Profile{ID: p.ID, Username: p.Username(), Level: 1}
			return nil
		}
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		profile, err = records.DecodeProfile(rec)
		return err
	})
	g.Go(func() error {
		recs, err := store.QueryMany(gctx, backend.From(backend.TableLessons).OrderBy(backend.Asc("order_index")))
		if err != nil {
			return fmt.Errorf("load lessons: %w", err)
		}
		lessons, err = records.DecodeLessons(recs)
		return err
	})
	g.Go(func() error {
		recs, err := store.QueryMany(gctx, backend.From(backend.TableUserProgress).Where("user_id", p.ID))
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		progRows, err = records.DecodeProgressRows(recs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].OrderIndex < lessons[j].OrderIndex })

	done := make(map[string]records.Progress, len(progRows))
	for _, pr := range progRows {
		if pr.Status == records.StatusCompleted {
			done[pr.LessonID] = pr
		}
	}

	s := &Summary{
		Principal:   *p,
		DisplayName: account.DisplayName(p),
		Profile:     *profile,
		Lessons:     make([]LessonStatus, 0, len(lessons)),
	}
	for _, l := range lessons {
		pr, ok := done[l.ID]
		s.Lessons = append(s.Lessons, LessonStatus{Lesson: l, Completed: ok, Score: pr.Score})
	}
	return s, nil
}
