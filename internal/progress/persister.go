// Package progress records finished lessons and derives levels and streaks
// from a learner's XP and activity dates.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/promptquest/internal/attempt"
	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/logging"
	"github.com/abhisek/promptquest/internal/records"
)

// Step names the write that failed during Complete.
type Step string

const (
	StepRecordProgress Step = "record-progress"
	StepReadProfile    Step = "read-profile"
	StepUpdateProfile  Step = "update-profile"
)

// PersistError reports which step of Complete failed. Earlier steps are
// not rolled back.
type PersistError struct {
	Step Step
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist progress (%s): %v", e.Step, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Outcome describes the profile after a successful Complete.
type Outcome struct {
	Profile   records.Profile
	PrevLevel int
}

// LevelUp reports whether the completion crossed a level boundary.
func (o *Outcome) LevelUp() bool {
	return o.Profile.Level > o.PrevLevel
}

// Persister writes lesson completions to the backend.
type Persister struct {
	store backend.Store
	log   *logging.Logger
	now   func() time.Time
}

// Option configures a Persister.
type Option func(*Persister)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Persister) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Persister) { p.log = l }
}

// NewPersister creates a Persister over store.
func NewPersister(store backend.Store, opts ...Option) *Persister {
	p := &Persister{store: store, log: logging.Nop(), now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Complete records a finished attempt: it upserts the (user, lesson)
// progress row, then adds the attempt's XP to the profile and recomputes
// level, last activity date and streak. It is called once per attempt and
// never retries.
func (p *Persister) Complete(ctx context.Context, userID, lessonID string, r attempt.Result) (*Outcome, error) {
	now := p.now()
	log := p.log.With("user", userID, "lesson", lessonID)

	prog := records.Progress{
		UserID:      userID,
		LessonID:    lessonID,
		Status:      records.StatusCompleted,
		Score:       r.Score,
		CompletedAt: now.UTC().Format(time.RFC3339),
	}
	if err := p.store.Upsert(ctx, backend.TableUserProgress, prog.Record(), "user_id", "lesson_id"); err != nil {
		log.Error("record progress failed", "error", err)
		return nil, &PersistError{Step: StepRecordProgress, Err: err}
	}

	rec, err := p.store.QueryOne(ctx, backend.From(backend.TableProfiles).
		Select("id", "username", "xp", "level", "last_activity_date", "streak_days").
		Where("id", userID))
	missing := errors.Is(err, backend.ErrNotFound)
	if err != nil && !missing {
		log.Error("read profile failed", "error", err)
		return nil, &PersistError{Step: StepReadProfile, Err: err}
	}

	prev := records.Profile{ID: userID, Level: 1}
	if !missing {
		decoded, err := records.DecodeProfile(rec)
		if err != nil {
			log.Error("decode profile failed", "error", err)
			return nil, &PersistError{Step: StepReadProfile, Err: err}
		}
		prev = *decoded
	}

	next := Apply(prev, r.FinalXP, now)
	fields := backend.Record{
		"xp":                 next.XP,
		"level":              next.Level,
		"last_activity_date": next.LastActivityDate,
		"streak_days":        next.StreakDays,
	}
	if missing {
		fields["id"] = userID
		err = p.store.Upsert(ctx, backend.TableProfiles, fields, "id")
	} else {
		err = p.store.Update(ctx, backend.TableProfiles, []backend.Filter{backend.Eq("id", userID)}, fields)
	}
	if err != nil {
		log.Error("update profile failed", "error", err)
		return nil, &PersistError{Step: StepUpdateProfile, Err: err}
	}

	log.Info("lesson completed",
		"score", r.Score, "xp_gained", r.FinalXP, "xp", next.XP, "level", next.Level, "streak", next.StreakDays)
	return &Outcome{Profile: next, PrevLevel: prev.Level}, nil
}

// Apply returns prev with gained XP added and level, activity date and
// streak recomputed for activity at now.
func Apply(prev records.Profile, gained int, now time.Time) records.Profile {
	next := prev
	if gained > 0 {
		next.XP += gained
	}
	next.Level = LevelForXP(next.XP)
	last, ok := prev.LastActivity()
	next.StreakDays = NextStreak(prev.StreakDays, last, ok, now)
	next.LastActivityDate = now.Format(records.DateLayout)
	return next
}
