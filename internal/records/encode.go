package records

import "github.com/abhisek/promptquest/internal/backend"

// Record returns the lessons row for l.
func (l *Lesson) Record() backend.Record {
	return backend.Record{
		"id":               l.ID,
		"title":            l.Title,
		"content":          l.Content,
		"duration_minutes": l.DurationMinutes,
		"xp_reward":        l.XPReward,
		"order_index":      l.OrderIndex,
	}
}

// Record returns the exercises row for e.
func (e *Exercise) Record() backend.Record {
	typ := e.Type
	if typ == "" {
		typ = ExerciseTypeMultipleChoice
	}
	return backend.Record{
		"id":             e.ID,
		"lesson_id":      e.LessonID,
		"type":           typ,
		"order_index":    e.OrderIndex,
		"content":        e.Content,
		"correct_answer": e.CorrectAnswer,
		"xp_reward":      e.XPReward,
	}
}

// Record returns the user_progress row for p.
func (p *Progress) Record() backend.Record {
	return backend.Record{
		"user_id":      p.UserID,
		"lesson_id":    p.LessonID,
		"status":       p.Status,
		"score":        p.Score,
		"completed_at": p.CompletedAt,
	}
}
