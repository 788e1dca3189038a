package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/promptquest/internal/backend"
)

// DecodeError reports a backend row that does not match its schema.
type DecodeError struct {
	Kind string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// decode validates rec against the schema for kind, then unmarshals it
// into out.
func decode(kind string, rec backend.Record, out any) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return &DecodeError{Kind: kind, Err: err}
	}
	return decodeJSON(kind, raw, out)
}

func decodeJSON(kind string, raw []byte, out any) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &DecodeError{Kind: kind, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	schema, err := schemaFor(kind)
	if err != nil {
		return &DecodeError{Kind: kind, Err: err}
	}
	if err := schema.Validate(inst); err != nil {
		return &DecodeError{Kind: kind, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Kind: kind, Err: err}
	}
	return nil
}

// DecodeLesson converts a lessons row.
func DecodeLesson(rec backend.Record) (*Lesson, error) {
	var l Lesson
	if err := decode("lesson", rec, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DecodeLessons converts lessons rows, keeping their order.
func DecodeLessons(recs []backend.Record) ([]Lesson, error) {
	out := make([]Lesson, 0, len(recs))
	for i, rec := range recs {
		l, err := DecodeLesson(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, *l)
	}
	return out, nil
}

// DecodeExercise converts an exercises row.
func DecodeExercise(rec backend.Record) (*Exercise, error) {
	var e Exercise
	if err := decode("exercise", rec, &e); err != nil {
		return nil, err
	}
	if e.Type == "" {
		e.Type = ExerciseTypeMultipleChoice
	}
	return &e, nil
}

// DecodeExercises converts exercises rows and stable-sorts them by
// OrderIndex, so rows sharing a position keep their load order.
func DecodeExercises(recs []backend.Record) ([]Exercise, error) {
	out := make([]Exercise, 0, len(recs))
	for i, rec := range recs {
		e, err := DecodeExercise(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, *e)
	}
	SortExercises(out)
	return out, nil
}

// SortExercises orders exercises by OrderIndex, ties by original position.
func SortExercises(ex []Exercise) {
	sort.SliceStable(ex, func(i, j int) bool {
		return ex[i].OrderIndex < ex[j].OrderIndex
	})
}

// DecodeProfile converts a profiles row. Missing level defaults to 1.
func DecodeProfile(rec backend.Record) (*Profile, error) {
	var p Profile
	if err := decode("profile", rec, &p); err != nil {
		return nil, err
	}
	if p.Level < 1 {
		p.Level = 1
	}
	return &p, nil
}

// DecodeProgress converts a user_progress row.
func DecodeProgress(rec backend.Record) (*Progress, error) {
	var p Progress
	if err := decode("progress", rec, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeProgressRows converts user_progress rows.
func DecodeProgressRows(recs []backend.Record) ([]Progress, error) {
	out := make([]Progress, 0, len(recs))
	for i, rec := range recs {
		p, err := DecodeProgress(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, *p)
	}
	return out, nil
}
