package records

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var lessonSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "title", "content", "xp_reward"},
	"properties": map[string]any{
		"id":               map[string]any{"type": "string", "minLength": 1},
		"title":            map[string]any{"type": "string"},
		"duration_minutes": map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
		"xp_reward":        map[string]any{"type": "integer", "minimum": 0},
		"order_index":      map[string]any{"type": []any{"integer", "null"}},
		"content": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"intro": map[string]any{
					"type":       []any{"object", "null"},
					"properties": map[string]any{"content": map[string]any{"type": "string"}},
				},
				"sections": map[string]any{
					"type": []any{"array", "null"},
					"items": map[string]any{
						"type":     "object",
						"required": []any{"title", "content"},
						"properties": map[string]any{
							"title":   map[string]any{"type": "string"},
							"content": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	},
}

var exerciseSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "lesson_id", "content", "correct_answer", "xp_reward", "order_index"},
	"properties": map[string]any{
		"id":          map[string]any{"type": "string", "minLength": 1},
		"lesson_id":   map[string]any{"type": "string", "minLength": 1},
		"type":        map[string]any{"type": []any{"string", "null"}},
		"order_index": map[string]any{"type": "integer"},
		"xp_reward":   map[string]any{"type": "integer", "minimum": 0},
		"content": map[string]any{
			"type":     "object",
			"required": []any{"question", "options"},
			"properties": map[string]any{
				"question":    map[string]any{"type": "string"},
				"options":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"explanation": map[string]any{"type": []any{"string", "null"}},
			},
		},
		"correct_answer": map[string]any{
			"type":     "object",
			"required": []any{"correctIndex"},
			"properties": map[string]any{
				"correctIndex": map[string]any{"type": "integer", "minimum": 0},
			},
		},
	},
}

var profileSchema = map[string]any{
	"type":     "object",
	"required": []any{"id"},
	"properties": map[string]any{
		"id":                 map[string]any{"type": "string", "minLength": 1},
		"username":           map[string]any{"type": []any{"string", "null"}},
		"xp":                 map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
		"level":              map[string]any{"type": []any{"integer", "null"}, "minimum": 1},
		"streak_days":        map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
		"last_activity_date": map[string]any{"type": []any{"string", "null"}},
	},
}

var progressSchema = map[string]any{
	"type":     "object",
	"required": []any{"user_id", "lesson_id", "status"},
	"properties": map[string]any{
		"user_id":      map[string]any{"type": "string", "minLength": 1},
		"lesson_id":    map[string]any{"type": "string", "minLength": 1},
		"status":       map[string]any{"type": "string"},
		"score":        map[string]any{"type": []any{"integer", "null"}, "minimum": 0, "maximum": 100},
		"completed_at": map[string]any{"type": []any{"string", "null"}},
	},
}

var definitions = map[string]map[string]any{
	"lesson":   lessonSchema,
	"exercise": exerciseSchema,
	"profile":  profileSchema,
	"progress": progressSchema,
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

// schemaFor returns the compiled schema for a record kind.
func schemaFor(kind string) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		compiled = make(map[string]*jsonschema.Schema, len(definitions))
		for name, def := range definitions {
			url := fmt.Sprintf("schema://records/%s.json", name)
			doc, err := normalize(def)
			if err != nil {
				compileErr = fmt.Errorf("normalize %s: %w", name, err)
				return
			}
			if err := c.AddResource(url, doc); err != nil {
				compileErr = fmt.Errorf("add resource %s: %w", name, err)
				return
			}
			s, err := c.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("compile %s: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	s, ok := compiled[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for %q", kind)
	}
	return s, nil
}

// normalize turns a Go literal into the plain JSON value tree the
// compiler expects.
func normalize(def map[string]any) (any, error) {
	b, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
