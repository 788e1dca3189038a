// Package catalog reads lesson catalogs from YAML and seeds them into a
// backend.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/promptquest/internal/records"
)

// idNamespace scopes ids derived from catalog titles, so reseeding the
// same catalog updates rows instead of duplicating them.
var idNamespace = uuid.MustParse("6f1c2b0e-4d7a-5c3e-9b8a-1e2f3a4b5c6d")

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is a track of lessons.
type Catalog struct {
	Track   string  `yaml:"track"`
	Lessons []Entry `yaml:"lessons"`
}

// Entry is a lesson with its exercises.
type Entry struct {
	records.Lesson `yaml:",inline"`
	Exercises      []records.Exercise `yaml:"exercises,omitempty"`
}

// Default returns the built-in prompt-engineering track.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog, fills in defaults and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i := range c.Lessons {
		applyDefaults(&c.Lessons[i], i)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes c as YAML.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(c)
}

// applyDefaults derives missing ids and positions. Lesson ids come from the
// title; exercise ids from the lesson id and position.
func applyDefaults(e *Entry, pos int) {
	if e.ID == "" {
		e.ID = DeriveID("lesson", strings.ToLower(strings.TrimSpace(e.Title)))
	}
	if e.OrderIndex == 0 {
		e.OrderIndex = pos + 1
	}
	for i := range e.Exercises {
		ex := &e.Exercises[i]
		ex.LessonID = e.ID
		if ex.OrderIndex == 0 {
			ex.OrderIndex = i + 1
		}
		if ex.ID == "" {
			ex.ID = DeriveID("exercise", fmt.Sprintf("%s/%d", e.ID, ex.OrderIndex))
		}
		if ex.Type == "" {
			ex.Type = records.ExerciseTypeMultipleChoice
		}
	}
}

// DeriveID returns a stable UUID for a kind and name.
func DeriveID(kind, name string) string {
	return uuid.NewSHA1(idNamespace, []byte(kind+":"+name)).String()
}

// Validate runs every lesson and exercise through the record schemas and
// checks ids are unique and correct indexes point at an option.
func (c *Catalog) Validate() error {
	if len(c.Lessons) == 0 {
		return fmt.Errorf("catalog has no lessons")
	}
	seen := make(map[string]bool)
	for i := range c.Lessons {
		e := &c.Lessons[i]
		if strings.TrimSpace(e.Title) == "" {
			return fmt.Errorf("lesson %d: title is required", i+1)
		}
		if seen[e.ID] {
			return fmt.Errorf("lesson %q: duplicate id %s", e.Title, e.ID)
		}
		seen[e.ID] = true
		if _, err := records.DecodeLesson(e.Record()); err != nil {
			return fmt.Errorf("lesson %q: %w", e.Title, err)
		}
		for j := range e.Exercises {
			ex := &e.Exercises[j]
			if seen[ex.ID] {
				return fmt.Errorf("lesson %q exercise %d: duplicate id %s", e.Title, j+1, ex.ID)
			}
			seen[ex.ID] = true
			if len(ex.Content.Options) < 2 {
				return fmt.Errorf("lesson %q exercise %d: need at least two options", e.Title, j+1)
			}
			if _, err := records.DecodeExercise(ex.Record()); err != nil {
				return fmt.Errorf("lesson %q exercise %d: %w", e.Title, j+1, err)
			}
			if err := ex.Validate(); err != nil {
				return fmt.Errorf("lesson %q exercise %d: %w", e.Title, j+1, err)
			}
		}
	}
	return nil
}
