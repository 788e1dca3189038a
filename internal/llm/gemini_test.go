package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":     "object",
		"required": []any{"title", "options"},
		"properties": map[string]any{
			"title":   map[string]any{"type": "string", "description": "lesson title"},
			"minutes": map[string]any{"type": "integer"},
			"kind":    map[string]any{"type": "string", "enum": []any{"a", "b"}},
			"intro":   map[string]any{"type": []any{"string", "null"}},
			"options": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	})

	if s.Type != genai.TypeObject {
		t.Fatalf("type = %s", s.Type)
	}
	if len(s.Properties) != 5 || len(s.Required) != 2 {
		t.Fatalf("properties %d required %d", len(s.Properties), len(s.Required))
	}
	if s.Properties["title"].Description != "lesson title" {
		t.Fatalf("description lost")
	}
	if s.Properties["minutes"].Type != genai.TypeInteger {
		t.Fatalf("minutes type = %s", s.Properties["minutes"].Type)
	}
	if len(s.Properties["kind"].Enum) != 2 {
		t.Fatalf("enum = %v", s.Properties["kind"].Enum)
	}
	intro := s.Properties["intro"]
	if intro.Type != genai.TypeString || intro.Nullable == nil || !*intro.Nullable {
		t.Fatalf("nullable string not converted: %+v", intro)
	}
	if s.Properties["options"].Items.Type != genai.TypeString {
		t.Fatalf("items type = %s", s.Properties["options"].Items.Type)
	}
}

func TestStringList(t *testing.T) {
	if got := stringList([]string{"a", "b"}); len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got := stringList([]any{"a", 3, "c"}); len(got) != 2 || got[1] != "c" {
		t.Fatalf("got %v", got)
	}
	if got := stringList(nil); got != nil {
		t.Fatalf("got %v", got)
	}
}
