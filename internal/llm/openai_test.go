package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var quizSchema = &Schema{
	Name: "quiz-test",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"question", "answer"},
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"answer":   map[string]any{"type": "integer"},
		},
	},
}

func chatServer(t *testing.T, status int, body map[string]any, seen *map[string]any) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenAI("test-key", "gpt-4o-mini", srv.URL+"/v1")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func completion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1760000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIStructuredReply(t *testing.T) {
	var seen map[string]any
	p := chatServer(t, http.StatusOK, completion(`{"question":"Best delimiter?","answer":2}`, "stop"), &seen)

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write quizzes.",
		Messages:  UserPrompt("One question please."),
		Schema:    quizSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 || resp.Usage.Total() != 65 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if resp.Truncated {
		t.Fatal("reply should not be truncated")
	}

	format, _ := seen["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("response_format = %v", seen["response_format"])
	}
	msgs, _ := seen["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(msgs))
	}
}

func TestOpenAISchemaMismatch(t *testing.T) {
	p := chatServer(t, http.StatusOK, completion(`{"question":"Q"}`, "stop"), nil)

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: quizSchema})
	if kind, ok := KindOf(err); !ok || kind != KindInvalid {
		t.Fatalf("expected invalid response, got %v", err)
	}
}

func TestOpenAITruncated(t *testing.T) {
	p := chatServer(t, http.StatusOK, completion(`{"question":"Q`, "length"), nil)

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: quizSchema})
	if kind, ok := KindOf(err); !ok || kind != KindTruncated {
		t.Fatalf("expected truncation, got %v", err)
	}
}

func TestOpenAIStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusInternalServerError, KindUnavailable},
		{http.StatusUnauthorized, KindRejected},
	}
	for _, tt := range tests {
		body := map[string]any{"error": map[string]any{"type": "err", "message": "nope"}}
		p := chatServer(t, tt.status, body, nil)

		_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), MaxTokens: 10})
		if err == nil {
			t.Errorf("status %d: expected error", tt.status)
			continue
		}
		kind, ok := KindOf(err)
		if !ok || kind != tt.want {
			t.Errorf("status %d: got %v, want %s", tt.status, err, tt.want)
		}
		if !strings.Contains(err.Error(), VendorOpenAI) {
			t.Errorf("status %d: error %q does not name the vendor", tt.status, err)
		}
	}
}

func TestOpenRouterDefaults(t *testing.T) {
	p, err := NewOpenRouter("key", "openai/gpt-4o-mini", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.vendor != VendorOpenRouter || p.Model() != "openai/gpt-4o-mini" {
		t.Fatalf("got vendor %q model %q", p.vendor, p.Model())
	}
	if _, err := NewOpenRouter("", "m", ""); err == nil {
		t.Fatal("expected missing key error")
	}
}
