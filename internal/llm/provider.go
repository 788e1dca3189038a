// Package llm talks to hosted language models for lesson authoring.
// Every vendor is reduced to the same Provider contract: a prompt goes in,
// a JSON document conforming to the requested Schema comes out.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured completion per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Model is the vendor model id requests are sent to.
	Model() string
}

// Request is a single-shot prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, switches the vendor to structured output and the
	// returned content is checked against it before Generate returns.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Role of a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// UserPrompt is shorthand for a one-message conversation.
func UserPrompt(text string) []Message {
	return []Message{{Role: RoleUser, Content: text}}
}

// Schema names a JSON Schema document. Name doubles as the vendor-side
// schema name and the compile cache key, so it must be unique per shape.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output plus accounting.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// Truncated is set when the vendor stopped at MaxTokens.
	Truncated bool
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }
