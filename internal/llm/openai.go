package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterURL = "https://openrouter.ai/api/v1"

// OpenAI serves the OpenAI chat completions API and anything that speaks
// it, OpenRouter included.
type OpenAI struct {
	client *openai.Client
	model  string
	vendor string
}

// NewOpenAI builds a client for api.openai.com, or for baseURL when set.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	return newChatCompletions(VendorOpenAI, apiKey, model, baseURL)
}

// NewOpenRouter builds a client for OpenRouter's OpenAI-compatible API.
func NewOpenRouter(apiKey, model, baseURL string) (*OpenAI, error) {
	if baseURL == "" {
		baseURL = openRouterURL
	}
	return newChatCompletions(VendorOpenRouter, apiKey, model, baseURL)
}

func newChatCompletions(vendor, apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key is required", vendor)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		vendor: vendor,
	}, nil
}

func (p *OpenAI) Model() string { return p.model }

func (p *OpenAI) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            chatMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	out, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, statusError(p.vendor, apiErr.HTTPStatusCode, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, statusError(p.vendor, reqErr.HTTPStatusCode, err)
		}
		return nil, &Error{Kind: KindUnavailable, Vendor: p.vendor, Err: err}
	}
	if len(out.Choices) == 0 {
		return nil, invalid(p.vendor, nil, errors.New("no choices"))
	}

	choice := out.Choices[0]
	return finish(p.vendor, req, &Response{
		Content: json.RawMessage(choice.Message.Content),
		Usage: Usage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
		},
		Model:     out.Model,
		Truncated: choice.FinishReason == openai.FinishReasonLength,
	})
}

func chatMessages(req Request) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return msgs
}
