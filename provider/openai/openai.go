// Package openai implements the provider dialect for OpenAI-compatible
// chat completion APIs (SSE streaming). It works against api.openai.com
// and any server speaking the same protocol (vLLM, LiteLLM, OpenRouter,
// Ollama's /v1 compatibility layer). Importing it registers the dialect:
//
//	import _ "github.com/skillsenselab/llmkit/provider/openai"
package openai

import (
	"encoding/json"
	"fmt"

	"github.com/skillsenselab/llmkit/chat"
	"github.com/skillsenselab/llmkit/provider"
)

const (
	// Name is the registered dialect name.
	Name = "openai"

	// DefaultBaseURL targets the hosted OpenAI API.
	DefaultBaseURL = "https://api.openai.com"

	// DefaultModel is used when neither config nor request name one.
	DefaultModel = "gpt-4o-mini"

	chatPath   = "/v1/chat/completions"
	healthPath = "/v1/models"

	// doneSentinel terminates an SSE completion stream.
	doneSentinel = "[DONE]"
)

func init() {
	provider.RegisterDialect(Name, Dialect{})
}

// New creates an OpenAI-backed provider with hosted-API defaults.
func New(cfg provider.Config) (*provider.Adapter, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return provider.NewWithDialect(Dialect{}, cfg)
}

// Dialect maps universal chat types to the OpenAI chat completions format.
type Dialect struct{}

var _ provider.Dialect = Dialect{}

func (Dialect) Name() string       { return Name }
func (Dialect) ChatPath() string   { return chatPath }
func (Dialect) HealthPath() string { return healthPath }

// StreamFormat returns SSE: chunks arrive as "data:" events terminated by
// a [DONE] sentinel.
func (Dialect) StreamFormat() provider.StreamFormat { return provider.StreamSSE }

// BuildRequest maps a chat.Request to an OpenAI chat completion request.
// A system prompt becomes the leading message.
func (Dialect) BuildRequest(req chat.Request) (any, error) {
	msgs := make([]chatMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: chat.RoleSystem, Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	out := chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Stream:      req.Stream,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if format, ok := req.Extra["response_format"]; ok {
		out.ResponseFormat = format
	}
	return out, nil
}

// ParseResponse maps an OpenAI chat completion body to a chat.Response.
func (Dialect) ParseResponse(body []byte) (*chat.Response, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response contained no choices")
	}
	return &chat.Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: chat.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// ParseStreamChunk extracts the content delta from one SSE data payload.
// The [DONE] sentinel and a finish_reason both mark the end of the stream.
func (Dialect) ParseStreamChunk(data []byte) (string, bool, error) {
	if string(data) == doneSentinel {
		return "", true, nil
	}

	var chunk streamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false, fmt.Errorf("openai: decode chunk: %w", err)
	}
	if len(chunk.Choices) == 0 {
		return "", false, nil
	}

	choice := chunk.Choices[0]
	return choice.Delta.Content, choice.FinishReason != "", nil
}

// --- OpenAI wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Stream         bool          `json:"stream"`
	Temperature    float64       `json:"temperature,omitempty"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat any           `json:"response_format,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type streamChunk struct {
	ID      string `json:"id"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
