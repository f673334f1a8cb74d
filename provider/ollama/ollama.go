// Package ollama implements the provider dialect for Ollama's native
// chat API (NDJSON streaming). Importing it registers the dialect:
//
//	import _ "github.com/skillsenselab/llmkit/provider/ollama"
package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/skillsenselab/llmkit/chat"
	"github.com/skillsenselab/llmkit/provider"
)

const (
	// Name is the registered dialect name.
	Name = "ollama"

	// DefaultBaseURL is the local Ollama server address.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is used when neither config nor request name one.
	DefaultModel = "llama3"

	chatPath   = "/api/chat"
	healthPath = "/api/tags"
)

func init() {
	provider.RegisterDialect(Name, Dialect{})
}

// New creates an Ollama-backed provider with local-server defaults.
func New(cfg provider.Config) (*provider.Adapter, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return provider.NewWithDialect(Dialect{}, cfg)
}

// Dialect maps universal chat types to Ollama's /api/chat format.
type Dialect struct{}

var _ provider.Dialect = Dialect{}

func (Dialect) Name() string       { return Name }
func (Dialect) ChatPath() string   { return chatPath }
func (Dialect) HealthPath() string { return healthPath }

// StreamFormat returns NDJSON: Ollama streams one JSON object per line.
func (Dialect) StreamFormat() provider.StreamFormat { return provider.StreamNDJSON }

// BuildRequest maps a chat.Request to an Ollama chat request. A system
// prompt becomes the leading message; sampling knobs travel in options.
func (Dialect) BuildRequest(req chat.Request) (any, error) {
	msgs := make([]chatMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: chat.RoleSystem, Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	out := chatRequest{
		Model:    req.Model,
		Messages: msgs,
		Stream:   req.Stream,
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		out.Options = &chatOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		}
	}
	if format, ok := req.Extra["format"]; ok {
		out.Format = format
	}
	return out, nil
}

// ParseResponse maps an Ollama chat response body to a chat.Response.
func (Dialect) ParseResponse(body []byte) (*chat.Response, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	return &chat.Response{
		Content: resp.Message.Content,
		Model:   resp.Model,
		Usage: chat.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}

// ParseStreamChunk extracts the content fragment from one NDJSON line.
func (Dialect) ParseStreamChunk(data []byte) (string, bool, error) {
	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", false, fmt.Errorf("ollama: decode chunk: %w", err)
	}
	return resp.Message.Content, resp.Done, nil
}

// --- Ollama wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
	Format   any           `json:"format,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
}
