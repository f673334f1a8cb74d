package chat

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ProviderAuto selects providers automatically by observed success rate.
const ProviderAuto = "auto"

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role" yaml:"role"` // "system", "user", "assistant"
	Content string `json:"content" yaml:"content"`
}

// Request is the universal completion input for all providers.
type Request struct {
	// Messages is the conversation history.
	Messages []Message `json:"messages" yaml:"messages"`
	// Model overrides the provider's default model.
	Model string `json:"model,omitempty" yaml:"model"`
	// SystemPrompt is prepended as a system message.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt"`
	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature"`
	// MaxTokens limits the response length. 0 means provider default.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens"`
	// Provider names the preferred provider. Empty or "auto" lets the
	// client order providers by observed success rate.
	Provider string `json:"provider,omitempty" yaml:"provider"`
	// NoFailover disables trying other providers after the preferred one
	// fails. The zero value allows failover.
	NoFailover bool `json:"no_failover,omitempty" yaml:"no_failover"`
	// Stream requests streaming mode. Set automatically by streaming adapters.
	Stream bool `json:"stream,omitempty" yaml:"stream"`
	// Extra holds provider-specific fields that don't fit the universal
	// schema. Dialects may inspect this for provider-specific features.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra"`
}

// Response is the universal completion output.
type Response struct {
	// Content is the generated text.
	Content string `json:"content"`
	// Model is the model that produced the response.
	Model string `json:"model"`
	// Provider is the provider that served the request.
	Provider string `json:"provider,omitempty"`
	// Usage reports token consumption.
	Usage Usage `json:"usage"`
}

// Chunk is a single piece of a streamed response.
type Chunk struct {
	// Content is the text fragment.
	Content string `json:"content"`
	// Done indicates this is the final chunk.
	Done bool `json:"done"`
	// Err is set when a streaming error occurs.
	Err error `json:"-"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
