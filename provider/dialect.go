package provider

import (
	"fmt"
	"sync"

	"github.com/skillsenselab/llmkit/chat"
)

// StreamFormat indicates how a provider delivers streaming responses.
type StreamFormat int

const (
	// StreamNDJSON uses newline-delimited JSON (one JSON object per line).
	// Used by: Ollama native API.
	StreamNDJSON StreamFormat = iota
	// StreamSSE uses Server-Sent Events format.
	// Used by: OpenAI-compatible APIs and most cloud providers.
	StreamSSE
)

// Dialect maps universal chat types to/from a specific provider's HTTP format.
//
// Each backend family (OpenAI-compatible, Ollama, ...) has its own Dialect
// implementation that handles the provider-specific request/response
// structure. Dialect driver packages register themselves in init():
//
//	func init() {
//	    provider.RegisterDialect(Name, Dialect{})
//	}
//
// so importing the driver makes the dialect available to config-driven
// construction via [New].
type Dialect interface {
	// Name returns the dialect identifier (e.g., "ollama", "openai").
	Name() string

	// ChatPath returns the API endpoint path for chat completion.
	ChatPath() string

	// HealthPath returns the health-check endpoint path. Empty means no
	// health endpoint.
	HealthPath() string

	// BuildRequest maps a universal chat.Request to the provider's JSON
	// request body.
	BuildRequest(req chat.Request) (any, error)

	// ParseResponse maps the provider's JSON response body to a universal
	// chat.Response.
	ParseResponse(body []byte) (*chat.Response, error)

	// StreamFormat returns how this provider delivers streaming data.
	StreamFormat() StreamFormat

	// ParseStreamChunk extracts content from a single stream data payload.
	// Returns the text fragment and whether the stream is complete.
	ParseStreamChunk(data []byte) (content string, done bool, err error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds a dialect to the global registry, replacing any
// previous registration under the same name.
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a dialect by name from the global registry.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("provider: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

// Dialects returns the names of all registered dialects.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	return names
}
