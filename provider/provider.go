package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/skillsenselab/llmkit/chat"
)

// ChatProvider is the contract every completion backend implements.
// The name is the stable key for all per-provider state (circuit breaker,
// rate limiter accounting, telemetry).
type ChatProvider interface {
	// Name returns the provider's stable identifier.
	Name() string

	// IsAvailable reports whether the backend looks reachable. It may
	// perform a lightweight health probe.
	IsAvailable(ctx context.Context) bool

	// Stream dispatches one completion attempt and returns a channel of
	// chunks. The channel delivers fragments in order and is closed after
	// the final chunk or an error chunk. A non-nil error means the attempt
	// never produced a stream.
	Stream(ctx context.Context, req chat.Request) (<-chan chat.Chunk, error)
}

// Closeable is implemented by providers that hold releasable resources.
type Closeable interface {
	Close(ctx context.Context) error
}

// Registry holds constructed providers in registration order.
// Order matters: it is the tie-break when providers rank equal, so the
// registry preserves it rather than sorting names.
type Registry struct {
	mu     sync.RWMutex
	names  []string
	byName map[string]ChatProvider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]ChatProvider)}
}

// Register adds a provider under its own name. Re-registering a name
// replaces the instance but keeps its original position.
func (r *Registry) Register(p ChatProvider) error {
	if p == nil {
		return fmt.Errorf("provider: cannot register nil provider")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("provider: cannot register provider with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; !exists {
		r.names = append(r.names, name)
	}
	r.byName[name] = p
	return nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (ChatProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

// Names returns provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// All returns providers in registration order.
func (r *Registry) All() []ChatProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChatProvider, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Close closes every Closeable provider and returns the first error.
func (r *Registry) Close(ctx context.Context) error {
	var firstErr error
	for _, p := range r.All() {
		c, ok := p.(Closeable)
		if !ok {
			continue
		}
		if err := c.Close(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("provider: close %s: %w", p.Name(), err)
		}
	}
	return firstErr
}
