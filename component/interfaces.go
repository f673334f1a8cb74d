package component

import "context"

// HealthStatus is a component's coarse health verdict.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's self-reported state, as surfaced by the
// /health and /ready endpoints.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a long-lived piece of a service with an explicit
// lifecycle: the HTTP server, the SSE hub, the provider pool. The
// Registry drives Start and Stop; Health may be called at any time
// between them, concurrently with either.
type Component interface {
	// Name is the unique registration key.
	Name() string

	// Start brings the component up. It must return promptly; serving
	// loops belong on their own goroutines.
	Start(ctx context.Context) error

	// Stop drains and releases the component. The context carries the
	// shutdown deadline.
	Stop(ctx context.Context) error

	// Health reports the current state.
	Health(ctx context.Context) Health
}

// Description is one line of the startup summary.
type Description struct {
	// Name is the display name, e.g. "HTTP Server". Falls back to the
	// component's Name() when empty.
	Name string
	// Type buckets the component: "server", "sse", "provider".
	Type string
	// Details is a short free-form descriptor, e.g. "localhost:8080" or
	// "2 providers (openai, ollama)".
	Details string
	// Port is the primary listen port, zero when not applicable.
	Port int
}

// Describable lets a component contribute to the startup summary.
type Describable interface {
	Describe() Description
}

// Route is one HTTP route reported at startup.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider lets a server component list its routes for the
// startup summary.
type RouteProvider interface {
	Routes() []Route
}
