package sse

// Event names used on the wire by the connection handler itself. Domain
// payloads (chunks, telemetry) carry their own "type" field in the data
// frame instead of distinct SSE event names.
const (
	// EventTypeConnected greets a client right after registration.
	EventTypeConnected = "connected"

	// EventTypeKeepAlive labels the periodic comment frames.
	EventTypeKeepAlive = "keepalive"
)
