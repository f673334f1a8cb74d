package sse

// Broadcaster is an interface for broadcasting events to connected clients.
// This allows event producers to depend on an abstraction rather than a
// concrete Hub.
type Broadcaster interface {
	// Broadcast sends data to every connected client.
	Broadcast(data []byte)
}
