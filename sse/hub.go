package sse

import (
	"sync"

	"github.com/skillsenselab/llmkit/logger"
)

// clientBuffer is the per-client event queue depth. A client that falls
// this far behind starts losing frames rather than stalling the hub.
const clientBuffer = 256

// Client is one connected event stream consumer.
type Client struct {
	id     string
	events chan []byte
}

// NewClient creates a client with a buffered event queue.
func NewClient(id string) *Client {
	return &Client{id: id, events: make(chan []byte, clientBuffer)}
}

// ID returns the client's identifier.
func (c *Client) ID() string { return c.id }

// Events returns the channel the connection handler drains.
func (c *Client) Events() <-chan []byte { return c.events }

// Send queues data for the client without blocking. It reports false when
// the queue is full and the frame was dropped.
func (c *Client) Send(data []byte) bool {
	select {
	case c.events <- data:
		return true
	default:
		logger.Warn("sse client queue full, frame dropped", logger.Fields("client_id", c.id))
		return false
	}
}

// Close closes the client's event channel, ending its connection handler.
func (c *Client) Close() {
	close(c.events)
}

// Hub owns the set of connected clients and fans broadcast frames out to
// all of them. Membership changes and broadcasts are serialized through
// Run's loop.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	stopped bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

var _ Broadcaster = (*Hub)(nil)

// NewHub creates a hub. Call Run in a goroutine to make it live.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, clientBuffer),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case data := <-h.broadcast:
			h.fanOut(data)
		}
	}
}

// Stop shuts the hub down: Run returns and every client is closed. Safe to
// call more than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.stopped = true
		close(h.done)
	}
}

// Register adds a client. On a stopped hub it is a no-op; the caller's
// event channel then simply never delivers.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client and closes its channel. Returns without
// blocking on a stopped hub, which already closed every client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues data for delivery to every connected client. It never
// blocks the caller; slow clients drop frames instead.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()
	logger.Debug("sse client registered", logger.Fields("client_id", client.id, "clients", h.ClientCount()))
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		client.Close()
	}
	h.mu.Unlock()
	logger.Debug("sse client unregistered", logger.Fields("client_id", client.id, "clients", h.ClientCount()))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
	logger.Debug("sse hub stopped, all clients closed")
}

// fanOut delivers one frame to every client. Runs on the hub goroutine.
func (h *Hub) fanOut(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.Send(data)
	}
}
