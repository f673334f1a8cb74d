package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/skillsenselab/llmkit/logger"
)

// keepAliveInterval is how often an idle connection receives a comment
// frame. It must stay below typical proxy idle timeouts, usually 60s.
const keepAliveInterval = 30 * time.Second

// ConnectedEvent is the first frame every client receives.
type ConnectedEvent struct {
	ClientID string `json:"client_id"`
}

// ServeSSE bridges an HTTP request onto the hub: it registers a client,
// streams its frames until the request context ends or the hub closes the
// client, and unregisters on the way out.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("sse response writer cannot flush", logger.Fields("client_id", clientID))
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// The server's WriteTimeout would cut a long-lived stream off; clear
	// the deadline for this connection only.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		logger.Warn("could not clear write deadline for sse stream",
			logger.Fields("client_id", clientID, "error", err.Error()))
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	client := NewClient(clientID)
	hub.Register(client)
	defer hub.Unregister(client)

	greeting, _ := json.Marshal(ConnectedEvent{ClientID: clientID})
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", EventTypeConnected, greeting)
	flusher.Flush()

	logger.Debug("sse client connected",
		logger.Fields("client_id", clientID, "remote_addr", r.RemoteAddr))

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("sse client disconnected",
				logger.Fields("client_id", clientID, "reason", ctx.Err().Error()))
			return

		case event, ok := <-client.Events():
			if !ok {
				logger.Debug("sse client stream closed by hub", logger.Fields("client_id", clientID))
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()

		case <-keepAlive.C:
			// Comment frame: EventSource ignores lines starting with ':'
			// but intermediaries see traffic and keep the connection up.
			fmt.Fprintf(w, ": %s %d\n\n", EventTypeKeepAlive, time.Now().Unix())
			flusher.Flush()
		}
	}
}
