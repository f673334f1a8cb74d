package gateway

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillsenselab/llmkit/client"
	"github.com/skillsenselab/llmkit/sse"
)

// Events serves GET /v1/events: a long-lived SSE stream of resilience
// events (circuit breaker transitions, failovers) as they happen.
func (g *Gateway) Events(c *gin.Context) {
	sse.ServeSSE(g.hub, c.Writer, c.Request, uuid.NewString())
}

// EventHook adapts a broadcaster into a client event hook, publishing every
// resilience event as a JSON frame. The hub's broadcast never blocks, which
// keeps the hook safe to run on the completion hot path.
func EventHook(b sse.Broadcaster) func(client.Event) {
	return func(e client.Event) {
		data, err := json.Marshal(e)
		if err != nil {
			return
		}
		b.Broadcast(data)
	}
}
