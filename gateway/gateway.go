// Package gateway exposes the completion client over HTTP: chat completions
// (JSON and SSE streaming), provider stats, breaker and metrics resets, and
// a live feed of resilience events.
package gateway

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillsenselab/llmkit/client"
	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/sse"
	"github.com/skillsenselab/llmkit/telemetry"
)

// Gateway wires a completion client and an SSE hub to HTTP routes.
type Gateway struct {
	client *client.Client
	hub    *sse.Hub
	log    *logger.Logger
	tracer trace.Tracer
}

// New creates a Gateway over the given client and hub. The hub may be nil
// when the event feed is not wanted; /v1/events is then not registered.
func New(cl *client.Client, hub *sse.Hub, log *logger.Logger) *Gateway {
	return &Gateway{
		client: cl,
		hub:    hub,
		log:    log.WithComponent("gateway"),
		tracer: telemetry.Tracer("llmkit/gateway"),
	}
}

// RegisterRoutes registers every gateway route under /v1.
func (g *Gateway) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.POST("/chat/completions", g.Completions)
	v1.GET("/providers", g.ListProviders)
	v1.POST("/providers/:name/reset", g.ResetProvider)
	v1.POST("/breakers/reset", g.ResetProviders)
	v1.POST("/metrics/reset", g.ResetMetrics)
	if g.hub != nil {
		v1.GET("/events", g.Events)
	}
}
