package gateway

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/server"
)

// ListProviders serves GET /v1/providers: per-provider telemetry counters
// and circuit breaker states.
func (g *Gateway) ListProviders(c *gin.Context) {
	server.RespondOK(c, g.client.Metrics())
}

// ResetProvider serves POST /v1/providers/:name/reset, force-closing one
// provider's circuit breaker. Unknown names return 404.
func (g *Gateway) ResetProvider(c *gin.Context) {
	name := c.Param("name")
	if err := g.client.ResetCircuitBreaker(name); err != nil {
		server.RespondWithError(c, err)
		return
	}
	g.log.Info("circuit breaker reset via API", logger.Fields("provider", name))
	server.RespondOK(c, gin.H{"provider": name, "state": "closed"})
}

// ResetProviders serves POST /v1/breakers/reset, force-closing every
// provider's circuit breaker at once.
func (g *Gateway) ResetProviders(c *gin.Context) {
	g.client.ResetCircuitBreakers()
	g.log.Info("all circuit breakers reset via API")
	server.RespondOK(c, gin.H{"providers": g.client.Providers(), "state": "closed"})
}

// ResetMetrics serves POST /v1/metrics/reset, zeroing telemetry counters.
// Breaker states are left alone.
func (g *Gateway) ResetMetrics(c *gin.Context) {
	g.client.ResetMetrics()
	server.RespondNoContent(c)
}
