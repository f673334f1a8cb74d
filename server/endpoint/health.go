package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/llmkit/component"
)

// HealthChecker reports the health of every registered component.
type HealthChecker func(ctx context.Context) []component.Health

// Health builds the aggregate health handler. The overall status is the
// worst status any component reports, and an unhealthy aggregate answers
// with 503 so load balancers take the instance out of rotation.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var components []component.Health
		if checker != nil {
			components = checker(c.Request.Context())
		}

		status := aggregateStatus(components)
		code := http.StatusOK
		if status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	}
}

func aggregateStatus(components []component.Health) string {
	status := "healthy"
	for _, ch := range components {
		switch ch.Status {
		case component.StatusUnhealthy:
			return "unhealthy"
		case component.StatusDegraded:
			status = "degraded"
		}
	}
	return status
}
