package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/llmkit/version"
)

// startTime anchors the uptime reported by the info endpoint.
var startTime = time.Now()

// Info returns a handler that combines build identity with runtime facts
// about this instance: which service it is, and for how long it has run.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := buildDetails(version.GetVersionInfo())
		body["service"] = serviceName
		body["uptime"] = time.Since(startTime).String()
		body["timestamp"] = time.Now().UTC().Format(time.RFC3339)
		c.JSON(http.StatusOK, body)
	}
}
