package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/llmkit/version"
)

// Version returns a handler that exposes the build identity of the binary.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, buildDetails(version.GetVersionInfo()))
	}
}

// buildDetails flattens version info into the response shape shared by the
// version and info endpoints.
func buildDetails(v *version.Info) gin.H {
	return gin.H{
		"version":    v.Version,
		"git_commit": v.GitCommit,
		"git_branch": v.GitBranch,
		"build_time": v.BuildTime,
		"go_version": v.GoVersion,
		"is_release": v.IsRelease,
		"is_dirty":   v.IsDirty,
	}
}
