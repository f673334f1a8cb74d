package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/llmkit/errors"
)

// AuthConfig configures the bearer token authentication middleware.
type AuthConfig struct {
	// TokenValidator validates a token string and returns the claims.
	// The gateway supplies a JWT validator here; the middleware itself
	// doesn't care how tokens are verified.
	TokenValidator func(token string) (map[string]interface{}, error)
	// SkipPaths are URL path prefixes that bypass authentication,
	// typically the health and probe endpoints.
	SkipPaths []string
}

// Auth returns a Gin middleware that validates Bearer tokens using the
// configured TokenValidator. Validated claims are stored in the Gin context
// under their claim names.
//
// Rejections use the standard error envelope. A validator that returns an
// AppError (TokenExpired, InvalidToken) picks the response code itself;
// any other error is reported as INVALID_TOKEN.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, apperrors.Unauthorized("A Bearer token is required."))
			return
		}

		claims, err := cfg.TokenValidator(token)
		if err != nil {
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				appErr = apperrors.InvalidToken().WithCause(err)
			}
			reject(c, appErr)
			return
		}

		for key, value := range claims {
			c.Set(key, value)
		}
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

func reject(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
