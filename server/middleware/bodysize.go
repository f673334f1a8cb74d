package middleware

import (
	"net/http"

	"github.com/skillsenselab/llmkit/util"
)

const defaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// BodySizeLimit caps the request body at a human-readable size ("10MB",
// "512KB"). Oversized completion payloads fail the handler's read with a
// MaxBytesError instead of tying up memory. Unparseable sizes fall back
// to 10MB.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
