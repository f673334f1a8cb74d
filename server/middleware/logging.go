package middleware

import (
	"net/http"
	"time"

	"github.com/skillsenselab/llmkit/logger"
)

// quietPaths are probed constantly by orchestrators and monitors; logging
// every hit drowns the useful entries.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
	"/alive":   true,
	"/ready":   true,
}

// RequestLogger returns middleware that logs every request with method,
// path, status code, and duration. The log level follows the status class:
// 5xx at error, 4xx at warn, everything else at debug. Probe paths are
// silently skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.code,
				"duration_ms": duration.Milliseconds(),
			}
			if id := r.Header.Get("X-Request-Id"); id != "" {
				fields["request_id"] = id
			}
			if duration > 500*time.Millisecond {
				fields["slow"] = true
			}

			switch {
			case rec.code >= 500:
				log.Error("request completed", fields)
			case rec.code >= 400:
				log.Warn("request completed", fields)
			default:
				log.Debug("request completed", fields)
			}
		})
	}
}
