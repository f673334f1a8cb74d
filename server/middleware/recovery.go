package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/skillsenselab/llmkit/errors"
	"github.com/skillsenselab/llmkit/logger"
)

// panicBody is prepared once so the recovery path never depends on work
// that could itself fail.
var panicBody = func() []byte {
	b, _ := json.Marshal(apperrors.Internal(nil).ToResponse())
	return b
}()

// Recovery returns middleware that recovers from handler panics, logs the
// stack, and answers with the standard error envelope. It sits outermost in
// the chain so a panic anywhere below never kills the connection goroutine
// silently.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered", map[string]interface{}{
						"error":  fmt.Sprintf("%v", rec),
						"stack":  string(debug.Stack()),
						"path":   r.URL.Path,
						"method": r.Method,
					})
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write(panicBody)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
