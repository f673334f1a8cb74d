package middleware

import "net/http"

// statusRecorder captures the status code a handler writes so the request
// logger can report it. Only the first WriteHeader wins; implicit 200s from
// a bare Write are recorded too.
type statusRecorder struct {
	http.ResponseWriter
	code       int
	headerSent bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.headerSent {
		r.code = code
		r.headerSent = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.headerSent = true
	return r.ResponseWriter.Write(b)
}

// Flush keeps SSE and other streaming responses working through the
// logging middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach optional interfaces on the
// original writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
