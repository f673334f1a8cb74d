package httpclient

import (
	"io"
	"net/http"

	"github.com/skillsenselab/llmkit/httpclient/sse"
)

// Request describes one outbound call. The zero value is not useful;
// at minimum Method and Path must be set.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is resolved against the client's BaseURL, or used as the full
	// URL when no BaseURL is configured.
	Path string
	// Headers are merged over the client's default headers.
	Headers map[string]string
	// Query parameters are appended to the URL.
	Query map[string]string
	// Body may be an io.Reader, []byte, or string, all sent as-is.
	// Anything else is JSON-encoded.
	Body any
	// Auth, when set, replaces the client-level auth for this call only.
	Auth *AuthConfig
}

// Response is a fully-buffered reply.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool { return r.StatusCode/100 == 2 }

// IsError reports a 4xx or 5xx status.
func (r *Response) IsError() bool { return r.StatusCode >= 400 }

// StreamResponse is a reply whose body is consumed incrementally.
// Exactly one of SSE or Body is set, depending on the response content
// type. The caller owns the stream and must Close it.
type StreamResponse struct {
	StatusCode int
	Headers    map[string]string

	// SSE reads text/event-stream responses event by event.
	SSE sse.Reader
	// Body is the raw stream for every other content type.
	Body io.ReadCloser

	// rawResp keeps the transport response alive until Close.
	rawResp *http.Response
}

// Close releases the underlying connection. Safe to call on a partially
// constructed response.
func (r *StreamResponse) Close() error {
	switch {
	case r.SSE != nil:
		return r.SSE.Close()
	case r.Body != nil:
		return r.Body.Close()
	case r.rawResp != nil && r.rawResp.Body != nil:
		return r.rawResp.Body.Close()
	}
	return nil
}
