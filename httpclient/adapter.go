package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/skillsenselab/llmkit/httpclient/sse"
	"github.com/skillsenselab/llmkit/resilience"
	"github.com/skillsenselab/llmkit/version"
)

// defaultUserAgent identifies outbound requests. Config headers and
// per-request headers both override it.
var defaultUserAgent = "llmkit/" + version.Version

// Adapter is the outbound HTTP transport providers build on: one base
// URL, default headers and auth, optional TLS, and optional per-adapter
// resilience (retry, circuit breaker, rate limiter). Buffered calls go
// through Do, streaming calls through DoStream.
type Adapter struct {
	httpClient *http.Client
	config     Config
	breaker    *resilience.CircuitBreaker
	limiter    *resilience.RateLimiter
}

// Option customizes an Adapter beyond what Config expresses.
type Option func(*Adapter)

// WithTransport replaces the underlying round-tripper. Useful for tests
// and for instrumented transports.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Adapter) {
		a.httpClient.Transport = rt
	}
}

// New validates cfg and builds the adapter. Resilience wrappers are
// only constructed when their config sections are present.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	a := &Adapter{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		config:     cfg,
	}
	if cfg.CircuitBreaker != nil {
		a.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimiter != nil {
		a.limiter = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Do sends one buffered request, inside the retry policy when one is
// configured.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	if a.config.Retry != nil {
		return resilience.Retry(ctx, *a.config.Retry, func() (*Response, error) {
			return a.doOnce(ctx, req)
		})
	}
	return a.doOnce(ctx, req)
}

// doOnce runs a single attempt through the limiter and breaker.
func (a *Adapter) doOnce(ctx context.Context, req Request) (*Response, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if a.breaker == nil {
		return a.send(ctx, req)
	}
	var resp *Response
	err := a.breaker.Execute(func() error {
		var sendErr error
		resp, sendErr = a.send(ctx, req)
		return sendErr
	})
	return resp, err
}

// send builds, dispatches, and fully reads one request.
func (a *Adapter) send(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

// DoStream sends one request and hands the body back unconsumed. Error
// statuses are read, classified, and returned before any stream is
// exposed. Retry does not apply: once bytes flow, replaying the request
// is the caller's decision. The caller must Close the response.
func (a *Adapter) DoStream(ctx context.Context, req Request) (*StreamResponse, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	// The client-level timeout would kill long-lived streams; cancel
	// through ctx instead.
	streamClient := &http.Client{Transport: a.httpClient.Transport}

	resp, err := streamClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, ClassifyStatusCode(resp.StatusCode, body)
	}

	out := &StreamResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		rawResp:    resp,
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		out.SSE = sse.NewReader(resp.Body)
	} else {
		out.Body = resp.Body
	}
	return out, nil
}

// buildRequest assembles the *http.Request: URL resolution against
// BaseURL, query, header layering (user agent, then config defaults,
// then per-request), body encoding, and auth.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, a.resolveURL(req.Path), body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// resolveURL joins path onto BaseURL unless path is already absolute.
func (a *Adapter) resolveURL(path string) string {
	if a.config.BaseURL == "" ||
		strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// encodeBody turns the request body field into a reader plus the
// content type implied by its Go type. Readers and raw bytes pass
// through untyped.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders keeps the first value of each response header.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) > 0 {
			out[name] = values[0]
		}
	}
	return out
}

// Name returns the configured adapter name.
func (a *Adapter) Name() string { return a.config.Name }

// IsAvailable reports whether requests can currently be dispatched; an
// open circuit breaker means they cannot.
func (a *Adapter) IsAvailable(context.Context) bool {
	return a.breaker == nil || a.breaker.State() != resilience.StateOpen
}

// Unwrap exposes the underlying *http.Client.
func (a *Adapter) Unwrap() *http.Client { return a.httpClient }

// GetConfig returns the adapter's configuration.
func (a *Adapter) GetConfig() Config { return a.config }

// Close releases idle connections.
func (a *Adapter) Close(context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}
