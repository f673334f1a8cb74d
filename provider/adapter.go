package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/skillsenselab/llmkit/chat"
	"github.com/skillsenselab/llmkit/httpclient"
)

// Sentinel errors.
var (
	ErrNoDialect    = errors.New("provider: dialect is required")
	ErrNoSSEReader  = errors.New("provider: expected SSE stream but got no SSE reader")
	ErrNoStreamBody = errors.New("provider: expected stream body but got nil")
)

// Adapter is a config-driven ChatProvider that talks to any HTTP backend
// via the Dialect pattern. It composes the HTTP adapter (auth, TLS,
// timeouts) with a Dialect that handles provider-specific mapping.
type Adapter struct {
	http      *httpclient.Adapter
	dialect   Dialect
	model     string
	temp      float64
	maxTokens int
}

var (
	_ ChatProvider = (*Adapter)(nil)
	_ Closeable    = (*Adapter)(nil)
)

// New creates an adapter from config using the global dialect registry.
// The config's Dialect field must match a registered dialect name.
func New(cfg Config) (*Adapter, error) {
	dialect, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(dialect, cfg)
}

// NewWithDialect creates an adapter with an explicit dialect instance.
// Use this when you don't want to rely on the global dialect registry.
func NewWithDialect(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	if cfg.Name == "" {
		cfg.Name = dialect.Name()
	}
	cfg.applyDefaults()

	hc, err := httpclient.New(httpclient.Config{
		Name:    cfg.Name,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    cfg.Auth,
		TLS:     cfg.TLS,
		Headers: cfg.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("provider: create http adapter: %w", err)
	}

	return &Adapter{
		http:      hc,
		dialect:   dialect,
		model:     cfg.Model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string { return a.http.Name() }

// IsAvailable probes the dialect's health endpoint when it has one,
// otherwise reports the transport's view.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	if hp := a.dialect.HealthPath(); hp != "" {
		_, err := httpclient.Get[json.RawMessage](a.http, ctx, hp)
		return err == nil
	}
	return a.http.IsAvailable(ctx)
}

// Close releases transport resources.
func (a *Adapter) Close(ctx context.Context) error { return a.http.Close(ctx) }

// Complete sends a non-streaming completion request and returns the full
// response.
func (a *Adapter) Complete(ctx context.Context, req chat.Request) (*chat.Response, error) {
	a.applyRequestDefaults(&req)
	req.Stream = false

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return nil, fmt.Errorf("provider: build request: %w", err)
	}

	resp, err := httpclient.Post[json.RawMessage](a.http, ctx, a.dialect.ChatPath(), body)
	if err != nil {
		return nil, fmt.Errorf("provider: complete: %w", err)
	}

	result, err := a.dialect.ParseResponse(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("provider: parse response: %w", err)
	}
	result.Provider = a.Name()
	return result, nil
}

// Stream dispatches a streaming completion attempt. The returned channel
// is closed when the stream ends, an error chunk is delivered, or the
// context is cancelled.
func (a *Adapter) Stream(ctx context.Context, req chat.Request) (<-chan chat.Chunk, error) {
	a.applyRequestDefaults(&req)
	req.Stream = true

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return nil, fmt.Errorf("provider: build stream request: %w", err)
	}

	streamResp, err := a.http.DoStream(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   a.dialect.ChatPath(),
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("provider: stream: %w", err)
	}

	ch := make(chan chat.Chunk)
	go a.readStream(ctx, streamResp, ch)
	return ch, nil
}

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// HTTP returns the underlying HTTP adapter for advanced use cases.
func (a *Adapter) HTTP() *httpclient.Adapter { return a.http }

func (a *Adapter) applyRequestDefaults(req *chat.Request) {
	if req.Model == "" {
		req.Model = a.model
	}
	if req.Temperature == 0 {
		req.Temperature = a.temp
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.maxTokens
	}
}
