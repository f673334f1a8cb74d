package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillsenselab/llmkit/chat"
	"github.com/skillsenselab/llmkit/errors"
	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/server"
	"github.com/skillsenselab/llmkit/telemetry"
	"github.com/skillsenselab/llmkit/validation"
)

// completionRequest is the POST /v1/chat/completions body.
type completionRequest struct {
	Messages     []chat.Message `json:"messages" validate:"required,min=1"`
	Model        string         `json:"model"`
	SystemPrompt string         `json:"system_prompt"`
	MaxTokens    int            `json:"max_tokens" validate:"gte=0"`
	Temperature  float64        `json:"temperature" validate:"gte=0,lte=2"`
	Provider     string         `json:"provider"`
	Failover     *bool          `json:"failover"`
	Stream       bool           `json:"stream"`
}

// toChatRequest maps the HTTP body onto the client's request type. A nil
// failover field means failover stays enabled.
func (r completionRequest) toChatRequest() chat.Request {
	return chat.Request{
		Messages:     r.Messages,
		Model:        r.Model,
		SystemPrompt: r.SystemPrompt,
		Temperature:  r.Temperature,
		MaxTokens:    r.MaxTokens,
		Provider:     r.Provider,
		NoFailover:   r.Failover != nil && !*r.Failover,
	}
}

// completionResponse is the non-streaming reply.
type completionResponse struct {
	ID       string     `json:"id"`
	Provider string     `json:"provider,omitempty"`
	Content  string     `json:"content"`
	Usage    chat.Usage `json:"usage"`
}

// streamEvent is one SSE data frame of a streamed completion.
type streamEvent struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// Completions serves POST /v1/chat/completions. With "stream": true the
// response is an SSE stream of content events terminated by a done event
// and a [DONE] sentinel; otherwise the full completion is returned as JSON.
func (g *Gateway) Completions(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body").WithCause(err))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if req.Stream {
		g.streamCompletion(c, req.toChatRequest())
		return
	}
	g.completion(c, req.toChatRequest())
}

// completion runs the request to the end and replies with the assembled text.
func (g *Gateway) completion(c *gin.Context, req chat.Request) {
	ctx, span := g.tracer.Start(c.Request.Context(), telemetry.SpanGatewayChat, trace.WithAttributes(
		attribute.String(telemetry.AttrModel, req.Model),
	))
	defer span.End()

	ch, err := g.client.StreamChat(ctx, req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	var content strings.Builder
	chunks := 0
	for chunk := range ch {
		if chunk.Err != nil {
			server.RespondWithError(c, chunk.Err)
			return
		}
		if chunk.Content != "" {
			content.WriteString(chunk.Content)
			chunks++
		}
	}

	resp := completionResponse{
		ID:      uuid.NewString(),
		Content: content.String(),
		Usage:   usageFor(req, chunks),
	}
	// The winning provider is only observable when the request pinned one;
	// with failover in play the stream does not say who served it.
	if req.Provider != "" && req.Provider != chat.ProviderAuto && req.NoFailover {
		resp.Provider = req.Provider
	}
	c.JSON(http.StatusOK, resp)
}

// streamCompletion forwards the chunk stream as SSE, flushing per event.
// The request context cancels the upstream stream when the caller leaves.
func (g *Gateway) streamCompletion(c *gin.Context, req chat.Request) {
	ch, err := g.client.StreamChat(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	w := c.Writer

	// Completion streams are long-lived; the server's WriteTimeout must not
	// cut them off mid-answer.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		g.log.Warn("could not disable write deadline for stream", logger.Fields("error", err.Error()))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	for chunk := range ch {
		if chunk.Err != nil {
			g.writeStreamError(c, chunk.Err)
			break
		}
		writeData(w, streamEvent{Content: chunk.Content, Done: chunk.Done})
		w.Flush()
	}

	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	w.Flush()
}

// writeStreamError surfaces a terminal stream error as a final data frame.
// Nothing is written when the caller is already gone.
func (g *Gateway) writeStreamError(c *gin.Context, err error) {
	if c.Request.Context().Err() != nil {
		return
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	g.log.Warn("completion stream failed", logger.Fields("code", string(appErr.Code), "error", appErr.Message))
	writeData(c.Writer, appErr.ToResponse())
	c.Writer.Flush()
}

// writeData writes one SSE data frame.
func writeData(w http.ResponseWriter, v any) {
	payload, _ := json.Marshal(v)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", payload)
}

// usageFor approximates token usage the way the limiter does: prompt chars
// over four, one completion token per streamed chunk.
func usageFor(req chat.Request, chunks int) chat.Usage {
	prompt := len(req.SystemPrompt)
	for _, m := range req.Messages {
		prompt += len(m.Content)
	}
	u := chat.Usage{PromptTokens: prompt / 4, CompletionTokens: chunks}
	u.TotalTokens = u.PromptTokens + u.CompletionTokens
	return u
}
