package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillsenselab/llmkit/chat"
	"github.com/skillsenselab/llmkit/errors"
	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/provider"
	"github.com/skillsenselab/llmkit/resilience"
	"github.com/skillsenselab/llmkit/telemetry"
)

var errStreamTruncated = stderrors.New("stream ended before completion")

// StreamChat starts a completion and returns its chunk stream. The channel
// is unbuffered, delivers chunks the moment the winning provider produces
// them, and closes after a done chunk or a terminal error chunk. The
// stream is finite and not restartable.
//
// Validation failures and an unknown provider hint return an error here,
// before any provider is contacted. Everything later arrives on the
// stream. Chunks already delivered when an attempt fails mid-stream are
// never retracted: the retry or failover re-emits the full response, so
// the consumer may observe a duplicated prefix around the failure.
func (c *Client) StreamChat(ctx context.Context, req chat.Request) (<-chan chat.Chunk, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	candidates, err := c.candidates(req)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	hint := req.Provider
	if hint == "" {
		hint = chat.ProviderAuto
	}
	ctx, span := c.tracer.Start(ctx, telemetry.SpanChatStream, trace.WithAttributes(
		attribute.String(telemetry.AttrRequestID, requestID),
		attribute.String(telemetry.AttrModel, req.Model),
		attribute.String("llm.provider_hint", hint),
		attribute.Int("llm.candidates", len(candidates)),
	))
	log := c.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldRequestID, requestID))

	out := make(chan chat.Chunk)
	go func() {
		defer span.End()
		c.run(ctx, log, req, candidates, out)
	}()
	return out, nil
}

// candidates resolves the ordered provider list for one request. The
// "auto" hint ranks every provider by success rate; an explicit hint goes
// first with the rest following in registration order, or alone when
// failover is disabled.
func (c *Client) candidates(req chat.Request) ([]provider.ChatProvider, error) {
	hint := req.Provider
	if hint == "" || hint == chat.ProviderAuto {
		return c.ranked(), nil
	}

	hinted, ok := c.registry.Get(hint)
	if !ok {
		return nil, errors.InvalidInput("provider", fmt.Sprintf("unknown provider %q", hint))
	}
	if req.NoFailover {
		return []provider.ChatProvider{hinted}, nil
	}

	out := make([]provider.ChatProvider, 0, c.registry.Len())
	out = append(out, hinted)
	for _, p := range c.registry.All() {
		if p.Name() != hint {
			out = append(out, p)
		}
	}
	return out, nil
}

// ranked orders all providers by descending success rate. Never-attempted
// providers score a neutral 1.0 so they get explored; the stable sort
// keeps registration order for ties.
func (c *Client) ranked() []provider.ChatProvider {
	providers := c.registry.All()
	scores := make(map[string]float64, len(providers))
	for _, p := range providers {
		scores[p.Name()] = c.recorder.SuccessRate(p.Name())
	}
	sort.SliceStable(providers, func(i, j int) bool {
		return scores[providers[i].Name()] > scores[providers[j].Name()]
	})
	return providers
}

// run walks the candidate list until one provider streams the full
// response, then closes out.
func (c *Client) run(ctx context.Context, log *logger.Logger, req chat.Request, candidates []provider.ChatProvider, out chan<- chat.Chunk) {
	defer close(out)

	est := estimateTokens(req)
	var lastErr error
	var lastProvider string

	for i, p := range candidates {
		name := p.Name()

		if allowed, reason := c.breakers[name].CanAttempt(); !allowed {
			c.recorder.RecordCircuitBlocked(ctx, name)
			log.Debug("provider suspended, skipping", logger.Fields("provider", name, "reason", reason))
			lastErr, lastProvider = errors.CircuitOpen(name, reason), name
			continue
		}

		if err := c.awaitLimiter(ctx, log, name, est); err != nil {
			c.fail(ctx, out, err)
			return
		}

		err := c.tryProvider(ctx, log, p, req, out)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			c.fail(ctx, out, ctx.Err())
			return
		}

		lastErr, lastProvider = err, name
		if i < len(candidates)-1 {
			c.recorder.RecordFailover(ctx, name)
			c.emit(Event{Type: EventFailover, Provider: name, Reason: err.Error()})
			log.Warn("failing over to next provider", logger.Fields("provider", name, "error", err.Error()))
		}
	}

	c.fail(ctx, out, errors.ProvidersExhausted(lastProvider, lastErr))
}

// awaitLimiter blocks until the shared window admits a dispatch. Each
// denial records one rate-limited mark and sleeps the limiter's suggested
// wait; the accumulated waiting is capped by MaxLimiterWait, after which
// RATE_LIMITED surfaces for the whole call. The window is shared, so
// trying another candidate instead would not help.
func (c *Client) awaitLimiter(ctx context.Context, log *logger.Logger, name string, estTokens int) error {
	deadline := time.Now().Add(c.cfg.MaxLimiterWait)
	for {
		allowed, wait := c.limiter.CanProceed(estTokens)
		if allowed {
			return nil
		}

		c.recorder.RecordRateLimited(ctx, name)
		if wait <= 0 {
			// The estimate alone exceeds the token cap; no wait can fix that.
			return errors.RateLimited().WithDetail("provider", name)
		}
		if time.Now().Add(wait).After(deadline) {
			log.Warn("rate limit wait budget exhausted", logger.Fields("provider", name, "suggested_wait", wait.String()))
			return errors.RateLimited().WithDetail("provider", name).WithDetail("suggested_wait", wait.String())
		}

		log.Debug("rate limited, waiting for window", logger.Fields("provider", name, "wait", wait.String()))
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryProvider runs the retry loop against a single provider. A nil return
// means the full response was streamed. Every failed attempt records one
// breaker failure, one telemetry failure, and one zero-token limiter
// entry; an attempt abandoned by the parent context records nothing.
func (c *Client) tryProvider(ctx context.Context, log *logger.Logger, p provider.ChatProvider, req chat.Request, out chan<- chat.Chunk) error {
	name := p.Name()
	breaker := c.breakers[name]

	for attempt := 0; ; attempt++ {
		chunks, latency, err := c.attempt(ctx, p, req, out, attempt)
		if err == nil {
			breaker.RecordSuccess()
			c.recorder.RecordSuccess(ctx, name, latency, chunks)
			c.limiter.RecordRequest(chunks)
			log.Debug("stream completed", logger.Fields(
				"provider", name,
				"attempt", attempt,
				"chunks", chunks,
				"latency", latency.String(),
			))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Bulkhead saturation never reached the provider: retryable, but
		// not counted against breaker, limiter, or telemetry.
		saturated := stderrors.Is(err, resilience.ErrBulkheadFull) || stderrors.Is(err, resilience.ErrBulkheadTimeout)
		if !saturated {
			breaker.RecordFailure()
			c.recorder.RecordFailure(ctx, name)
			c.limiter.RecordRequest(0)
		}

		retryable := errors.IsRetryable(err)
		log.Warn("provider attempt failed", logger.Fields(
			"provider", name,
			"attempt", attempt,
			"error", err.Error(),
			"retryable", retryable,
		))
		if !retryable || attempt >= c.cfg.MaxRetries {
			return err
		}

		c.recorder.RecordRetry(ctx, name)
		delay := c.backoff.Delay(attempt)
		log.Debug("backing off before retry", logger.Fields("provider", name, "delay", delay.String()))
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// attempt runs one dispatch under its own span, so retries and failovers
// show up as sibling spans in a trace.
func (c *Client) attempt(ctx context.Context, p provider.ChatProvider, req chat.Request, out chan<- chat.Chunk, attempt int) (int, time.Duration, error) {
	ctx, span := c.tracer.Start(ctx, telemetry.SpanChatAttempt, trace.WithAttributes(
		attribute.String(telemetry.AttrProvider, p.Name()),
		attribute.Int(telemetry.AttrAttempt, attempt),
	))
	defer span.End()

	start := time.Now()
	chunks, err := c.dispatch(ctx, p, req, out)
	latency := time.Since(start)

	span.SetAttributes(
		attribute.Int(telemetry.AttrChunks, chunks),
		attribute.Int64(telemetry.AttrDurationMs, latency.Milliseconds()),
	)
	if err != nil {
		span.SetAttributes(
			attribute.String(telemetry.AttrStatus, "error"),
			attribute.String(telemetry.AttrErrorMessage, err.Error()),
		)
		span.RecordError(err)
	} else {
		span.SetAttributes(attribute.String(telemetry.AttrStatus, "ok"))
	}
	return chunks, latency, err
}

// dispatch runs one attempt, inside the provider's bulkhead when one is
// configured.
func (c *Client) dispatch(ctx context.Context, p provider.ChatProvider, req chat.Request, out chan<- chat.Chunk) (int, error) {
	bh, ok := c.bulkheads[p.Name()]
	if !ok {
		return c.forwardStream(ctx, p, req, out)
	}

	var chunks int
	err := bh.Execute(ctx, func() error {
		var ferr error
		chunks, ferr = c.forwardStream(ctx, p, req, out)
		return ferr
	})
	if stderrors.Is(err, resilience.ErrBulkheadFull) || stderrors.Is(err, resilience.ErrBulkheadTimeout) {
		return chunks, errors.ServiceUnavailable(p.Name()).WithCause(err)
	}
	return chunks, err
}

// forwardStream consumes one provider stream, forwarding each chunk to the
// caller as it arrives. It returns the number of content chunks forwarded
// and the classified error, nil on clean completion.
func (c *Client) forwardStream(ctx context.Context, p provider.ChatProvider, req chat.Request, out chan<- chat.Chunk) (int, error) {
	name := p.Name()

	attemptCtx := ctx
	if c.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()
	}

	ch, err := p.Stream(attemptCtx, req)
	if err != nil {
		return 0, provider.Classify(name, err)
	}

	chunks := 0
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return chunks, errors.ExternalServiceError(name, errStreamTruncated)
			}
			if chunk.Err != nil {
				return chunks, provider.Classify(name, chunk.Err)
			}
			if !c.forward(ctx, out, chunk) {
				return chunks, ctx.Err()
			}
			if chunk.Content != "" {
				chunks++
			}
			if chunk.Done {
				return chunks, nil
			}
		case <-attemptCtx.Done():
			if ctx.Err() != nil {
				return chunks, ctx.Err()
			}
			return chunks, errors.Timeout(name).WithCause(attemptCtx.Err())
		}
	}
}

// forward hands one chunk to the caller, abandoning when the caller's
// context ends first.
func (c *Client) forward(ctx context.Context, out chan<- chat.Chunk, chunk chat.Chunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// fail delivers the terminal error chunk. When the context is already dead
// the consumer may or may not still be draining; one extra non-blocking
// attempt covers a parked reader without risking a stuck goroutine.
func (c *Client) fail(ctx context.Context, out chan<- chat.Chunk, err error) {
	telemetry.SetSpanError(ctx, err)
	chunk := chat.Chunk{Err: err}
	select {
	case out <- chunk:
	case <-ctx.Done():
		select {
		case out <- chunk:
		default:
		}
	}
}

// sleep waits d or until the context ends.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// estimateTokens sizes a request for limiter admission with the chars/4
// rule of thumb. Rough on purpose: recorded usage is itself a chunk-count
// proxy, and the two only need to be consistent with each other.
func estimateTokens(req chat.Request) int {
	n := len(req.SystemPrompt)
	for _, m := range req.Messages {
		n += len(m.Content)
	}
	return n / 4
}
