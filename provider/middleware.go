package provider

import (
	"context"
	"time"

	"github.com/skillsenselab/llmkit/chat"
	"github.com/skillsenselab/llmkit/logger"
)

// WithLogging wraps a provider so every stream dispatch is logged with the
// provider name and time-to-stream. Close is forwarded when the wrapped
// provider supports it.
func WithLogging(p ChatProvider, log *logger.Logger) ChatProvider {
	return &loggingProvider{inner: p, log: log}
}

type loggingProvider struct {
	inner ChatProvider
	log   *logger.Logger
}

func (l *loggingProvider) Name() string                         { return l.inner.Name() }
func (l *loggingProvider) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingProvider) Stream(ctx context.Context, req chat.Request) (<-chan chat.Chunk, error) {
	start := time.Now()
	ch, err := l.inner.Stream(ctx, req)
	fields := logger.Fields(
		"provider", l.inner.Name(),
		"model", req.Model,
		"dispatch", time.Since(start).String(),
	)
	if err != nil {
		fields["error"] = err.Error()
		l.log.Error("stream dispatch failed", fields)
		return nil, err
	}
	l.log.Debug("stream dispatched", fields)
	return ch, nil
}

func (l *loggingProvider) Close(ctx context.Context) error {
	if c, ok := l.inner.(Closeable); ok {
		return c.Close(ctx)
	}
	return nil
}
