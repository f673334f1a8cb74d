package provider

import (
	"bufio"
	"context"
	"io"

	"github.com/skillsenselab/llmkit/chat"
	"github.com/skillsenselab/llmkit/httpclient"
	"github.com/skillsenselab/llmkit/httpclient/sse"
)

// readStream dispatches to the stream reader matching the dialect's format.
// Every send is select-guarded on ctx so an abandoned consumer never leaves
// this goroutine blocked.
func (a *Adapter) readStream(ctx context.Context, resp *httpclient.StreamResponse, ch chan<- chat.Chunk) {
	defer close(ch)

	switch a.dialect.StreamFormat() {
	case StreamSSE:
		a.readSSEStream(ctx, resp.SSE, ch)
	case StreamNDJSON:
		a.readNDJSONStream(ctx, resp.Body, ch)
	}
}

// readSSEStream reads Server-Sent Events and parses each data payload.
func (a *Adapter) readSSEStream(ctx context.Context, reader sse.Reader, ch chan<- chat.Chunk) {
	if reader == nil {
		sendChunk(ctx, ch, chat.Chunk{Err: ErrNoSSEReader})
		return
	}
	defer func() { _ = reader.Close() }()

	for {
		event, err := reader.Next()
		if err != nil {
			if err != io.EOF {
				sendChunk(ctx, ch, chat.Chunk{Err: err})
			}
			return
		}

		content, done, parseErr := a.dialect.ParseStreamChunk([]byte(event.Data))
		if parseErr != nil {
			sendChunk(ctx, ch, chat.Chunk{Err: parseErr})
			return
		}

		if !sendChunk(ctx, ch, chat.Chunk{Content: content, Done: done}) {
			return
		}
		if done {
			return
		}
	}
}

// readNDJSONStream reads newline-delimited JSON and parses each line.
func (a *Adapter) readNDJSONStream(ctx context.Context, body io.ReadCloser, ch chan<- chat.Chunk) {
	if body == nil {
		sendChunk(ctx, ch, chat.Chunk{Err: ErrNoStreamBody})
		return
	}
	defer func() { _ = body.Close() }()

	scanner := bufio.NewScanner(body)
	// The final line of an NDJSON stream can carry the full response
	// metadata, which outgrows the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		content, done, err := a.dialect.ParseStreamChunk(line)
		if err != nil {
			sendChunk(ctx, ch, chat.Chunk{Err: err})
			return
		}

		if !sendChunk(ctx, ch, chat.Chunk{Content: content, Done: done}) {
			return
		}
		if done {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		sendChunk(ctx, ch, chat.Chunk{Err: err})
	}
}

// sendChunk delivers a chunk unless the context ends first. Returns false
// when the send was abandoned.
func sendChunk(ctx context.Context, ch chan<- chat.Chunk, chunk chat.Chunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
