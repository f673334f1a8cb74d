package chat

import (
	"context"
	"strings"
)

// Collect drains a chunk stream and returns the concatenated content.
// It returns the text accumulated so far together with the first chunk
// error, or ctx.Err() if the context is cancelled mid-stream.
func Collect(ctx context.Context, ch <-chan Chunk) (string, error) {
	var b strings.Builder
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return b.String(), nil
			}
			if chunk.Err != nil {
				return b.String(), chunk.Err
			}
			b.WriteString(chunk.Content)
		case <-ctx.Done():
			return b.String(), ctx.Err()
		}
	}
}

// Coalesce merges adjacent content fragments until at least minSize bytes
// are buffered before forwarding a chunk. Done and error chunks flush the
// buffer and pass through immediately. minSize <= 1 returns the input
// channel unchanged.
func Coalesce(ctx context.Context, in <-chan Chunk, minSize int) <-chan Chunk {
	if minSize <= 1 {
		return in
	}
	out := make(chan Chunk)
	go func() {
		defer close(out)
		var pending strings.Builder
		flush := func(tail Chunk, withTail bool) bool {
			if pending.Len() > 0 {
				if !send(ctx, out, Chunk{Content: pending.String()}) {
					return false
				}
				pending.Reset()
			}
			if withTail {
				return send(ctx, out, tail)
			}
			return true
		}
		for {
			select {
			case chunk, ok := <-in:
				if !ok {
					flush(Chunk{}, false)
					return
				}
				if chunk.Err != nil || chunk.Done {
					if !flush(chunk, true) {
						return
					}
					continue
				}
				pending.WriteString(chunk.Content)
				if pending.Len() >= minSize {
					if !flush(Chunk{}, false) {
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func send(ctx context.Context, out chan<- Chunk, chunk Chunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
