package chat

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func feed(chunks ...Chunk) <-chan Chunk {
	ch := make(chan Chunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func TestCollect_FullStream(t *testing.T) {
	ch := feed(
		Chunk{Content: "Hel"},
		Chunk{Content: "lo"},
		Chunk{Done: true},
	)

	text, err := Collect(context.Background(), ch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", text)
	}
}

func TestCollect_ErrorMidStream(t *testing.T) {
	streamErr := fmt.Errorf("connection reset")
	ch := feed(
		Chunk{Content: "partial"},
		Chunk{Err: streamErr},
	)

	text, err := Collect(context.Background(), ch)
	if err != streamErr {
		t.Fatalf("expected stream error, got %v", err)
	}
	if text != "partial" {
		t.Errorf("expected partial text to be returned, got %q", text)
	}
}

func TestCollect_ContextCancelled(t *testing.T) {
	ch := make(chan Chunk) // never fed
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var err error
	go func() {
		_, err = Collect(ctx, ch)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Collect did not unblock on cancellation")
	}
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCoalesce_MergesSmallFragments(t *testing.T) {
	ch := feed(
		Chunk{Content: "a"},
		Chunk{Content: "b"},
		Chunk{Content: "cdef"},
		Chunk{Content: "g"},
		Chunk{Done: true},
	)

	out := Coalesce(context.Background(), ch, 4)
	var got []Chunk
	for chunk := range out {
		got = append(got, chunk)
	}

	// "a"+"b"+"cdef" crosses the threshold as "abcdef"; "g" flushes with Done.
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(got), got)
	}
	if got[0].Content != "abcdef" {
		t.Errorf("expected first chunk %q, got %q", "abcdef", got[0].Content)
	}
	if got[1].Content != "g" {
		t.Errorf("expected flushed tail %q, got %q", "g", got[1].Content)
	}
	if !got[2].Done {
		t.Error("expected final chunk to carry Done")
	}
}

func TestCoalesce_ErrorFlushesPending(t *testing.T) {
	streamErr := fmt.Errorf("boom")
	ch := feed(
		Chunk{Content: "ab"},
		Chunk{Err: streamErr},
	)

	out := Coalesce(context.Background(), ch, 10)
	var got []Chunk
	for chunk := range out {
		got = append(got, chunk)
	}

	if len(got) != 2 {
		t.Fatalf("expected pending flush + error chunk, got %d", len(got))
	}
	if got[0].Content != "ab" {
		t.Errorf("expected pending %q flushed before error, got %q", "ab", got[0].Content)
	}
	if got[1].Err != streamErr {
		t.Errorf("expected error chunk, got %+v", got[1])
	}
}

func TestCoalesce_PassthroughWhenDisabled(t *testing.T) {
	ch := feed(Chunk{Content: "x"}, Chunk{Done: true})
	out := Coalesce(context.Background(), ch, 0)
	if out != ch {
		t.Error("minSize <= 1 should return the input channel unchanged")
	}
}
