// Package sse reads Server-Sent Events streams. OpenAI-compatible chat
// APIs deliver incremental completion chunks this way, one JSON payload
// per "data:" line.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// Event is one server-sent event, assembled from the wire format's
// field lines.
type Event struct {
	// Event is the value of the "event:" field, empty for data-only
	// streams.
	Event string
	// Data joins all "data:" lines with newlines. For chat streams this
	// is a single JSON chunk or a terminator like "[DONE]"; interpreting
	// it is the caller's job.
	Data string
	// ID is the value of the "id:" field.
	ID string
}

// Reader yields events from a stream until io.EOF.
type Reader interface {
	// Next blocks for the next event. Returns io.EOF when the stream
	// ends.
	Next() (*Event, error)
	// Close releases the underlying stream.
	Close() error
}

// maxEventSize caps a single line. Completion deltas are tiny, but some
// backends flush an entire response as one event.
const maxEventSize = 1024 * 1024

type reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
}

// NewReader wraps a response body in a Reader.
func NewReader(body io.ReadCloser) Reader {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	return &reader{scanner: sc, body: body}
}

func (r *reader) Next() (*Event, error) {
	var event Event
	var dataSeen bool

	for r.scanner.Scan() {
		line := r.scanner.Text()

		// A blank line terminates the event.
		if line == "" {
			if dataSeen {
				return &event, nil
			}
			continue
		}

		// Lines starting with a colon are comments, often used as
		// keep-alives during slow completions.
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := splitField(line)
		switch field {
		case "data":
			if dataSeen {
				event.Data += "\n" + value
			} else {
				event.Data = value
				dataSeen = true
			}
		case "event":
			event.Event = value
		case "id":
			event.ID = value
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	// Flush an unterminated trailing event before reporting EOF.
	if dataSeen {
		return &event, nil
	}
	return nil, io.EOF
}

func (r *reader) Close() error {
	return r.body.Close()
}

// splitField breaks a "field: value" line, dropping the single optional
// space after the colon.
func splitField(line string) (field, value string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line, ""
	}
	field, value = line[:idx], line[idx+1:]
	if value != "" && value[0] == ' ' {
		value = value[1:]
	}
	return field, value
}
