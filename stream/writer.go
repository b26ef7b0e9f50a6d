package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

var errNilWriter = errors.New("stream: writer is nil")

// Encode renders one frame: "data: <JSON>\n\n". JSON encoding escapes
// newlines inside strings, so a frame never contains a blank line before
// its terminator.
func Encode(e Event) ([]byte, error) {
	body, err := e.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("stream: marshal event: %w", err)
	}
	frame := make([]byte, 0, len(body)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, body...)
	frame = append(frame, '\n', '\n')
	return frame, nil
}

// Writer writes frames to an HTTP response or any io.Writer, flushing
// after every frame when the destination supports it.
type Writer struct {
	w         io.Writer
	flush     func()
	heartbeat time.Duration
	mu        sync.Mutex
}

// NewWriter prepares an SSE response and returns a Writer for it.
func NewWriter(w http.ResponseWriter) *Writer {
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")

	var flushFn func()
	if f, ok := w.(http.Flusher); ok {
		flushFn = f.Flush
	}
	return &Writer{w: w, flush: flushFn}
}

// NewPlainWriter writes frames to w without HTTP headers.
func NewPlainWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// SetHeartbeat enables ": ping" comment frames while idle. Zero disables.
func (s *Writer) SetHeartbeat(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.heartbeat = d
}

// Send writes a single event.
func (s *Writer) Send(e Event) error {
	if s == nil || s.w == nil {
		return errNilWriter
	}
	frame, err := Encode(e)
	if err != nil {
		return err
	}
	return s.write(frame)
}

// Drain forwards events until the channel closes, the context ends, or a
// write fails. Closing the channel is the normal end of the stream.
func (s *Writer) Drain(ctx context.Context, events <-chan Event) error {
	if s == nil || s.w == nil {
		return errNilWriter
	}

	var tick <-chan time.Time
	if s.heartbeat > 0 {
		ticker := time.NewTicker(s.heartbeat)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.Send(e); err != nil {
				return err
			}
		case <-tick:
			if err := s.write([]byte(": ping\n\n")); err != nil {
				return err
			}
		}
	}
}

func (s *Writer) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(p); err != nil {
		return fmt.Errorf("stream: write: %w", err)
	}
	if s.flush != nil {
		s.flush()
	}
	return nil
}
