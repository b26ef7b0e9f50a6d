package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestEncodeFrames(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"status", Status("Running feature"), `data: {"type":"status","content":"Running feature"}` + "\n\n"},
		{"text", Text("Hello"), `data: {"type":"text","content":"Hello"}` + "\n\n"},
		{"tool_use", ToolUse("firecrawl_search", map[string]interface{}{"query": "go"}), `data: {"type":"tool_use","toolName":"firecrawl_search","toolInput":{"query":"go"}}` + "\n\n"},
		{"tool_use empty", ToolUse("firecrawl_scrape", nil), `data: {"type":"tool_use","toolName":"firecrawl_scrape","toolInput":{}}` + "\n\n"},
		{"tool_result", ToolResult("firecrawl_search", `{"success":true}`), `data: {"type":"tool_result","toolName":"firecrawl_search","content":"{\"success\":true}"}` + "\n\n"},
		{"error", Error("Client not found"), `data: {"type":"error","content":"Client not found"}` + "\n\n"},
		{"done", Done(), `data: {"type":"done"}` + "\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Encode(tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(frame) != tt.want {
				t.Errorf("got %q, want %q", frame, tt.want)
			}
		})
	}
}

func TestEncodeKeepsFramesSelfDelimited(t *testing.T) {
	frame, err := Encode(Text("line one\n\nline two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := strings.TrimSuffix(string(frame), "\n\n")
	if strings.Contains(body, "\n") {
		t.Errorf("frame body must be a single line, got %q", body)
	}
}

// parseFrames recovers events from a byte stream, ignoring a truncated tail.
func parseFrames(t *testing.T, raw []byte) []Event {
	t.Helper()
	var events []Event
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var e Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &e); err != nil {
			continue
		}
		events = append(events, e)
	}
	return events
}

func TestTruncatedStreamKeepsCompleteFrames(t *testing.T) {
	var buf bytes.Buffer
	for _, e := range []Event{Status("start"), Text("draft"), Done()} {
		frame, _ := Encode(e)
		buf.Write(frame)
	}
	raw := buf.Bytes()
	truncated := raw[:len(raw)-10]

	events := parseFrames(t, truncated)
	if len(events) != 2 {
		t.Fatalf("expected 2 complete events, got %d", len(events))
	}
	if events[1].Content != "draft" {
		t.Errorf("unexpected event %+v", events[1])
	}
}

func TestWriterDrain(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewWriter(rec)

	events := make(chan Event, 3)
	events <- Status("start")
	events <- Text("body")
	events <- Done()
	close(events)

	if err := w.Drain(context.Background(), events); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("unexpected Content-Type %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("unexpected Cache-Control %q", got)
	}
	if !rec.Flushed {
		t.Error("expected writer to flush")
	}

	got := parseFrames(t, rec.Body.Bytes())
	if len(got) != 3 || got[2].Type != TypeDone {
		t.Errorf("unexpected events %+v", got)
	}
}

func TestWriterDrainStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	w := NewPlainWriter(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Drain(ctx, make(chan Event))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWriterHeartbeat(t *testing.T) {
	var buf safeBuffer
	w := NewPlainWriter(&buf)
	w.SetHeartbeat(5 * time.Millisecond)

	events := make(chan Event)
	done := make(chan error, 1)
	go func() { done <- w.Drain(context.Background(), events) }()

	time.Sleep(30 * time.Millisecond)
	close(events)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), ": ping\n\n") {
		t.Errorf("expected heartbeat comment, got %q", buf.String())
	}
}

func TestTranscriptAndFirstError(t *testing.T) {
	events := []Event{
		Status("start"),
		Text("Hello, "),
		ToolUse("firecrawl_search", nil),
		ToolResult("firecrawl_search", "{}"),
		Text("world"),
		Error("boom"),
		Done(),
	}
	if got := Transcript(events); got != "Hello, world" {
		t.Errorf("unexpected transcript %q", got)
	}
	msg, ok := FirstError(events)
	if !ok || msg != "boom" {
		t.Errorf("unexpected first error %q %v", msg, ok)
	}
	if _, ok := FirstError(events[:2]); ok {
		t.Error("expected no error")
	}
}

func TestCollect(t *testing.T) {
	events := make(chan Event, 2)
	events <- Text("a")
	events <- Done()
	close(events)

	got := Collect(events)
	if len(got) != 2 || got[1].Type != TypeDone {
		t.Errorf("unexpected events %+v", got)
	}
}
