// Package stream encodes orchestration events for the caller.
//
// Information Hiding:
// - Per-type JSON field selection
// - SSE frame layout and flushing
package stream

import "encoding/json"

// Type tags an Event.
type Type string

const (
	TypeStatus     Type = "status"
	TypeText       Type = "text"
	TypeToolUse    Type = "tool_use"
	TypeToolResult Type = "tool_result"
	TypeError      Type = "error"
	TypeDone       Type = "done"
)

// Event is one unit of progress sent to the caller. Only the fields that
// belong to its Type are encoded.
type Event struct {
	Type      Type                   `json:"type"`
	Content   string                 `json:"content,omitempty"`
	ToolName  string                 `json:"toolName,omitempty"`
	ToolInput map[string]interface{} `json:"toolInput,omitempty"`
}

// Status creates a progress note.
func Status(msg string) Event { return Event{Type: TypeStatus, Content: msg} }

// Text creates a draft text chunk.
func Text(text string) Event { return Event{Type: TypeText, Content: text} }

// ToolUse announces a tool invocation. A nil input is sent as {}.
func ToolUse(name string, input map[string]interface{}) Event {
	if input == nil {
		input = map[string]interface{}{}
	}
	return Event{Type: TypeToolUse, ToolName: name, ToolInput: input}
}

// ToolResult carries a tool's normalized result text.
func ToolResult(name, result string) Event {
	return Event{Type: TypeToolResult, ToolName: name, Content: result}
}

// Error reports a fatal session error.
func Error(msg string) Event { return Event{Type: TypeError, Content: msg} }

// Done terminates every session.
func Done() Event { return Event{Type: TypeDone} }

// MarshalJSON writes only the fields relevant to the event type.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case TypeToolUse:
		input := e.ToolInput
		if input == nil {
			input = map[string]interface{}{}
		}
		return json.Marshal(struct {
			Type      Type                   `json:"type"`
			ToolName  string                 `json:"toolName"`
			ToolInput map[string]interface{} `json:"toolInput"`
		}{e.Type, e.ToolName, input})
	case TypeToolResult:
		return json.Marshal(struct {
			Type     Type   `json:"type"`
			ToolName string `json:"toolName"`
			Content  string `json:"content"`
		}{e.Type, e.ToolName, e.Content})
	case TypeDone:
		return json.Marshal(struct {
			Type Type `json:"type"`
		}{e.Type})
	default:
		return json.Marshal(struct {
			Type    Type   `json:"type"`
			Content string `json:"content"`
		}{e.Type, e.Content})
	}
}

// Transcript concatenates the text events in order.
func Transcript(events []Event) string {
	var n int
	for _, e := range events {
		if e.Type == TypeText {
			n += len(e.Content)
		}
	}
	buf := make([]byte, 0, n)
	for _, e := range events {
		if e.Type == TypeText {
			buf = append(buf, e.Content...)
		}
	}
	return string(buf)
}

// FirstError returns the content of the first error event, if any.
func FirstError(events []Event) (string, bool) {
	for _, e := range events {
		if e.Type == TypeError {
			return e.Content, true
		}
	}
	return "", false
}

// Collect drains events until the channel closes.
func Collect(events <-chan Event) []Event {
	var out []Event
	for e := range events {
		out = append(out, e)
	}
	return out
}
