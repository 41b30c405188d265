package types

// EventType discriminates the stream event union
type EventType string

const (
	EventType_Delta EventType = "delta"
	EventType_Meta  EventType = "meta"
	EventType_Error EventType = "error"
	EventType_Done  EventType = "done"
)

// ToolCallMetadata records the single tool invocation of a turn.
type ToolCallMetadata struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Metadata is the tool-call evidence attached to an assistant answer.
type Metadata struct {
	ToolCall    *ToolCallMetadata `json:"toolCall,omitempty"`
	MCPResponse string            `json:"mcpResponse"`
}

// StreamEvent is one unit of the chat response stream.
//
//	{"type":"delta","content":"..."}
//	{"type":"meta","metadata":{"toolCall":{...},"mcpResponse":"..."}}
//	{"type":"error","error":"..."}
//	{"type":"done"}
type StreamEvent struct {
	Type     EventType `json:"type"`
	Content  string    `json:"content,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func DeltaEvent(content string) StreamEvent {
	return StreamEvent{Type: EventType_Delta, Content: content}
}

func MetaEvent(metadata *Metadata) StreamEvent {
	return StreamEvent{Type: EventType_Meta, Metadata: metadata}
}

func ErrorEvent(msg string) StreamEvent {
	return StreamEvent{Type: EventType_Error, Error: msg}
}

func DoneEvent() StreamEvent {
	return StreamEvent{Type: EventType_Done}
}

// Terminal reports whether no event may follow e.
func (e StreamEvent) Terminal() bool {
	return e.Type == EventType_Done || e.Type == EventType_Error
}
