package types

import (
	"time"

	"github.com/google/uuid"
)

// LogLevel represents the logging level for provider clients
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelRequest
	LogLevelResponse
	LogLevelDebug
)

// Role represents the role of a message sender
type Role string

const (
	Role_User      Role = "user"
	Role_Assistant Role = "assistant"
	Role_System    Role = "system"
	Role_Tool      Role = "tool"
)

// Valid reports whether the role may appear in a chat request history.
func (r Role) Valid() bool {
	return r == Role_User || r == Role_Assistant || r == Role_System
}

// ChatMessage is one history entry as sent on the wire.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat and the first frame of /stream.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the non-streaming reply of POST /api/chat.
type ChatResponse struct {
	Role     Role      `json:"role"`
	Content  string    `json:"content"`
	Metadata *Metadata `json:"metadata"`
}

// ErrorResponse is written with every non-2xx status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Message represents a message of a client-side conversation
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp int64     `json:"timestamp"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// NewMessage creates a message with a fresh id, stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Messages represents a slice of messages
type Messages []Message

// History projects the conversation onto the wire format.
func (msgs Messages) History() []ChatMessage {
	history := make([]ChatMessage, 0, len(msgs))
	for _, msg := range msgs {
		history = append(history, ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	return history
}
