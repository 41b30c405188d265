package cli

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/whatmeme/whatmeme-webapp/types"
)

var (
	ErrBusy         = errors.New("a message is already being answered")
	ErrEmptyMessage = errors.New("message is empty")
)

const errorPrefix = "⚠️ "

// Conversation keeps the message list of one chat session.
// Only one Send may be in flight at a time.
type Conversation struct {
	transport Transport
	onEvent   func(msg types.Message, ev types.StreamEvent)

	busy atomic.Bool

	mu       sync.Mutex
	messages types.Messages
}

// ConversationOption configures a Conversation
type ConversationOption func(c *Conversation)

// WithEventCallback is called after each event is applied, with a copy of the assistant message
func WithEventCallback(fn func(msg types.Message, ev types.StreamEvent)) ConversationOption {
	return func(c *Conversation) {
		c.onEvent = fn
	}
}

func NewConversation(transport Transport, opts ...ConversationOption) *Conversation {
	c := &Conversation{transport: transport}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Messages returns a snapshot of the conversation
func (c *Conversation) Messages() types.Messages {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(types.Messages(nil), c.messages...)
}

// Send appends text as a user message and streams the answer into a new
// assistant message, which is returned once the turn ends. Transport and
// server failures end up in the assistant content, not in the error.
func (c *Conversation) Send(ctx context.Context, text string) (types.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Message{}, ErrEmptyMessage
	}
	if !c.busy.CompareAndSwap(false, true) {
		return types.Message{}, ErrBusy
	}
	defer c.busy.Store(false)

	c.mu.Lock()
	c.messages = append(c.messages, types.NewMessage(types.Role_User, text))
	history := c.messages.History()
	c.messages = append(c.messages, types.NewMessage(types.Role_Assistant, ""))
	idx := len(c.messages) - 1
	c.mu.Unlock()

	err := c.transport.Send(ctx, history, func(ev types.StreamEvent) error {
		c.apply(idx, ev)
		return nil
	})
	if err != nil {
		c.apply(idx, types.ErrorEvent(err.Error()))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages[idx], nil
}

func (c *Conversation) apply(idx int, ev types.StreamEvent) {
	c.mu.Lock()
	msg := &c.messages[idx]
	switch ev.Type {
	case types.EventType_Delta:
		msg.Content += ev.Content
	case types.EventType_Meta:
		if msg.Metadata == nil {
			msg.Metadata = ev.Metadata
		}
	case types.EventType_Error:
		msg.Content = errorPrefix + ev.Error
	}
	snapshot := *msg
	c.mu.Unlock()

	if c.onEvent != nil {
		c.onEvent(snapshot, ev)
	}
}
