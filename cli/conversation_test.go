package cli

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/whatmeme/whatmeme-webapp/types"
)

type scriptedTransport struct {
	events  []types.StreamEvent
	err     error
	history []types.ChatMessage
	block   chan struct{}
	started chan struct{}
}

func (s *scriptedTransport) Send(ctx context.Context, history []types.ChatMessage, handle Handler) error {
	s.history = history
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	for _, ev := range s.events {
		if err := handle(ev); err != nil {
			return err
		}
	}
	return s.err
}

func TestConversationAppliesEvents(t *testing.T) {
	meta := &types.Metadata{ToolCall: &types.ToolCallMetadata{Name: "get_meme_info", Arguments: map[string]interface{}{"keyword": "골반춤"}}, MCPResponse: "첫번째"}
	tr := &scriptedTransport{events: []types.StreamEvent{
		types.DeltaEvent("안"),
		types.DeltaEvent("녕"),
		types.MetaEvent(meta),
		types.MetaEvent(&types.Metadata{MCPResponse: "두번째"}),
		types.DoneEvent(),
	}}
	var seen int
	conv := NewConversation(tr, WithEventCallback(func(msg types.Message, ev types.StreamEvent) { seen++ }))

	msg, err := conv.Send(context.Background(), "  골반춤 밈이 뭐야?  ")
	if err != nil {
		t.Fatal(err)
	}
	if msg.Content != "안녕" {
		t.Errorf("content = %q", msg.Content)
	}
	if msg.Metadata != meta {
		t.Errorf("metadata = %+v, want first meta", msg.Metadata)
	}
	if seen != 5 {
		t.Errorf("callback called %d times", seen)
	}
	if len(tr.history) != 1 || tr.history[0].Content != "골반춤 밈이 뭐야?" {
		t.Errorf("history = %+v", tr.history)
	}
	msgs := conv.Messages()
	if len(msgs) != 2 || msgs[0].Role != types.Role_User || msgs[1].Role != types.Role_Assistant {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestConversationErrorReplacesContent(t *testing.T) {
	tr := &scriptedTransport{events: []types.StreamEvent{
		types.DeltaEvent("부분"),
		types.ErrorEvent("OpenAI API 쿼터가 초과되었습니다."),
	}}
	conv := NewConversation(tr)
	msg, _ := conv.Send(context.Background(), "hi")
	if msg.Content != "⚠️ OpenAI API 쿼터가 초과되었습니다." {
		t.Errorf("content = %q", msg.Content)
	}
}

func TestConversationTransportFailure(t *testing.T) {
	tr := &scriptedTransport{err: &StatusError{StatusCode: 401, Message: GuidanceUnauthorized}}
	conv := NewConversation(tr)
	msg, err := conv.Send(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if msg.Content != errorPrefix+GuidanceUnauthorized {
		t.Errorf("content = %q", msg.Content)
	}
}

func TestConversationSendsHistory(t *testing.T) {
	tr := &scriptedTransport{events: []types.StreamEvent{types.DeltaEvent("답"), types.DoneEvent()}}
	conv := NewConversation(tr)
	conv.Send(context.Background(), "하나")
	conv.Send(context.Background(), "둘")

	want := []types.ChatMessage{
		{Role: types.Role_User, Content: "하나"},
		{Role: types.Role_Assistant, Content: "답"},
		{Role: types.Role_User, Content: "둘"},
	}
	if len(tr.history) != len(want) {
		t.Fatalf("history = %+v", tr.history)
	}
	for i := range want {
		if tr.history[i] != want[i] {
			t.Errorf("history[%d] = %+v, want %+v", i, tr.history[i], want[i])
		}
	}
}

func TestConversationRejectsConcurrentSend(t *testing.T) {
	tr := &scriptedTransport{
		events:  []types.StreamEvent{types.DoneEvent()},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	conv := NewConversation(tr)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		conv.Send(context.Background(), "first")
	}()
	<-tr.started

	if _, err := conv.Send(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
	close(tr.block)
	wg.Wait()

	if n := len(conv.Messages()); n != 2 {
		t.Errorf("messages = %d, want 2", n)
	}
}

func TestConversationRejectsEmpty(t *testing.T) {
	conv := NewConversation(&scriptedTransport{})
	if _, err := conv.Send(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v", err)
	}
}
