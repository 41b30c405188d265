package mock_server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/whatmeme/whatmeme-webapp/chat"
	"github.com/whatmeme/whatmeme-webapp/chat/server"
	"github.com/whatmeme/whatmeme-webapp/cli"
	"github.com/whatmeme/whatmeme-webapp/llm"
	"github.com/whatmeme/whatmeme-webapp/mcpbridge"
	"github.com/whatmeme/whatmeme-webapp/providers"
	"github.com/whatmeme/whatmeme-webapp/types"
)

func startMock(t *testing.T, config Config) *httptest.Server {
	t.Helper()
	if config.MCPPath == "" {
		config.MCPPath = "/mcp"
	}
	handler, err := NewMockServer(config).Handler()
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newOrchestrator(t *testing.T, mockURL string, model string) *chat.Orchestrator {
	t.Helper()
	baseURL := mockURL
	if shape, _ := providers.GetModelAPIShape(model); shape == providers.APIShapeOpenAI {
		baseURL += "/"
	}
	client, err := llm.NewClient(llm.Config{Model: model, Token: "test-key", BaseURL: baseURL, Logger: logr.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	tools, err := mcpbridge.NewClient(mcpbridge.Config{URL: mockURL + "/mcp", Logger: logr.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	orch, err := chat.NewOrchestrator(chat.Options{Model: client, ToolServer: tools, ModelName: model, Logger: logr.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	return orch
}

func streamTurn(t *testing.T, orch *chat.Orchestrator, text string) []types.StreamEvent {
	t.Helper()
	var events []types.StreamEvent
	err := orch.Stream(context.Background(), []types.ChatMessage{{Role: types.Role_User, Content: text}}, func(ev types.StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v (events %+v)", err, events)
	}
	return events
}

func summarize(events []types.StreamEvent) (content string, metas []*types.Metadata, last types.StreamEvent) {
	for _, ev := range events {
		switch ev.Type {
		case types.EventType_Delta:
			content += ev.Content
		case types.EventType_Meta:
			metas = append(metas, ev.Metadata)
		}
	}
	return content, metas, events[len(events)-1]
}

func TestToolTurnAllProviders(t *testing.T) {
	srv := startMock(t, Config{})
	for _, model := range []string{providers.ModelGPT4oMini, providers.ModelClaude3_5Haiku, providers.ModelGemini2_0_Flash} {
		t.Run(model, func(t *testing.T) {
			events := streamTurn(t, newOrchestrator(t, srv.URL, model), "럭키비키 밈 뜻 알려줘")
			content, metas, last := summarize(events)
			if last.Type != types.EventType_Done {
				t.Fatalf("last event = %+v", last)
			}
			if len(metas) != 1 {
				t.Fatalf("meta events = %d, want 1", len(metas))
			}
			meta := metas[0]
			if meta.ToolCall.Name != "search_meme_meaning" || meta.ToolCall.Arguments["keyword"] != "럭키비키" {
				t.Errorf("tool call = %+v", meta.ToolCall)
			}
			if !strings.HasPrefix(meta.MCPResponse, "럭키비키:") {
				t.Errorf("mcpResponse = %q", meta.MCPResponse)
			}
			if !strings.Contains(content, meta.MCPResponse) {
				t.Errorf("content %q does not use the tool result", content)
			}
		})
	}
}

func TestPlainTurn(t *testing.T) {
	srv := startMock(t, Config{Provider: "openai", ToolCall: ToolCallNever})
	events := streamTurn(t, newOrchestrator(t, srv.URL, providers.ModelGPT4oMini), "안녕")
	content, metas, last := summarize(events)
	if last.Type != types.EventType_Done || len(metas) != 0 || content == "" {
		t.Errorf("events = %+v", events)
	}
}

func TestPlainJSONToolServer(t *testing.T) {
	srv := startMock(t, Config{PlainMCP: true})
	events := streamTurn(t, newOrchestrator(t, srv.URL, providers.ModelGPT4oMini), "요즘 핫한 밈 뭐야?")
	_, metas, _ := summarize(events)
	if len(metas) != 1 || metas[0].ToolCall.Name != "get_trending_memes" {
		t.Fatalf("metas = %+v", metas)
	}
	if !strings.Contains(metas[0].MCPResponse, "TOP 5") {
		t.Errorf("mcpResponse = %q", metas[0].MCPResponse)
	}
}

func TestToolDiscoveryFromMock(t *testing.T) {
	srv := startMock(t, Config{})
	client, err := mcpbridge.NewClient(mcpbridge.Config{URL: srv.URL + "/mcp", Logger: logr.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	got := client.ListTools(context.Background())
	want := mcpbridge.StaticTools()
	if len(got) != len(want) {
		t.Fatalf("discovered %d tools, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i].Name {
			t.Errorf("tool[%d] = %s, want %s", i, got[i].Name, want[i].Name)
		}
	}
}

// full stack: browser-style SSE request through the chat server
func TestChatServerEndToEnd(t *testing.T) {
	mock := startMock(t, Config{Provider: "openai"})
	tools, _ := mcpbridge.NewClient(mcpbridge.Config{URL: mock.URL + "/mcp", Logger: logr.Discard()})
	s, err := server.NewServer(0, server.ServerOptions{
		Turns:  newOrchestrator(t, mock.URL, providers.ModelGPT4oMini),
		MCP:    tools,
		Logger: logr.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}
	app := httptest.NewServer(s.Handler())
	defer app.Close()

	resp, err := http.Post(app.URL+"/api/chat", "application/json", strings.NewReader(`{"messages":[{"role":"user","content":"밈 랜덤 추천"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var frames int
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), "data: ") {
			frames++
		}
	}
	if frames < 3 {
		t.Errorf("got %d frames", frames)
	}

	c, err := cli.NewClient(app.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	conv := cli.NewConversation(c)
	msg, err := conv.Send(context.Background(), "밈 랜덤 추천")
	if err != nil {
		t.Fatal(err)
	}
	if msg.Metadata == nil || msg.Metadata.ToolCall.Name != "get_random_meme" {
		t.Errorf("metadata = %+v", msg.Metadata)
	}
	if !strings.Contains(msg.Content, "럭키비키") {
		t.Errorf("content = %q", msg.Content)
	}
}

func TestToolForMessage(t *testing.T) {
	tests := map[string]string{
		"밈 랜덤 추천":         "get_random_meme",
		"밈 하나 추천해줘":       "get_random_meme",
		"시험 스트레스 받을 때 밈":  "recommend_meme_for_context",
		"매끈매끈하다 밈 핫해?":    "check_meme_status",
		"요즘 핫한 밈 뭐야?":     "get_trending_memes",
		"골반춤 밈이 뭐야?":      "search_meme_meaning",
		"오늘 날씨 좋다":        "",
	}
	for text, want := range tests {
		if got := toolForMessage(text); got != want {
			t.Errorf("toolForMessage(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestSplitHalfKeepsRunes(t *testing.T) {
	for _, s := range []string{`{"keyword":"럭키비키"}`, "가", "ab", ""} {
		a, b := splitHalf(s)
		if a+b != s {
			t.Errorf("splitHalf(%q) = %q + %q", s, a, b)
		}
		if !strings.HasPrefix(s, a) || (a != "" && !isValidUTF8(a)) {
			t.Errorf("bad split of %q: %q", s, a)
		}
	}
}

func isValidUTF8(s string) bool {
	return strings.ToValidUTF8(s, "�") == s
}
