package mcpbridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
)

type recordedRequest struct {
	Header http.Header
	Body   map[string]json.RawMessage
}

// newTestServer answers every request with the given status, content type and body,
// recording what it received.
func newTestServer(t *testing.T, status int, contentType string, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var m map[string]json.RawMessage
		_ = json.Unmarshal(data, &m)
		mu.Lock()
		reqs = append(reqs, recordedRequest{Header: r.Header.Clone(), Body: m})
		mu.Unlock()
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{URL: url, Logger: logr.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return c
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"", true},
		{"ftp://example.com/mcp", true},
		{"https://example.com/mcp", false},
	}
	for _, tt := range tests {
		_, err := NewClient(Config{URL: tt.url})
		if (err != nil) != tt.wantErr {
			t.Errorf("NewClient(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestCallEnvelope(t *testing.T) {
	srv, reqs := newTestServer(t, http.StatusOK, "application/json", `{"jsonrpc":"2.0","id":1,"result":{"tools":[]}}`)
	c := newTestClient(t, srv.URL)

	if _, err := c.Call(context.Background(), "tools/list", map[string]interface{}{}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Call(context.Background(), "tools/call", map[string]interface{}{"name": "get_random_meme"}); err != nil {
		t.Fatal(err)
	}

	if len(*reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(*reqs))
	}
	first := (*reqs)[0]
	if _, ok := first.Body["params"]; ok {
		t.Errorf("empty params must be omitted, got %s", first.Body["params"])
	}
	if string(first.Body["jsonrpc"]) != `"2.0"` || string(first.Body["method"]) != `"tools/list"` || string(first.Body["id"]) != "1700000000000" {
		t.Errorf("unexpected envelope: %v", first.Body)
	}
	if got := first.Header.Get("Accept"); got != "application/json, text/event-stream" {
		t.Errorf("Accept = %q", got)
	}
	if got := first.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if _, ok := (*reqs)[1].Body["params"]; !ok {
		t.Error("non-empty params must be sent")
	}
}

func TestCallStatusError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, "text/plain", "internal error")
	c := newTestClient(t, srv.URL)

	_, err := c.Call(context.Background(), "tools/list", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "MCP 서버 오류 (500): internal error" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestCallTool(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}{
		{
			name:        "sse result",
			status:      http.StatusOK,
			contentType: "text/event-stream",
			body:        "event: message\ndata: {\"jsonrpc\":\"2.0\",\"id\":1,\"result\":{\"content\":[{\"type\":\"text\",\"text\":\"🔥 유행 중\"}]}}\n\n",
			want:        "🔥 유행 중",
		},
		{
			name:        "rpc error",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"unknown tool"}}`,
			want:        "오류: unknown tool",
		},
		{
			name:        "server failure",
			status:      http.StatusInternalServerError,
			contentType: "text/plain",
			body:        "internal error",
			want:        "도구 실행 오류: MCP 서버 오류 (500): internal error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, reqs := newTestServer(t, tt.status, tt.contentType, tt.body)
			c := newTestClient(t, srv.URL)

			got := c.CallTool(context.Background(), "check_meme_status", map[string]interface{}{"keyword": "무야호"})
			if got != tt.want {
				t.Errorf("CallTool() = %q, want %q", got, tt.want)
			}
			var params callToolParams
			if err := json.Unmarshal((*reqs)[0].Body["params"], &params); err != nil {
				t.Fatal(err)
			}
			if params.Name != "check_meme_status" || params.Arguments["keyword"] != "무야호" {
				t.Errorf("unexpected params: %+v", params)
			}
		})
	}
}

func TestCallToolUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	got := c.CallTool(context.Background(), "get_random_meme", nil)
	if !strings.HasPrefix(got, "도구 실행 오류: ") {
		t.Errorf("CallTool() = %q", got)
	}
}

func TestListToolsLocations(t *testing.T) {
	tool := `{"name":"get_random_meme","description":"랜덤","inputSchema":{"type":"object","properties":{}}}`
	tests := []struct {
		name string
		body string
	}{
		{"result.tools", `{"jsonrpc":"2.0","id":1,"result":{"tools":[` + tool + `]}}`},
		{"result.result.tools", `{"jsonrpc":"2.0","id":1,"result":{"result":{"tools":[` + tool + `]}}}`},
		{"top-level tools", `{"jsonrpc":"2.0","id":1,"tools":[` + tool + `]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, "application/json", tt.body)
			c := newTestClient(t, srv.URL)

			tools := c.ListTools(context.Background())
			if len(tools) != 1 || tools[0].Name != "get_random_meme" || tools[0].Description != "랜덤" {
				t.Errorf("ListTools() = %+v", tools)
			}
		})
	}
}

func TestToolsFallback(t *testing.T) {
	wantNames := []string{
		"check_meme_status",
		"get_trending_memes",
		"recommend_meme_for_context",
		"search_meme_meaning",
		"get_random_meme",
	}
	bodies := []struct {
		status int
		body   string
	}{
		{http.StatusInternalServerError, "down"},
		{http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{"tools":[]}}`},
		{http.StatusOK, `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"no"}}`},
	}
	for _, b := range bodies {
		srv, _ := newTestServer(t, b.status, "application/json", b.body)
		c := newTestClient(t, srv.URL)

		first := c.Tools(context.Background())
		second := c.Tools(context.Background())
		if !reflect.DeepEqual(first, second) {
			t.Errorf("fallback is not idempotent: %+v vs %+v", first, second)
		}
		var names []string
		for _, tool := range first {
			names = append(names, tool.Name)
		}
		if !reflect.DeepEqual(names, wantNames) {
			t.Errorf("fallback names = %v, want %v", names, wantNames)
		}
	}
}

func TestStaticToolsSchema(t *testing.T) {
	tools := StaticTools()
	check := tools[0]
	if check.Description != "밈의 현재 유행/트렌딩 상태를 5단계로 답합니다" {
		t.Errorf("description = %q", check.Description)
	}
	if got := check.InputSchema["required"]; !reflect.DeepEqual(got, []string{"keyword"}) {
		t.Errorf("required = %v", got)
	}
	props := check.InputSchema["properties"].(map[string]interface{})
	keyword := props["keyword"].(map[string]interface{})
	if keyword["type"] != "string" || keyword["description"] != "검색할 밈 키워드" {
		t.Errorf("keyword schema = %v", keyword)
	}

	trending := tools[1]
	if trending.InputSchema["type"] != "object" {
		t.Errorf("type = %v", trending.InputSchema["type"])
	}
	if _, ok := trending.InputSchema["required"]; ok {
		t.Error("get_trending_memes must have no required fields")
	}
}

func TestProxy(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"ok"}]}}`
	srv, reqs := newTestServer(t, http.StatusOK, "text/event-stream", "event: message\ndata: "+body+"\n\n")
	c := newTestClient(t, srv.URL)

	got, err := c.Proxy(context.Background(), "tools/call", json.RawMessage(`{"name":"get_random_meme","arguments":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != body {
		t.Errorf("Proxy() = %s, want %s", got, body)
	}
	if string((*reqs)[0].Body["params"]) != `{"name":"get_random_meme","arguments":{}}` {
		t.Errorf("params not forwarded verbatim: %s", (*reqs)[0].Body["params"])
	}

	if _, err := c.Proxy(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty method")
	}
}

func TestProxyParams(t *testing.T) {
	tests := []struct {
		name       string
		params     string
		wantParams string
	}{
		{"empty object kept", `{}`, `{}`},
		{"object", `{"cursor":"abc"}`, `{"cursor":"abc"}`},
		{"absent", ``, ``},
		{"null", `null`, ``},
		{"false", `false`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, reqs := newTestServer(t, http.StatusOK, "application/json", `{"jsonrpc":"2.0","id":1,"result":{"tools":[]}}`)
			c := newTestClient(t, srv.URL)

			var params json.RawMessage
			if tt.params != "" {
				params = json.RawMessage(tt.params)
			}
			if _, err := c.Proxy(context.Background(), "tools/list", params); err != nil {
				t.Fatal(err)
			}
			got, ok := (*reqs)[0].Body["params"]
			if tt.wantParams == "" {
				if ok {
					t.Errorf("params should be omitted, got %s", got)
				}
				return
			}
			if string(got) != tt.wantParams {
				t.Errorf("params = %s, want %s", got, tt.wantParams)
			}
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	got := ErrorEnvelope(&StatusError{StatusCode: 502, Body: "bad gateway"})
	want := `{"jsonrpc":"2.0","error":{"code":-32603,"message":"MCP 서버 오류 (502): bad gateway"},"id":null}`
	if string(got) != want {
		t.Errorf("ErrorEnvelope() = %s, want %s", got, want)
	}
}

func TestDiffToolNames(t *testing.T) {
	missing, extra := diffToolNames(append(StaticTools()[1:], StaticTools()[0]))
	if len(missing) != 0 || len(extra) != 0 {
		t.Errorf("reordered list should match: missing=%v extra=%v", missing, extra)
	}
	missing, extra = diffToolNames(StaticTools()[:4])
	if !reflect.DeepEqual(missing, []string{"get_random_meme"}) || extra != nil {
		t.Errorf("missing=%v extra=%v", missing, extra)
	}
}
