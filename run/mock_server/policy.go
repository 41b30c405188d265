package mock_server

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// toolSpec is a tool offered to the fake model
type toolSpec struct {
	Name       string
	Properties map[string]interface{}
	Required   []string
}

// turnInput is what the fake model looks at, whatever the provider wire format
type turnInput struct {
	LastUser   string
	ToolResult string
	HasResult  bool
	Tools      []toolSpec
	NoTools    bool // tool choice none
	Messages   int
}

// plannedCall is a tool call the fake model will stream
type plannedCall struct {
	Name string
	Args map[string]interface{}
}

func (p *plannedCall) argsJSON() string {
	data, err := json.Marshal(p.Args)
	if err != nil {
		return "{}"
	}
	return string(data)
}

var mockResponses = []string{
	"안녕하세요! 저는 테스트용 밈 봇이에요. 궁금한 밈을 물어봐 주세요.",
	"요즘 밈이 궁금하시군요! 이건 목 서버가 보낸 응답이에요.",
	"좋은 질문이에요. 목 서버가 정상적으로 동작하고 있어요.",
	"럭키비키한 하루 보내세요! 이 응답은 무작위로 골랐어요.",
}

// GetRandomResponse returns a random canned reply
func (m *MockServer) GetRandomResponse() string {
	return mockResponses[m.intn(len(mockResponses))]
}

// respond decides between a text answer and a tool call
func (m *MockServer) respond(in turnInput) (*plannedCall, string) {
	if in.HasResult {
		return nil, "MCP 결과를 정리했어요.\n\n" + in.ToolResult
	}
	if len(in.Tools) > 0 && !in.NoTools {
		if call := m.pickToolCall(in); call != nil {
			return call, ""
		}
	}
	return nil, m.GetRandomResponse()
}

func (m *MockServer) pickToolCall(in turnInput) *plannedCall {
	var tool *toolSpec
	switch m.config.ToolCall {
	case ToolCallNever:
		return nil
	case ToolCallRandom:
		if m.float() >= 0.3 {
			return nil
		}
		tool = &in.Tools[m.intn(len(in.Tools))]
	case ToolCallAlways:
		tool = findTool(in.Tools, toolForMessage(in.LastUser))
		if tool == nil {
			tool = &in.Tools[0]
		}
	default:
		tool = findTool(in.Tools, toolForMessage(in.LastUser))
		if tool == nil {
			return nil
		}
	}
	return &plannedCall{Name: tool.Name, Args: toolArgs(*tool, in.LastUser)}
}

func findTool(tools []toolSpec, name string) *toolSpec {
	if name == "" {
		return nil
	}
	for i := range tools {
		if tools[i].Name == name {
			return &tools[i]
		}
	}
	return nil
}

// toolForMessage maps a user question to the meme tool answering it
func toolForMessage(text string) string {
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
	switch {
	case has("랜덤", "아무거나", "하나 추천"):
		return "get_random_meme"
	case has("추천", "때 쓰는", "때 밈"):
		return "recommend_meme_for_context"
	case has("핫해", "식었", "유행이야"):
		return "check_meme_status"
	case has("요즘", "최신", "지금", "핫한"):
		return "get_trending_memes"
	case has("뜻", "뭐야", "알려줘", "알아"):
		return "search_meme_meaning"
	}
	return ""
}

// memeKeyword returns the words before " 밈", or the whole message
func memeKeyword(text string) string {
	if idx := strings.Index(text, " 밈"); idx > 0 {
		return strings.TrimSpace(text[:idx])
	}
	return strings.TrimSpace(text)
}

func toolArgs(tool toolSpec, text string) map[string]interface{} {
	args := make(map[string]interface{}, len(tool.Required))
	for _, name := range tool.Required {
		switch name {
		case "keyword":
			args[name] = memeKeyword(text)
		default:
			args[name] = text
		}
	}
	return args
}

// splitHalf cuts s in two on a rune boundary
func splitHalf(s string) (string, string) {
	i := len(s) / 2
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i], s[i:]
}

// textChunks splits a reply into a few streamed pieces
func textChunks(s string) []string {
	if s == "" {
		return nil
	}
	a, b := splitHalf(s)
	if a == "" {
		return []string{b}
	}
	return []string{a, b}
}

func requiredFromSchema(schema map[string]interface{}) []string {
	raw, ok := schema["required"].([]interface{})
	if !ok {
		return nil
	}
	var required []string
	for _, r := range raw {
		if s, ok := r.(string); ok {
			required = append(required, s)
		}
	}
	return required
}

func propertiesFromSchema(schema map[string]interface{}) map[string]interface{} {
	props, _ := schema["properties"].(map[string]interface{})
	return props
}

// contentText reads a message content that is either a string or a list of text parts
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var parts []struct {
		Type    string          `json:"type"`
		Text    string          `json:"text"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	var b strings.Builder
	for _, p := range parts {
		switch p.Type {
		case "text":
			b.WriteString(p.Text)
		case "tool_result":
			b.WriteString(contentText(p.Content))
		}
	}
	return b.String()
}
