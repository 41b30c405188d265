package mock_server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type openAIRequest struct {
	Model      string          `json:"model"`
	Messages   []openAIMessage `json:"messages"`
	Tools      []openAITool    `json:"tools,omitempty"`
	ToolChoice json.RawMessage `json:"tool_choice,omitempty"`
	Stream     bool            `json:"stream,omitempty"`
}

type openAIMessage struct {
	Role       string          `json:"role"`
	Content    json.RawMessage `json:"content,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
}

type openAITool struct {
	Type     string `json:"type"`
	Function struct {
		Name       string                 `json:"name"`
		Parameters map[string]interface{} `json:"parameters,omitempty"`
	} `json:"function"`
}

type openAIChunk struct {
	ID      string              `json:"id"`
	Object  string              `json:"object"`
	Created int64               `json:"created"`
	Model   string              `json:"model"`
	Choices []openAIChunkChoice `json:"choices"`
	Usage   *openAIUsage        `json:"usage,omitempty"`
}

type openAIChunkChoice struct {
	Index        int         `json:"index"`
	Delta        openAIDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

type openAIDelta struct {
	Role      string                `json:"role,omitempty"`
	Content   string                `json:"content,omitempty"`
	ToolCalls []openAIToolCallDelta `json:"tool_calls,omitempty"`
}

type openAIToolCallDelta struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name,omitempty"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (req *openAIRequest) turnInput() turnInput {
	in := turnInput{Messages: len(req.Messages)}
	var choice string
	if json.Unmarshal(req.ToolChoice, &choice) == nil && choice == "none" {
		in.NoTools = true
	}
	for _, t := range req.Tools {
		in.Tools = append(in.Tools, toolSpec{
			Name:       t.Function.Name,
			Properties: propertiesFromSchema(t.Function.Parameters),
			Required:   requiredFromSchema(t.Function.Parameters),
		})
	}
	if n := len(req.Messages); n > 0 {
		last := req.Messages[n-1]
		if last.Role == "tool" {
			in.HasResult = true
			in.ToolResult = contentText(last.Content)
		}
	}
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			in.LastUser = contentText(req.Messages[i].Content)
			break
		}
	}
	return in
}

// HandleOpenAIMock streams a chat completion
func (m *MockServer) HandleOpenAIMock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req openAIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	in := req.turnInput()
	call, text := m.respond(in)

	id := fmt.Sprintf("chatcmpl-mock-%d", m.intn(1<<30))
	created := time.Now().Unix()
	chunk := func(delta openAIDelta, finish string) openAIChunk {
		c := openAIChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   req.Model,
			Choices: []openAIChunkChoice{{Delta: delta}},
		}
		if finish != "" {
			c.Choices[0].FinishReason = &finish
		}
		return c
	}

	sse := newSSEWriter(w)
	frames := []openAIChunk{chunk(openAIDelta{Role: "assistant"}, "")}
	finish := "stop"
	if call != nil {
		finish = "tool_calls"
		a, b := splitHalf(call.argsJSON())
		first := openAIToolCallDelta{Index: 0, ID: fmt.Sprintf("call_mock_%d", m.intn(1<<30)), Type: "function"}
		first.Function.Name = call.Name
		first.Function.Arguments = a
		rest := openAIToolCallDelta{Index: 0}
		rest.Function.Arguments = b
		frames = append(frames,
			chunk(openAIDelta{ToolCalls: []openAIToolCallDelta{first}}, ""),
			chunk(openAIDelta{ToolCalls: []openAIToolCallDelta{rest}}, ""),
		)
	} else {
		for _, piece := range textChunks(text) {
			frames = append(frames, chunk(openAIDelta{Content: piece}, ""))
		}
	}
	frames = append(frames, chunk(openAIDelta{}, finish))
	frames = append(frames, openAIChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   req.Model,
		Choices: []openAIChunkChoice{},
		Usage:   &openAIUsage{PromptTokens: 10 * in.Messages, CompletionTokens: 20, TotalTokens: 10*in.Messages + 20},
	})

	for _, f := range frames {
		if err := sse.write("", f); err != nil {
			return
		}
	}
	sse.write("", "[DONE]")
}
