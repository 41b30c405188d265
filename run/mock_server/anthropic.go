package mock_server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type anthropicRequest struct {
	Model    string             `json:"model"`
	Messages []anthropicMessage `json:"messages"`
	Tools    []struct {
		Name        string                 `json:"name"`
		InputSchema map[string]interface{} `json:"input_schema"`
	} `json:"tools,omitempty"`
	ToolChoice *struct {
		Type string `json:"type"`
	} `json:"tool_choice,omitempty"`
}

type anthropicMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

func (req *anthropicRequest) turnInput() turnInput {
	in := turnInput{Messages: len(req.Messages)}
	if req.ToolChoice != nil && req.ToolChoice.Type == "none" {
		in.NoTools = true
	}
	for _, t := range req.Tools {
		in.Tools = append(in.Tools, toolSpec{
			Name:       t.Name,
			Properties: propertiesFromSchema(t.InputSchema),
			Required:   requiredFromSchema(t.InputSchema),
		})
	}
	for i := len(req.Messages) - 1; i >= 0; i-- {
		msg := req.Messages[i]
		if msg.Role != "user" {
			continue
		}
		var blocks []struct {
			Type string `json:"type"`
		}
		isResult := json.Unmarshal(msg.Content, &blocks) == nil && len(blocks) > 0 && blocks[0].Type == "tool_result"
		if isResult {
			if i == len(req.Messages)-1 {
				in.HasResult = true
				in.ToolResult = contentText(msg.Content)
			}
			continue
		}
		in.LastUser = contentText(msg.Content)
		break
	}
	return in
}

// HandleAnthropicMock streams a message
func (m *MockServer) HandleAnthropicMock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req anthropicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	in := req.turnInput()
	call, text := m.respond(in)

	type event struct {
		name string
		data map[string]interface{}
	}
	events := []event{{"message_start", map[string]interface{}{
		"type": "message_start",
		"message": map[string]interface{}{
			"id":            fmt.Sprintf("msg_mock_%d", m.intn(1<<30)),
			"type":          "message",
			"role":          "assistant",
			"model":         req.Model,
			"content":       []interface{}{},
			"stop_reason":   nil,
			"stop_sequence": nil,
			"usage":         map[string]interface{}{"input_tokens": 10 * in.Messages, "output_tokens": 1},
		},
	}}}

	stopReason := "end_turn"
	if call != nil {
		stopReason = "tool_use"
		a, b := splitHalf(call.argsJSON())
		events = append(events, event{"content_block_start", map[string]interface{}{
			"type":  "content_block_start",
			"index": 0,
			"content_block": map[string]interface{}{
				"type":  "tool_use",
				"id":    fmt.Sprintf("toolu_mock_%d", m.intn(1<<30)),
				"name":  call.Name,
				"input": map[string]interface{}{},
			},
		}})
		for _, part := range []string{a, b} {
			events = append(events, event{"content_block_delta", map[string]interface{}{
				"type":  "content_block_delta",
				"index": 0,
				"delta": map[string]interface{}{"type": "input_json_delta", "partial_json": part},
			}})
		}
	} else {
		events = append(events, event{"content_block_start", map[string]interface{}{
			"type":          "content_block_start",
			"index":         0,
			"content_block": map[string]interface{}{"type": "text", "text": ""},
		}})
		for _, piece := range textChunks(text) {
			events = append(events, event{"content_block_delta", map[string]interface{}{
				"type":  "content_block_delta",
				"index": 0,
				"delta": map[string]interface{}{"type": "text_delta", "text": piece},
			}})
		}
	}
	events = append(events,
		event{"content_block_stop", map[string]interface{}{"type": "content_block_stop", "index": 0}},
		event{"message_delta", map[string]interface{}{
			"type":  "message_delta",
			"delta": map[string]interface{}{"stop_reason": stopReason, "stop_sequence": nil},
			"usage": map[string]interface{}{"output_tokens": 20},
		}},
		event{"message_stop", map[string]interface{}{"type": "message_stop"}},
	)

	sse := newSSEWriter(w)
	for _, ev := range events {
		if err := sse.write(ev.name, ev.data); err != nil {
			return
		}
	}
}
