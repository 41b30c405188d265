package mock_server

import (
	"encoding/json"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiAPIRequest represents the minimal Gemini API request structure for parsing
// (SDK doesn't provide request parsing types, only response types)
type GeminiAPIRequest struct {
	Contents   []*genai.Content  `json:"contents"`
	Tools      []*genai.Tool     `json:"tools,omitempty"`
	ToolConfig *genai.ToolConfig `json:"toolConfig,omitempty"`
}

func (req *GeminiAPIRequest) turnInput() turnInput {
	in := turnInput{Messages: len(req.Contents)}
	if req.ToolConfig != nil && req.ToolConfig.FunctionCallingConfig != nil &&
		req.ToolConfig.FunctionCallingConfig.Mode == genai.FunctionCallingConfigModeNone {
		in.NoTools = true
	}
	for _, tool := range req.Tools {
		for _, decl := range tool.FunctionDeclarations {
			spec := toolSpec{Name: decl.Name}
			if decl.Parameters != nil {
				spec.Required = decl.Parameters.Required
			}
			in.Tools = append(in.Tools, spec)
		}
	}
	for i := len(req.Contents) - 1; i >= 0; i-- {
		content := req.Contents[i]
		if content == nil || content.Role != genai.RoleUser {
			continue
		}
		var text strings.Builder
		var response *genai.FunctionResponse
		for _, part := range content.Parts {
			if part.FunctionResponse != nil {
				response = part.FunctionResponse
			}
			text.WriteString(part.Text)
		}
		if response != nil {
			if i == len(req.Contents)-1 {
				in.HasResult = true
				if out, ok := response.Response["output"].(string); ok {
					in.ToolResult = out
				} else {
					data, _ := json.Marshal(response.Response)
					in.ToolResult = string(data)
				}
			}
			continue
		}
		in.LastUser = text.String()
		break
	}
	return in
}

// HandleGeminiMock serves :streamGenerateContent with alt=sse
func (m *MockServer) HandleGeminiMock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req GeminiAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	in := req.turnInput()
	call, text := m.respond(in)

	var responses []*genai.GenerateContentResponse
	if call != nil {
		responses = append(responses, geminiResponse(&genai.Part{
			FunctionCall: &genai.FunctionCall{Name: call.Name, Args: call.Args},
		}))
	} else {
		for _, piece := range textChunks(text) {
			responses = append(responses, geminiResponse(&genai.Part{Text: piece}))
		}
	}
	if len(responses) > 0 {
		last := responses[len(responses)-1]
		last.Candidates[0].FinishReason = genai.FinishReasonStop
		last.UsageMetadata = &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     int32(10 * in.Messages),
			CandidatesTokenCount: 20,
			TotalTokenCount:      int32(10*in.Messages + 20),
		}
	}

	sse := newSSEWriter(w)
	for _, resp := range responses {
		if err := sse.write("", resp); err != nil {
			return
		}
	}
}

func geminiResponse(part *genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{part},
				Role:  genai.RoleModel,
			},
		}},
	}
}
