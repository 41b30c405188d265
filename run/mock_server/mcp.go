package mock_server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/whatmeme/whatmeme-webapp/mcpbridge"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

var memes = map[string]string{
	"럭키비키":   "럭키비키: 어떤 상황이든 긍정적으로 받아들이는 태도를 말하는 밈이에요. 예) \"비 와서 우산 샀는데 완전 럭키비키잖아!\"",
	"골반춤":    "골반춤: 골반을 리듬감 있게 흔드는 챌린지 춤에서 시작된 밈이에요.",
	"매끈매끈하다": "매끈매끈하다: 일이 막힘없이 술술 풀릴 때 쓰는 밈이에요.",
}

var trending = []string{"럭키비키", "골반춤", "매끈매끈하다", "중꺾마", "어쩔티비"}

// HandleMCPMock answers tools/list and tools/call like the remote meme tool server
func (m *MockServer) HandleMCPMock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	resp := rpcResponse{JSONRPC: mcp.JSONRPC_VERSION, ID: req.ID}
	switch mcp.MCPMethod(req.Method) {
	case mcp.MethodToolsList:
		resp.Result = map[string]interface{}{"tools": mcpbridge.StaticMCPTools()}
	case mcp.MethodToolsCall:
		var params struct {
			Name      string                 `json:"name"`
			Arguments map[string]interface{} `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{Code: mcp.INVALID_PARAMS, Message: err.Error()}
			break
		}
		text, err := callTool(params.Name, params.Arguments)
		if err != nil {
			resp.Error = &rpcError{Code: mcp.METHOD_NOT_FOUND, Message: err.Error()}
			break
		}
		resp.Result = mcp.NewToolResultText(text)
	default:
		resp.Error = &rpcError{Code: mcp.METHOD_NOT_FOUND, Message: fmt.Sprintf("method not found: %s", req.Method)}
	}

	if m.config.PlainMCP {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
		return
	}
	newSSEWriter(w).write("message", resp)
}

func callTool(name string, args map[string]interface{}) (string, error) {
	str := func(key string) string {
		s, _ := args[key].(string)
		return s
	}
	switch name {
	case "check_meme_status":
		keyword := str("keyword")
		for i, t := range trending {
			if strings.Contains(keyword, t) {
				return fmt.Sprintf("'%s' 밈은 현재 트렌딩 %d위, 유행 단계 %d/5 입니다.", t, i+1, 5-i), nil
			}
		}
		return fmt.Sprintf("'%s' 밈은 현재 유행 단계 1/5 입니다.", keyword), nil
	case "get_trending_memes":
		lines := make([]string, 0, len(trending))
		for i, t := range trending {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, t))
		}
		return "현재 트렌딩 TOP 5\n" + strings.Join(lines, "\n"), nil
	case "recommend_meme_for_context":
		return fmt.Sprintf("'%s' 상황에는 '럭키비키' 밈을 추천해요.", str("situation")), nil
	case "search_meme_meaning":
		keyword := str("keyword")
		for k, v := range memes {
			if strings.Contains(keyword, k) {
				return v, nil
			}
		}
		return fmt.Sprintf("'%s' 밈에 대한 정보를 찾지 못했어요.", keyword), nil
	case "get_random_meme":
		return memes["럭키비키"], nil
	}
	return "", fmt.Errorf("unknown tool: %s", name)
}
