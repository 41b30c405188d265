package mcpbridge

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/whatmeme/whatmeme-webapp/internal/jsondecode"
)

// nested SSE payloads are unwrapped at most this many times
const maxUnwrapDepth = 8

// Normalize turns a raw tool server body into one logical JSON-RPC response.
//
// A JSON body is taken as is. Otherwise the first JSON data payload of an
// SSE-framed body is used, then a bare JSON body. In every case a response
// whose result.content[0].text is itself SSE-framed is replaced by the
// payload inside. Bodies that yield nothing become a synthesized success
// envelope carrying the raw text, so callers never see a parse error.
func Normalize(contentType string, body []byte, id int64) json.RawMessage {
	raw, ok := logicalBody(contentType, body)
	if !ok {
		return synthesize(string(body), id)
	}
	return unwrapNested(raw)
}

func logicalBody(contentType string, body []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if isJSONContentType(contentType) && jsondecode.IsObject(trimmed) {
		return json.RawMessage(trimmed), true
	}
	if data, ok := FirstJSONData(string(body)); ok {
		return data, true
	}
	if jsondecode.IsObject(trimmed) {
		return json.RawMessage(trimmed), true
	}
	return nil, false
}

func isJSONContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

func unwrapNested(raw json.RawMessage) json.RawMessage {
	for i := 0; i < maxUnwrapDepth; i++ {
		text, ok := firstContentText(raw)
		if !ok {
			return raw
		}
		inner, ok := FirstJSONData(text)
		if !ok {
			return raw
		}
		raw = inner
	}
	return raw
}

func firstContentText(raw json.RawMessage) (string, bool) {
	var env struct {
		Result *struct {
			Content []struct {
				Text *string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", false
	}
	if env.Result == nil || len(env.Result.Content) == 0 || env.Result.Content[0].Text == nil {
		return "", false
	}
	return *env.Result.Content[0].Text, true
}

type textResult struct {
	Content []mcp.TextContent `json:"content"`
}

type synthesizedResponse struct {
	JSONRPC string     `json:"jsonrpc"`
	Result  textResult `json:"result"`
	ID      int64      `json:"id"`
}

func synthesize(text string, id int64) json.RawMessage {
	data, err := json.Marshal(synthesizedResponse{
		JSONRPC: mcp.JSONRPC_VERSION,
		Result: textResult{
			Content: []mcp.TextContent{mcp.NewTextContent(text)},
		},
		ID: id,
	})
	if err != nil {
		// strings always marshal
		panic(err)
	}
	return data
}
