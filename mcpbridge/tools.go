package mcpbridge

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/whatmeme/whatmeme-webapp/types"
)

// ListTools asks the tool server for its catalog.
// Failures are logged and yield an empty list.
func (c *Client) ListTools(ctx context.Context) []types.ToolDeclaration {
	resp, err := c.Call(ctx, mcp.MethodToolsList, nil)
	if err != nil {
		c.logger.Error(err, "list MCP tools")
		return nil
	}
	if resp.Error != nil {
		c.logger.Info("MCP tools/list returned an error", "code", resp.Error.Code, "message", resp.Error.Message)
		return nil
	}
	return toolsFromResponse(resp)
}

// Tools is ListTools with the static catalog as fallback.
func (c *Client) Tools(ctx context.Context) []types.ToolDeclaration {
	tools := c.ListTools(ctx)
	if len(tools) == 0 {
		c.logger.Info("no tools discovered, using static tool list")
		return StaticTools()
	}
	if missing, extra := diffToolNames(tools); len(missing) > 0 || len(extra) > 0 {
		c.logger.Info("discovered tools differ from static tool list", "missing", missing, "extra", extra)
	}
	return tools
}

type callToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// CallTool executes a remote tool and always returns text for the model:
// the tool output, "오류: <message>" for a JSON-RPC error, or
// "도구 실행 오류: <error>" when the call itself failed.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]interface{}) string {
	if arguments == nil {
		arguments = map[string]interface{}{}
	}
	resp, err := c.Call(ctx, mcp.MethodToolsCall, callToolParams{
		Name:      name,
		Arguments: arguments,
	})
	if err != nil {
		c.logger.Error(err, "call MCP tool", "tool", name)
		return "도구 실행 오류: " + err.Error()
	}
	if resp.Error != nil {
		return "오류: " + resp.Error.Message
	}
	return ExtractText(resp.Result)
}

// toolsFromResponse looks for the list at result.tools, result.result.tools,
// then the top-level tools member.
func toolsFromResponse(resp *Response) []types.ToolDeclaration {
	var candidates []json.RawMessage
	var r struct {
		Tools  json.RawMessage `json:"tools"`
		Result *struct {
			Tools json.RawMessage `json:"tools"`
		} `json:"result"`
	}
	if len(resp.Result) > 0 && json.Unmarshal(resp.Result, &r) == nil {
		candidates = append(candidates, r.Tools)
		if r.Result != nil {
			candidates = append(candidates, r.Result.Tools)
		}
	}
	candidates = append(candidates, resp.Tools)

	for _, raw := range candidates {
		if tools := decodeTools(raw); len(tools) > 0 {
			return tools
		}
	}
	return nil
}

func decodeTools(raw json.RawMessage) []types.ToolDeclaration {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	tools := make([]types.ToolDeclaration, 0, len(items))
	for _, item := range items {
		var tool types.ToolDeclaration
		if err := json.Unmarshal(item, &tool); err != nil || tool.Name == "" {
			continue
		}
		tools = append(tools, tool)
	}
	return tools
}
