package mcpbridge

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/whatmeme/whatmeme-webapp/types"
)

// StaticMCPTools is the built-in copy of the tool server's catalog.
func StaticMCPTools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("check_meme_status",
			mcp.WithDescription("밈의 현재 유행/트렌딩 상태를 5단계로 답합니다"),
			mcp.WithString("keyword", mcp.Required(), mcp.Description("검색할 밈 키워드")),
		),
		mcp.NewTool("get_trending_memes",
			mcp.WithDescription("현재 트렌딩 TOP 5 밈 목록을 반환합니다"),
		),
		mcp.NewTool("recommend_meme_for_context",
			mcp.WithDescription("주어진 상황에 맞는 밈을 추천합니다"),
			mcp.WithString("situation", mcp.Required(), mcp.Description("상황 설명")),
		),
		mcp.NewTool("search_meme_meaning",
			mcp.WithDescription("밈의 뜻/유래/사용예시를 설명합니다"),
			mcp.WithString("keyword", mcp.Required(), mcp.Description("검색할 밈 키워드")),
		),
		mcp.NewTool("get_random_meme",
			mcp.WithDescription("랜덤으로 밈 하나를 선택해서 뜻/유래/예시를 보여줍니다"),
		),
	}
}

// StaticTools returns the fallback declarations used when discovery yields nothing.
// Every call returns a fresh, identical list.
func StaticTools() []types.ToolDeclaration {
	tools := StaticMCPTools()
	decls := make([]types.ToolDeclaration, 0, len(tools))
	for _, tool := range tools {
		decls = append(decls, declarationFromTool(tool))
	}
	return decls
}

func declarationFromTool(tool mcp.Tool) types.ToolDeclaration {
	properties := make(map[string]interface{}, len(tool.InputSchema.Properties))
	for name, prop := range tool.InputSchema.Properties {
		properties[name] = prop
	}
	schema := map[string]interface{}{
		"type":       tool.InputSchema.Type,
		"properties": properties,
	}
	if len(tool.InputSchema.Required) > 0 {
		schema["required"] = append([]string(nil), tool.InputSchema.Required...)
	}
	return types.ToolDeclaration{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: schema,
	}
}

// diffToolNames compares discovered tool names against the static catalog.
func diffToolNames(discovered []types.ToolDeclaration) (missing []string, extra []string) {
	known := make(map[string]bool)
	for _, tool := range StaticMCPTools() {
		known[tool.Name] = true
	}
	seen := make(map[string]bool, len(discovered))
	for _, tool := range discovered {
		seen[tool.Name] = true
		if !known[tool.Name] {
			extra = append(extra, tool.Name)
		}
	}
	for _, tool := range StaticMCPTools() {
		if !seen[tool.Name] {
			missing = append(missing, tool.Name)
		}
	}
	return missing, extra
}
