package run

import (
	"fmt"

	"github.com/whatmeme/whatmeme-webapp/run/mock_server"
	"github.com/xhd2015/less-gen/flags"
)

const helpMockServer = `whatmeme mock-server - start mock LLM providers and a mock MCP server

Usage: whatmeme mock-server [OPTIONS]

Options:
  --port PORT            port to listen on (default: 8080)
  --provider NAME        openai, anthropic, gemini or all (default: all)
  --tool-call MODE       keyword, always, random or never (default: keyword)
  --mcp-path PATH        path of the mock MCP server (default: /mcp)
  --plain-mcp            answer MCP calls with application/json instead of SSE
  -h,--help              show this help message

Examples:
  whatmeme mock-server --port 8080
  OPENAI_BASE_URL=http://localhost:8080 MCP_SERVER_URL=http://localhost:8080/mcp OPENAI_API_KEY=mock whatmeme serve
`

func handleMockServer(args []string) error {
	port := 8080
	var provider string
	var toolCall string
	mcpPath := "/mcp"
	var plainMCP bool
	args, err := flags.String("--provider", &provider).
		Int("--port", &port).
		String("--tool-call", &toolCall).
		String("--mcp-path", &mcpPath).
		Bool("--plain-mcp", &plainMCP).
		Help("-h,--help", helpMockServer).
		Parse(args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	switch mock_server.ToolCallMode(toolCall) {
	case "", mock_server.ToolCallKeyword, mock_server.ToolCallAlways, mock_server.ToolCallRandom, mock_server.ToolCallNever:
	default:
		return fmt.Errorf("invalid --tool-call: %s", toolCall)
	}
	return mock_server.Start(mock_server.Config{
		Port:     port,
		Provider: provider,
		ToolCall: mock_server.ToolCallMode(toolCall),
		MCPPath:  mcpPath,
		PlainMCP: plainMCP,
	})
}
