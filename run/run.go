package run

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed VERSION.txt
var version string

const help = `
whatmeme - Korean meme chat service

Usage: whatmeme <cmd> [OPTIONS]

Available commands:
  serve                           start the chat server (web page, /api/chat, /api/mcp, /stream)
  chat [msg]                      chat with a running server, interactive when msg is omitted
  tools                           list the tools of the MCP server
  mcp <method> [params]           send a raw JSON-RPC call to the MCP server
  mock-server                     start mock LLM providers and a mock MCP server
  models                          list known models
  version                         version info
  help                            show help message

Environment:
  OPENAI_API_KEY                  provider credential (ANTHROPIC_API_KEY / GEMINI_API_KEY for claude / gemini models)
  OPENAI_MODEL                    model name (default: gpt-4o-mini)
  OPENAI_BASE_URL                 custom OpenAI-compatible endpoint
  MCP_SERVER_URL                  MCP tool server endpoint
  APP_ENV, NODE_ENV               "development" enables verbose logging
  PORT                            listen port (default: 3000)

Examples:
  whatmeme serve --port 3000
  whatmeme chat '요즘 핫한 밈 뭐야?'
  whatmeme mcp tools/call '{"name":"search_meme_meaning","arguments":{"keyword":"럭키비키"}}'
  whatmeme mock-server --port 8080
`

type Options struct {
	BaseCmd string
}

func getHelp(baseCmd string) string {
	if baseCmd == "" {
		return help
	}
	return strings.ReplaceAll(help, "whatmeme", baseCmd)
}

func Main(args []string, opts Options) error {
	if len(args) == 0 {
		return fmt.Errorf("requires sub command: serve, chat, tools, mcp. try `whatmeme --help`")
	}
	cmd := args[0]
	args = args[1:]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		fmt.Print(strings.TrimPrefix(getHelp(opts.BaseCmd), "\n"))
		return nil
	}
	switch cmd {
	case "serve":
		return handleServe(args)
	case "chat":
		return handleChat(args)
	case "tools":
		return handleTools(args)
	case "mcp":
		return handleMCP(args)
	case "mock-server":
		return handleMockServer(args)
	case "models":
		return listModels()
	case "version":
		fmt.Println(strings.TrimSpace(version))
		return nil
	default:
		return fmt.Errorf("unrecognized: %s, use 'whatmeme help' to see available commands", cmd)
	}
}
