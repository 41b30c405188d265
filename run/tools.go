package run

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/whatmeme/whatmeme-webapp/internal/terminal"
	"github.com/whatmeme/whatmeme-webapp/mcpbridge"
	"github.com/xhd2015/less-gen/flags"
)

const helpTools = `whatmeme tools - list the tools of the MCP server

Usage: whatmeme tools [OPTIONS]

Options:
  --mcp URL              MCP tool server endpoint (default: $MCP_SERVER_URL)
  --json                 print the declarations as JSON
  -c,--config FILE       load configuration from a YAML or JSON file
  -v,--verbose           log JSON-RPC traffic
  -h,--help              show this help message
`

const helpMCP = `whatmeme mcp - send a raw JSON-RPC call to the MCP server

Usage: whatmeme mcp [OPTIONS] <method> [params]

params is a JSON object; when omitted and stdin is piped, it is read from stdin.

Options:
  --mcp URL              MCP tool server endpoint (default: $MCP_SERVER_URL)
  -c,--config FILE       load configuration from a YAML or JSON file
  -v,--verbose           log JSON-RPC traffic
  -h,--help              show this help message

Examples:
  whatmeme mcp tools/list
  whatmeme mcp tools/call '{"name":"get_random_meme","arguments":{}}'
`

func handleTools(args []string) error {
	f := &configFlags{}
	var asJSON bool
	args, err := flags.String("-c,--config", &f.configFile).
		String("--mcp", &f.mcpServerURL).
		Bool("--json", &asJSON).
		Bool("-v,--verbose", &f.verbose).
		Help("-h,--help", helpTools).
		Parse(args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	bridge, err := newBridge(f)
	if err != nil {
		return err
	}

	tools := bridge.ListTools(context.Background())
	source := "discovered"
	if len(tools) == 0 {
		tools = mcpbridge.StaticTools()
		source = "static fallback"
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tools)
	}
	fmt.Printf("%d tools (%s) from %s\n", len(tools), source, bridge.URL())
	for _, tool := range tools {
		fmt.Printf("  %-28s %s\n", tool.Name, tool.Description)
	}
	return nil
}

func handleMCP(args []string) error {
	f := &configFlags{}
	args, err := flags.String("-c,--config", &f.configFile).
		String("--mcp", &f.mcpServerURL).
		Bool("-v,--verbose", &f.verbose).
		Help("-h,--help", helpMCP).
		Parse(args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("requires method, e.g. tools/list")
	}
	if len(args) > 2 {
		return fmt.Errorf("unrecognized extra: %s", strings.Join(args[2:], ","))
	}
	method := args[0]

	var params json.RawMessage
	if len(args) == 2 {
		params = json.RawMessage(args[1])
	} else if !terminal.IsStdinTTY() {
		data, err := terminal.ReadPipedStdin()
		if err != nil {
			return err
		}
		if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
			params = json.RawMessage(trimmed)
		}
	}
	if len(params) > 0 && !json.Valid(params) {
		return fmt.Errorf("params is not valid JSON: %s", params)
	}

	bridge, err := newBridge(f)
	if err != nil {
		return err
	}
	resp, err := bridge.Proxy(context.Background(), method, params)
	if err != nil {
		resp = mcpbridge.ErrorEnvelope(err)
	}
	var pretty interface{}
	if json.Unmarshal(resp, &pretty) == nil {
		out, _ := json.MarshalIndent(pretty, "", "  ")
		resp = out
	}
	fmt.Println(string(resp))
	return err
}

func newBridge(f *configFlags) (*mcpbridge.Client, error) {
	config, err := ResolveConfig(f, os.Getenv)
	if err != nil {
		return nil, err
	}
	return mcpbridge.NewClient(mcpbridge.Config{
		URL:    config.MCPServerURL,
		Logger: newLogger(os.Stderr, config.IsDevelopment()).WithName("mcp"),
	})
}
