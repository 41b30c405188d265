package run

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/whatmeme/whatmeme-webapp/chat"
	"github.com/whatmeme/whatmeme-webapp/chat/server"
	"github.com/whatmeme/whatmeme-webapp/llm"
	"github.com/whatmeme/whatmeme-webapp/mcpbridge"
	"github.com/whatmeme/whatmeme-webapp/types"
	"github.com/xhd2015/less-gen/flags"
)

const helpServe = `whatmeme serve - start the chat server

Usage: whatmeme serve [OPTIONS]

Options:
  --port PORT            port to listen on (default: $PORT or 3000)
  --model MODEL          model name (default: $OPENAI_MODEL or gpt-4o-mini)
  --token TOKEN          provider API key (default: $OPENAI_API_KEY)
  --base-url URL         custom OpenAI-compatible endpoint
  --mcp URL              MCP tool server endpoint
  -c,--config FILE       load configuration from a YAML or JSON file
  -v,--verbose           log JSON-RPC and provider traffic
  -h,--help              show this help message

Endpoints:
  GET  /                 chat page
  POST /api/chat         chat turn, SSE by default, JSON with ?stream=false
  POST /api/mcp          raw MCP proxy
  GET  /stream           chat turn over WebSocket
  GET  /healthz          health check
`

func handleServe(args []string) error {
	f := &configFlags{}
	args, err := flags.String("-c,--config", &f.configFile).
		String("--token", &f.apiKey).
		String("--model", &f.model).
		String("--base-url", &f.baseURL).
		String("--mcp", &f.mcpServerURL).
		Int("--port", &f.port).
		Bool("-v,--verbose", &f.verbose).
		Help("-h,--help", helpServe).
		Parse(args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	config, err := ResolveConfig(f, os.Getenv)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, config.IsDevelopment())

	s, err := newServer(config, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// newServer wires the tool bridge, the model and the orchestrator into a chat server.
// Without a credential the server still starts and answers chat requests with 500.
func newServer(config types.Config, logger logr.Logger) (*server.Server, error) {
	bridge, err := mcpbridge.NewClient(mcpbridge.Config{
		URL:    config.MCPServerURL,
		Logger: logger.WithName("mcp"),
	})
	if err != nil {
		return nil, err
	}
	opts := server.ServerOptions{
		MCP:    bridge,
		Logger: logger.WithName("server"),
	}
	if config.APIKey == "" {
		logger.Info("no provider API key configured, chat requests will fail", "model", config.Model)
	} else {
		orch, err := newOrchestrator(config, bridge, logger)
		if err != nil {
			return nil, err
		}
		opts.Turns = orch
	}
	logger.Info("configuration", "model", config.Model, "mcpServer", config.MCPServerURL, "env", string(config.Env), "port", config.Port)
	return server.NewServer(config.Port, opts)
}

func newOrchestrator(config types.Config, tools chat.ToolServer, logger logr.Logger) (*chat.Orchestrator, error) {
	logLevel := types.LogLevelNone
	if config.IsDevelopment() {
		logLevel = types.LogLevelRequest
	}
	model, err := llm.NewClient(llm.Config{
		Model:    config.Model,
		Token:    config.APIKey,
		BaseURL:  config.BaseURL,
		LogLevel: logLevel,
		Logger:   logger.WithName("llm"),
	})
	if err != nil {
		return nil, err
	}
	logger.Info("model client ready", "model", model.Model(), "apiShape", string(model.APIShape()))
	return chat.NewOrchestrator(chat.Options{
		Model:      model,
		ToolServer: tools,
		ModelName:  model.Model(),
		Logger:     logger.WithName("chat"),
	})
}
