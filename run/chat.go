package run

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/whatmeme/whatmeme-webapp/cli"
	"github.com/whatmeme/whatmeme-webapp/internal/terminal"
	"github.com/whatmeme/whatmeme-webapp/types"
	"github.com/xhd2015/less-gen/flags"
)

const helpChat = `whatmeme chat - chat with a running whatmeme server

Usage: whatmeme chat [OPTIONS] [msg]

Without msg, reads one message per line from stdin until EOF or "exit".

Options:
  --server URL           server address (default: http://localhost:$PORT)
  --ws                   use the WebSocket /stream endpoint
  --no-stream            request the JSON reply instead of the event stream
  -h,--help              show this help message

Examples:
  whatmeme chat '럭키비키 밈 알려줘'
  whatmeme chat --server http://localhost:3000
`

func handleChat(args []string) error {
	var serverURL string
	var useWebSocket bool
	var noStream bool
	args, err := flags.String("--server", &serverURL).
		Bool("--ws", &useWebSocket).
		Bool("--no-stream", &noStream).
		Help("-h,--help", helpChat).
		Parse(args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("unrecognized extra: %s", strings.Join(args[1:], ","))
	}
	if serverURL == "" {
		port := types.DefaultPort
		var config types.Config
		if err := ApplyEnv(&config, os.Getenv); err == nil && config.Port != 0 {
			port = config.Port
		}
		serverURL = fmt.Sprintf("http://localhost:%d", port)
	}

	var transport cli.Transport
	if useWebSocket {
		transport, err = cli.NewWebSocketClient(serverURL)
	} else {
		var c *cli.Client
		c, err = cli.NewClient(serverURL, nil)
		if c != nil {
			c.NoStream = noStream
		}
		transport = c
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	renderer := cli.NewRenderer(os.Stdout)
	conv := cli.NewConversation(transport, cli.WithEventCallback(renderer.Event))

	if len(args) == 1 {
		return sendAndRender(ctx, conv, renderer, args[0])
	}
	return chatLoop(ctx, conv, renderer, os.Stdin, terminal.IsStdinTTY())
}

func sendAndRender(ctx context.Context, conv *cli.Conversation, renderer *cli.Renderer, text string) error {
	msg, err := conv.Send(ctx, text)
	if err != nil {
		return err
	}
	renderer.Finish(msg)
	return nil
}

func chatLoop(ctx context.Context, conv *cli.Conversation, renderer *cli.Renderer, in io.Reader, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		err := sendAndRender(ctx, conv, renderer, line)
		if errors.Is(err, cli.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
