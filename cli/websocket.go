package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/whatmeme/whatmeme-webapp/types"
)

// WebSocketClient sends turns over the /stream endpoint, one connection per turn.
type WebSocketClient struct {
	url    string
	dialer *websocket.Dialer
}

var _ Transport = (*WebSocketClient)(nil)

func NewWebSocketClient(server string) (*WebSocketClient, error) {
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	// Convert http/https to ws/wss
	scheme := "ws"
	switch serverURL.Scheme {
	case "https", "wss":
		scheme = "wss"
	case "http", "ws":
	default:
		return nil, fmt.Errorf("invalid server URL %q: unsupported scheme", server)
	}
	wsURL := &url.URL{
		Scheme: scheme,
		Host:   serverURL.Host,
		Path:   strings.TrimSuffix(serverURL.Path, "/") + "/stream",
	}
	return &WebSocketClient{url: wsURL.String(), dialer: websocket.DefaultDialer}, nil
}

func (c *WebSocketClient) Send(ctx context.Context, history []types.ChatMessage, handle Handler) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to WebSocket server: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(types.ChatRequest{Messages: history}); err != nil {
		return fmt.Errorf("failed to write chat request: %w", err)
	}

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var ev types.StreamEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("connection closed before the turn finished")
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read WebSocket message: %w", err)
		}
		if err := handle(ev); err != nil {
			return err
		}
		if ev.Terminal() {
			return nil
		}
	}
}
