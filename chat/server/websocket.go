package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/whatmeme/whatmeme-webapp/chat"
	"github.com/whatmeme/whatmeme-webapp/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// handleWebSocket serves one turn per connection: the client sends a
// ChatRequest frame and receives the same events as the SSE endpoint.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(err, "WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	var req types.ChatRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.sendError(conn, chat.DescribeError(&chat.ValidationError{Err: chat.ErrMissingMessages, Detail: err.Error()}))
		return
	}
	if s.opts.Turns == nil {
		s.sendError(conn, chat.ErrMissingCredential.Error())
		return
	}

	// Stream reports invalid histories through an error event itself
	err = s.opts.Turns.Stream(r.Context(), req.Messages, func(ev types.StreamEvent) error {
		return conn.WriteJSON(ev)
	})
	if err != nil {
		s.logger.V(1).Info("WebSocket stream ended with error", "error", err.Error())
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) sendError(conn *websocket.Conn, errorMsg string) {
	if err := conn.WriteJSON(types.ErrorEvent(errorMsg)); err != nil {
		s.logger.Error(err, "failed to send error event")
	}
}
