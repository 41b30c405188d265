package mcpbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Proxy forwards an arbitrary method and returns the normalized response unchanged.
// params is forwarded verbatim, empty objects included; only absent or falsy
// values (null, false, 0, "") are left out of the envelope.
func (c *Client) Proxy(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	if method == "" {
		return nil, fmt.Errorf("method is required")
	}
	var p interface{}
	if !falsyJSON(params) {
		p = params
	}
	return c.send(ctx, method, p)
}

func falsyJSON(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

type errorEnvelope struct {
	JSONRPC string      `json:"jsonrpc"`
	Error   RPCError    `json:"error"`
	ID      interface{} `json:"id"`
}

// ErrorEnvelope is the JSON-RPC internal error reply for a failed proxy call.
func ErrorEnvelope(err error) json.RawMessage {
	data, marshalErr := json.Marshal(errorEnvelope{
		JSONRPC: mcp.JSONRPC_VERSION,
		Error: RPCError{
			Code:    mcp.INTERNAL_ERROR,
			Message: err.Error(),
		},
	})
	if marshalErr != nil {
		panic(marshalErr)
	}
	return data
}
