// Package mcpbridge talks JSON-RPC 2.0 to the remote meme tool server and
// normalizes its replies, which may arrive as plain JSON or SSE-framed text.
package mcpbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-logr/logr"
	"github.com/mark3labs/mcp-go/mcp"
)

// Config represents the bridge configuration
type Config struct {
	URL        string // Required: tool server endpoint
	HTTPClient *http.Client
	Logger     logr.Logger
}

// Client is a stateless JSON-RPC client of the tool server.
// Each call is an independent HTTP POST; no session is kept.
type Client struct {
	url        string
	httpClient *http.Client
	logger     logr.Logger
	now        func() time.Time
}

// NewClient creates a new bridge client
func NewClient(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("MCP server url is required")
	}
	u, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("parse MCP server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported MCP server url scheme: %q", u.Scheme)
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:        config.URL,
		httpClient: httpClient,
		logger:     config.Logger,
		now:        time.Now,
	}, nil
}

func (c *Client) URL() string {
	return c.url
}

// Request is the JSON-RPC request envelope
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int64       `json:"id"`
}

// RPCError is the error member of a JSON-RPC response
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Response is a normalized JSON-RPC response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`

	// some servers put the tool list at the top level
	Tools json.RawMessage `json:"tools,omitempty"`

	// Raw is the logical response as produced by the server
	Raw json.RawMessage `json:"-"`
}

// StatusError is returned when the tool server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("MCP 서버 오류 (%d): %s", e.StatusCode, e.Body)
}

// Call sends one JSON-RPC request and returns the normalized response.
// params is omitted from the envelope when nil or an empty object.
func (c *Client) Call(ctx context.Context, method mcp.MCPMethod, params interface{}) (*Response, error) {
	if !hasParams(params) {
		params = nil
	}
	raw, err := c.send(ctx, string(method), params)
	if err != nil {
		return nil, err
	}
	return decodeResponse(raw)
}

func (c *Client) send(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	id := c.now().UnixMilli()
	req := Request{
		JSONRPC: mcp.JSONRPC_VERSION,
		Method:  method,
		ID:      id,
	}
	if params != nil {
		req.Params = params
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal MCP request: %w", err)
	}
	c.logger.V(1).Info("MCP request", "method", method, "body", string(body))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create MCP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/event-stream")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send MCP request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read MCP response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.logger.Info("MCP server error", "method", method, "status", httpResp.StatusCode, "body", string(data))
		return nil, &StatusError{StatusCode: httpResp.StatusCode, Body: string(data)}
	}

	contentType := httpResp.Header.Get("Content-Type")
	normalized := Normalize(contentType, data, id)
	c.logger.V(1).Info("MCP response", "method", method, "contentType", contentType, "body", string(normalized))
	return normalized, nil
}

func hasParams(params interface{}) bool {
	if params == nil {
		return false
	}
	data, err := json.Marshal(params)
	if err != nil {
		// let the envelope marshal report it
		return true
	}
	s := string(data)
	return s != "null" && s != "{}"
}

func decodeResponse(raw json.RawMessage) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode MCP response: %w", err)
	}
	resp.Raw = raw
	return &resp, nil
}
