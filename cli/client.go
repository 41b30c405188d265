package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/whatmeme/whatmeme-webapp/types"
)

// Handler receives the events of one turn in order
type Handler func(types.StreamEvent) error

// Transport delivers one chat turn to a server
type Transport interface {
	Send(ctx context.Context, history []types.ChatMessage, handle Handler) error
}

// guidance shown for statuses the user can act on
const (
	GuidanceQuotaExceeded = "OpenAI API 쿼터가 초과되었습니다.\n\n계정의 결제 정보와 사용량을 확인해주세요:\nhttps://platform.openai.com/usage"
	GuidanceUnauthorized  = "OpenAI API 키가 유효하지 않습니다.\n\n.env.local 파일의 OPENAI_API_KEY를 확인해주세요."

	noResponseText = "응답을 받을 수 없습니다."
)

// StatusError is a non-2xx reply of the chat endpoint
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Client sends turns to POST /api/chat
type Client struct {
	endpoint   string
	httpClient *http.Client
	// NoStream asks for the JSON reply instead of the event stream
	NoStream bool
}

var _ Transport = (*Client)(nil)

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/chat"
	return &Client{endpoint: u.String(), httpClient: httpClient}, nil
}

func (c *Client) Send(ctx context.Context, history []types.ChatMessage, handle Handler) error {
	body, err := json.Marshal(types.ChatRequest{Messages: history})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.endpoint
	if c.NoStream {
		endpoint += "?stream=false"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.NoStream {
		req.Header.Set("Accept", "application/json")
	} else {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readStatusError(resp)
	}
	if isEventStream(resp.Header.Get("Content-Type")) {
		return consumeStream(resp.Body, handle)
	}
	return materialize(resp.Body, handle)
}

func isEventStream(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/event-stream"
}

func consumeStream(r io.Reader, handle Handler) error {
	dec := NewDecoder(r)
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handle(ev); err != nil {
			return err
		}
		if ev.Terminal() {
			return nil
		}
	}
}

// materialize replays a JSON reply as the events a stream would carry.
func materialize(r io.Reader, handle Handler) error {
	var resp types.ChatResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	content := resp.Content
	if content == "" {
		content = noResponseText
	}
	if err := handle(types.DeltaEvent(content)); err != nil {
		return err
	}
	if resp.Metadata != nil {
		if err := handle(types.MetaEvent(resp.Metadata)); err != nil {
			return err
		}
	}
	return handle(types.DoneEvent())
}

func readStatusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return &StatusError{StatusCode: resp.StatusCode, Message: GuidanceQuotaExceeded}
	case http.StatusUnauthorized:
		return &StatusError{StatusCode: resp.StatusCode, Message: GuidanceUnauthorized}
	}
	var body types.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("서버 오류 (%d)", resp.StatusCode)}
}
