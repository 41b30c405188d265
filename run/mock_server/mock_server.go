// Package mock_server serves fake LLM providers and a fake meme tool server
// for local development and end-to-end tests.
package mock_server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ToolCallMode decides when the fake model asks for a tool
type ToolCallMode string

const (
	// ToolCallKeyword calls the tool matching the user message, if any
	ToolCallKeyword ToolCallMode = "keyword"
	ToolCallAlways  ToolCallMode = "always"
	ToolCallRandom  ToolCallMode = "random"
	ToolCallNever   ToolCallMode = "never"
)

// Config holds the configuration for the mock server
type Config struct {
	Port     int
	Provider string // "openai", "anthropic", "gemini", "all"
	ToolCall ToolCallMode
	// MCPPath is where the fake tool server is mounted; empty disables it
	MCPPath string
	// PlainMCP answers the tool server with application/json instead of SSE frames
	PlainMCP bool
}

type MockServer struct {
	mu     sync.Mutex
	rand   *rand.Rand
	config Config
}

func NewMockServer(config Config) *MockServer {
	if config.ToolCall == "" {
		config.ToolCall = ToolCallKeyword
	}
	return &MockServer{
		rand:   rand.New(rand.NewSource(time.Now().UnixMicro())),
		config: config,
	}
}

// Handler routes the configured providers and the tool server
func (m *MockServer) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	switch strings.ToLower(m.config.Provider) {
	case "openai":
		mux.HandleFunc("/chat/completions", m.HandleOpenAIMock)
	case "anthropic":
		mux.HandleFunc("/v1/messages", m.HandleAnthropicMock)
	case "gemini":
		mux.HandleFunc("/v1beta/models/", m.HandleGeminiMock)
	case "all", "":
		mux.HandleFunc("/chat/completions", m.HandleOpenAIMock)
		mux.HandleFunc("/v1/messages", m.HandleAnthropicMock)
		mux.HandleFunc("/v1beta/models/", m.HandleGeminiMock)
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: openai, anthropic, gemini, all)", m.config.Provider)
	}
	if m.config.MCPPath != "" {
		mux.HandleFunc(m.config.MCPPath, m.HandleMCPMock)
	}
	return mux, nil
}

// Start starts the mock HTTP server
func Start(config Config) error {
	m := NewMockServer(config)
	handler, err := m.Handler()
	if err != nil {
		return err
	}

	addr := ":" + strconv.Itoa(config.Port)
	fmt.Printf("Starting mock server on http://localhost%s\n", addr)
	if config.Provider != "" && config.Provider != "all" {
		fmt.Printf("Provider: %s\n", config.Provider)
	} else {
		fmt.Printf("Provider: all (OpenAI, Anthropic, Gemini)\n")
	}
	if config.MCPPath != "" {
		fmt.Printf("Tool server: http://localhost%s%s\n", addr, config.MCPPath)
		fmt.Printf("Test with: OPENAI_BASE_URL=http://localhost%s MCP_SERVER_URL=http://localhost%s%s whatmeme serve\n", addr, addr, config.MCPPath)
	}
	return http.ListenAndServe(addr, handler)
}

func (m *MockServer) intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rand.Intn(n)
}

func (m *MockServer) float() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rand.Float32()
}

// sseWriter writes server-sent-event frames and flushes each one
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher, _ := w.(http.Flusher)
	return &sseWriter{w: w, flusher: flusher}
}

func (s *sseWriter) write(event string, v interface{}) error {
	var data []byte
	switch v := v.(type) {
	case string:
		data = []byte(v)
	default:
		var err error
		data, err = json.Marshal(v)
		if err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if event != "" {
		fmt.Fprintf(&buf, "event: %s\n", event)
	}
	fmt.Fprintf(&buf, "data: %s\n\n", data)
	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}
