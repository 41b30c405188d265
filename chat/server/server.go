// Package server exposes chat turns over HTTP: an SSE or JSON chat endpoint,
// a WebSocket stream, a raw tool server proxy and the chat page.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/whatmeme/whatmeme-webapp/chat"
	"github.com/whatmeme/whatmeme-webapp/types"
	"github.com/whatmeme/whatmeme-webapp/web"
)

// Turns runs chat turns
type Turns interface {
	Stream(ctx context.Context, history []types.ChatMessage, emit chat.Emitter) error
	Complete(ctx context.Context, history []types.ChatMessage) (*types.ChatResponse, error)
}

// Proxy forwards raw JSON-RPC calls to the tool server
type Proxy interface {
	Proxy(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error)
}

// ServerOptions represents the configuration options for the chat server
type ServerOptions struct {
	// Turns is nil when no provider credential is configured;
	// chat requests then fail with 500.
	Turns Turns
	MCP   Proxy // Required
	// Addr overrides the listen address derived from the port
	Addr   string
	Logger logr.Logger
}

// Server represents the chat server
type Server struct {
	port   int
	opts   ServerOptions
	logger logr.Logger
	server *http.Server
}

// NewServer creates a new chat server
func NewServer(port int, opts ServerOptions) (*Server, error) {
	if opts.MCP == nil {
		return nil, fmt.Errorf("MCP proxy is required")
	}
	s := &Server{
		port:   port,
		opts:   opts,
		logger: opts.Logger,
	}
	addr := opts.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", port)
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler routes every endpoint of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/mcp", s.handleMCP)
	mux.HandleFunc("GET /stream", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /", web.Handler())
	return s.logRequests(mux)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("starting chat server", "addr", s.server.Addr)
	err := s.server.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			s.logger.Info("server shutdown gracefully")
			return nil
		}
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.V(1).Info("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start).String())
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
