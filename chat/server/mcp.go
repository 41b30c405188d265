package server

import (
	"encoding/json"
	"net/http"

	"github.com/whatmeme/whatmeme-webapp/mcpbridge"
)

type proxyRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// handleMCP forwards a raw JSON-RPC call. JSON-RPC errors from the tool
// server pass through with 200; failures to reach it become an internal
// error envelope with 500.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	var req proxyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeRaw(w, http.StatusInternalServerError, mcpbridge.ErrorEnvelope(err))
		return
	}
	resp, err := s.opts.MCP.Proxy(r.Context(), req.Method, req.Params)
	if err != nil {
		s.logger.Error(err, "MCP proxy", "method", req.Method)
		writeRaw(w, http.StatusInternalServerError, mcpbridge.ErrorEnvelope(err))
		return
	}
	writeRaw(w, http.StatusOK, resp)
}

func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
