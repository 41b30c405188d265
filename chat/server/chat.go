package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/whatmeme/whatmeme-webapp/chat"
	"github.com/whatmeme/whatmeme-webapp/llm"
	"github.com/whatmeme/whatmeme-webapp/types"
)

const maxRequestBytes = 1 << 20

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{
			Error:   chat.ErrMissingMessages.Error(),
			Details: err.Error(),
		})
		return
	}
	if err := chat.ValidateHistory(req.Messages); err != nil {
		writeError(w, err)
		return
	}
	if s.opts.Turns == nil {
		writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{Error: chat.ErrMissingCredential.Error()})
		return
	}

	if wantsJSON(r) {
		resp, err := s.opts.Turns.Complete(r.Context(), req.Messages)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	stream, err := newEventStream(w)
	if err != nil {
		writeError(w, err)
		return
	}
	err = s.opts.Turns.Stream(r.Context(), req.Messages, stream.Send)
	if err != nil {
		s.logger.V(1).Info("chat stream ended with error", "error", err.Error())
	}
	if err := stream.Finish(err); err != nil {
		s.logger.V(1).Info("failed to finish chat stream", "error", err.Error())
	}
}

// wantsJSON selects the non-streaming variant: ?stream=false, or an
// Accept header asking for JSON and not for an event stream.
func wantsJSON(r *http.Request) bool {
	if v := r.URL.Query().Get("stream"); v == "false" || v == "0" {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}
	var jsonOK, streamOK bool
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "application/json":
			jsonOK = true
		case "text/event-stream":
			streamOK = true
		}
	}
	return jsonOK && !streamOK
}

// writeError maps a failure to its status and user-facing message.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *chat.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: validationErr.Err.Error(), Details: validationErr.Detail})
	case llm.IsQuotaExceeded(err):
		writeJSON(w, http.StatusTooManyRequests, types.ErrorResponse{Error: chat.MsgQuotaExceeded})
	case llm.IsUnauthorized(err):
		writeJSON(w, http.StatusUnauthorized, types.ErrorResponse{Error: chat.MsgUnauthorized})
	default:
		writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{Error: chat.DescribeError(err), Details: err.Error()})
	}
}
