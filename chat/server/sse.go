package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/whatmeme/whatmeme-webapp/types"
)

// eventStream writes stream events as server-sent-event frames, flushing each one.
// Headers are committed by the first frame, so a turn that fails before any
// output is still answered with an error status.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
	// error event held back until the turn outcome is known
	pending *types.StreamEvent
}

func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported by response writer")
	}
	return &eventStream{w: w, flusher: flusher}, nil
}

// Send writes one "data: <json>\n\n" frame
func (s *eventStream) Send(ev types.StreamEvent) error {
	if !s.started && ev.Type == types.EventType_Error {
		s.pending = &ev
		return nil
	}
	return s.write(ev)
}

// Finish completes the response after the turn returned. A turn that failed
// before the first frame gets the status writeError maps its error to.
func (s *eventStream) Finish(turnErr error) error {
	if s.started {
		return nil
	}
	if turnErr != nil {
		writeError(s.w, turnErr)
		return nil
	}
	if s.pending != nil {
		return s.write(*s.pending)
	}
	s.start()
	return nil
}

func (s *eventStream) start() {
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
	s.flusher.Flush()
	s.started = true
}

func (s *eventStream) write(ev types.StreamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if !s.started {
		s.start()
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}
