// Package stream writes discovery events to HTTP clients as
// server-sent events.
package stream

import (
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/halo-ir/scout-cli/internal/model"
)

// SSEWriter frames discovery events as server-sent events on an HTTP
// response. The response must support flushing; buffered events are
// useless to a client watching a live run.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSE prepares w for an event stream and returns the writer. It
// fails if the underlying connection cannot flush per event.
func NewSSE(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, eris.New("sse: response writer does not support flushing")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Send writes one event frame and flushes it.
func (s *SSEWriter) Send(ev model.DiscoveryEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return eris.Wrap(err, "sse: marshal event")
	}
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		return eris.Wrap(err, "sse: write frame")
	}
	if _, err := s.w.Write(payload); err != nil {
		return eris.Wrap(err, "sse: write frame")
	}
	if _, err := s.w.Write([]byte("\n\n")); err != nil {
		return eris.Wrap(err, "sse: write frame")
	}
	s.flusher.Flush()
	return nil
}

// Drain forwards every event from ch until it closes or a write fails.
// A failed write means the client went away; the remaining events are
// discarded so the producer can unwind.
func (s *SSEWriter) Drain(ch <-chan model.DiscoveryEvent) error {
	for ev := range ch {
		if err := s.Send(ev); err != nil {
			for range ch {
			}
			return err
		}
	}
	return nil
}
