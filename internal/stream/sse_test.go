package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halo-ir/scout-cli/internal/model"
)

// noFlushWriter wraps a ResponseWriter to hide the Flusher interface.
type noFlushWriter struct {
	header http.Header
}

func (w *noFlushWriter) Header() http.Header         { return w.header }
func (w *noFlushWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *noFlushWriter) WriteHeader(int)             {}

func TestNewSSE_SetsStreamHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	_, err := NewSSE(rec)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewSSE_RequiresFlusher(t *testing.T) {
	_, err := NewSSE(&noFlushWriter{header: http.Header{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flushing")
}

func TestSend_FramesEventAsData(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSE(rec)
	require.NoError(t, err)

	err = w.Send(model.DiscoveryEvent{Type: model.EventStatus, Message: "Searching"})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "data: "), "frame must start with data: prefix, got %q", body)
	assert.True(t, strings.HasSuffix(body, "\n\n"), "frame must end with a blank line, got %q", body)
	assert.Contains(t, body, `"type":"status"`)
	assert.Contains(t, body, `"message":"Searching"`)
	assert.True(t, rec.Flushed)
}

func TestDrain_ForwardsUntilClose(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSE(rec)
	require.NoError(t, err)

	ch := make(chan model.DiscoveryEvent, 3)
	ch <- model.DiscoveryEvent{Type: model.EventStatus, Message: "one"}
	ch <- model.DiscoveryEvent{Type: model.EventStatus, Message: "two"}
	ch <- model.DiscoveryEvent{Type: model.EventComplete, Message: "done", Stats: &model.Stats{}}
	close(ch)

	require.NoError(t, w.Drain(ch))

	frames := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n\n"), "\n\n")
	require.Len(t, frames, 3)
	assert.Contains(t, frames[0], "one")
	assert.Contains(t, frames[1], "two")
	assert.Contains(t, frames[2], `"type":"complete"`)
}
