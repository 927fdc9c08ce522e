package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEWriter_SetsStreamingHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	_, err := NewSSEWriter(rec)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestSSEWriter_WriteEventFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	err = sse.WriteEvent("progress", map[string]any{"percent": 40})
	require.NoError(t, err)

	assert.Equal(t, "event: progress\ndata: {\"percent\":40}\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestSSEWriter_WriteComplete(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	sse.WriteComplete("7b6a2c4e-1111-2222-3333-444455556666", "completed")

	out := rec.Body.String()
	assert.Contains(t, out, "event: complete\n")
	assert.Contains(t, out, `"project_id":"7b6a2c4e-1111-2222-3333-444455556666"`)
	assert.Contains(t, out, `"status":"completed"`)
}

func TestSSEWriter_WriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	sse.WriteError("The AI service is temporarily unavailable.")

	out := rec.Body.String()
	assert.Contains(t, out, "event: error\n")
	assert.Contains(t, out, "temporarily unavailable")
}
