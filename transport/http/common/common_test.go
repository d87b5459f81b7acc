package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coresio/socketio"
)

func TestWriteCORSHeaders_DefaultsToWildcard(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteCORSHeaders(rec, req, socketio.Config{}, nil)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestWriteCORSHeaders_LiteralValue(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteCORSHeaders(rec, req, socketio.Config{CORS: "https://example.com"}, nil)

	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWriteCORSHeaders_ReflectEchoesOriginWithinSuffix(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	WriteCORSHeaders(rec, req, socketio.Config{CORS: ReflectOrigin}, []string{"example.com"})

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWriteCORSHeaders_ReflectRejectsOutsideSuffix(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.com")
	WriteCORSHeaders(rec, req, socketio.Config{CORS: ReflectOrigin}, []string{"example.com"})

	assert.Equal(t, "null", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestFlushWriter_ErrorsWithoutFlusher(t *testing.T) {
	fw := NewFlushWriter(&nonFlushingWriter{header: http.Header{}})
	_, err := fw.Write([]byte("x"))
	assert.Error(t, err)
}

type nonFlushingWriter struct {
	header http.Header
}

func (w *nonFlushingWriter) Header() http.Header       { return w.header }
func (w *nonFlushingWriter) Write(p []byte) (int, error) { return len(p), nil }
func (w *nonFlushingWriter) WriteHeader(int)            {}

func TestParsePath(t *testing.T) {
	transportName, sessionID, ok := ParsePath("/socket.io/1/xhr-polling/abc123", "socket.io")
	require.True(t, ok)
	assert.Equal(t, "xhr-polling", transportName)
	assert.Equal(t, "abc123", sessionID)

	_, _, ok = ParsePath("/other/1/xhr-polling/abc123", "socket.io")
	assert.False(t, ok)

	transportName, sessionID, ok = ParsePath("/socket.io/1/websocket", "socket.io")
	require.True(t, ok)
	assert.Equal(t, "websocket", transportName)
	assert.Equal(t, "", sessionID)
}
