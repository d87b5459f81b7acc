package xhrmultipart

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coresio/socketio"
	"github.com/coresio/socketio/session"
	"github.com/coresio/socketio/transport"
)

func TestHandler_GETStreamsInitialPartThenMessages(t *testing.T) {
	registry := session.NewRegistry()
	base := transport.NewBase(registry, socketio.DefaultConfig(), nil)
	h := New(base)
	sess := registry.Create(time.Minute)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, sess.Id())
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, `multipart/x-mixed-replace; boundary="socketio"`, resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	firstPart, err := readUntil(reader, "--socketio\r\n")
	require.NoError(t, err)
	assert.Contains(t, firstPart, sess.Id())

	require.NoError(t, sess.PutClient(socketio.Message("hello")))
	secondPart, err := readUntil(reader, "--socketio\r\n")
	require.NoError(t, err)
	assert.Contains(t, secondPart, "3:::hello")
}

// readUntil reads lines until it has seen the MIME boundary marker twice:
// once opening the part, once closing it.
func readUntil(r *bufio.Reader, boundaryLine string) (string, error) {
	var sb strings.Builder
	seen := 0
	for {
		line, err := r.ReadString('\n')
		sb.WriteString(line)
		if line == boundaryLine {
			seen++
		}
		if err != nil {
			return sb.String(), err
		}
		if seen >= 2 {
			return sb.String(), nil
		}
	}
}

func TestHandler_POSTUnknownSessionIs404(t *testing.T) {
	registry := session.NewRegistry()
	base := transport.NewBase(registry, socketio.DefaultConfig(), nil)
	h := New(base)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("3:::hi"))
	rec := httptest.NewRecorder()
	h.Serve(rec, req, "ghost")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
