package jsonp

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coresio/socketio"
	"github.com/coresio/socketio/session"
	"github.com/coresio/socketio/transport"
)

func newHandler() (*Handler, *session.Registry) {
	registry := session.NewRegistry()
	base := transport.NewBase(registry, socketio.DefaultConfig(), nil)
	return New(base), registry
}

func TestHandler_FirstGETWrapsConnectHandshake(t *testing.T) {
	h, registry := newHandler()
	s := registry.Create(time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/?i=0", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req, s.Id())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "io.j[0]('1::"))
	assert.True(t, strings.HasSuffix(rec.Body.String(), "');"))
}

func TestHandler_SecondGETWrapsClientMessage(t *testing.T) {
	h, registry := newHandler()
	s := registry.Create(time.Minute)
	s.ConfirmConnection()
	require.NoError(t, s.PutClient(socketio.Message("hello")))

	req := httptest.NewRequest(http.MethodGet, "/?i=2", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req, s.Id())

	assert.Equal(t, "io.j[2]('3:::hello');", rec.Body.String())
}

func TestHandler_POSTUnwrapsAndDecodesFrame(t *testing.T) {
	h, registry := newHandler()
	s := registry.Create(time.Minute)
	s.ConfirmConnection()

	wrapped := `d="3:::hello"`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.QueryEscape(wrapped)))
	rec := httptest.NewRecorder()
	h.Serve(rec, req, s.Id())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Body.String())

	p, _, err := s.GetServer(req.Context(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(p.Data))
}

func TestHandler_POSTUnknownSessionIs404(t *testing.T) {
	h, _ := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`d="3:::hi"`))
	rec := httptest.NewRecorder()
	h.Serve(rec, req, "ghost")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
