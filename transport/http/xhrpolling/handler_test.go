package xhrpolling

import (
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

func newHandler() (*Handler, *session.Registry) {
	registry := session.NewRegistry()
	base := transport.NewBase(registry, socketio.DefaultConfig(), nil)
	return New(base), registry
}

func TestHandler_FirstGETSendsConnectHandshake(t *testing.T) {
	h, _ := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/socket.io/1/xhr-polling/", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "1::"))
}

func TestHandler_SecondGETPollsForClientMessage(t *testing.T) {
	h, registry := newHandler()
	s := registry.Create(time.Minute)
	s.ConfirmConnection()
	require.NoError(t, s.PutClient(socketio.Message("hello")))

	req := httptest.NewRequest(http.MethodGet, "/socket.io/1/xhr-polling/"+s.Id(), nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req, s.Id())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3:::hello", rec.Body.String())
}

func TestHandler_POSTDecodesIntoServerQueue(t *testing.T) {
	h, registry := newHandler()
	s := registry.Create(time.Minute)
	s.ConfirmConnection()

	req := httptest.NewRequest(http.MethodPost, "/socket.io/1/xhr-polling/"+s.Id(), strings.NewReader("3:::hello"))
	rec := httptest.NewRecorder()
	h.Serve(rec, req, s.Id())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Body.String())

	p, _, err := s.GetServer(req.Context(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(p.Data))
}

func TestHandler_POSTToUnknownSessionIs404(t *testing.T) {
	h, _ := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/socket.io/1/xhr-polling/ghost", strings.NewReader("3:::hello"))
	rec := httptest.NewRecorder()
	h.Serve(rec, req, "ghost")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_POSTMalformedFrameKillsSessionAndReturns400(t *testing.T) {
	h, registry := newHandler()
	s := registry.Create(time.Minute)
	s.ConfirmConnection()

	req := httptest.NewRequest(http.MethodPost, "/socket.io/1/xhr-polling/"+s.Id(), strings.NewReader("not a frame"))
	rec := httptest.NewRecorder()
	h.Serve(rec, req, s.Id())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, session.StateDisconnected, s.State())
}

func TestHandler_OptionsReturns200(t *testing.T) {
	h, _ := newHandler()

	req := httptest.NewRequest(http.MethodOptions, "/socket.io/1/xhr-polling/", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req, "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
