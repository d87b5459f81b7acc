// Package xhrpolling implements the xhr-polling transport (spec.md §4.3):
// GET drains one client-bound message with a 5s timeout (substituting Noop
// on timeout), POST decodes one frame into the server-bound queue.
package xhrpolling

import (
	"io"
	"net/http"
	"time"

	"github.com/coresio/socketio"
	"github.com/coresio/socketio/transport"
)

// PollTimeout is how long a GET blocks waiting for a client-bound message
// before the server substitutes a Noop packet (spec.md §4.3).
const PollTimeout = 5 * time.Second

// Handler serves the xhr-polling transport.
type Handler struct {
	transport.Base
}

// New constructs a Handler bound to registry/cfg.
func New(base transport.Base) *Handler {
	return &Handler{Base: base}
}

// Serve dispatches by HTTP method for the session identified by sessionID
// (resolved by the caller's routing layer, per spec.md §6).
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	h.WriteCORS(w, r)
	h.RecordRequest("xhr-polling", r.Method)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.get(w, r, sessionID)
	case http.MethodPost:
		h.post(w, r, sessionID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, _ := h.Session(sessionID)
	if wrote, err := h.WriteConnectOnce(w, s); wrote {
		if err != nil {
			h.Logger.Errorf("xhr-polling: encode connect: %v", err)
		}
		return
	}

	s.Touch() // clear_disconnect_timeout
	packet, sentinel, err := s.GetClient(r.Context(), PollTimeout)
	if sentinel {
		w.WriteHeader(http.StatusOK)
		return
	}
	if err == socketio.ErrEmpty {
		packet = socketio.Noop()
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}

	data, err := h.Encode(packet)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.WriteBody(w, data, http.StatusOK)
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, ok := h.Registry.Get(sessionID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	packet, err := h.Decode(body)
	if err != nil {
		h.Logger.Errorf("xhr-polling: decode: %v", err)
		s.Kill()
		http.Error(w, "malformed packet", http.StatusBadRequest)
		return
	}
	if err := s.PutServer(packet); err != nil {
		http.Error(w, err.Error(), http.StatusGone)
		return
	}

	w.Header().Set("Connection", "close")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("1"))
}
