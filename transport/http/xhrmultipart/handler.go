// Package xhrmultipart implements the xhr-multipart streaming transport
// (spec.md §4.3): GET opens a multipart/x-mixed-replace response, writes an
// initial part containing the session id, then streams one MIME part per
// client-bound message until a shutdown sentinel or write error kills the
// session. POST behaves like xhr-polling's POST.
package xhrmultipart

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/coresio/socketio/session"
	"github.com/coresio/socketio/transport"
	"github.com/coresio/socketio/transport/http/common"
)

const boundary = "socketio"

// Handler serves the xhr-multipart transport.
type Handler struct {
	transport.Base
}

// New constructs a Handler bound to base.
func New(base transport.Base) *Handler {
	return &Handler{Base: base}
}

// Serve dispatches by method.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	h.WriteCORS(w, r)
	h.RecordRequest("xhr-multipart", r.Method)

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

	w.Header().Set("Content-Type", fmt.Sprintf(`multipart/x-mixed-replace; boundary="%s"`, boundary))
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fw := common.NewFlushWriter(w)
	writePart(fw, []byte(s.Id()))

	session.StartHeartbeat(s, h.Config.HeartbeatInterval)

	ctx := r.Context()
	for {
		packet, sentinel, err := s.GetClient(ctx, 0)
		if sentinel {
			s.Kill()
			return
		}
		if err != nil {
			if err == context.Canceled || err == context.DeadlineExceeded {
				return
			}
			continue
		}
		data, err := h.Encode(packet)
		if err != nil {
			h.Logger.Errorf("xhr-multipart: encode: %v", err)
			continue
		}
		if _, werr := writePart(fw, data); werr != nil {
			s.Kill()
			return
		}
	}
}

func writePart(w io.Writer, payload []byte) (int, error) {
	part := "--" + boundary + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
		string(payload) + "\r\n" +
		"--" + boundary + "\r\n"
	return w.Write([]byte(part))
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
		h.Logger.Errorf("xhr-multipart: decode: %v", err)
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
