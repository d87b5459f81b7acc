// Package htmlfile implements the htmlfile streaming transport (spec.md
// §4.3): like xhr-multipart but framed as <script> tags inside a chunked
// HTML document, with a padded first chunk to defeat browser buffering.
package htmlfile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/coresio/socketio/session"
	"github.com/coresio/socketio/transport"
	"github.com/coresio/socketio/transport/http/common"
)

// PaddingBytes is the minimum size of the first chunk, large enough to
// defeat IE/old-browser response buffering (spec.md §4.3).
const PaddingBytes = 244

// Handler serves the htmlfile transport.
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
	h.RecordRequest("htmlfile", r.Method)

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

	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Transfer-Encoding", "chunked")
	w.WriteHeader(http.StatusOK)

	fw := common.NewFlushWriter(w)
	padding := "<html><body>" + strings.Repeat(" ", PaddingBytes-len("<html><body>"))
	if _, err := fw.Write([]byte(padding)); err != nil {
		s.Kill()
		return
	}

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
			h.Logger.Errorf("htmlfile: encode: %v", err)
			continue
		}
		fragment := fmt.Sprintf(`<script>parent.s._('%s', document);</script>`, jsEscape(string(data)))
		if _, werr := fw.Write([]byte(fragment)); werr != nil {
			s.Kill()
			return
		}
	}
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
		h.Logger.Errorf("htmlfile: decode: %v", err)
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

func jsEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
