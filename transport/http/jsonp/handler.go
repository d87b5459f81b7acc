// Package jsonp implements the jsonp-polling transport: identical to
// xhr-polling except the request body is URL-decoded and unwrapped from
// `d="..."`, and the response body is wrapped in a `io.j[<index>](...)`
// callback invocation (spec.md §4.3).
package jsonp

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coresio/socketio"
	"github.com/coresio/socketio/transport"
)

// PollTimeout mirrors xhrpolling.PollTimeout.
const PollTimeout = 5 * time.Second

// Handler serves the jsonp-polling transport.
type Handler struct {
	transport.Base
}

// New constructs a Handler bound to base.
func New(base transport.Base) *Handler {
	return &Handler{Base: base}
}

// Serve dispatches by method. index is the JSONP callback slot from the
// `i` query parameter (io.j[<index>]), defaulting to 0.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	h.WriteCORS(w, r)
	h.RecordRequest("jsonp-polling", r.Method)

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
	if !s.ConnectionConfirmed() {
		s.ConfirmConnection()
		data, err := h.Encode(socketio.Connect("", nil))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeWrapped(w, r, data)
		return
	}

	s.Touch()
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
	h.writeWrapped(w, r, data)
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

	frame := unwrapJSONP(string(body))
	packet, err := h.Decode([]byte(frame))
	if err != nil {
		h.Logger.Errorf("jsonp-polling: decode: %v", err)
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

// unwrapJSONP resolves the percent-encoded body, strips the wrapping
// `d="..."` quotes and unescapes `\"`, matching the original's
// `urlparse.unquote(data)[3:-1].replace(r'\"', '"')`.
func unwrapJSONP(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	decoded = strings.TrimPrefix(decoded, `d="`)
	decoded = strings.TrimSuffix(decoded, `"`)
	return strings.ReplaceAll(decoded, `\"`, `"`)
}

func (h *Handler) writeWrapped(w http.ResponseWriter, r *http.Request, data []byte) {
	index := 0
	if v := r.URL.Query().Get("i"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			index = n
		}
	}
	escaped := jsEscape(string(data))
	body := []byte(fmt.Sprintf("io.j[%d]('%s');", index, escaped))
	w.Header().Set("Content-Type", "text/javascript; charset=UTF-8")
	h.WriteBody(w, body, http.StatusOK)
}

// jsEscape escapes a payload for safe inclusion inside a single-quoted
// JavaScript string literal.
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
