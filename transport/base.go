// Package transport implements the multiplexer described in spec.md §4.3:
// one adapter per wire transport, each binding an HTTP request or a
// WebSocket onto a Session's two queues. Base centralizes the boilerplate
// every adapter needs (CORS, session lookup/creation, the first-GET
// Connect handshake) so each transport package only implements its own
// request/response shape — composition over the shallow inheritance the
// teacher's own transport hierarchy uses (spec.md §9).
package transport

import (
	"net/http"

	"github.com/coresio/socketio"
	"github.com/coresio/socketio/internal/metrics"
	"github.com/coresio/socketio/session"
	"github.com/coresio/socketio/transport/http/common"
)

// Base is embedded (or held) by each concrete transport Handler.
type Base struct {
	Registry *session.Registry
	Config   socketio.Config
	Logger   socketio.Logger
	Metrics  *metrics.Metrics
}

// NewBase constructs a Base, defaulting Logger to socketio.DefaultLogger.
func NewBase(registry *session.Registry, cfg socketio.Config, logger socketio.Logger) Base {
	if logger == nil {
		logger = socketio.DefaultLogger
	}
	return Base{Registry: registry, Config: cfg, Logger: logger}
}

// WithMetrics attaches m to the Base, returning the updated value for
// chaining off NewBase.
func (b Base) WithMetrics(m *metrics.Metrics) Base {
	b.Metrics = m
	return b
}

// RecordRequest records one served request for transportName/method, a
// no-op if Metrics was never attached.
func (b *Base) RecordRequest(transportName, method string) {
	if b.Metrics == nil {
		return
	}
	b.Metrics.TransportRequests.WithLabelValues(transportName, method).Inc()
}

// WriteCORS emits the standard CORS headers for every transport response.
func (b *Base) WriteCORS(w http.ResponseWriter, r *http.Request) {
	common.WriteCORSHeaders(w, r, b.Config, nil)
}

// Session looks up sessionID, creating a new one when it is empty (first
// contact). The bool return reports whether the session already existed.
func (b *Base) Session(sessionID string) (*session.Session, bool) {
	if sessionID == "" {
		return b.Registry.Create(b.Config.SessionExpire), false
	}
	return b.Registry.Get(sessionID)
}

// WriteConnectOnce writes the encoded Connect packet and marks the session
// confirmed, if it has not already been confirmed. Returns true if it
// wrote the handshake (the caller should stop after this on that request).
func (b *Base) WriteConnectOnce(w http.ResponseWriter, s *session.Session) (bool, error) {
	if s.ConnectionConfirmed() {
		return false, nil
	}
	s.ConfirmConnection()
	data, err := b.Encode(socketio.Connect("", nil))
	if err != nil {
		return true, err
	}
	b.writeBody(w, data, http.StatusOK)
	return true, nil
}

// Encode encodes p, observing PacketsEncoded by packet type when Metrics is
// attached. Every transport handler should call this instead of
// socketio.Encode directly so encoded traffic is actually observable.
func (b *Base) Encode(p *socketio.Packet) ([]byte, error) {
	data, err := socketio.Encode(p)
	if err == nil && b.Metrics != nil {
		b.Metrics.ObservePacket(b.Metrics.PacketsEncoded, p.Type.String())
	}
	return data, err
}

// Decode decodes data, observing PacketsDecoded/DecodeErrors when Metrics is
// attached. Every transport handler should call this instead of
// socketio.Decode directly so decoded traffic and failures are observable.
func (b *Base) Decode(data []byte) (*socketio.Packet, error) {
	p, err := socketio.Decode(data)
	if err != nil {
		if b.Metrics != nil {
			b.Metrics.DecodeErrors.Inc()
		}
		return nil, err
	}
	if b.Metrics != nil {
		b.Metrics.ObservePacket(b.Metrics.PacketsDecoded, p.Type.String())
	}
	return p, nil
}

func (b *Base) writeBody(w http.ResponseWriter, data []byte, status int) {
	w.Header().Set("Content-Length", itoa(len(data)))
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// WriteBody writes data as a single complete response body with
// Content-Length set, as every polling-style GET/POST does.
func (b *Base) WriteBody(w http.ResponseWriter, data []byte, status int) {
	b.writeBody(w, data, status)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
