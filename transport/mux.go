package transport

import (
	"net/http"

	"github.com/coresio/socketio"
	"github.com/coresio/socketio/internal/metrics"
	"github.com/coresio/socketio/session"
	"github.com/coresio/socketio/transport/http/common"
	"github.com/coresio/socketio/transport/http/htmlfile"
	"github.com/coresio/socketio/transport/http/jsonp"
	"github.com/coresio/socketio/transport/http/xhrmultipart"
	"github.com/coresio/socketio/transport/http/xhrpolling"
	"github.com/coresio/socketio/transport/ws"
)

// handler is the shape every transport package exposes.
type handler interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID string)
}

// Mux dispatches incoming requests under Config.Namespace to the transport
// named in the path (spec.md §6), owning one Registry shared by every
// transport and the heartbeat task.
type Mux struct {
	Registry *session.Registry
	Config   socketio.Config
	handlers map[string]handler
}

// NewMux wires every transport behind a single Registry/Config, optionally
// instrumented with m (nil disables metrics).
func NewMux(cfg socketio.Config, logger socketio.Logger, m *metrics.Metrics) *Mux {
	registry := session.NewRegistryWithMetrics(m)
	base := NewBase(registry, cfg, logger).WithMetrics(m)

	return &Mux{
		Registry: registry,
		Config:   cfg,
		handlers: map[string]handler{
			"xhr-polling":   xhrpolling.New(base),
			"jsonp-polling": jsonp.New(base),
			"xhr-multipart": xhrmultipart.New(base),
			"htmlfile":      htmlfile.New(base),
			"websocket":     ws.New(base),
		},
	}
}

// ServeHTTP implements http.Handler, resolving the transport and session id
// from the URL path (/{namespace}/1/{transport}/{session_id}).
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	transportName, sessionID, ok := common.ParsePath(r.URL.Path, m.Config.Namespace)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h, ok := m.handlers[transportName]
	if !ok {
		http.Error(w, "unsupported transport", http.StatusBadRequest)
		return
	}
	h.Serve(w, r, sessionID)
}
