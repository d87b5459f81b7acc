// Package ws implements the websocket transport (spec.md §4.3). Unlike the
// polling transports it keeps one physical connection for the whole session
// and runs two independent goroutines over it: one reading frames into the
// server-bound queue, one draining the client-bound queue onto the wire.
// Either side failing kills the session, which in turn stops the other via
// the shutdown sentinel and queue closure (session.Session.Kill).
package ws

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/coresio/socketio"
	"github.com/coresio/socketio/session"
	"github.com/coresio/socketio/transport"
)

// upgrader is shared across requests. CORS headers for the websocket
// handshake come from the HTTP-level WriteCORS call before the upgrade;
// CheckOrigin accepts every origin, and neither WriteCORS nor transport.Mux
// rejects a request by its Origin.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler serves the websocket transport.
type Handler struct {
	transport.Base
}

// New constructs a Handler bound to base.
func New(base transport.Base) *Handler {
	return &Handler{Base: base}
}

// Serve upgrades the connection and runs it until either direction fails.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	h.WriteCORS(w, r)
	h.RecordRequest("websocket", r.Method)

	s, _ := h.Session(sessionID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Errorf("websocket: upgrade: %v", err)
		return
	}

	s.ConfirmConnection()
	connectFrame, err := h.Encode(socketio.Connect("", nil))
	if err != nil {
		h.Logger.Errorf("websocket: encode connect: %v", err)
		s.Kill()
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, connectFrame); err != nil {
		s.Kill()
		return
	}

	session.StartHeartbeat(s, h.Config.HeartbeatInterval)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	done := make(chan struct{}, 2)
	go h.readLoop(conn, s, cancel, done)
	go h.writeLoop(ctx, conn, s, cancel, done)

	// Whichever loop exits first, close the connection so the other
	// (likely blocked in conn.ReadMessage or conn.WriteMessage) unblocks
	// promptly instead of waiting for a peer frame that will never come.
	<-done
	s.Kill()
	conn.Close()
	<-done
}

func (h *Handler) readLoop(conn *websocket.Conn, s *session.Session, cancel context.CancelFunc, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			cancel()
			return
		}
		packet, err := h.Decode(raw)
		if err != nil {
			h.Logger.Errorf("websocket: decode: %v", err)
			cancel()
			return
		}
		if err := s.PutServer(packet); err != nil {
			cancel()
			return
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, s *session.Session, cancel context.CancelFunc, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	for {
		packet, sentinel, err := s.GetClient(ctx, 0)
		if sentinel {
			cancel()
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
			h.Logger.Errorf("websocket: encode: %v", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			cancel()
			return
		}
	}
}
