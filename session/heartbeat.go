package session

import (
	"time"

	"github.com/coresio/socketio"
)

// StartHeartbeat launches the periodic keepalive task for s: while the
// session is CONNECTED, a Heartbeat packet is pushed into client_queue
// every interval (default 5s). It stops as soon as the session leaves
// CONNECTED, mirroring the original's `start_heartbeat` greenlet
// (spec.md §4.3/§4.4). Safe to call once per session; transports that
// attach a streaming connection (xhr-multipart, htmlfile, websocket) start
// it on connect.
func StartHeartbeat(s *Session, interval time.Duration) {
	if interval <= 0 {
		interval = time.Duration(socketio.DefaultHeartbeatInterval) * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if s.State() != StateConnected && s.State() != StateNew {
				return
			}
			if err := s.PutClient(socketio.Heartbeat()); err != nil {
				return
			}
		}
	}()
}
