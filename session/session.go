// Package session implements the per-client Socket.IO session runtime:
// lifecycle, expiry, and the two message queues that decouple inbound and
// outbound flows (spec.md §4.2).
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coresio/socketio"
)

// State is the session's lifecycle state (spec.md §3).
type State int

const (
	StateNew State = iota
	StateConnected
	StateDisconnecting
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnecting:
		return "DISCONNECTING"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// DefaultQueueCapacity bounds each of client_queue/server_queue.
const DefaultQueueCapacity = 256

// Session is the server-side state for one logical client connection. It
// survives transport reconnects (a new HTTP request can attach to the same
// session id) and is exclusively owned by a Registry.
type Session struct {
	id string

	mu    sync.Mutex
	state State

	connectionConfirmed bool
	timestamp           time.Time
	expire              time.Duration

	client *queue
	server *queue

	registry *Registry

	ackSeq uint64
}

// newSession constructs a NEW session with the given idle timeout. Callers
// outside this package obtain Sessions exclusively through Registry.Create.
func newSession(registry *Registry, expire time.Duration) *Session {
	if expire <= 0 {
		expire = DefaultSessionExpire
	}
	s := &Session{
		id:        uuid.New().String(),
		state:     StateNew,
		timestamp: time.Now(),
		expire:    expire,
		client:    newQueue(DefaultQueueCapacity),
		server:    newQueue(DefaultQueueCapacity),
		registry:  registry,
	}
	go s.runExpiry()
	return s
}

// DefaultSessionExpire is used when Registry.Create is given a zero expiry.
const DefaultSessionExpire = time.Duration(socketio.DefaultSessionExpire) * time.Second

// Id returns the session's opaque identifier.
func (s *Session) Id() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConnectionConfirmed reports whether a long-poll connect response has
// already been sent for this session.
func (s *Session) ConnectionConfirmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectionConfirmed
}

// ConfirmConnection marks the session as having sent its long-poll Connect
// response. Idempotent.
func (s *Session) ConfirmConnection() {
	s.mu.Lock()
	s.connectionConfirmed = true
	s.mu.Unlock()
}

// Touch updates the activity timestamp to max(now, current) and, if the
// session is NEW, transitions it to CONNECTED. Idempotent.
func (s *Session) Touch() {
	s.mu.Lock()
	now := time.Now()
	if now.After(s.timestamp) {
		s.timestamp = now
	}
	if s.state == StateNew {
		s.state = StateConnected
	}
	s.mu.Unlock()
}

// Heartbeat is semantically Touch(), invoked on inbound type-2 packets.
func (s *Session) Heartbeat() { s.Touch() }

// isOpen reports whether the session currently accepts traffic.
func (s *Session) isOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateNew || s.state == StateConnected
}

// PutClient enqueues p on the client-bound (server→client) queue. Touches
// the session first. Returns SessionClosed once the session has left
// {NEW, CONNECTED}.
func (s *Session) PutClient(p *socketio.Packet) error {
	s.Touch()
	if !s.isOpen() {
		return &socketio.SessionClosed{SessionId: s.id}
	}
	if ok, _ := s.client.put(p); !ok {
		return &socketio.SessionClosed{SessionId: s.id}
	}
	if s.registry != nil {
		s.registry.observeQueueDepth("client", len(s.client.ch))
	}
	return nil
}

// PutServer enqueues p on the server-bound (client→server) queue. Touches
// the session first. Returns SessionClosed once the session has left
// {NEW, CONNECTED}.
func (s *Session) PutServer(p *socketio.Packet) error {
	s.Touch()
	if !s.isOpen() {
		return &socketio.SessionClosed{SessionId: s.id}
	}
	if ok, _ := s.server.put(p); !ok {
		return &socketio.SessionClosed{SessionId: s.id}
	}
	if s.registry != nil {
		s.registry.observeQueueDepth("server", len(s.server.ch))
	}
	return nil
}

// GetClient blocks for the next client-bound packet. timeout<=0 means wait
// indefinitely (bounded only by ctx). A (nil, true, nil) return is the
// shutdown sentinel: the caller (a transport) must close its stream.
// A (nil, false, ErrEmpty) return means the deadline elapsed.
func (s *Session) GetClient(ctx context.Context, timeout time.Duration) (*socketio.Packet, bool, error) {
	return s.client.get(ctx, timeout)
}

// GetServer blocks for the next server-bound packet, for application code
// driving Receive.
func (s *Session) GetServer(ctx context.Context, timeout time.Duration) (*socketio.Packet, bool, error) {
	return s.server.get(ctx, timeout)
}

// NextAckId allocates a monotonic id for an Event packet requesting an ack.
func (s *Session) NextAckId() string {
	s.mu.Lock()
	s.ackSeq++
	id := s.ackSeq
	s.mu.Unlock()
	return itoa(id)
}

// Kill transitions a CONNECTED session to DISCONNECTING, pushes the
// Disconnect/sentinel pair into the two queues, shuts both queues down, and
// deregisters from the Registry; the expiry task is not signalled and exits
// on its next wakeup once it finds the session gone. A NEW session (one no transport has
// ever confirmed) instead goes straight to DISCONNECTED without enqueueing
// anything, since there is no peer listening on either queue yet (spec.md
// §4.2's NEW --kill--> DISCONNECTED direct transition). Idempotent: once
// DISCONNECTING or DISCONNECTED, subsequent calls are silent no-ops.
func (s *Session) Kill() {
	s.mu.Lock()
	switch s.state {
	case StateNew:
		s.state = StateDisconnected
		s.mu.Unlock()

		s.client.shutdown()
		s.server.shutdown()
		if s.registry != nil {
			s.registry.remove(s.id)
		}
		return
	case StateConnected:
		s.state = StateDisconnecting
		s.mu.Unlock()
	default:
		s.mu.Unlock()
		return
	}

	_, _ = s.server.put(socketio.Disconnect(""))
	s.client.putSentinel()
	s.client.shutdown()
	s.server.shutdown()

	if s.registry != nil {
		s.registry.remove(s.id)
	}

	s.mu.Lock()
	s.state = StateDisconnected
	s.mu.Unlock()
}

// runExpiry is the background idle-kill monitor (spec.md §4.2). In place of
// a weak reference it polls the registry by id after each sleep and exits
// once the session is no longer registered (or has left NEW/CONNECTED).
// Until it exits, its goroutine still holds a reference to s.
func (s *Session) runExpiry() {
	id := s.id
	registry := s.registry
	for {
		s.mu.Lock()
		deadline := s.timestamp.Add(s.expire)
		state := s.state
		s.mu.Unlock()

		if state == StateDisconnecting || state == StateDisconnected {
			return
		}

		sleep := time.Until(deadline)
		if sleep < 0 {
			sleep = 0
		}
		time.Sleep(sleep)

		if registry == nil {
			return
		}
		current, ok := registry.peek(id)
		if !ok || current != s {
			return // session was removed or replaced; nothing to expire.
		}

		s.mu.Lock()
		idle := time.Since(s.timestamp)
		state = s.state
		s.mu.Unlock()

		if state == StateDisconnecting || state == StateDisconnected {
			return
		}
		if idle > s.expire {
			registry.recordExpiry()
			s.Kill()
			return
		}
		// otherwise loop and re-sleep for the remaining interval.
	}
}

// Snapshot is a point-in-time view of a session, used for metrics and
// operational debugging.
type Snapshot struct {
	Id         string
	State      State
	Age        time.Duration
	ClientSize int
	ServerSize int
}

// Snapshot returns a point-in-time view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Id:         s.id,
		State:      s.state,
		Age:        time.Since(s.timestamp),
		ClientSize: len(s.client.ch),
		ServerSize: len(s.server.ch),
	}
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
