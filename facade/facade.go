// Package facade provides the thin convenience layer spec.md §4.4 calls
// the "Protocol façade": emit/send/ack/receive/broadcast over a Session and
// the codec, grounded on the teacher's transport/server/base.Transport
// (Send/Notify over a session) generalized from JSON-RPC requests and
// notifications to Socket.IO packets.
package facade

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/coresio/socketio"
	"github.com/coresio/socketio/session"
)

// Protocol is bound to one Session and is the application-facing handle a
// connection handler is given.
type Protocol struct {
	Session  *session.Session
	Registry *session.Registry
	acks     *ackTracker
}

// New binds a façade to sess, using registry for Broadcast.
func New(sess *session.Session, registry *session.Registry) *Protocol {
	return &Protocol{Session: sess, Registry: registry, acks: newAckTracker()}
}

// Send enqueues an already-built packet onto the client-bound queue.
func (p *Protocol) Send(packet *socketio.Packet) error {
	return p.Session.PutClient(packet)
}

// Emit enqueues an Event packet. When needAck is true, an id is allocated
// from the session's monotonic counter and Ack is set to AckData so the
// remote end knows a reply Ack is expected.
func (p *Protocol) Emit(name string, args []json.RawMessage, needAck bool) (string, error) {
	packet := socketio.Event(name, args)
	var id string
	if needAck {
		id = p.Session.NextAckId()
		packet.Id = id
		packet.Ack = socketio.AckData
	}
	return id, p.Session.PutClient(packet)
}

// Ack enqueues an Ack packet replying to ackId with args.
func (p *Protocol) Ack(ackId string, args []json.RawMessage) error {
	return p.Session.PutClient(socketio.Ack(ackId, args))
}

// EmitAck is Emit with needAck forced true, blocking until the remote end's
// Ack packet arrives, ctx is cancelled, or timeout elapses. A non-positive
// timeout waits indefinitely, bounded by ctx.
func (p *Protocol) EmitAck(ctx context.Context, name string, args []json.RawMessage, timeout time.Duration) ([]json.RawMessage, error) {
	packet := socketio.Event(name, args)
	id := p.Session.NextAckId()
	packet.Id = id
	packet.Ack = socketio.AckData

	wait := p.acks.register(id)
	if err := p.Session.PutClient(packet); err != nil {
		p.acks.match(id, nil)
		return nil, err
	}
	return wait.wait(ctx, timeout)
}

// HandleAck feeds an incoming Ack packet to any EmitAck waiting on its id.
// Callers that dispatch server-bound packets (spec.md §4.4) should route
// TypeAck packets here before handing the rest to application logic. It
// reports whether a waiter was actually found and resolved.
func (p *Protocol) HandleAck(packet *socketio.Packet) bool {
	if packet.Type != socketio.TypeAck {
		return false
	}
	return p.acks.match(packet.AckId, packet.AckArgs)
}

// Close abandons every outstanding EmitAck wait, used when the underlying
// session is killed while this façade still has pending acks.
func (p *Protocol) Close() {
	p.acks.abandon()
}

// Receive blocks for the next server-bound packet (application input). A
// non-positive timeout waits indefinitely, bounded by ctx.
func (p *Protocol) Receive(ctx context.Context, timeout time.Duration) (*socketio.Packet, error) {
	packet, sentinel, err := p.Session.GetServer(ctx, timeout)
	if err != nil {
		return nil, err
	}
	if sentinel {
		return nil, &socketio.SessionClosed{SessionId: p.Session.Id()}
	}
	return packet, nil
}

// Broadcast pushes packet into every other session's client-bound queue.
// exceptions additionally excludes the listed session ids; includeSelf, if
// true, also delivers to the caller's own session. Sessions observed mid
// teardown simply fail their PutClient silently, matching the original's
// "iterates all entries" behavior (spec.md §9 Open Questions: this module
// does not special-case DISCONNECTING, same as the source).
func (p *Protocol) Broadcast(packet *socketio.Packet, exceptions []string, includeSelf bool) {
	excluded := make(map[string]bool, len(exceptions)+1)
	for _, id := range exceptions {
		excluded[id] = true
	}
	if !includeSelf {
		excluded[p.Session.Id()] = true
	}
	p.Registry.Range(func(s *session.Session) bool {
		if excluded[s.Id()] {
			return true
		}
		_ = s.PutClient(packet)
		return true
	})
}
