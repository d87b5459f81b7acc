package facade

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/coresio/socketio"
)

// pendingAck is a single outstanding EmitAck waiting for its reply, adapted
// from the teacher's round-trip correlation (transport/trip.go RoundTrip)
// from numeric JSON-RPC request ids to the string ack ids Socket.IO uses.
type pendingAck struct {
	id   string
	args []json.RawMessage
	err  error
	done chan struct{}
}

func newPendingAck(id string) *pendingAck {
	return &pendingAck{id: id, done: make(chan struct{})}
}

// wait blocks until the ack arrives, ctx is cancelled, or timeout elapses.
func (t *pendingAck) wait(ctx context.Context, timeout time.Duration) ([]json.RawMessage, error) {
	var timer <-chan time.Time
	if timeout > 0 {
		ticker := time.NewTimer(timeout)
		defer ticker.Stop()
		timer = ticker.C
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer:
		return nil, fmt.Errorf("facade: ack %s: %w", t.id, socketio.ErrEmpty)
	case <-t.done:
		return t.args, t.err
	}
}

func (t *pendingAck) resolve(args []json.RawMessage) {
	t.args = args
	close(t.done)
}

// ackTracker matches incoming Ack packets back to the Emit call that
// requested them, the same correlation role the teacher's RoundTrips ring
// buffer plays for JSON-RPC requests, keyed here by the session's own
// monotonic ack id instead of a ring index.
type ackTracker struct {
	mu      sync.Mutex
	pending map[string]*pendingAck
}

func newAckTracker() *ackTracker {
	return &ackTracker{pending: make(map[string]*pendingAck)}
}

func (t *ackTracker) register(id string) *pendingAck {
	p := newPendingAck(id)
	t.mu.Lock()
	t.pending[id] = p
	t.mu.Unlock()
	return p
}

func (t *ackTracker) match(id string, args []json.RawMessage) bool {
	t.mu.Lock()
	p, ok := t.pending[id]
	if ok {
		delete(t.pending, id)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	p.resolve(args)
	return true
}

// abandon drops every pending wait with an error, used when the session
// backing this façade is killed while acks are outstanding.
func (t *ackTracker) abandon() {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]*pendingAck)
	t.mu.Unlock()
	for _, p := range pending {
		p.err = fmt.Errorf("facade: ack %s: abandoned", p.id)
		close(p.done)
	}
}
