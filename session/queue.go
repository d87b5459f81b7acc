package session

import (
	"context"
	"time"

	"github.com/coresio/socketio"
)

// entry wraps a queued packet with the shutdown-sentinel bit: a sentinel
// entry (sentinel=true, packet=nil) tells a client_queue consumer "no more
// output, close the stream" (spec.md §3).
type entry struct {
	packet  *socketio.Packet
	sentinel bool
}

// queue is a bounded FIFO of Packets. It is safe for concurrent use by one
// producer and one consumer (the usual shape for client_queue/server_queue
// per spec.md §5); Close/Put from other goroutines are also safe.
type queue struct {
	ch     chan entry
	closed chan struct{}
}

func newQueue(capacity int) *queue {
	return &queue{
		ch:     make(chan entry, capacity),
		closed: make(chan struct{}),
	}
}

// put enqueues p without blocking. closed reports whether the queue has
// already been shut down (the caller should surface SessionClosed); when
// closed is false, ok reports whether the packet was actually enqueued
// (false means the bounded queue was full and the packet was dropped).
func (q *queue) put(p *socketio.Packet) (ok bool, closed bool) {
	select {
	case <-q.closed:
		return false, true
	default:
	}
	select {
	case q.ch <- entry{packet: p}:
		return true, false
	default:
		return false, false
	}
}

// putSentinel enqueues the shutdown sentinel, best-effort (it must not block
// kill()). If the queue is full, the sentinel still needs to reach the
// consumer eventually; shutdown() additionally closes the channel so a
// blocked consumer wakes regardless of buffer occupancy.
func (q *queue) putSentinel() {
	select {
	case q.ch <- entry{sentinel: true}:
	default:
	}
}

// get blocks for a packet until timeout elapses, ctx is cancelled, or the
// queue shuts down. sentinel=true (with a nil packet and nil error) signals
// the shutdown sentinel; err=ErrEmpty signals the timeout elapsed; a
// cancelled ctx returns ctx.Err().
func (q *queue) get(ctx context.Context, timeout time.Duration) (p *socketio.Packet, sentinel bool, err error) {
	var timer *time.Timer
	var after <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		after = timer.C
	}
	select {
	case e, ok := <-q.ch:
		if !ok {
			return nil, true, nil
		}
		if e.sentinel {
			return nil, true, nil
		}
		return e.packet, false, nil
	case <-q.closed:
		// Drain any buffered message before surfacing the sentinel so
		// messages enqueued prior to shutdown are still delivered in order.
		select {
		case e, ok := <-q.ch:
			if ok && !e.sentinel {
				return e.packet, false, nil
			}
		default:
		}
		return nil, true, nil
	case <-after:
		return nil, false, socketio.ErrEmpty
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// shutdown closes the queue, waking any blocked consumer.
func (q *queue) shutdown() {
	select {
	case <-q.closed:
	default:
		close(q.closed)
	}
}
