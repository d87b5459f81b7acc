package session

import (
	"time"

	"github.com/coresio/socketio/internal/collection"
	"github.com/coresio/socketio/internal/metrics"
)

// Registry is the process-local mapping from session id to Session
// (spec.md §3/§4.2). It exclusively owns Sessions: transports and the
// heartbeat task only ever hold an id or a pointer they must tolerate
// disappearing mid-operation.
type Registry struct {
	sessions *collection.SyncMap[string, *Session]
	metrics  *metrics.Metrics
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: collection.NewSyncMap[string, *Session]()}
}

// NewRegistryWithMetrics is NewRegistry plus Prometheus instrumentation for
// session lifecycle counters/gauges.
func NewRegistryWithMetrics(m *metrics.Metrics) *Registry {
	return &Registry{sessions: collection.NewSyncMap[string, *Session](), metrics: m}
}

// Get returns the session for id, touching it on a hit, as spec.md §3
// requires ("get(id) (touches on hit)").
func (r *Registry) Get(id string) (*Session, bool) {
	s, ok := r.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s.Touch()
	return s, true
}

// peek returns the session for id without touching it, used by the expiry
// monitor so liveness checks don't themselves reset the idle clock.
func (r *Registry) peek(id string) (*Session, bool) {
	return r.sessions.Get(id)
}

// Create allocates a new NEW-state Session with the given idle timeout
// (DefaultSessionExpire if expire<=0) and registers it.
func (r *Registry) Create(expire time.Duration) *Session {
	s := newSession(r, expire)
	r.sessions.Put(s.id, s)
	if r.metrics != nil {
		r.metrics.SessionsCreated.Inc()
		r.metrics.SessionsActive.Set(float64(r.sessions.Len()))
	}
	return s
}

// remove deregisters id. Invoked by Session.Kill; not exported because
// removal is implicit in the session lifecycle, never a direct caller
// action (spec.md §3: "Entries are removed from the Registry on
// DISCONNECTED").
func (r *Registry) remove(id string) {
	r.sessions.Delete(id)
	if r.metrics != nil {
		r.metrics.SessionsActive.Set(float64(r.sessions.Len()))
	}
}

// recordExpiry increments the expiry counter. Called by a Session's expiry
// monitor when it kills itself for being idle past its timeout.
func (r *Registry) recordExpiry() {
	if r.metrics != nil {
		r.metrics.SessionsExpired.Inc()
	}
}

// observeQueueDepth samples the current depth of a session's client_queue
// or server_queue. Called by Session.PutClient/PutServer right after
// enqueueing, so the gauge reflects occupancy under real traffic rather
// than sitting at zero.
func (r *Registry) observeQueueDepth(direction string, depth int) {
	if r.metrics != nil {
		r.metrics.QueueDepth.WithLabelValues(direction).Set(float64(depth))
	}
}

// Range iterates all live sessions, used by broadcast. Order is
// unspecified; there is no cross-session ordering guarantee (spec.md §5).
func (r *Registry) Range(f func(s *Session) bool) {
	r.sessions.Range(func(_ string, s *Session) bool {
		return f(s)
	})
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int { return r.sessions.Len() }
