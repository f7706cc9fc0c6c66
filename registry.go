package ctcp

import (
	"log/slog"
	"sync"

	"github.com/rs/xid"
)

// Registry is the process-wide connection registry named in spec §4.9: an
// intrusive doubly-linked list of live Conns, used by Tick to iterate all
// connections without a separate owning collection. Grounded on the
// teacher's Listener (tcp/listener.go), which guards its connection slices
// behind a sync.Mutex for exactly the reason spec §5 calls out here: "the
// connection registry is process-wide mutable state; in a multi-threaded
// host it must be sharded or guarded such that a connection's owning
// thread has exclusive access". A single Registry instance is meant to be
// owned by one driver goroutine/thread; a host that partitions connections
// across threads runs one Registry per thread/shard.
type Registry struct {
	mu      sync.Mutex
	head    *Conn
	collect MetricsCollector
}

// SetMetrics attaches a collector to be notified of connection lifecycle
// and traffic events across every Conn this Registry creates.
func (r *Registry) SetMetrics(m MetricsCollector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collect = m
}

// Init creates a connection bound to the given transport, application
// source/sink, and clock, registers it, and returns it ready for use
// (spec §6: "init(conn, cfg) → state ... initial sequence numbers = 1").
func (r *Registry) Init(transport Transport, source Source, sink Sink, clock Clock, cfg Config, log *slog.Logger) (*Conn, error) {
	if transport == nil {
		return nil, errTransportNil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Conn{
		id:        xid.New(),
		transport: transport,
		source:    source,
		sink:      sink,
		clock:     clock,
		cfg:       cfg,
		nextSeqno: 1,
		sendBase:  1,
		recvBase:  1,
		logger:    logger{log: log},
		reg:       r,
	}
	if r.collect != nil {
		c.metrics = r.collect
	}

	r.mu.Lock()
	r.link(c)
	n := r.size()
	m := r.collect
	r.mu.Unlock()

	if m != nil {
		m.ObserveConnOpened()
		m.ObserveRegistrySize(n)
	}
	c.trace("ctcp:init", slog.String("conn", c.id.String()))
	return c, nil
}

// Destroy releases c: removes it from the registry, frees its buffers, and
// marks it so further entry points are no-ops (spec §6: "Idempotent
// contract: never called twice by the environment" — the guard below is
// defensive bookkeeping, not a replacement for that contract, since the
// environment is still expected to call it exactly once per connection).
func (r *Registry) Destroy(c *Conn, cause TeardownCause) {
	r.mu.Lock()
	if c.destroyed {
		r.mu.Unlock()
		return
	}
	c.destroyed = true
	r.unlink(c)
	n := r.size()
	m := r.collect
	r.mu.Unlock()

	c.unacked.reset()
	c.reassembly.reset()
	c.transport = nil
	c.source = nil
	c.sink = nil

	if m != nil {
		m.ObserveConnClosed(cause)
		m.ObserveRegistrySize(n)
	}
	c.trace("ctcp:destroy", slog.String("conn", c.id.String()), slog.String("cause", cause.String()))
}

// Tick drives the retransmission timer across every live connection (spec
// §6/§4.8). nowMS is the current monotonic time in milliseconds; callers
// typically pass clock.NowMillis() from whatever Clock backs their
// connections. Destruction during iteration is supported by snapshotting
// each connection's next pointer before ticking it, per spec §4.9.
func (r *Registry) Tick(nowMS int64) {
	r.mu.Lock()
	cur := r.head
	r.mu.Unlock()

	for cur != nil {
		r.mu.Lock()
		next := cur.next
		r.mu.Unlock()

		cur.tick(nowMS)

		cur = next
	}
}

// link inserts c at the head of the list. Must hold r.mu.
func (r *Registry) link(c *Conn) {
	c.next = r.head
	c.prev = nil
	if r.head != nil {
		r.head.prev = c
	}
	r.head = c
}

// unlink removes c from the list in O(1). Must hold r.mu.
func (r *Registry) unlink(c *Conn) {
	if c.prev != nil {
		c.prev.next = c.next
	} else if r.head == c {
		r.head = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	}
	c.next, c.prev = nil, nil
}

// size counts live connections. Must hold r.mu. O(n); used only for
// metrics reporting on init/destroy, never on the hot Tick path.
func (r *Registry) size() int {
	n := 0
	for c := r.head; c != nil; c = c.next {
		n++
	}
	return n
}
