package ctcp

// unackedEntry is one in-flight outbound segment owned by the connection
// until it is retired by an ACK. Payload is a private copy (never an alias
// into the caller's buffer) so retransmission can re-send it at any later
// time without the caller having kept the original bytes alive.
type unackedEntry struct {
	seq     Value
	flags   Flags
	payload []byte // nil/empty for a pure FIN or pure ACK
}

func (e *unackedEntry) effectiveLen() Size {
	n := Size(len(e.payload))
	if e.flags.HasAny(FlagFIN) {
		n++
	}
	return n
}

// unackedQueue is the ordered sequence of in-flight outbound segments
// described in spec §4.2. Entries are appended in seqno order (insertion
// order matches next_seqno monotonicity per spec), so the queue is always
// seqno-sorted without needing to sort explicitly — grounded on the
// teacher's sentlist (tcp/txqueue.go), simplified from a ring-indexed
// packet list down to a plain owned-byte-slice slice since the core's
// buffer ownership model (spec §5) doesn't require sharing storage with a
// separate unsent-data ring.
type unackedQueue struct {
	entries []unackedEntry
}

// pushBack appends a newly transmitted segment to the queue.
func (q *unackedQueue) pushBack(seq Value, flags Flags, payload []byte) {
	var stored []byte
	if len(payload) > 0 {
		stored = append([]byte(nil), payload...)
	}
	q.entries = append(q.entries, unackedEntry{seq: seq, flags: flags, payload: stored})
}

// empty reports whether there are no in-flight segments.
func (q *unackedQueue) empty() bool { return len(q.entries) == 0 }

// peekFront returns the oldest unacked entry, or nil if the queue is empty.
func (q *unackedQueue) peekFront() *unackedEntry {
	if len(q.entries) == 0 {
		return nil
	}
	return &q.entries[0]
}

// dropWhile removes every leading entry whose seq+effectiveLen <= ackno,
// per spec §4.6 step 2. Entries are contiguous in seqno order, so a
// segment once past the ack boundary stops the scan.
func (q *unackedQueue) dropWhile(ackno Value) {
	i := 0
	for i < len(q.entries) {
		e := &q.entries[i]
		if Add(e.seq, e.effectiveLen()).LessThanEq(ackno) {
			i++
			continue
		}
		break
	}
	if i == 0 {
		return
	}
	q.entries = append(q.entries[:0], q.entries[i:]...)
}

// reset discards all entries, used on destroy (spec §5, memory ownership).
func (q *unackedQueue) reset() { q.entries = q.entries[:0] }
