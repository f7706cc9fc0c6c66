package ctcp

// reassemblyEntry is one inbound segment buffered because it arrived ahead
// of recv_base. Payload is a private copy so the buffer handed to Receive
// can be reused/released by the caller immediately (spec §5, "inbound
// segments handed to receive are owned by the core on entry").
type reassemblyEntry struct {
	seq     Value
	isFin   bool
	payload []byte
}

func (e *reassemblyEntry) effectiveLen() Size {
	n := Size(len(e.payload))
	if e.isFin {
		n++
	}
	return n
}

// reassemblyBuffer is the receive-side structure named in spec §4.3: a
// sequence sorted ascending by seqno, holding at most one entry per seqno,
// discarding anything already delivered. Grounded in spirit on the
// teacher's ordered sentlist discipline (tcp/txqueue.go: insertion keeps
// list sorted, trimming happens from the front) but this is a genuinely
// new structure on the receive side — spec §9 notes the source never had
// one (it repurposed the sender's unacked list), so there is no teacher
// receive-side buffer to adapt line-for-line. Unlike the sender's
// unackedQueue, insertion order here is NOT seqno order (segments can
// arrive out of order), so insert does an explicit sorted insertion.
type reassemblyBuffer struct {
	entries []reassemblyEntry
}

// insertUnique inserts seg into the buffer in seqno order, discarding it
// if a segment with the same seqno is already present or if it is
// entirely behind recvBase (spec §4.3/§4.6 step 3: "duplicates and
// strictly-behind segments discarded").
func (b *reassemblyBuffer) insertUnique(seq Value, isFin bool, payload []byte, recvBase Value) {
	effLen := Size(len(payload))
	if isFin {
		effLen++
	}
	if Add(seq, effLen).LessThanEq(recvBase) {
		return // Entirely behind recv_base: duplicate, discard.
	}
	i := 0
	for i < len(b.entries) {
		if b.entries[i].seq == seq {
			return // Duplicate seqno already buffered.
		}
		if seq.LessThan(b.entries[i].seq) {
			break
		}
		i++
	}
	var stored []byte
	if len(payload) > 0 {
		stored = append([]byte(nil), payload...)
	}
	entry := reassemblyEntry{seq: seq, isFin: isFin, payload: stored}
	b.entries = append(b.entries, reassemblyEntry{})
	copy(b.entries[i+1:], b.entries[i:])
	b.entries[i] = entry
}

// peekFront returns the lowest-seqno buffered entry, or nil if empty.
func (b *reassemblyBuffer) peekFront() *reassemblyEntry {
	if len(b.entries) == 0 {
		return nil
	}
	return &b.entries[0]
}

// popFront removes the lowest-seqno buffered entry.
func (b *reassemblyBuffer) popFront() {
	if len(b.entries) == 0 {
		return
	}
	b.entries = append(b.entries[:0], b.entries[1:]...)
}

// reset discards all entries, used on destroy.
func (b *reassemblyBuffer) reset() { b.entries = b.entries[:0] }
