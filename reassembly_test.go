package ctcp

import "testing"

func TestReassemblyInsertInOrderDelivery(t *testing.T) {
	var b reassemblyBuffer
	b.insertUnique(1, false, []byte("abc"), 1)
	if got := b.peekFront().seq; got != 1 {
		t.Fatalf("peekFront seq = %d, want 1", got)
	}
}

func TestReassemblyOutOfOrderSortsOnInsert(t *testing.T) {
	var b reassemblyBuffer
	b.insertUnique(10, false, []byte("later"), 1)
	b.insertUnique(1, false, []byte("first"), 1)
	if got := b.peekFront().seq; got != 1 {
		t.Fatalf("peekFront seq = %d, want 1 (lowest inserted first)", got)
	}
	b.popFront()
	if got := b.peekFront().seq; got != 10 {
		t.Fatalf("after pop, peekFront seq = %d, want 10", got)
	}
}

func TestReassemblyDiscardsDuplicateSeq(t *testing.T) {
	var b reassemblyBuffer
	b.insertUnique(5, false, []byte("one"), 1)
	b.insertUnique(5, false, []byte("two"), 1)
	if len(b.entries) != 1 {
		t.Fatalf("want duplicate seqno discarded, got %d entries", len(b.entries))
	}
}

func TestReassemblyDiscardsEntirelyBehindRecvBase(t *testing.T) {
	var b reassemblyBuffer
	b.insertUnique(1, false, []byte("abc"), 4) // occupies 1..3, recvBase already at 4
	if len(b.entries) != 0 {
		t.Fatalf("want stale segment discarded, got %d entries", len(b.entries))
	}
}

func TestReassemblyFinEntry(t *testing.T) {
	var b reassemblyBuffer
	b.insertUnique(1, false, []byte("ab"), 1)
	b.insertUnique(3, true, nil, 1)
	b.popFront()
	head := b.peekFront()
	if head == nil || !head.isFin || head.seq != 3 {
		t.Fatalf("want FIN entry at seq 3 after draining data, got %+v", head)
	}
}

func TestReassemblyResetEmptiesBuffer(t *testing.T) {
	var b reassemblyBuffer
	b.insertUnique(1, false, []byte("x"), 1)
	b.reset()
	if b.peekFront() != nil {
		t.Fatal("want empty buffer after reset")
	}
}
