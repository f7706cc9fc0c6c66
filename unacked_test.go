package ctcp

import "testing"

func TestUnackedQueuePushAndDropWhile(t *testing.T) {
	var q unackedQueue
	if !q.empty() {
		t.Fatal("new queue should be empty")
	}
	q.pushBack(1, FlagACK, []byte("abc"))  // occupies 1..3
	q.pushBack(4, FlagACK, []byte("de"))   // occupies 4..5
	q.pushBack(6, FlagACK|FlagFIN, nil)    // FIN occupies slot 6

	if q.empty() {
		t.Fatal("queue should not be empty after pushes")
	}
	if got := q.peekFront().seq; got != 1 {
		t.Fatalf("peekFront seq = %d, want 1", got)
	}

	// Ack covering only the first segment.
	q.dropWhile(4)
	if got := q.peekFront().seq; got != 4 {
		t.Fatalf("after dropWhile(4), peekFront seq = %d, want 4", got)
	}

	// Ack covering everything including the FIN slot.
	q.dropWhile(7)
	if !q.empty() {
		t.Fatal("want queue empty after ack covers all entries")
	}
}

func TestUnackedQueueDropWhilePartialAckLeavesEntry(t *testing.T) {
	var q unackedQueue
	q.pushBack(1, FlagACK, []byte("abcdef"))
	q.dropWhile(3) // doesn't reach seq 1's end (7); nothing should drop
	if q.empty() {
		t.Fatal("partial ack must not drop an entry that isn't fully covered")
	}
	if got := q.peekFront().seq; got != 1 {
		t.Fatalf("peekFront seq = %d, want 1", got)
	}
}

func TestUnackedQueueReset(t *testing.T) {
	var q unackedQueue
	q.pushBack(1, FlagACK, []byte("x"))
	q.reset()
	if !q.empty() {
		t.Fatal("want empty after reset")
	}
}

func TestUnackedEntryPayloadIsCopied(t *testing.T) {
	var q unackedQueue
	payload := []byte("mutate-me")
	q.pushBack(1, FlagACK, payload)
	payload[0] = 'X'
	if q.peekFront().payload[0] == 'X' {
		t.Fatal("pushBack must copy payload, not alias caller's slice")
	}
}
