package ctcp

// Value is a sequence or acknowledgment number in the cTCP sequence space.
// Sequence numbers count data bytes; a FIN consumes exactly one slot.
// Arithmetic on Value wraps around modulo 2**32, so comparisons use the
// signed-difference trick below rather than plain `<`/`>`.
type Value uint32

// Size is a length in bytes: a payload length, a window size, or the
// distance between two sequence numbers.
type Size uint32

// Add returns v+n in the sequence space.
func Add(v Value, n Size) Value { return v + Value(n) }

// Sizeof returns the number of bytes between a (older) and b (newer) in the
// sequence space, i.e. b-a performed with wraparound-aware arithmetic.
func Sizeof(a, b Value) Size { return Size(b - a) }

// LessThan reports whether v precedes w in the sequence space, accounting
// for 32-bit wraparound (RFC 9293 uses the same signed-difference trick).
func (v Value) LessThan(w Value) bool { return int32(v-w) < 0 }

// LessThanEq reports whether v precedes or equals w in the sequence space.
func (v Value) LessThanEq(w Value) bool { return int32(v-w) <= 0 }

// InWindow reports whether v falls in [nxt, nxt+wnd).
func (v Value) InWindow(nxt Value, wnd Size) bool {
	if wnd == 0 {
		return false
	}
	return Sizeof(nxt, v) < wnd
}
