package ctcp

// Flags is the cTCP segment flags bitset. Unlike RFC 9293's TCP, cTCP has no
// handshake flags (no SYN): a connection's state is created directly by
// init with a live transport handle, and the only flags ever observed on
// the wire are ACK and FIN. Bit values match spec §6's legacy encoding
// exactly, which is why they are not adjacent low bits the way a from-
// scratch design would choose.
type Flags uint32

const (
	FlagFIN Flags = 0x01 // FlagFIN - no more data from sender.
	FlagACK Flags = 0x10 // FlagACK - acknowledgment field significant.
)

const flagMask = FlagFIN | FlagACK

// HasAll reports whether all bits in mask are set.
func (f Flags) HasAll(mask Flags) bool { return f&mask == mask }

// HasAny reports whether any bit in mask is set.
func (f Flags) HasAny(mask Flags) bool { return f&mask != 0 }

// Mask clears any bits outside the flags cTCP defines.
func (f Flags) Mask() Flags { return f & flagMask }

// String returns a human readable flag string, e.g. "[ACK]", "[FIN,ACK]".
func (f Flags) String() string {
	switch f.Mask() {
	case 0:
		return "[]"
	case FlagACK:
		return "[ACK]"
	case FlagFIN:
		return "[FIN]"
	case FlagFIN | FlagACK:
		return "[FIN,ACK]"
	default:
		return "[?]"
	}
}
