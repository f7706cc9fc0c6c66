package ctcp

import "encoding/binary"

// HeaderSize is the fixed size, in bytes, of the cTCP segment header.
const HeaderSize = 18

// MaxSegDataSize is the largest payload a single segment may carry, per
// spec §6.
const MaxSegDataSize = 1440

// Segment is the decoded, host-order representation of a cTCP segment:
// fixed header fields plus the payload slice. Payload, when non-nil,
// aliases the buffer it was decoded from or that was handed to Encode;
// callers that need to retain a Segment past the lifetime of that buffer
// must copy Payload themselves (see unackedQueue.pushBack, which does).
type Segment struct {
	Seq     Value
	Ack     Value
	Flags   Flags
	Window  Size // advertised receive window, in bytes
	Payload []byte
}

// DataLen returns the number of payload bytes in the segment, not counting
// a FIN's sequence slot.
func (s *Segment) DataLen() Size { return Size(len(s.Payload)) }

// EffectiveLen returns the number of sequence-number slots the segment
// occupies: payload length, plus one if FIN is set. A FIN with payload is
// not produced by this implementation; were one to occur, its FIN slot is
// counted after the payload bytes.
func (s *Segment) EffectiveLen() Size {
	n := s.DataLen()
	if s.Flags.HasAny(FlagFIN) {
		n++
	}
	return n
}

// Last returns the sequence number of the last octet (or FIN slot)
// occupied by the segment.
func (s *Segment) Last() Value {
	n := s.EffectiveLen()
	if n == 0 {
		return s.Seq
	}
	return Add(s.Seq, n) - 1
}

// Encode writes the segment's header and payload into buf, computing and
// setting the checksum over the full frame. buf must have length
// HeaderSize+len(s.Payload). Encode returns the number of bytes written.
func Encode(s Segment, buf []byte) (int, error) {
	total := HeaderSize + len(s.Payload)
	if len(buf) < total {
		return 0, errBufferTooSmall
	}
	if s.Window > 0xffff {
		return 0, errWindowTooLarge
	}
	binary.BigEndian.PutUint32(buf[0:4], uint32(s.Seq))
	binary.BigEndian.PutUint32(buf[4:8], uint32(s.Ack))
	binary.BigEndian.PutUint16(buf[8:10], uint16(total))
	binary.BigEndian.PutUint32(buf[10:14], uint32(s.Flags.Mask()))
	binary.BigEndian.PutUint16(buf[14:16], uint16(s.Window))
	binary.BigEndian.PutUint16(buf[16:18], 0) // cksum zeroed for computation
	n := copy(buf[HeaderSize:total], s.Payload)
	crc := checksum(buf[:total])
	binary.BigEndian.PutUint16(buf[16:18], crc)
	return HeaderSize + n, nil
}

// Decode parses a cTCP segment out of buf, the received datagram. The
// header's len field must be at least HeaderSize and no larger than buf;
// bytes of buf beyond len are ignored. Decode returns errMalformed for any
// structurally invalid or checksum-failing frame; callers must silently
// drop on this error per spec §4.1/§7.
//
// The returned Segment's Payload aliases buf; callers that enqueue the
// segment beyond the current call must copy it.
func Decode(buf []byte) (Segment, error) {
	if len(buf) < HeaderSize {
		return Segment{}, errMalformed
	}
	length := binary.BigEndian.Uint16(buf[8:10])
	if int(length) < HeaderSize || int(length) > len(buf) {
		return Segment{}, errMalformed
	}
	frame := buf[:length]
	if checksum(frame) != 0 {
		return Segment{}, errMalformed
	}
	seg := Segment{
		Seq:     Value(binary.BigEndian.Uint32(frame[0:4])),
		Ack:     Value(binary.BigEndian.Uint32(frame[4:8])),
		Flags:   Flags(binary.BigEndian.Uint32(frame[10:14])).Mask(),
		Window:  Size(binary.BigEndian.Uint16(frame[14:16])),
		Payload: frame[HeaderSize:],
	}
	return seg, nil
}

// checksum computes the one's-complement checksum of frame exactly as laid
// out (header+payload), per spec §4.1. Encode zeroes the cksum field before
// calling this, so the result folds to the value to store there; Decode
// calls this directly on the received bytes; the standard self-check
// property of the Internet checksum means a frame whose stored cksum is
// correct folds to zero here. Adapted from the teacher's CRC791 fold-carry
// routine (internet checksum), generalized to run over a single contiguous
// frame instead of an IP pseudo-header plus payload.
func checksum(frame []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(frame); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(frame[i : i+2]))
	}
	if len(frame)%2 == 1 {
		sum += uint32(frame[len(frame)-1]) << 8
	}
	sum = (sum & 0xffff) + (sum >> 16)
	sum = (sum & 0xffff) + (sum >> 16)
	return ^uint16(sum)
}
