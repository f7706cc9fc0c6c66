package ctcp

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	seg := Segment{
		Seq:     1001,
		Ack:     2002,
		Flags:   FlagACK,
		Window:  5 * MaxSegDataSize,
		Payload: []byte("hello, cTCP"),
	}
	buf := make([]byte, HeaderSize+len(seg.Payload))
	n, err := Encode(seg, buf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Encode wrote %d bytes, want %d", n, len(buf))
	}

	got, err := Decode(buf[:n])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Seq != seg.Seq || got.Ack != seg.Ack || got.Flags != seg.Flags || got.Window != seg.Window {
		t.Fatalf("Decode fields mismatch: got %+v, want %+v", got, seg)
	}
	if !bytes.Equal(got.Payload, seg.Payload) {
		t.Fatalf("Decode payload = %q, want %q", got.Payload, seg.Payload)
	}
}

func TestEncodeDecodeNoPayload(t *testing.T) {
	seg := Segment{Seq: 5, Ack: 1, Flags: FlagACK | FlagFIN, Window: 10}
	buf := make([]byte, HeaderSize)
	n, err := Encode(seg, buf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf[:n])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Payload) != 0 {
		t.Fatalf("want empty payload, got %d bytes", len(got.Payload))
	}
	if !got.Flags.HasAll(FlagFIN | FlagACK) {
		t.Fatalf("want FIN|ACK preserved, got %s", got.Flags)
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	seg := Segment{Seq: 1, Ack: 1, Flags: FlagACK, Payload: []byte("payload")}
	buf := make([]byte, HeaderSize+len(seg.Payload))
	n, err := Encode(seg, buf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	buf[n-1] ^= 0xff // flip a payload bit
	if _, err := Decode(buf[:n]); err == nil {
		t.Fatal("want Decode to reject corrupted frame")
	}
}

func TestDecodeRejectsShortFrame(t *testing.T) {
	if _, err := Decode(make([]byte, HeaderSize-1)); err == nil {
		t.Fatal("want Decode to reject a frame shorter than the header")
	}
}

func TestEncodeRejectsOversizeWindow(t *testing.T) {
	seg := Segment{Window: 0x10000}
	buf := make([]byte, HeaderSize)
	if _, err := Encode(seg, buf); err == nil {
		t.Fatal("want Encode to reject a window that doesn't fit 16 bits")
	}
}

func TestEncodeRejectsShortBuffer(t *testing.T) {
	seg := Segment{Payload: []byte("abc")}
	buf := make([]byte, HeaderSize) // too small for payload
	if _, err := Encode(seg, buf); err == nil {
		t.Fatal("want Encode to reject an undersized buffer")
	}
}

func TestSegmentLast(t *testing.T) {
	data := Segment{Seq: 10, Payload: []byte("abcd")}
	if got := data.Last(); got != 13 {
		t.Fatalf("Last() = %d, want 13", got)
	}

	fin := Segment{Seq: 20, Flags: FlagFIN}
	if got := fin.Last(); got != 20 {
		t.Fatalf("Last() for bare FIN = %d, want 20", got)
	}

	empty := Segment{Seq: 30}
	if got := empty.Last(); got != 30 {
		t.Fatalf("Last() for empty segment = %d, want 30 (seq unchanged)", got)
	}
}
