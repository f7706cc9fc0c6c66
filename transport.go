package ctcp

// Transport is the per-connection datagram collaborator consumed by the
// core (spec §6, "Transport collaborator surface"). Implementations are
// expected to be non-blocking: input/output calls return zero (or false)
// for "would block" rather than blocking the calling goroutine, since the
// core's entry points must run to completion without suspension (spec §5).
//
// The framing/demultiplexing driver that routes an inbound datagram to the
// right Conn, and the concrete datagram channel itself (UDP socket, raw
// socket, in-memory pipe, ...) are both external collaborators out of
// scope for this module; Transport is the seam between them and the core.
type Transport interface {
	// Send performs a best-effort transmission of a single encoded
	// segment. A negative return or non-nil error indicates a permanent
	// transport failure; the core destroys the connection when this
	// happens (spec §7).
	Send(frame []byte) (n int, err error)
}

// Source is the application byte source consumed by the sender path
// (spec §4.5, conn_input). Read should never block: zero bytes and a nil
// error means "would block, nothing available yet".
type Source interface {
	// Read pulls up to len(buf) bytes into buf. It returns (0, nil) if no
	// bytes are currently available, (n, nil) for n>0 bytes produced, or
	// (0, io.EOF) once the source is exhausted and will produce no more
	// bytes.
	Read(buf []byte) (n int, err error)
}

// Sink is the application byte sink consumed by the receiver path
// (spec §4.7, conn_output). Write should never block.
type Sink interface {
	// Write pushes b to the sink, returning the number of bytes actually
	// accepted (which may be less than len(b) if the sink lacks capacity)
	// or an error if the sink has been closed.
	Write(b []byte) (n int, err error)
	// Close signals end-of-stream to the sink (conn_output with len==0).
	Close() error
	// BufSpace reports the sink's current write capacity in bytes,
	// consulted by Output before attempting delivery (spec §4.7).
	BufSpace() int
}

// Clock supplies the monotonic wall-clock used for retransmission timing
// (spec §6, current_time_ms). Tests substitute a fake clock to drive the
// timer deterministically; production callers use a clock backed by
// time.Now().
type Clock interface {
	NowMillis() int64
}
