package ctcp

import (
	"log/slog"

	"github.com/rs/xid"
)

// State summarizes a connection's progress through the teardown handshake
// for logging and diagnostics (spec §4.9, "State machine (connection)").
// Unlike the teacher's RFC 9293 State, there is no pre-established phase:
// cTCP connections are created already "open" by init, since the
// handshake that would produce SYN/SYN-ACK is performed by an external
// collaborator (the framing/demux driver), not by this core.
type State uint8

const (
	// StateOpen - both directions may carry data; neither FIN sent nor received.
	StateOpen State = iota
	// StateFinSent - this side's FIN has been transmitted, not yet acknowledged.
	StateFinSent
	// StateFinAcked - this side's FIN has been acknowledged by the peer.
	StateFinAcked
	// StateClosed - connection destroyed: after both FINs were exchanged and
	// all data delivered, or by any other teardown cause.
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateFinSent:
		return "FIN_SENT"
	case StateFinAcked:
		return "FIN_ACKED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Conn is the per-peer connection state described in spec §3. It couples
// the sliding-window sender, the in-order reassembling receiver, the
// retransmission timer, and the bilateral-close bookkeeping into a single
// struct mutated exclusively by the four entry points (Read, Receive,
// Output, and the registry's internal tick), which per spec §5 are never
// re-entered concurrently for the same connection.
//
// Grounded on the teacher's ControlBlock (tcp/control.go) for the overall
// shape (send/recv sequence spaces, a pending-flags style close
// bookkeeping) but generalized: ControlBlock implements the full RFC 9293
// state machine with SYN handshaking and congestion-window-free flow
// control; Conn implements only the data-transfer-and-close subset spec.md
// calls for, with an explicit reassembly buffer the teacher never needed
// (see SPEC_FULL.md's "Supplemented features").
type Conn struct {
	id xid.ID

	transport Transport
	source    Source
	sink      Sink
	clock     Clock

	cfg Config

	nextSeqno Value
	sendBase  Value
	recvBase  Value

	unacked    unackedQueue
	reassembly reassemblyBuffer

	lastXmitMS int64
	xmitCount  int

	sentFin      bool
	sentFinSeqno Value
	recvFin      bool
	eofDelivered bool

	sourceEOF bool // true once Source has reported io.EOF
	destroyed bool

	metrics MetricsCollector

	logger

	// registry linkage, guarded by the owning Registry's mutex.
	next, prev *Conn
	reg        *Registry
}

// MetricsCollector is the optional observer notified of per-connection and
// registry-wide events. A nil MetricsCollector disables all observation at
// zero cost. Exported (rather than kept package-private) so a collector
// implemented in another package — see ctcpmetrics.Collector — can satisfy
// it.
type MetricsCollector interface {
	ObserveSegmentSent(flags Flags, dataLen int)
	ObserveSegmentReceived(flags Flags, dataLen int)
	ObserveSegmentDropped()
	ObserveRetransmit()
	ObserveBytesDelivered(n int)
	ObserveConnOpened()
	ObserveConnClosed(cause TeardownCause)
	ObserveRegistrySize(n int)
}

// ID returns the opaque, globally-unique identifier assigned to this
// connection by Init, suitable for log correlation across many
// simultaneous connections.
func (c *Conn) ID() xid.ID { return c.id }

// State reports the connection's teardown progress (see State).
func (c *Conn) State() State {
	switch {
	case c.destroyed:
		return StateClosed
	case !c.sentFin:
		return StateOpen
	case c.sendBase.LessThanEq(c.sentFinSeqno):
		return StateFinSent
	default:
		return StateFinAcked
	}
}

// NextSeqno returns the sequence number that will be assigned to the next
// outbound byte (spec §3).
func (c *Conn) NextSeqno() Value { return c.nextSeqno }

// SendBase returns the smallest sequence number sent but not yet
// acknowledged (spec §3).
func (c *Conn) SendBase() Value { return c.sendBase }

// RecvBase returns the next in-order sequence number expected from the
// peer (spec §3).
func (c *Conn) RecvBase() Value { return c.recvBase }

// advertisedWindow returns the receive window to advertise in outbound
// segments: the configured receive window, a static value for the
// lifetime of the connection (spec §6 treats recv_window as config, not
// runtime-adjusted flow control).
func (c *Conn) advertisedWindow() Size {
	return c.cfg.recvWindowBytes()
}
