package ctcp

import "log/slog"

// Receive is the receiver-path entry point (spec §4.6): invoked by the
// demultiplexer for each inbound datagram addressed to this connection.
// frame is the raw received bytes; Receive takes ownership of them for the
// duration of the call and never retains a reference past return (spec
// §5, "inbound segments handed to receive are owned by the core on
// entry").
func (c *Conn) Receive(frame []byte, nowMS int64) {
	if c.destroyed {
		return
	}
	seg, err := Decode(frame)
	if err != nil {
		if c.metrics != nil {
			c.metrics.ObserveSegmentDropped()
		}
		c.trace("ctcp:rx-malformed")
		return // Malformed: silent drop, no ACK (spec §4.1/§7).
	}
	if c.metrics != nil {
		c.metrics.ObserveSegmentReceived(seg.Flags, len(seg.Payload))
	}
	c.traceSeg("ctcp:rx", seg)

	if seg.Flags.HasAny(FlagACK) && c.nextSeqno.LessThan(seg.Ack) {
		// Admission rejection: the peer is acking bytes this side never
		// sent. Drop the segment rather than advance send_base on it.
		if c.metrics != nil {
			c.metrics.ObserveSegmentDropped()
		}
		c.trace("ctcp:rx-rejected", slog.String("err", errAckAheadOfSend.Error()))
		return
	}
	if seg.Flags.HasAny(FlagACK) && c.sendBase.LessThan(seg.Ack) {
		c.sendBase = seg.Ack
		c.unacked.dropWhile(seg.Ack)
		// A new oldest unacked segment is now the timed one.
		c.xmitCount = 0
		c.lastXmitMS = nowMS
	}

	isFin := seg.Flags.HasAny(FlagFIN)
	if len(seg.Payload) > 0 || isFin {
		// Duplicates and strictly-behind segments are discarded inside
		// insertUnique, but an ACK is still emitted below so a lossy ACK
		// path recovers (spec §4.6 closing note).
		c.reassembly.insertUnique(seg.Seq, isFin, seg.Payload, c.recvBase)
		c.Output(nowMS)
		if c.destroyed {
			return // Output tore the connection down; there is no transport left to ACK on.
		}
		c.sendPureAck(nowMS)
	}

	c.maybeDestroyGraceful(nowMS)
}

// sendPureAck transmits a no-payload ACK segment advertising the current
// recv_base and window, per spec §4.6 step 3.
func (c *Conn) sendPureAck(nowMS int64) {
	seg := Segment{
		Seq:    c.nextSeqno,
		Ack:    c.recvBase,
		Flags:  FlagACK,
		Window: c.advertisedWindow(),
	}
	c.transmit(seg, nowMS)
}

// Output is the in-order delivery entry point (spec §4.7): invoked after
// every Receive and whenever the environment signals the application sink
// has drained. It drains the reassembly buffer's contiguous prefix
// starting at recv_base for as long as the sink reports capacity.
func (c *Conn) Output(nowMS int64) {
	if c.destroyed {
		return
	}
	for {
		head := c.reassembly.peekFront()
		if head == nil || head.seq != c.recvBase {
			return
		}
		if head.isFin && len(head.payload) == 0 {
			if err := c.sink.Close(); err != nil {
				c.reg.Destroy(c, TeardownSinkClosed)
				return
			}
			c.recvFin = true
			c.eofDelivered = true
			c.recvBase = Add(c.recvBase, 1)
			c.reassembly.popFront()
			c.maybeDestroyGraceful(nowMS)
			return
		}

		need := len(head.payload)
		if c.sink.BufSpace() < need {
			return // Sink lacks capacity right now; leave buffered.
		}
		n, err := c.sink.Write(head.payload)
		if err != nil {
			c.reg.Destroy(c, TeardownSinkClosed)
			return
		}
		if c.metrics != nil {
			c.metrics.ObserveBytesDelivered(n)
		}
		c.recvBase = Add(c.recvBase, Size(n))
		if n < need {
			// Sink accepted only part of the payload despite reporting
			// capacity; keep the remainder buffered at its new seqno
			// rather than lose it.
			head.payload = head.payload[n:]
			head.seq = Add(head.seq, Size(n))
			return
		}
		c.reassembly.popFront()
	}
}

// maybeDestroyGraceful destroys the connection once both directions have
// fully closed (spec §4.6 step 4 / §3 lifecycle clause (a)).
func (c *Conn) maybeDestroyGraceful(nowMS int64) {
	_ = nowMS
	if c.sentFin && c.sentFinSeqno.LessThan(c.sendBase) && c.recvFin && c.eofDelivered {
		c.reg.Destroy(c, TeardownGraceful)
	}
}
