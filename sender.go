package ctcp

import (
	"errors"
	"io"
	"log/slog"
)

// Read is the sender-path entry point (spec §4.5): called whenever the
// environment believes the application source may have produced more
// bytes. It segments available bytes, transmits them, and enqueues each
// segment for retransmission until the send window is full, the source
// has nothing more to offer right now, or a FIN has been queued.
func (c *Conn) Read(nowMS int64) {
	if c.destroyed || c.sentFin {
		return
	}
	windowBytes := c.cfg.sendWindowBytes()
	var buf [MaxSegDataSize]byte
	for Sizeof(c.sendBase, c.nextSeqno) < windowBytes {
		remaining := windowBytes - Sizeof(c.sendBase, c.nextSeqno)
		want := Size(MaxSegDataSize)
		if remaining < want {
			want = remaining
		}
		n, err := c.source.Read(buf[:want])
		if n == 0 && err == nil {
			return // Would-block: nothing available right now.
		}
		if n > 0 {
			c.sendData(buf[:n], nowMS)
			if c.destroyed {
				return // transmit failed permanently and tore the connection down.
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			c.sendFin(nowMS)
			return
		}
		return // Unexpected nil read with non-EOF error: treat as would-block.
	}
}

// sendData assembles and transmits one data segment carrying payload,
// per spec §4.5 step 4.
func (c *Conn) sendData(payload []byte, nowMS int64) {
	seg := Segment{
		Seq:     c.nextSeqno,
		Ack:     c.recvBase,
		Flags:   FlagACK,
		Window:  c.advertisedWindow(),
		Payload: payload,
	}
	if !c.transmit(seg, nowMS) {
		return
	}
	wasEmpty := c.unacked.empty()
	c.unacked.pushBack(seg.Seq, seg.Flags, payload)
	c.nextSeqno = Add(c.nextSeqno, Size(len(payload)))
	if wasEmpty {
		c.lastXmitMS = nowMS
		c.xmitCount = 0
	}
}

// sendFin assembles and transmits the single FIN segment for this side,
// per spec §4.5 step 3. A FIN is sent at most once per connection.
func (c *Conn) sendFin(nowMS int64) {
	seg := Segment{
		Seq:    c.nextSeqno,
		Ack:    c.recvBase,
		Flags:  FlagACK | FlagFIN,
		Window: c.advertisedWindow(),
	}
	if !c.transmit(seg, nowMS) {
		return
	}
	wasEmpty := c.unacked.empty()
	c.unacked.pushBack(seg.Seq, seg.Flags, nil)
	c.sentFin = true
	c.sentFinSeqno = seg.Seq
	c.nextSeqno = Add(c.nextSeqno, 1)
	if wasEmpty {
		c.lastXmitMS = nowMS
		c.xmitCount = 0
	}
	c.trace("ctcp:fin-sent", slog.Uint64("seq", uint64(seg.Seq)))
}

// transmit encodes seg and hands it to the transport. A permanent
// transport failure destroys the connection (spec §7) and transmit
// reports false so the caller stops trying to make further progress this
// call.
func (c *Conn) transmit(seg Segment, nowMS int64) bool {
	if limit := Add(c.sendBase, c.cfg.sendWindowBytes()-1); limit.LessThan(seg.Last()) {
		// Flow control (spec §4.5): never transmit a segment whose last
		// byte's sequence number exceeds send_base+send_window. Read's
		// own window-remaining cap should make this unreachable; this is
		// the explicit assertion of that invariant at the point of send.
		c.error("ctcp:flow-control-violation", slog.Uint64("seq", uint64(seg.Seq)), slog.Uint64("last", uint64(seg.Last())))
		return false
	}
	var frame [HeaderSize + MaxSegDataSize]byte
	n, err := Encode(seg, frame[:])
	if err != nil {
		// Only reachable on a programming error (oversized payload/window);
		// there is nothing recoverable to do but drop this attempt.
		c.error("ctcp:encode-failed", slog.String("err", err.Error()))
		return false
	}
	sent, err := c.transport.Send(frame[:n])
	if err != nil || sent < 0 {
		c.error("ctcp:transport-send-failed")
		c.reg.Destroy(c, TeardownTransportError)
		return false
	}
	if c.metrics != nil {
		c.metrics.ObserveSegmentSent(seg.Flags, len(seg.Payload))
	}
	c.traceSeg("ctcp:tx", seg)
	return true
}

func (c *Conn) traceSeg(msg string, seg Segment) {
	if c.log == nil {
		return
	}
	c.trace(msg, segAttrs(seg)...)
}
