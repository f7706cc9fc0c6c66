package ctcp

import "log/slog"

// tick implements the per-connection retransmission timer (spec §4.8),
// invoked by Registry.Tick for every live connection on each periodic
// tick. Only the oldest unacked segment is ever retransmitted — Go-Back-N
// is deliberately not implemented, per spec §4.8/§9's explicit deviation
// from the teaching lab's source, which retransmitted (and re-timestamped)
// every unacked segment on every tick after a timeout.
func (c *Conn) tick(nowMS int64) {
	if c.destroyed || c.unacked.empty() {
		return
	}
	if nowMS-c.lastXmitMS < int64(c.cfg.RTTimeoutMS) {
		return
	}
	if c.xmitCount >= c.cfg.MaxRetransmits {
		c.error("ctcp:retransmit-exhausted", slog.Int("attempts", c.xmitCount))
		c.reg.Destroy(c, TeardownRetransmitExhausted)
		return
	}
	head := c.unacked.peekFront()
	seg := Segment{
		Seq:     head.seq,
		Ack:     c.recvBase,
		Flags:   head.flags,
		Window:  c.advertisedWindow(),
		Payload: head.payload,
	}
	if c.metrics != nil {
		c.metrics.ObserveRetransmit()
	}
	c.trace("ctcp:retransmit", slog.Uint64("seq", uint64(seg.Seq)), slog.Int("attempt", c.xmitCount+1))
	if !c.transmit(seg, nowMS) {
		return
	}
	c.lastXmitMS = nowMS
	c.xmitCount++
}
