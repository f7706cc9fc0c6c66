package ctcp

import (
	"log/slog"

	"github.com/cs144/ctcp/internal"
)

// logger is embedded by Conn to give every core entry point cheap,
// nil-safe structured logging at a handful of levels. Grounded on the
// teacher's internet.logger / tcp.logger pattern: a one-field wrapper
// around *slog.Logger with short method names, backed by an
// allocation-free LogAttrs helper so a nil logger costs nothing.
type logger struct {
	log *slog.Logger
}

func (l logger) error(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.log, slog.LevelError, msg, attrs...)
}

func (l logger) debug(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.log, slog.LevelDebug, msg, attrs...)
}

func (l logger) trace(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.log, internal.LevelTrace, msg, attrs...)
}

func segAttrs(seg Segment) []slog.Attr {
	return []slog.Attr{
		slog.Uint64("seg.seq", uint64(seg.Seq)),
		slog.Uint64("seg.ack", uint64(seg.Ack)),
		slog.String("seg.flags", seg.Flags.String()),
		slog.Int("seg.len", len(seg.Payload)),
	}
}
