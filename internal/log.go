// Package internal holds small helpers shared by the ctcp core and its
// cmd/ctcpdemo client, adapted from github.com/soypat/lneto/internal.
package internal

import (
	"context"
	"log/slog"
)

// LevelTrace is a verbosity level below slog.LevelDebug used for
// per-segment tracing, matching the teacher's LevelTrace.
const LevelTrace slog.Level = slog.LevelDebug - 2

// LogEnabled reports whether l would emit a record at lvl. Safe to call on
// a nil logger.
func LogEnabled(l *slog.Logger, lvl slog.Level) bool {
	return l != nil && l.Handler().Enabled(context.Background(), lvl)
}

// LogAttrs logs msg and attrs at level through l if l is non-nil. Callers
// pass a possibly-nil logger so that a connection with no logger attached
// pays only the cost of this nil check.
func LogAttrs(l *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if l != nil {
		l.LogAttrs(context.Background(), level, msg, attrs...)
	}
}
