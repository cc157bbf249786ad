package tcpconn

import (
	"context"
	"log/slog"

	"github.com/soypat/tcpendpoint/tcpseg"
)

// logger embeds into Connection to give it debug/trace/error logging that
// no-ops when no *slog.Logger was configured, mirroring the teacher's own
// embeddable-logger idiom.
type logger struct {
	log *slog.Logger
}

func (l *logger) logattrs(lvl slog.Level, msg string, attrs ...slog.Attr) {
	if l.log == nil {
		return
	}
	l.log.LogAttrs(context.Background(), lvl, msg, attrs...)
}

func (l *logger) debug(msg string, attrs ...slog.Attr) { l.logattrs(slog.LevelDebug, msg, attrs...) }
func (l *logger) trace(msg string, attrs ...slog.Attr) { l.logattrs(slog.LevelDebug-4, msg, attrs...) }
func (l *logger) logerr(msg string, attrs ...slog.Attr) { l.logattrs(slog.LevelError, msg, attrs...) }

func (l *logger) traceSeg(msg string, seg tcpseg.Segment) {
	l.trace(msg,
		slog.Uint64("seg.seq", uint64(seg.SEQ)),
		slog.Uint64("seg.ack", uint64(seg.ACK)),
		slog.Uint64("seg.wnd", uint64(seg.WND)),
		slog.String("seg.flags", seg.Flags.String()),
		slog.Uint64("seg.data", uint64(seg.DATALEN)),
	)
}
