package tcpconn

import "github.com/soypat/tcpendpoint/tcpseg"

// accepts reports whether x lies on the open directed arc from start to end
// going forward around the modulo-2^32 sequence-number circle, exclusive of
// both endpoints. It is the single source of truth for every window check
// in this package: every acceptance and acknowledgment test below delegates
// to it rather than comparing sequence numbers directly.
func accepts(start, x, end tcpseg.Value) bool {
	if start == x {
		return false
	}
	if start < x {
		return !(end <= x && start <= end)
	}
	return x < end && end < start
}

// acceptable implements the per-segment acceptance policy: whether a
// segment with the given sequence number and length may be admitted into
// the receive window described by rcvNxt/rcvWnd.
func acceptable(rcvNxt tcpseg.Value, rcvWnd tcpseg.Size, seq tcpseg.Value, slen tcpseg.Size) bool {
	wend := rcvNxt.Add(rcvWnd)
	switch {
	case slen == 0 && rcvWnd == 0:
		return seq == rcvNxt
	case slen == 0 && rcvWnd > 0:
		return accepts(rcvNxt-1, seq, wend)
	case slen > 0 && rcvWnd == 0:
		return false
	default: // slen > 0 && rcvWnd > 0
		return accepts(rcvNxt-1, seq, wend) || accepts(rcvNxt-1, seq.Add(slen-1), wend)
	}
}

// segmentLen computes the slen of a segment: its payload length plus one
// phantom byte each for SYN and FIN, each of which consumes a sequence
// number without carrying a data byte.
func segmentLen(payloadLen int, flags tcpseg.Flags) tcpseg.Size {
	n := tcpseg.Size(payloadLen)
	if flags.HasAny(tcpseg.FlagSYN) {
		n++
	}
	if flags.HasAny(tcpseg.FlagFIN) {
		n++
	}
	return n
}
