package tcpconn

import (
	"log/slog"

	"github.com/soypat/tcpendpoint/tcpseg"
)

// OnPacket implements the connection on-packet handler of §4.6. It is
// entered only for a flow already present in the Table. out is scratch
// space the handler may use to synthesize a reply; n is how many of its
// bytes (if any) hold a segment to send. ErrReset means an unacceptable
// ACK arrived in SynRcvd: out[:n] holds the RST to send and the caller
// must remove this connection from its table, since it is now terminal.
// ErrUnimplemented means a transition the core does not handle occurred
// and the caller should abort the process.
func (c *Connection) OnPacket(seg tcpseg.Segment, out []byte) (n int, err error) {
	slen := segmentLen(int(seg.DATALEN), seg.Flags)

	// 1. Segment acceptance.
	if !acceptable(c.rcv.NXT, c.rcv.WND, seg.SEQ, slen) {
		c.debug("reject: unacceptable segment", slog.Uint64("seg.seq", uint64(seg.SEQ)))
		return 0, nil
	}

	// 2. Advance receive pointer from the segment's own sequence number,
	// not the prior recv.nxt: the acceptance window in step 1 admits a
	// range, not just an exact match, so the two can differ.
	c.rcv.NXT = seg.SEQ.Add(slen)

	// 3. Require ACK.
	if !seg.Flags.HasAny(tcpseg.FlagACK) {
		c.debug("reject: no ACK")
		return 0, nil
	}

	// 4. Acceptable ACK check. A duplicate ACK (ackn == snd.UNA) is not
	// dropped, so a FIN it carries still reaches step 8.
	ackn := seg.ACK
	if !c.state.synchronized() {
		if accepts(c.snd.UNA-1, ackn, c.snd.NXT.Add(1)) {
			c.state = StateEstablished
		} else {
			n, werr := c.sendRST(out)
			if werr != nil {
				return n, werr
			}
			return n, ErrReset
		}
	} else if !accepts(c.snd.UNA-1, ackn, c.snd.NXT.Add(1)) {
		c.debug("reject: unacceptable ACK", slog.Uint64("ack", uint64(ackn)))
		return 0, nil
	}

	// 5. Update send pointer.
	c.snd.UNA = ackn

	// 6. Application-close stub: Established unconditionally starts the
	// close sequence, per the source's observed behavior (see §9).
	if c.state == StateEstablished {
		c.ctcp.flags |= tcpseg.FlagFIN
		n, err = c.write(out, nil)
		if err != nil {
			return n, err
		}
		c.state = StateFinWait1
		return n, nil
	}

	// 7. Our FIN acked? Checked literally against iss+2, matching the
	// source's contract rather than the more robust accepts()-based
	// variant §9 only offers as a production-grade alternative.
	if c.state == StateFinWait1 && c.snd.UNA == c.snd.ISS.Add(2) {
		c.state = StateFinWait2
		return 0, nil
	}

	// 8. Peer FIN?
	if seg.Flags.HasAny(tcpseg.FlagFIN) {
		if c.state == StateFinWait2 {
			n, err = c.write(out, nil)
			if err != nil {
				return n, err
			}
			c.state = StateTimeWait
			return n, nil
		}
		return 0, ErrUnimplemented
	}

	return 0, nil
}
