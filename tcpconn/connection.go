// Package tcpconn implements the server half of the TCP state machine for a
// single point-to-point link: passive open, the handshake, immediate
// core-initiated close, and the peer-initiated close that follows it.
// Active opens, simultaneous open/close, retransmission, and option
// processing beyond the defaults are not implemented.
package tcpconn

import (
	"log/slog"

	"github.com/soypat/tcpendpoint/ipv4"
	"github.com/soypat/tcpendpoint/tcpseg"
)

// sendSpace is the send sequence space of RFC 9293 §3.3.1, restricted to
// the fields this endpoint actually tracks (no window scaling, no urgent
// data beyond the bare flag).
type sendSpace struct {
	ISS, UNA, NXT tcpseg.Value
	WND           tcpseg.Size
	WL1, WL2      tcpseg.Value
	UP            bool
}

// recvSpace is the receive sequence space of RFC 9293 §3.3.1.
type recvSpace struct {
	IRS, NXT tcpseg.Value
	WND      tcpseg.Size
	UP       bool
}

// cachedIPv4 holds the reverse-direction IPv4 header fields fixed at
// passive-open time, so write never has to re-derive them from the SYN.
type cachedIPv4 struct {
	src, dst [4]byte
}

// cachedTCP holds the reverse-direction TCP header fields fixed at
// passive-open time, plus the one-shot SYN/FIN flags write consumes.
type cachedTCP struct {
	srcPort, dstPort uint16
	flags            tcpseg.Flags
}

// Connection is the per-flow record: sequence-space bookkeeping, the
// current state label, and the cached reverse-direction header fields. A
// Table exclusively owns each Connection it holds; callers reached through
// OnPacket/write get temporary exclusive access, never a second reference.
type Connection struct {
	logger
	quad  Quad
	state State
	snd   sendSpace
	rcv   recvSpace
	cip   cachedIPv4
	ctcp  cachedTCP
}

// State returns the connection's current label.
func (c *Connection) State() State { return c.state }

// Quad returns the connection's flow identifier.
func (c *Connection) Quad() Quad { return c.quad }

func setLogger(c *Connection, log *slog.Logger) { c.log = log }

// accept implements the passive-open contract of §4.2: given the SYN
// segment that requested the connection, it fills in the send/receive
// sequence spaces, the cached reverse-direction header fields, and emits
// the SYN|ACK via write. iss and localWnd are the endpoint's chosen
// initial send sequence number and advertised receive window.
func accept(q Quad, iss tcpseg.Value, localWnd tcpseg.Size, seg tcpseg.Segment, out []byte, log *slog.Logger) (*Connection, int, error) {
	if !seg.Flags.HasAny(tcpseg.FlagSYN) {
		return nil, 0, errNotSYN
	}
	c := &Connection{quad: q, state: StateSynRcvd}
	setLogger(c, log)

	c.rcv = recvSpace{
		IRS: seg.SEQ,
		NXT: seg.SEQ.Add(1),
		WND: seg.WND,
	}
	c.snd = sendSpace{
		ISS: iss,
		UNA: iss,
		NXT: iss,
		WND: localWnd,
	}

	c.cip = cachedIPv4{src: q.LocalAddr.As4(), dst: q.PeerAddr.As4()}
	c.ctcp = cachedTCP{srcPort: q.LocalPort, dstPort: q.PeerPort, flags: tcpseg.FlagSYN | tcpseg.FlagACK}

	c.debug("accept", slog.String("quad", q.String()), slog.Uint64("iss", uint64(iss)), slog.Uint64("irs", uint64(c.rcv.IRS)))

	n, err := c.write(out, nil)
	if err != nil {
		return nil, 0, err
	}
	return c, n, nil
}

// write implements the outbound segment synthesis contract of §4.4: it
// fills the IPv4 and TCP headers of out from the cached template and the
// current send/receive spaces, appends as much of payload as fits, and
// advances send.nxt (including the one-shot SYN/FIN phantom bytes).
func (c *Connection) write(out []byte, payload []byte) (int, error) {
	const ipHdrLen = 20
	const tcpHdrLen = 20

	ifrm, err := ipv4.NewFrame(out)
	if err != nil {
		c.logerr("write: scratch buffer too short for IPv4 header", slog.String("err", err.Error()))
		return 0, err
	}
	tfrm, err := tcpseg.NewFrame(out[ipHdrLen:])
	if err != nil {
		c.logerr("write: scratch buffer too short for TCP header", slog.String("err", err.Error()))
		return 0, err
	}

	room := len(out) - ipHdrLen - tcpHdrLen
	n := len(payload)
	if n > room {
		n = room
	}
	total := ipHdrLen + tcpHdrLen + n

	ifrm.ClearHeader()
	ifrm.SetVersionAndIHL(4, 5)
	ifrm.SetTTL(64)
	ifrm.SetProtocol(ipv4.ProtoTCP)
	*ifrm.SourceAddr() = c.cip.src
	*ifrm.DestinationAddr() = c.cip.dst
	ifrm.SetTotalLength(uint16(total))

	tfrm.ClearHeader()
	tfrm.SetSourcePort(c.ctcp.srcPort)
	tfrm.SetDestinationPort(c.ctcp.dstPort)
	tfrm.SetSeq(c.snd.NXT)
	tfrm.SetAck(c.rcv.NXT)
	tfrm.SetOffsetAndFlags(tcpHdrLen/4, c.ctcp.flags)
	tfrm.SetWindowSize(uint16(c.snd.WND))
	copy(out[ipHdrLen+tcpHdrLen:total], payload[:n])

	c.traceSeg("write", tfrm.Segment(n))

	c.snd.NXT = c.snd.NXT.Add(tcpseg.Size(n))
	if c.ctcp.flags.HasAny(tcpseg.FlagSYN) {
		c.snd.NXT = c.snd.NXT.Add(1)
		c.ctcp.flags &^= tcpseg.FlagSYN
	}
	if c.ctcp.flags.HasAny(tcpseg.FlagFIN) {
		c.snd.NXT = c.snd.NXT.Add(1)
		c.ctcp.flags &^= tcpseg.FlagFIN
	}
	return total, nil
}

// sendRST implements §4.5: it emits RST with sequence and acknowledgment
// numbers zeroed and the IPv4 total length set to header-only. Unlike the
// tutorial this endpoint is modeled on, the emitted segment carries the
// real encoded RST header rather than an empty payload — that omission is
// treated as a bug in the source material, not behavior to preserve.
func (c *Connection) sendRST(out []byte) (int, error) {
	const ipHdrLen = 20
	const tcpHdrLen = 20
	ifrm, err := ipv4.NewFrame(out)
	if err != nil {
		c.logerr("sendRST: scratch buffer too short for IPv4 header", slog.String("err", err.Error()))
		return 0, err
	}
	tfrm, err := tcpseg.NewFrame(out[ipHdrLen:])
	if err != nil {
		c.logerr("sendRST: scratch buffer too short for TCP header", slog.String("err", err.Error()))
		return 0, err
	}
	ifrm.ClearHeader()
	ifrm.SetVersionAndIHL(4, 5)
	ifrm.SetTTL(64)
	ifrm.SetProtocol(ipv4.ProtoTCP)
	*ifrm.SourceAddr() = c.cip.src
	*ifrm.DestinationAddr() = c.cip.dst
	ifrm.SetTotalLength(ipHdrLen + tcpHdrLen)

	tfrm.ClearHeader()
	tfrm.SetSourcePort(c.ctcp.srcPort)
	tfrm.SetDestinationPort(c.ctcp.dstPort)
	tfrm.SetSeq(0)
	tfrm.SetAck(0)
	tfrm.SetOffsetAndFlags(tcpHdrLen/4, tcpseg.FlagRST)
	tfrm.SetWindowSize(0)

	c.debug("sendRST", slog.String("quad", c.quad.String()))
	return ipHdrLen + tcpHdrLen, nil
}
