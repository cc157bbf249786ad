package tcpconn

import "errors"

var (
	// errNotSYN is returned by accept when the inbound segment offering a
	// passive open does not carry the SYN flag; Table.Accept turns it into
	// a silent drop.
	errNotSYN = errors.New("tcpconn: passive open requires SYN")

	// ErrUnimplemented marks a transition the core deliberately does not
	// handle (a peer FIN outside FinWait2). Per the error taxonomy this is
	// an implementation gap, not a protocol error: callers should abort
	// the process rather than just drop the one connection.
	ErrUnimplemented = errors.New("tcpconn: unimplemented transition")

	// ErrReset is returned by OnPacket when an unacceptable ACK arrived in
	// SynRcvd: an RST has been written to the caller's out buffer and the
	// connection is terminal — the caller must remove it from its table.
	ErrReset = errors.New("tcpconn: connection reset")
)
