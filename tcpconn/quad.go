package tcpconn

import (
	"fmt"
	"net/netip"
)

// Quad is the four-tuple flow identifier of a TCP connection as seen from
// this endpoint: the peer's address and port, and this host's local
// address and port. It is comparable and immutable after construction, so
// it can be used directly as a map key.
type Quad struct {
	PeerAddr  netip.Addr
	PeerPort  uint16
	LocalAddr netip.Addr
	LocalPort uint16
}

func (q Quad) String() string {
	return fmt.Sprintf("%s:%d -> %s:%d", q.PeerAddr, q.PeerPort, q.LocalAddr, q.LocalPort)
}
