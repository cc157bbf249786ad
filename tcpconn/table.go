package tcpconn

import (
	"log/slog"

	"github.com/soypat/tcpendpoint/tcpseg"
)

// Table is the demultiplexer: the single owner of every connection,
// keyed by flow identifier. Connections are exclusively owned by the
// table; callers obtained via Lookup must not retain a Connection across
// a call that might delete it.
type Table struct {
	log         *slog.Logger
	conns       map[Quad]*Connection
	iss         tcpseg.Value
	localWindow tcpseg.Size
}

// NewTable returns an empty Table that accepts new connections with the
// given fixed initial send sequence number and local receive window.
// The tutorial this endpoint is modeled on picks iss=0 and window=10;
// a production stack would randomize iss per RFC 9293 §3.4.1.
func NewTable(iss tcpseg.Value, localWindow tcpseg.Size, log *slog.Logger) *Table {
	return &Table{
		log:         log,
		conns:       make(map[Quad]*Connection),
		iss:         iss,
		localWindow: localWindow,
	}
}

// Lookup returns the connection for q, if any.
func (t *Table) Lookup(q Quad) (*Connection, bool) {
	c, ok := t.conns[q]
	return c, ok
}

// Delete removes q from the table. Used when a RST is emitted in SynRcvd:
// the connection is terminal and this endpoint does not need to wait for
// a TimeWait-style expiry to reclaim it (unlike the as-specified gap
// around TimeWait entries, which this repo leaves unimplemented per §9's
// lifecycle note).
func (t *Table) Delete(q Quad) { delete(t.conns, q) }

// Len reports the number of live connections.
func (t *Table) Len() int { return len(t.conns) }

// Accept attempts a passive open for a SYN segment arriving on a flow
// absent from the table. On success it inserts the new connection and
// returns it along with the number of bytes of the SYN|ACK reply written
// to out. A non-SYN segment yields (nil, 0, nil) — dropped per §4.2
// step 1 — and an error from the underlying write yields (nil, 0, err).
func (t *Table) Accept(q Quad, seg tcpseg.Segment, out []byte) (*Connection, int, error) {
	c, n, err := accept(q, t.iss, t.localWindow, seg, out, t.log)
	if err == errNotSYN {
		return nil, 0, nil
	} else if err != nil {
		return nil, 0, err
	}
	t.conns[q] = c
	return c, n, nil
}
