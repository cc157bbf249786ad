package tcpseg

// Value is a TCP sequence or acknowledgment number. Arithmetic on Value
// wraps modulo 2**32 as required by RFC 9293; ordering between two Value
// instances is only meaningful relative to a third reference point (see
// the acceptance test in package tcpconn), never via plain comparison.
type Value uint32

// Add returns v+delta, wrapping modulo 2**32.
func (v Value) Add(delta Size) Value { return v + Value(delta) }

// Sub returns the wrapped difference v-delta.
func (v Value) Sub(delta Size) Value { return v - Value(delta) }

// Size is a count of octets in the sequence space, e.g. a segment length
// or a window size. It is 32 bits wide so that a window/length sum never
// silently overflows before being folded back into a Value.
type Size uint32
