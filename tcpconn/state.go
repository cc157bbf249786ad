package tcpconn

// State enumerates the connection states this endpoint drives. Closed and
// Listen are implicit: absence from a Table means Closed, and the Table's
// willingness to accept new SYNs represents Listen — neither needs a label
// here.
type State uint8

const (
	StateSynRcvd State = iota
	StateEstablished
	StateFinWait1
	StateFinWait2
	// StateClosing is reserved for a future simultaneous-close path; the
	// state machine below never transitions into it.
	StateClosing
	StateTimeWait
)

func (s State) String() string {
	switch s {
	case StateSynRcvd:
		return "SynRcvd"
	case StateEstablished:
		return "Established"
	case StateFinWait1:
		return "FinWait1"
	case StateFinWait2:
		return "FinWait2"
	case StateClosing:
		return "Closing"
	case StateTimeWait:
		return "TimeWait"
	default:
		return "State(?)"
	}
}

// synchronized reports whether the peer's ISN is known and our ISN has
// been acknowledged — true for every state but SynRcvd.
func (s State) synchronized() bool { return s != StateSynRcvd }
