package tcpconn

import (
	"testing"

	"github.com/soypat/tcpendpoint/tcpseg"
)

func TestAccepts(t *testing.T) {
	var tests = []struct {
		name             string
		start, x, end    tcpseg.Value
		want             bool
	}{
		{"equal start and x is always false", 100, 100, 200, false},
		{"x strictly between, no wrap", 10, 15, 20, true},
		{"x before start, no wrap", 10, 5, 20, false},
		{"x at end is excluded", 10, 20, 20, false},
		{"wraparound window", 0xFFFFFFFF, 2, 4, true},
		{"x equal to end with start>end still excluded", 20, 5, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accepts(tt.start, tt.x, tt.end)
			if got != tt.want {
				t.Errorf("accepts(%d, %d, %d) = %v, want %v", tt.start, tt.x, tt.end, got, tt.want)
			}
		})
	}
}

func TestAcceptsEqualStartAlwaysFalse(t *testing.T) {
	for a := range uint32(8) {
		for c := range uint32(8) {
			if accepts(tcpseg.Value(a), tcpseg.Value(a), tcpseg.Value(c)) {
				t.Errorf("accepts(%d, %d, %d) should be false when start==x", a, a, c)
			}
		}
	}
}

func TestAcceptsDirectedArcSymmetry(t *testing.T) {
	// For a != x and a != c, accepts(a,x,c) should equal !accepts(c,x,a),
	// except at the x==c boundary which is excluded by definition.
	for a := range uint32(12) {
		for x := range uint32(12) {
			for c := range uint32(12) {
				av, xv, cv := tcpseg.Value(a), tcpseg.Value(x), tcpseg.Value(c)
				if av == xv || av == cv || xv == cv {
					continue
				}
				got := accepts(av, xv, cv)
				want := !accepts(cv, xv, av)
				if got != want {
					t.Errorf("accepts(%d,%d,%d)=%v, want %v (complement of accepts(%d,%d,%d))", a, x, c, got, want, c, x, a)
				}
			}
		}
	}
}

func TestAcceptable(t *testing.T) {
	tests := []struct {
		name           string
		rcvNxt         tcpseg.Value
		rcvWnd         tcpseg.Size
		seq            tcpseg.Value
		slen           tcpseg.Size
		want           bool
	}{
		{"wraparound boundary from §8", 0xFFFFFFFF, 4, 2, 0, true},
		{"zero window rejects nonzero length", 5000, 0, 5000, 4, false},
		{"zero window zero length accepts exact match", 5000, 0, 5000, 0, true},
		{"zero window zero length rejects mismatch", 5000, 0, 5001, 0, false},
		{"out of window segment from §8 scenario 6", 5000, 10, 6000, 4, false},
		{"in window segment", 5000, 10, 5000, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := acceptable(tt.rcvNxt, tt.rcvWnd, tt.seq, tt.slen)
			if got != tt.want {
				t.Errorf("acceptable(%d,%d,%d,%d) = %v, want %v", tt.rcvNxt, tt.rcvWnd, tt.seq, tt.slen, got, tt.want)
			}
		})
	}
}

func TestSegmentLen(t *testing.T) {
	tests := []struct {
		name    string
		payload int
		flags   tcpseg.Flags
		want    tcpseg.Size
	}{
		{"data only", 4, 0, 4},
		{"SYN adds phantom byte", 0, tcpseg.FlagSYN, 1},
		{"FIN adds phantom byte", 0, tcpseg.FlagFIN, 1},
		{"SYN and FIN both add phantom bytes", 0, tcpseg.FlagSYN | tcpseg.FlagFIN, 2},
		{"data plus SYN", 10, tcpseg.FlagSYN, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segmentLen(tt.payload, tt.flags)
			if got != tt.want {
				t.Errorf("segmentLen(%d, %s) = %d, want %d", tt.payload, tt.flags, got, tt.want)
			}
		})
	}
}
