package tcpseg

import (
	"math/rand"
	"testing"
)

func TestFrame(t *testing.T) {
	var buf [64]byte
	tfrm, err := NewFrame(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		wantSrc := uint16(1 + rng.Intn(65535))
		wantDst := uint16(1 + rng.Intn(65535))
		wantSeq := Value(rng.Uint32())
		wantAck := Value(rng.Uint32())
		wantWnd := uint16(rng.Intn(65536))
		wantFlags := Flags(rng.Intn(int(flagMask) + 1))

		tfrm.SetSourcePort(wantSrc)
		tfrm.SetDestinationPort(wantDst)
		tfrm.SetSeq(wantSeq)
		tfrm.SetAck(wantAck)
		tfrm.SetOffsetAndFlags(5, wantFlags)
		tfrm.SetWindowSize(wantWnd)

		if err := tfrm.Validate(); err != nil {
			t.Fatal(err)
		}
		if got := tfrm.SourcePort(); got != wantSrc {
			t.Errorf("source port: got %d want %d", got, wantSrc)
		}
		if got := tfrm.DestinationPort(); got != wantDst {
			t.Errorf("destination port: got %d want %d", got, wantDst)
		}
		if got := tfrm.Seq(); got != wantSeq {
			t.Errorf("seq: got %d want %d", got, wantSeq)
		}
		if got := tfrm.Ack(); got != wantAck {
			t.Errorf("ack: got %d want %d", got, wantAck)
		}
		if got := tfrm.WindowSize(); got != wantWnd {
			t.Errorf("window: got %d want %d", got, wantWnd)
		}
		if off, flags := tfrm.OffsetAndFlags(); off != 5 || flags != wantFlags.Mask() {
			t.Errorf("offset/flags: got %d,%s want 5,%s", off, flags, wantFlags.Mask())
		}
	}
}

func TestSegmentLastByte(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
		want Value
	}{
		{"pure data", Segment{SEQ: 100, DATALEN: 10}, 109},
		{"SYN only consumes phantom byte", Segment{SEQ: 100, Flags: FlagSYN}, 100},
		{"zero length segment", Segment{SEQ: 100}, 100},
		{"SYN with data", Segment{SEQ: 100, DATALEN: 5, Flags: FlagSYN}, 105},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := tt.seg
			if got := seg.Last(); got != tt.want {
				t.Errorf("Last() = %d, want %d", got, tt.want)
			}
		})
	}
}
