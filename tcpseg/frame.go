// Package tcpseg provides a zero-copy accessor over a TCP header living in a
// caller-owned byte slice, plus the sequence-space types (Value, Size,
// Segment, Flags) the rest of the endpoint shares.
package tcpseg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const sizeHeader = 20

var errShortBuffer = errors.New("tcpseg: short buffer")

// NewFrame returns a new Frame with data set to buf. An error is returned
// if the buffer size is smaller than 20. Callers should still call
// [Frame.Validate] before working with payload/options to avoid panics.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeader {
		return Frame{buf: nil}, errShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame encapsulates the raw data of a TCP segment and provides methods for
// manipulating, validating and retrieving fields and payload data. See
// [RFC9293].
//
// [RFC9293]: https://datatracker.ietf.org/doc/html/rfc9293
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice with which the frame was created.
func (tfrm Frame) RawData() []byte { return tfrm.buf }

// SourcePort identifies the sending port of the TCP packet. Must be non-zero.
func (tfrm Frame) SourcePort() uint16 {
	return binary.BigEndian.Uint16(tfrm.buf[0:2])
}

// SetSourcePort sets TCP source port. See [Frame.SourcePort].
func (tfrm Frame) SetSourcePort(src uint16) {
	binary.BigEndian.PutUint16(tfrm.buf[0:2], src)
}

// DestinationPort identifies the receiving port for the TCP packet. Must be non-zero.
func (tfrm Frame) DestinationPort() uint16 {
	return binary.BigEndian.Uint16(tfrm.buf[2:4])
}

// SetDestinationPort sets TCP destination port. See [Frame.DestinationPort].
func (tfrm Frame) SetDestinationPort(dst uint16) {
	binary.BigEndian.PutUint16(tfrm.buf[2:4], dst)
}

// Seq returns the sequence number of the first data octet in this segment
// (except when SYN is present, in which case this is the ISN and the first
// data octet is ISN+1).
func (tfrm Frame) Seq() Value {
	return Value(binary.BigEndian.Uint32(tfrm.buf[4:8]))
}

// SetSeq sets the Seq field. See [Frame.Seq].
func (tfrm Frame) SetSeq(v Value) {
	binary.BigEndian.PutUint32(tfrm.buf[4:8], uint32(v))
}

// Ack is the next sequence number the sender is expecting to receive (when
// ACK is set).
func (tfrm Frame) Ack() Value {
	return Value(binary.BigEndian.Uint32(tfrm.buf[8:12]))
}

// SetAck sets the Ack field. See [Frame.Ack].
func (tfrm Frame) SetAck(v Value) {
	binary.BigEndian.PutUint32(tfrm.buf[8:12], uint32(v))
}

// OffsetAndFlags returns the data offset and flag fields of the TCP header.
// Offset is the number of 32-bit words used by the TCP header including
// options (see [Frame.HeaderLength]).
func (tfrm Frame) OffsetAndFlags() (offset uint8, flags Flags) {
	v := binary.BigEndian.Uint16(tfrm.buf[12:14])
	offset = uint8(v >> 12)
	flags = Flags(v).Mask()
	return offset, flags
}

// SetOffsetAndFlags sets the offset and flag fields of the TCP header. See
// [Frame.OffsetAndFlags].
func (tfrm Frame) SetOffsetAndFlags(offset uint8, flags Flags) {
	v := uint16(offset)<<12 | uint16(flags.Mask())
	binary.BigEndian.PutUint16(tfrm.buf[12:14], v)
}

// HeaderLength uses the offset field to calculate the total length of the
// TCP header including options. Performs no validation.
func (tfrm Frame) HeaderLength() int {
	offset, _ := tfrm.OffsetAndFlags()
	return 4 * int(offset)
}

func (tfrm Frame) WindowSize() uint16 { return binary.BigEndian.Uint16(tfrm.buf[14:16]) }
func (tfrm Frame) SetWindowSize(v uint16) {
	binary.BigEndian.PutUint16(tfrm.buf[14:16], v)
}

// CRC returns the checksum field of the TCP header.
//
// Like the IPv4 header checksum, this is never computed in software by
// this endpoint: the kernel fills it in for outbound datagrams on a TUN
// device and is assumed to have validated it on the inbound path.
func (tfrm Frame) CRC() uint16 {
	return binary.BigEndian.Uint16(tfrm.buf[16:18])
}

// SetCRC sets the checksum field. See [Frame.CRC].
func (tfrm Frame) SetCRC(checksum uint16) {
	binary.BigEndian.PutUint16(tfrm.buf[16:18], checksum)
}

func (tfrm Frame) UrgentPtr() uint16      { return binary.BigEndian.Uint16(tfrm.buf[18:20]) }
func (tfrm Frame) SetUrgentPtr(up uint16) { binary.BigEndian.PutUint16(tfrm.buf[18:20], up) }

// Payload returns the payload content section of the TCP packet, not
// including TCP options. Call [Frame.Validate] beforehand to avoid a panic.
func (tfrm Frame) Payload() []byte {
	return tfrm.buf[tfrm.HeaderLength():]
}

// Segment returns the [Segment] representation of the TCP header plus the
// supplied payload length.
func (tfrm Frame) Segment(payloadSize int) Segment {
	if payloadSize > math.MaxInt32 {
		panic("tcpseg: overflow payload size")
	}
	_, flags := tfrm.OffsetAndFlags()
	return Segment{
		SEQ:     tfrm.Seq(),
		ACK:     tfrm.Ack(),
		WND:     Size(tfrm.WindowSize()),
		DATALEN: Size(payloadSize),
		Flags:   flags,
	}
}

// SetSegment sets the sequence, acknowledgment, offset, window and flag
// fields of the TCP header from seg. offset is expressed in words, minimum 5.
func (tfrm Frame) SetSegment(seg Segment, offset uint8) {
	if offset >= 1<<4 {
		panic("tcpseg: offset too large")
	} else if seg.WND > math.MaxUint16 {
		panic("tcpseg: window overflow")
	}
	tfrm.SetSeq(seg.SEQ)
	tfrm.SetAck(seg.ACK)
	tfrm.SetOffsetAndFlags(offset, seg.Flags)
	tfrm.SetWindowSize(uint16(seg.WND))
}

// Options returns the TCP option buffer portion of the frame. May be zero
// length. Call [Frame.Validate] beforehand to avoid a panic.
func (tfrm Frame) Options() []byte {
	return tfrm.buf[sizeHeader:tfrm.HeaderLength()]
}

// ClearHeader zeros out the fixed (non-option) header contents.
func (tfrm Frame) ClearHeader() {
	for i := range tfrm.buf[:sizeHeader] {
		tfrm.buf[i] = 0
	}
}

func (tfrm Frame) String() string {
	src := tfrm.SourcePort()
	dst := tfrm.DestinationPort()
	seg := tfrm.Segment(len(tfrm.Payload()))
	return fmt.Sprintf("TCP :%d -> :%d seq=%d ack=%d wnd=%d %s", src, dst, seg.SEQ, seg.ACK, seg.WND, seg.Flags.String())
}

var (
	errBadOffset = errors.New("tcpseg: bad data offset")
	errShort     = errors.New("tcpseg: header exceeds buffer")
	errZeroSrc   = errors.New("tcpseg: zero source port")
	errZeroDst   = errors.New("tcpseg: zero destination port")
)

// Validate checks the frame's self-describing size fields and port fields,
// returning the first inconsistency found. It does not check the checksum,
// which this package never computes.
func (tfrm Frame) Validate() error {
	off := tfrm.HeaderLength()
	if off < sizeHeader {
		return errBadOffset
	}
	if off > len(tfrm.RawData()) {
		return errShort
	}
	if tfrm.SourcePort() == 0 {
		return errZeroSrc
	}
	if tfrm.DestinationPort() == 0 {
		return errZeroDst
	}
	return nil
}
