// Command tcpendpoint runs a minimal userspace TCP/IPv4 endpoint over a
// TUN device: it accepts incoming connections, advances each through the
// server half of the TCP state machine, and emits the required reply
// segments. See the package tcpconn doc comment for the protocol subset
// implemented.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/netip"
	"os"

	"github.com/soypat/tcpendpoint/ipv4"
	"github.com/soypat/tcpendpoint/tcpconn"
	"github.com/soypat/tcpendpoint/tcpseg"
	"github.com/soypat/tcpendpoint/tundev"
)

func main() {
	iface := flag.String("iface", "tun0", "TUN device name")
	window := flag.Uint("window", 10, "local receive window advertised on passive open")
	loglevel := flag.String("loglevel", "info", "slog level: debug, info, warn, error")
	flag.Parse()

	lvl := new(slog.LevelVar)
	if err := lvl.UnmarshalText([]byte(*loglevel)); err != nil {
		fmt.Fprintf(os.Stderr, "tcpendpoint: bad -loglevel %q: %v\n", *loglevel, err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	if err := run(*iface, tcpseg.Size(*window), log); err != nil {
		log.Error("exiting", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

const mtu = 1500

func run(iface string, window tcpseg.Size, log *slog.Logger) error {
	dev, err := tundev.Open(iface, mtu)
	if err != nil {
		return err
	}
	defer dev.Close()
	log.Info("listening", slog.String("iface", dev.Name()))

	table := tcpconn.NewTable(0, window, log)
	inbuf := make([]byte, mtu)
	outbuf := make([]byte, mtu)

	for {
		n, err := dev.Recv(inbuf)
		if err != nil {
			return fmt.Errorf("interface read: %w", err)
		}
		if n == 0 {
			continue
		}
		if err := handleDatagram(table, inbuf[:n], outbuf, dev, log); errors.Is(err, errFatal) {
			return err
		}
	}
}

var errFatal = errors.New("tcpendpoint: fatal")

// handleDatagram implements the main loop's parse/classify/dispatch
// contract of §4.1. A returned error wrapping errFatal terminates run;
// any other error has already been logged and handled.
func handleDatagram(table *tcpconn.Table, datagram, out []byte, dev *tundev.Device, log *slog.Logger) error {
	ifrm, err := ipv4.NewFrame(datagram)
	if err != nil || ifrm.Validate() != nil {
		log.Debug("malformed IPv4 header, dropping", slog.String("bytes", fmt.Sprintf("%x", datagram)))
		return nil
	}
	if ifrm.Protocol() != ipv4.ProtoTCP {
		return nil // Non-TCP traffic: silent drop, no ICMP generated.
	}

	tfrm, err := tcpseg.NewFrame(ifrm.Payload())
	if err != nil || tfrm.Validate() != nil {
		log.Debug("malformed TCP header, dropping", slog.String("bytes", fmt.Sprintf("%x", datagram)))
		return nil
	}

	seg := tfrm.Segment(len(tfrm.Payload()))
	q := tcpconn.Quad{
		PeerAddr:  netip.AddrFrom4(*ifrm.SourceAddr()),
		PeerPort:  tfrm.SourcePort(),
		LocalAddr: netip.AddrFrom4(*ifrm.DestinationAddr()),
		LocalPort: tfrm.DestinationPort(),
	}

	conn, present := table.Lookup(q)
	if !present {
		newConn, n, err := table.Accept(q, seg, out)
		if err != nil {
			return fmt.Errorf("%w: passive open: %w", errFatal, err)
		}
		if newConn == nil {
			return nil // Not a SYN, or rejected: dropped per §4.2 step 1.
		}
		if n > 0 {
			if err := dev.Send(out[:n]); err != nil {
				return fmt.Errorf("%w: interface write: %w", errFatal, err)
			}
		}
		return nil
	}

	n, err := conn.OnPacket(seg, out)
	switch {
	case errors.Is(err, tcpconn.ErrUnimplemented):
		return fmt.Errorf("%w: %s: %w", errFatal, q, err)
	case errors.Is(err, tcpconn.ErrReset):
		table.Delete(q) // Terminal: unacceptable ACK in SynRcvd.
	case err != nil:
		return fmt.Errorf("%w: interface write: %w", errFatal, err)
	}
	if n > 0 {
		if werr := dev.Send(out[:n]); werr != nil {
			return fmt.Errorf("%w: interface write: %w", errFatal, werr)
		}
	}
	return nil
}
