// Package tundev adapts golang.zx2c4.com/wireguard/tun's per-call offset
// convention to the plain blocking Recv/Send contract the core expects,
// the way the teacher's internal.Tap collapses raw syscalls to a plain
// reader/writer pair.
package tundev

import (
	"fmt"

	"golang.zx2c4.com/wireguard/tun"
)

// Device is a point-to-point TUN interface: one IPv4 datagram per Recv or
// Send call, no link-layer header.
type Device struct {
	dev  tun.Device
	name string
}

// Open creates and brings up a TUN interface named name with the given
// MTU. name is typically "tun0", the core's fixed default.
func Open(name string, mtu int) (*Device, error) {
	dev, err := tun.CreateTUN(name, mtu)
	if err != nil {
		return nil, fmt.Errorf("tundev: create %q: %w", name, err)
	}
	realName, err := dev.Name()
	if err != nil {
		realName = name
	}
	return &Device{dev: dev, name: realName}, nil
}

// Name returns the interface's OS-assigned name.
func (d *Device) Name() string { return d.name }

// MTU returns the interface's maximum transmission unit.
func (d *Device) MTU() (int, error) { return d.dev.MTU() }

// Recv blocks until one IPv4 datagram (no link-layer header) is available
// and copies it into buf, returning its length.
func (d *Device) Recv(buf []byte) (int, error) {
	return d.dev.Read(buf, 0)
}

// Send blocks until one IPv4 datagram in buf has been transmitted.
func (d *Device) Send(buf []byte) error {
	_, err := d.dev.Write(buf, 0)
	return err
}

// Close tears down the interface.
func (d *Device) Close() error { return d.dev.Close() }
