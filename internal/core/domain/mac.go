package domain

import (
	"errors"
	"fmt"
	"net"
)

// MAC is a 6-byte 802.11 address. It is comparable and cheap to copy, so it
// can be used directly as a map key (sequence spaces, BSS tables).
type MAC [6]byte

// BroadcastMAC is ff:ff:ff:ff:ff:ff.
var BroadcastMAC = MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// ErrInvalidMAC indicates an address that is not exactly 6 bytes long.
var ErrInvalidMAC = errors.New("invalid MAC address length")

// MACFromHardwareAddr converts a net.HardwareAddr (which may be 0, 6 or 8
// bytes) into a MAC. Only 6-byte EUI-48 addresses are accepted.
func MACFromHardwareAddr(hw net.HardwareAddr) (MAC, error) {
	var m MAC
	if len(hw) != 6 {
		return m, fmt.Errorf("%w: %d bytes", ErrInvalidMAC, len(hw))
	}
	copy(m[:], hw)
	return m, nil
}

// ParseMAC parses a textual MAC ("aa:bb:cc:dd:ee:ff").
func ParseMAC(s string) (MAC, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MAC{}, err
	}
	return MACFromHardwareAddr(hw)
}

// MustParseMAC is ParseMAC for constants in tests and wiring code.
func MustParseMAC(s string) MAC {
	m, err := ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return m
}

// HardwareAddr returns a copy usable with gopacket layers.
func (m MAC) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, 6)
	copy(hw, m[:])
	return hw
}

func (m MAC) String() string {
	return m.HardwareAddr().String()
}

// IsBroadcast reports whether the address is the broadcast address.
func (m MAC) IsBroadcast() bool {
	return m == BroadcastMAC
}
