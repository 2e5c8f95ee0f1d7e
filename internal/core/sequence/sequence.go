// Package sequence allocates 802.11 sequence numbers.
//
// IEEE 802.11 defines several independent sequence number spaces (SNS): per
// peer (SNS1), per peer and TID (SNS2), per peer and access category (SNS4)
// and one global space (SNS5). Counters wrap modulo the space's divisor and
// must never collide within a space.
package sequence

import "github.com/wlanstack/sme/internal/core/domain"

// Divisors are fixed by the standard: the sequence-control field carries 12
// bits (4096) except SNS4, which carries 10 (1024).
const (
	ModDivisor      = 4096
	ShortModDivisor = 1024
)

type sns2Key struct {
	peer domain.MAC
	tid  uint8
}

type sns4Key struct {
	peer domain.MAC
	aci  uint8
}

// Manager owns the counters for all four spaces. It is not internally
// synchronized: it is designed to be owned by the SME core and touched only
// under the engine lock.
type Manager struct {
	sns1     map[domain.MAC]uint16
	sns2     map[sns2Key]uint16
	sns4     map[sns4Key]uint16
	sns5     uint16
	sns5Init bool
}

// NewManager returns a Manager with all counters unissued. Entries persist
// for the lifetime of the manager; the key space is bounded by peers seen.
func NewManager() *Manager {
	return &Manager{
		sns1: make(map[domain.MAC]uint16),
		sns2: make(map[sns2Key]uint16),
		sns4: make(map[sns4Key]uint16),
	}
}

// advance wraps at the divisor, so a slot at divisor-1 yields 0 and the one
// after that yields 1 again. The first number for a fresh key is always 1 and
// is handled by the callers.
func advance(old uint16, divisor uint16) uint16 {
	return (old + 1) % divisor
}

// NextSNS1 returns the next sequence number for management and non-QoS data
// frames toward peer.
func (m *Manager) NextSNS1(peer domain.MAC) uint16 {
	old, ok := m.sns1[peer]
	if !ok {
		m.sns1[peer] = 1
		return 1
	}
	seq := advance(old, ModDivisor)
	m.sns1[peer] = seq
	return seq
}

// NextSNS2 returns the next sequence number for QoS data frames toward peer
// with the given traffic identifier.
func (m *Manager) NextSNS2(peer domain.MAC, tid uint8) uint16 {
	key := sns2Key{peer: peer, tid: tid}
	old, ok := m.sns2[key]
	if !ok {
		m.sns2[key] = 1
		return 1
	}
	seq := advance(old, ModDivisor)
	m.sns2[key] = seq
	return seq
}

// NextSNS4 returns the next 10-bit sequence number for the peer and access
// category index.
func (m *Manager) NextSNS4(peer domain.MAC, aci uint8) uint16 {
	key := sns4Key{peer: peer, aci: aci}
	old, ok := m.sns4[key]
	if !ok {
		m.sns4[key] = 1
		return 1
	}
	seq := advance(old, ShortModDivisor)
	m.sns4[key] = seq
	return seq
}

// NextSNS5 returns the next number from the single keyless space used for
// time-priority management frames.
func (m *Manager) NextSNS5() uint16 {
	if !m.sns5Init {
		m.sns5Init = true
		m.sns5 = 1
		return 1
	}
	m.sns5 = advance(m.sns5, ModDivisor)
	return m.sns5
}
