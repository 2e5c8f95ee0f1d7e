package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wlanstack/sme/internal/core/domain"
)

var (
	peerA = domain.MustParseMAC("02:00:00:00:00:aa")
	peerB = domain.MustParseMAC("02:00:00:00:00:bb")
)

func TestSNS1_FirstIssueIsOne(t *testing.T) {
	m := NewManager()
	assert.Equal(t, uint16(1), m.NextSNS1(peerA))
	assert.Equal(t, uint16(2), m.NextSNS1(peerA))
}

func TestSNS1_Wraparound(t *testing.T) {
	m := NewManager()

	// Issuing exactly divisor numbers must produce 1..4095 followed by 0.
	for want := uint16(1); want < ModDivisor; want++ {
		if got := m.NextSNS1(peerA); got != want {
			t.Fatalf("call %d: got %d, want %d", want, got, want)
		}
	}
	assert.Equal(t, uint16(0), m.NextSNS1(peerA), "4095th increment wraps to 0")
	assert.Equal(t, uint16(1), m.NextSNS1(peerA), "after the wrap the counter resumes at 1, not 0")
}

func TestSNS4_ShortDivisor(t *testing.T) {
	m := NewManager()

	for i := 0; i < ShortModDivisor; i++ {
		m.NextSNS4(peerA, 3)
	}
	// 1024 issues end on 0; the next is 1.
	assert.Equal(t, uint16(1), m.NextSNS4(peerA, 3))
}

func TestSpaces_AreIndependent(t *testing.T) {
	m := NewManager()

	// Interleave spaces for the same peer: each keeps its own counter.
	m.NextSNS1(peerA)
	m.NextSNS1(peerA)
	m.NextSNS1(peerA)
	assert.Equal(t, uint16(1), m.NextSNS2(peerA, 0))
	assert.Equal(t, uint16(1), m.NextSNS4(peerA, 3))
	assert.Equal(t, uint16(4), m.NextSNS1(peerA), "SNS1 unaffected by SNS2/SNS4 traffic")

	assert.Equal(t, uint16(1), m.NextSNS5())
	assert.Equal(t, uint16(2), m.NextSNS5())
	assert.Equal(t, uint16(5), m.NextSNS1(peerA))
}

func TestKeys_AreIndependent(t *testing.T) {
	m := NewManager()

	m.NextSNS1(peerA)
	m.NextSNS1(peerA)
	assert.Equal(t, uint16(1), m.NextSNS1(peerB), "fresh peer starts at 1")

	m.NextSNS2(peerA, 0)
	assert.Equal(t, uint16(1), m.NextSNS2(peerA, 7), "different TID is a different slot")

	m.NextSNS4(peerA, 0)
	assert.Equal(t, uint16(1), m.NextSNS4(peerA, 1), "different ACI is a different slot")
}
