package simdriver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlanstack/sme/internal/core/domain"
)

func testNetworks() []domain.BSSDescription {
	return []domain.BSSDescription{
		{BSSID: domain.MustParseMAC("aa:bb:cc:00:00:01"), SSID: "lab", Channel: 36, RSSI: -40},
		{BSSID: domain.MustParseMAC("aa:bb:cc:00:00:02"), SSID: "guest", Channel: 6, RSSI: -60},
	}
}

func collect(d *Driver) []domain.DriverEvent {
	var out []domain.DriverEvent
	for {
		select {
		case ev := <-d.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestScanSequence(t *testing.T) {
	d := New(testNetworks())

	require.NoError(t, d.Send(domain.DriverCommand{Type: domain.CmdSetChannel, Channel: 36}))
	require.NoError(t, d.Send(domain.DriverCommand{Type: domain.CmdTxFrame}))
	require.NoError(t, d.Send(domain.DriverCommand{Type: domain.CmdScanEnd}))

	evs := collect(d)
	require.Len(t, evs, 2)
	assert.Equal(t, domain.EventProbeResponse, evs[0].Type)
	assert.Equal(t, "lab", evs[0].BSS.SSID)
	assert.Equal(t, domain.EventScanEnd, evs[1].Type)
}

func TestDirectedProbeFiltersSSID(t *testing.T) {
	d := New(testNetworks())

	require.NoError(t, d.Send(domain.DriverCommand{Type: domain.CmdSetChannel, Channel: 6}))
	require.NoError(t, d.Send(domain.DriverCommand{Type: domain.CmdTxFrame, SSID: "lab"}))

	assert.Empty(t, collect(d), "directed probe for another SSID draws no response")
}

func TestJoin(t *testing.T) {
	d := New(testNetworks())

	known := domain.MustParseMAC("aa:bb:cc:00:00:01")
	require.NoError(t, d.Send(domain.DriverCommand{Type: domain.CmdJoin, BSSID: known}))

	evs := collect(d)
	require.Len(t, evs, 1)
	assert.Equal(t, domain.EventJoinConfirm, evs[0].Type)
	assert.Equal(t, uint16(0), evs[0].Code)

	require.NoError(t, d.Send(domain.DriverCommand{Type: domain.CmdJoin, BSSID: domain.MustParseMAC("aa:bb:cc:ff:ff:ff")}))
	evs = collect(d)
	require.Len(t, evs, 1)
	assert.NotZero(t, evs[0].Code, "unknown BSS is refused")
}

func TestCloseEndsStream(t *testing.T) {
	d := New(nil)
	d.Close()

	_, ok := <-d.Events()
	assert.False(t, ok)

	// Late sends after close are dropped, not panics.
	assert.NoError(t, d.Send(domain.DriverCommand{Type: domain.CmdScanEnd}))
}
