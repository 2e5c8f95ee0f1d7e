package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlanstack/sme/internal/core/domain"
)

func dualBandDevice() domain.DeviceInfo {
	return domain.DeviceInfo{
		Addr:  domain.MustParseMAC("02:00:00:00:01:00"),
		Iface: "wlan0",
		Bands: []domain.BandCapability{
			{
				Band:     domain.Band2GHz,
				Rates:    []uint8{0x82, 0x84, 0x8b, 0x96, 0, 0},
				Channels: []uint8{1, 6, 11},
			},
			{
				Band:     domain.Band5GHz,
				Rates:    []uint8{0x0c, 0x12, 0x18, 0},
				Channels: []uint8{36, 40, 149},
			},
		},
	}
}

func TestSeries_BandPartitionAndOrder(t *testing.T) {
	dev := dualBandDevice()
	s, err := NewProbeRequestSeries([]string{"lab"}, nil, dev, []uint8{1, 36, 11, 149, 6})
	require.NoError(t, err)

	// 5GHz comes out first, with input order preserved inside the band.
	plan, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, domain.Band5GHz, plan.Band)
	assert.Equal(t, []uint8{36, 149}, plan.Channels)

	plan, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, domain.Band2GHz, plan.Band)
	assert.Equal(t, []uint8{1, 11, 6}, plan.Channels)

	_, ok = s.Next()
	assert.False(t, ok, "series is exhausted after two sub-plans")
	_, ok = s.Next()
	assert.False(t, ok)
}

func TestSeries_EmptyBandStillYielded(t *testing.T) {
	dev := dualBandDevice()
	s, err := NewProbeRequestSeries(nil, nil, dev, []uint8{1, 6})
	require.NoError(t, err)

	plan, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, domain.Band5GHz, plan.Band)
	assert.Empty(t, plan.Channels, "empty 5GHz sub-plan is yielded, not skipped")

	plan, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, []uint8{1, 6}, plan.Channels)
}

func TestSeries_MissingBandFailsConstruction(t *testing.T) {
	dev := dualBandDevice()
	dev.Bands = dev.Bands[:1] // 2.4GHz only

	_, err := NewProbeRequestSeries(nil, nil, dev, []uint8{1, 6})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoBandInfo)
}

func TestSeries_RateFiltering(t *testing.T) {
	dev := dualBandDevice()
	s, err := NewProbeRequestSeries(nil, nil, dev, []uint8{36})
	require.NoError(t, err)

	plan, _ := s.Next()
	require.Equal(t, domain.Band5GHz, plan.Band)

	// Supported Rates (3 rates), then Extended Supported Rates of the same
	// filtered list. The zero padding slot never appears.
	want := []byte{
		TagSupportedRates, 3, 0x0c, 0x12, 0x18,
		TagExtSupportedRates, 3, 0x0c, 0x12, 0x18,
	}
	assert.Equal(t, want, plan.IEs)
	assert.NotContains(t, plan.IEs[2:5], byte(0))
}

func TestRatesForChannel(t *testing.T) {
	dev := dualBandDevice()

	rates, err := RatesForChannel(dev, 11)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x82, 0x84, 0x8b, 0x96}, rates)

	rates, err = RatesForChannel(dev, 149)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x0c, 0x12, 0x18}, rates)

	dev.Bands = dev.Bands[:1]
	_, err = RatesForChannel(dev, 149)
	assert.ErrorIs(t, err, ErrNoBandInfo)
}

func TestSerializeProbeRequest(t *testing.T) {
	dev := dualBandDevice()
	s, err := NewProbeRequestSeries([]string{"lab"}, nil, dev, []uint8{36})
	require.NoError(t, err)

	plan, _ := s.Next()
	pkt, err := SerializeProbeRequest(dev.Addr, "lab", plan.IEs, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, pkt)

	// The IE payload must ride after the 802.11 header unchanged.
	assert.Contains(t, string(pkt), string(plan.IEs))
	assert.Contains(t, string(pkt), "lab")
}
