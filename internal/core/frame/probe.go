// Package frame builds 802.11 management frames for active scanning.
package frame

import (
	"errors"
	"fmt"

	"github.com/wlanstack/sme/internal/core/domain"
)

// IE tags used in probe requests.
const (
	TagSSID              = 0
	TagSupportedRates    = 1
	TagExtSupportedRates = 50
)

// ErrNoBandInfo indicates the device reported no capability record for a
// band the scan plan needs.
var ErrNoBandInfo = errors.New("no band info")

// SubPlan is the per-band slice of a scan: the channels to visit and the
// rate information elements to put in every probe request on those channels.
type SubPlan struct {
	Band     domain.Band
	Channels []uint8
	IEs      []byte
}

// ProbeRequestSeries splits a channel plan by band and carries the payload
// shared by every probe request of the scan. It is consumed destructively:
// each Next pops one band sub-plan until the series is exhausted.
type ProbeRequestSeries struct {
	SSIDs  []string
	Header []byte

	plans []SubPlan
}

// NewProbeRequestSeries partitions channels into the 2.4GHz (<=14) and 5GHz
// (>14) sub-plans, preserving input order within each, and precomputes the
// rate IEs per band from the device capability table. Construction fails if
// the device has no capability record for either band.
func NewProbeRequestSeries(ssids []string, header []byte, dev domain.DeviceInfo, channels []uint8) (*ProbeRequestSeries, error) {
	var lo, hi []uint8
	for _, ch := range channels {
		if domain.BandForChannel(ch) == domain.Band2GHz {
			lo = append(lo, ch)
		} else {
			hi = append(hi, ch)
		}
	}

	s := &ProbeRequestSeries{
		SSIDs:  append([]string(nil), ssids...),
		Header: append([]byte(nil), header...),
	}

	// 2.4GHz is stored first, 5GHz second; Next pops from the back, so a
	// dual-band scan visits 5GHz before 2.4GHz.
	for _, plan := range []struct {
		band     domain.Band
		channels []uint8
	}{
		{domain.Band2GHz, lo},
		{domain.Band5GHz, hi},
	} {
		bandCap, ok := dev.Capability(plan.band)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoBandInfo, plan.band)
		}
		s.plans = append(s.plans, SubPlan{
			Band:     plan.band,
			Channels: plan.channels,
			IEs:      rateIEs(bandCap.Rates),
		})
	}

	return s, nil
}

// Next removes and returns the most recently stored sub-plan. A sub-plan
// with no channels is still yielded; callers emit zero transmissions for it
// or skip it themselves. Once both sub-plans are taken, ok is false forever.
func (s *ProbeRequestSeries) Next() (SubPlan, bool) {
	if len(s.plans) == 0 {
		return SubPlan{}, false
	}
	last := s.plans[len(s.plans)-1]
	s.plans = s.plans[:len(s.plans)-1]
	return last, true
}

// RatesForChannel returns the device's supported-rate list for the band the
// channel belongs to, with zero-valued padding slots dropped. Used when a
// single known channel needs a frame outside a full series.
func RatesForChannel(dev domain.DeviceInfo, channel uint8) ([]uint8, error) {
	band := domain.BandForChannel(channel)
	bandCap, ok := dev.Capability(band)
	if !ok {
		return nil, fmt.Errorf("%w: %s (channel %d)", ErrNoBandInfo, band, channel)
	}
	return filterRates(bandCap.Rates), nil
}

func filterRates(rates []uint8) []uint8 {
	out := make([]uint8, 0, len(rates))
	for _, r := range rates {
		// Drivers pad the rate table with zeros; a zero rate is not a rate.
		if r != 0 {
			out = append(out, r)
		}
	}
	return out
}

// rateIEs encodes the filtered rate list as a Supported Rates element
// followed by an Extended Supported Rates continuation of the same list.
func rateIEs(rates []uint8) []byte {
	filtered := filterRates(rates)

	out := make([]byte, 0, 2*(len(filtered)+2))
	out = append(out, TagSupportedRates, byte(len(filtered)))
	out = append(out, filtered...)
	out = append(out, TagExtSupportedRates, byte(len(filtered)))
	out = append(out, filtered...)
	return out
}
