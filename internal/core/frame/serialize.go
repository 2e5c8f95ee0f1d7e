package frame

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/wlanstack/sme/internal/core/domain"
)

// SerializeProbeRequest builds one on-air probe request: RadioTap header,
// management frame header addressed to broadcast, then the SSID element and
// the band's rate IEs. seq is the SNS1 number for the broadcast peer.
func SerializeProbeRequest(src domain.MAC, ssid string, rateIEs []byte, seq uint16) ([]byte, error) {
	radiotap := &layers.RadioTap{
		Present: layers.RadioTapPresentRate,
		Rate:    5,
	}

	dot11 := &layers.Dot11{
		Type:           layers.Dot11TypeMgmtProbeReq,
		Address1:       domain.BroadcastMAC.HardwareAddr(),
		Address2:       src.HardwareAddr(),
		Address3:       domain.BroadcastMAC.HardwareAddr(),
		SequenceNumber: seq,
	}

	ssidBytes := []byte(ssid)
	payload := make([]byte, 0, 2+len(ssidBytes)+len(rateIEs))
	payload = append(payload, TagSSID, byte(len(ssidBytes)))
	payload = append(payload, ssidBytes...)
	payload = append(payload, rateIEs...)

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}

	if err := gopacket.SerializeLayers(buf, opts, radiotap, dot11, gopacket.Payload(payload)); err != nil {
		return nil, fmt.Errorf("serialize probe failed: %w", err)
	}

	return buf.Bytes(), nil
}
