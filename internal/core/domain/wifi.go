package domain

// Band identifies a radio frequency band.
type Band string

const (
	Band2GHz Band = "2.4GHz"
	Band5GHz Band = "5GHz"
)

// MaxSSIDLen is the longest SSID the SSID information element can carry.
const MaxSSIDLen = 32

// BandForChannel maps a 20MHz channel number to its band. Channels 1-14 are
// 2.4GHz; everything above is treated as 5GHz.
func BandForChannel(channel uint8) Band {
	if channel <= 14 {
		return Band2GHz
	}
	return Band5GHz
}

// BandCapability describes what the device's radio supports on one band.
// The rate list is in 802.11 supported-rates encoding (units of 500kbps,
// basic-rate bit included); unused slots are reported as 0 by drivers and
// must be filtered before the list goes on the air.
type BandCapability struct {
	Band     Band
	Rates    []uint8
	Channels []uint8
	HTCap    []byte // raw HT capabilities IE body, optional
}

// DeviceInfo is the static metadata the driver reports for one interface.
type DeviceInfo struct {
	Addr  MAC
	Iface string
	Bands []BandCapability
}

// Capability returns the capability record for a band, if the device has one.
func (d DeviceInfo) Capability(band Band) (BandCapability, bool) {
	for _, b := range d.Bands {
		if b.Band == band {
			return b, true
		}
	}
	return BandCapability{}, false
}

// BSSDescription is what the SME knows about one discovered network.
type BSSDescription struct {
	BSSID   MAC    `json:"bssid"`
	SSID    string `json:"ssid"`
	Channel uint8  `json:"channel"`
	RSSI    int8   `json:"rssi"`
}
