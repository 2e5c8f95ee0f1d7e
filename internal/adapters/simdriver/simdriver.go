// Package simdriver is an in-process MLME stand-in: it answers driver
// commands with synthetic events so the daemon can run without radio
// hardware and the engine can be exercised end to end in tests.
package simdriver

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/wlanstack/sme/internal/core/domain"
)

const eventBacklog = 256

// Driver implements ports.DriverControl against a fixed synthetic radio
// environment. Events are emitted on the stream returned by Events.
type Driver struct {
	mu       sync.Mutex
	networks []domain.BSSDescription
	channel  uint8
	closed   bool

	events chan domain.DriverEvent
	rng    *rand.Rand
}

// New builds a driver surrounded by the given networks.
func New(networks []domain.BSSDescription) *Driver {
	return &Driver{
		networks: append([]domain.BSSDescription(nil), networks...),
		events:   make(chan domain.DriverEvent, eventBacklog),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Events is the driver event stream consumed by the engine's bridge loop.
func (d *Driver) Events() <-chan domain.DriverEvent {
	return d.events
}

// Send handles one MLME request. Responses are emitted asynchronously on the
// event stream, like a real driver would.
func (d *Driver) Send(cmd domain.DriverCommand) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch cmd.Type {
	case domain.CmdSetChannel:
		d.channel = cmd.Channel

	case domain.CmdTxFrame:
		// A probe request on the current channel solicits responses from
		// the networks parked there.
		for _, n := range d.networks {
			if n.Channel != d.channel {
				continue
			}
			if cmd.SSID != "" && cmd.SSID != n.SSID {
				continue
			}
			resp := n
			resp.RSSI += int8(d.rng.Intn(7)) - 3 // a little fading
			d.emit(domain.DriverEvent{Type: domain.EventProbeResponse, BSS: &resp})
		}

	case domain.CmdScanEnd:
		d.emit(domain.DriverEvent{Type: domain.EventScanEnd})

	case domain.CmdJoin:
		code := uint16(0)
		if !d.knows(cmd.BSSID) {
			code = 37 // refused: no such BSS
		}
		d.emit(domain.DriverEvent{Type: domain.EventJoinConfirm, Peer: cmd.BSSID, Code: code})
	}

	return nil
}

// Close ends the event stream. The engine treats that as fatal, which is
// exactly what losing the driver should be.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
}

func (d *Driver) knows(bssid domain.MAC) bool {
	for _, n := range d.networks {
		if n.BSSID == bssid {
			return true
		}
	}
	return false
}

func (d *Driver) emit(ev domain.DriverEvent) {
	if d.closed {
		return
	}
	select {
	case d.events <- ev:
	default:
		log.Printf("simdriver: event backlog full, dropping %s", ev.Type)
	}
}
