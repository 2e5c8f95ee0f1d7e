// Package sme implements the client-station variant of the SME state
// machine driven by the engine. All methods are called under the engine
// lock; the core itself holds no locks.
package sme

import (
	"errors"

	"github.com/google/uuid"

	"github.com/wlanstack/sme/internal/core/domain"
	"github.com/wlanstack/sme/internal/core/engine"
	"github.com/wlanstack/sme/internal/core/sequence"
)

// Output stream capacities. Commands burst during scans (one tx per channel
// per SSID); user events are one per finished command.
const (
	cmdBacklog   = 1024
	eventBacklog = 64
)

// Per-command errors answered directly to the client.
var (
	ErrScanInProgress = errors.New("scan already in progress")
	ErrJoinInProgress = errors.New("join already in progress")
	ErrSSIDTooLong    = errors.New("ssid exceeds 32 bytes")
	ErrUnknownOp      = errors.New("unknown operation")
)

// pendingCommand ties an outstanding client command to its completion so a
// later user event can answer the right client.
type pendingCommand struct {
	req  domain.Request
	comp *engine.Completion
}

// Core is the station SME: it scans for networks, joins one, and tracks the
// association. It owns the sequence-number manager and the pending-command
// side table.
type Core struct {
	dev domain.DeviceInfo
	seq *sequence.Manager

	cmds   chan domain.DriverCommand
	events chan domain.UserEvent

	pending map[uuid.UUID]pendingCommand

	bss       map[domain.MAC]domain.BSSDescription
	assoc     *domain.BSSDescription
	scanToken uuid.UUID
	joinToken uuid.UUID

	driverEvents uint64
	scans        uint64
	joins        uint64
}

// New builds a station core for the given device.
func New(dev domain.DeviceInfo) *Core {
	return &Core{
		dev:     dev,
		seq:     sequence.NewManager(),
		cmds:    make(chan domain.DriverCommand, cmdBacklog),
		events:  make(chan domain.UserEvent, eventBacklog),
		pending: make(map[uuid.UUID]pendingCommand),
		bss:     make(map[domain.MAC]domain.BSSDescription),
	}
}

// Factory adapts New to the engine's core factory signature.
func Factory(dev domain.DeviceInfo) (engine.Core, <-chan domain.DriverCommand, <-chan domain.UserEvent) {
	c := New(dev)
	return c, c.cmds, c.events
}
