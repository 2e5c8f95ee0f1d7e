package engine

import (
	"time"

	"github.com/wlanstack/sme/internal/core/domain"
)

// Core is the state machine the engine drives. Implementations are product
// variants (station, mesh, AP); the engine only requires these entry points
// and guarantees every call is made under its lock.
type Core interface {
	// HandleDriverEvent feeds one MLME indication into the state machine.
	HandleDriverEvent(ev domain.DriverEvent)

	// HandleTimer feeds one tick from the timer source. Variants without
	// timers never see a call.
	HandleTimer(t time.Time)

	// Dispatch translates one client command into a state transition and
	// returns the completion that will carry its result. A returned error
	// is a per-command failure answered directly to the client.
	Dispatch(req domain.Request) (*Completion, error)

	// ResolveUserEvent matches an emitted user event against the pending
	// command table and resolves the corresponding completion. An event
	// with no pending match is dropped, not fatal.
	ResolveUserEvent(ev domain.UserEvent)

	// Stats answers a read-only statistics query without mutation.
	Stats() domain.Stats

	// AbandonPending abandons every completion still in the pending table.
	// The engine calls it once, on teardown, so waiters observe
	// ErrAbandoned instead of hanging on their context.
	AbandonPending()
}

// CoreFactory builds the engine's core from device metadata and hands back
// its two output streams: driver commands to forward to the MLME, and user
// events that resolve pending client commands. Both channels close only when
// the core is discarded; the engine treats an early close as fatal.
type CoreFactory func(dev domain.DeviceInfo) (Core, <-chan domain.DriverCommand, <-chan domain.UserEvent)
