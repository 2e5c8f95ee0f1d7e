// Package engine runs the SME service loops: the driver bridge below and
// the client server above, sharing one locked state machine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wlanstack/sme/internal/core/domain"
	"github.com/wlanstack/sme/internal/core/ports"
	"github.com/wlanstack/sme/internal/telemetry"
)

// DefaultMaxInflight bounds concurrently handled commands per client session.
const DefaultMaxInflight = 1000

// Fatal engine errors. The driver event stream, the endpoint source and the
// core's user-event stream are expected to outlive the engine; any of them
// ending means no further progress is possible.
var (
	ErrDriverStreamEnded   = errors.New("driver event stream ended")
	ErrEndpointSourceEnded = errors.New("client endpoint source ended")
	ErrUserEventsEnded     = errors.New("user event stream ended")
	ErrCommandStreamEnded  = errors.New("core command stream ended")
)

// Engine bridges one MLME driver, one SME core and a dynamic set of client
// control sessions. It is single-shot: after Serve returns, a new engine
// must be constructed.
type Engine struct {
	mu   sync.Mutex // guards core
	core Core

	driver       ports.DriverControl
	driverEvents <-chan domain.DriverEvent
	endpoints    <-chan ports.ClientEndpoint
	statsQueries <-chan domain.StatsQuery
	timers       <-chan time.Time // nil: a legitimate, permanently silent source

	driverCmds <-chan domain.DriverCommand
	userEvents <-chan domain.UserEvent

	maxInflight int
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithMaxInflight overrides the per-session concurrent command bound.
func WithMaxInflight(n int) Option {
	return func(e *Engine) { e.maxInflight = n }
}

// WithTimerSource supplies the driver bridge's timer events. Without it the
// engine uses a nil channel, i.e. a source that never fires.
func WithTimerSource(timers <-chan time.Time) Option {
	return func(e *Engine) { e.timers = timers }
}

// New constructs the engine and, through factory, the SME core it owns.
func New(
	driver ports.DriverControl,
	dev domain.DeviceInfo,
	factory CoreFactory,
	driverEvents <-chan domain.DriverEvent,
	endpoints <-chan ports.ClientEndpoint,
	statsQueries <-chan domain.StatsQuery,
	opts ...Option,
) *Engine {
	core, cmds, userEvents := factory(dev)
	e := &Engine{
		core:         core,
		driver:       driver,
		driverEvents: driverEvents,
		endpoints:    endpoints,
		statsQueries: statsQueries,
		driverCmds:   cmds,
		userEvents:   userEvents,
		maxInflight:  DefaultMaxInflight,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Serve races the driver bridge against the client server: the first loop to
// terminate decides the engine's result, and the other loop, with every
// session and in-flight command it owns, is cancelled.
func (e *Engine) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	go func() { errc <- e.driverBridge(ctx) }()
	go func() { errc <- e.clientServer(ctx) }()

	err := <-errc

	// Abandon pending completions before cancelling so a session still
	// waiting sees ErrAbandoned rather than its context ending.
	e.mu.Lock()
	e.core.AbandonPending()
	e.mu.Unlock()

	cancel()
	<-errc // let the losing loop unwind before the engine reports

	return err
}

// driverBridge feeds driver events into the core, forwards the core's
// command stream to the driver, answers stats queries and consumes the
// timer source. Each core touch takes the lock for exactly one operation.
func (e *Engine) driverBridge(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-e.driverEvents:
			if !ok {
				return ErrDriverStreamEnded
			}
			e.mu.Lock()
			e.core.HandleDriverEvent(ev)
			e.mu.Unlock()
			telemetry.DriverEventsTotal.WithLabelValues(string(ev.Type)).Inc()

		case cmd, ok := <-e.driverCmds:
			if !ok {
				return ErrCommandStreamEnded
			}
			if err := e.driver.Send(cmd); err != nil {
				return fmt.Errorf("driver send: %w", err)
			}
			telemetry.DriverCommandsTotal.WithLabelValues(string(cmd.Type)).Inc()

		case q, ok := <-e.statsQueries:
			if !ok {
				// The stats source draining is not an engine invariant;
				// drop the arm and keep serving.
				e.statsQueries = nil
				continue
			}
			e.mu.Lock()
			stats := e.core.Stats()
			e.mu.Unlock()
			select {
			case q.Reply <- stats:
			case <-ctx.Done():
				return ctx.Err()
			}

		case t := <-e.timers:
			e.mu.Lock()
			e.core.HandleTimer(t)
			e.mu.Unlock()
		}
	}
}

// clientServer owns the session pool. Each iteration makes progress on one
// of: a user event resolving a pending command, a new endpoint becoming a
// session, or a session leaving the pool.
func (e *Engine) clientServer(ctx context.Context) error {
	active := make(map[uuid.UUID]*session)
	done := make(chan uuid.UUID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-e.userEvents:
			if !ok {
				return ErrUserEventsEnded
			}
			e.mu.Lock()
			e.core.ResolveUserEvent(ev)
			e.mu.Unlock()

		case ep, ok := <-e.endpoints:
			if !ok {
				return ErrEndpointSourceEnded
			}
			s := newSession(e, ep)
			active[s.id] = s
			telemetry.SessionsActive.Inc()
			log.Printf("engine: session %s opened (%d active)", s.id, len(active))
			go func() {
				s.run(ctx)
				telemetry.SessionsActive.Dec()
				select {
				case done <- s.id:
				case <-ctx.Done():
				}
			}()

		case id := <-done:
			delete(active, id)
			log.Printf("engine: session %s reaped (%d active)", id, len(active))
		}
	}
}

// dispatch runs one client command against the core under the lock.
func (e *Engine) dispatch(req domain.Request) (*Completion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.Dispatch(req)
}
