package sme

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wlanstack/sme/internal/core/domain"
	"github.com/wlanstack/sme/internal/telemetry"
)

// HandleDriverEvent feeds one MLME indication into the state machine.
// Called under the engine lock.
func (c *Core) HandleDriverEvent(ev domain.DriverEvent) {
	c.driverEvents++

	switch ev.Type {
	case domain.EventBeacon, domain.EventProbeResponse:
		if ev.BSS != nil {
			c.bss[ev.BSS.BSSID] = *ev.BSS
		}

	case domain.EventScanEnd:
		if c.scanToken == uuid.Nil {
			return
		}
		results := make([]domain.BSSDescription, 0, len(c.bss))
		for _, b := range c.bss {
			results = append(results, b)
		}
		c.scans++
		c.notify(domain.UserEvent{Type: domain.UserScanDone, Token: c.scanToken, Scan: results})
		c.scanToken = uuid.Nil

	case domain.EventJoinConfirm:
		if c.joinToken == uuid.Nil {
			return
		}
		ev2 := domain.UserEvent{Type: domain.UserJoinDone, Token: c.joinToken}
		if ev.Code == 0 {
			if b, ok := c.bss[ev.Peer]; ok {
				c.assoc = &b
			} else {
				c.assoc = &domain.BSSDescription{BSSID: ev.Peer}
			}
			c.joins++
		} else {
			ev2.Err = fmt.Errorf("join refused: status %d", ev.Code)
		}
		c.notify(ev2)
		c.joinToken = uuid.Nil

	case domain.EventDeauthInd:
		if c.assoc != nil && c.assoc.BSSID == ev.Peer {
			log.Printf("sme: deauthenticated by %s (reason %d)", ev.Peer, ev.Code)
			c.assoc = nil
		}
	}
}

// HandleTimer is part of the engine core contract. The station variant
// needs no timers; its source never fires.
func (c *Core) HandleTimer(time.Time) {}

// ResolveUserEvent matches a user event against the pending-command table
// and resolves the completion. An event with no pending match is dropped;
// that happens when the waiting session was torn down first.
func (c *Core) ResolveUserEvent(ev domain.UserEvent) {
	p, ok := c.pending[ev.Token]
	if !ok {
		telemetry.UserEventsDropped.Inc()
		log.Printf("sme: user event %s matched no pending command", ev.Type)
		return
	}
	delete(c.pending, ev.Token)

	resp := domain.Response{ID: p.req.ID, Op: p.req.Op}
	switch {
	case ev.Err != nil:
		resp.Error = ev.Err.Error()
	case ev.Type == domain.UserScanDone:
		resp.Scan = ev.Scan
	case ev.Type == domain.UserJoinDone:
		resp.BSS = c.assoc
	}
	p.comp.Resolve(resp)
}

// AbandonPending abandons every outstanding completion. Called once by the
// engine on teardown; any session still waiting gets engine.ErrAbandoned.
func (c *Core) AbandonPending() {
	for token, p := range c.pending {
		p.comp.Abandon()
		delete(c.pending, token)
	}
	c.scanToken = uuid.Nil
	c.joinToken = uuid.Nil
}

// notify queues a user event for the client-server loop.
func (c *Core) notify(ev domain.UserEvent) {
	select {
	case c.events <- ev:
	default:
		log.Printf("sme: user event backlog full, dropping %s", ev.Type)
	}
}

// Stats answers a read-only statistics query.
func (c *Core) Stats() domain.Stats {
	return c.snapshot()
}

func (c *Core) snapshot() domain.Stats {
	perBand := map[domain.Band]int{}
	for _, b := range c.bss {
		perBand[domain.BandForChannel(b.Channel)]++
	}
	return domain.Stats{
		DriverEvents:   c.driverEvents,
		ScansCompleted: c.scans,
		JoinsCompleted: c.joins,
		PendingTokens:  len(c.pending),
		KnownBSS:       perBand,
		Associated:     c.assoc,
	}
}
