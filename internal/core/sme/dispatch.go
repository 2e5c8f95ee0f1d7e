package sme

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/wlanstack/sme/internal/core/domain"
	"github.com/wlanstack/sme/internal/core/engine"
	"github.com/wlanstack/sme/internal/core/frame"
)

// Dispatch translates one client command into a state transition. Called
// under the engine lock.
func (c *Core) Dispatch(req domain.Request) (*engine.Completion, error) {
	switch req.Op {
	case domain.OpScan:
		return c.startScan(req)
	case domain.OpJoin:
		return c.startJoin(req)
	case domain.OpStatus:
		stats := c.snapshot()
		return engine.Resolved(domain.Response{
			ID:    req.ID,
			Op:    req.Op,
			Stats: &stats,
			BSS:   c.assoc,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, req.Op)
	}
}

// startScan emits the whole probe-request series up front: per channel a
// channel switch plus one probe request per target SSID, then the scan-end
// marker the driver answers with SCAN_END. The burst is built in full before
// anything is emitted, so a failed dispatch never leaves the driver mid-scan
// with no scan-end marker.
func (c *Core) startScan(req domain.Request) (*engine.Completion, error) {
	if c.scanToken != uuid.Nil {
		return nil, ErrScanInProgress
	}

	for _, ssid := range req.SSIDs {
		if len(ssid) > domain.MaxSSIDLen {
			return nil, fmt.Errorf("%w: %q", ErrSSIDTooLong, ssid)
		}
	}

	channels := req.Channels
	if len(channels) == 0 {
		for _, b := range c.dev.Bands {
			channels = append(channels, b.Channels...)
		}
	}

	series, err := frame.NewProbeRequestSeries(req.SSIDs, nil, c.dev, channels)
	if err != nil {
		return nil, fmt.Errorf("scan plan: %w", err)
	}

	ssids := req.SSIDs
	if len(ssids) == 0 {
		ssids = []string{""} // wildcard probe
	}

	var burst []domain.DriverCommand
	for {
		plan, ok := series.Next()
		if !ok {
			break
		}
		for _, ch := range plan.Channels {
			burst = append(burst, domain.DriverCommand{Type: domain.CmdSetChannel, Channel: ch})
			for _, ssid := range ssids {
				pkt, err := frame.SerializeProbeRequest(
					c.dev.Addr, ssid, plan.IEs, c.seq.NextSNS1(domain.BroadcastMAC))
				if err != nil {
					return nil, fmt.Errorf("probe request: %w", err)
				}
				burst = append(burst, domain.DriverCommand{Type: domain.CmdTxFrame, Channel: ch, Frame: pkt, SSID: ssid})
			}
		}
	}
	burst = append(burst, domain.DriverCommand{Type: domain.CmdScanEnd})
	for _, cmd := range burst {
		c.emit(cmd)
	}

	comp := engine.NewCompletion()
	token := uuid.New()
	c.pending[token] = pendingCommand{req: req, comp: comp}
	c.scanToken = token
	return comp, nil
}

// startJoin records the pending command and asks the driver to join; the
// completion resolves on JOIN_CONFIRM.
func (c *Core) startJoin(req domain.Request) (*engine.Completion, error) {
	if c.joinToken != uuid.Nil {
		return nil, ErrJoinInProgress
	}

	bssid, err := domain.ParseMAC(req.BSSID)
	if err != nil {
		return nil, fmt.Errorf("join target: %w", err)
	}

	c.emit(domain.DriverCommand{Type: domain.CmdJoin, BSSID: bssid, SSID: req.SSID})

	comp := engine.NewCompletion()
	token := uuid.New()
	c.pending[token] = pendingCommand{req: req, comp: comp}
	c.joinToken = token
	return comp, nil
}

// emit queues one driver command for the bridge loop. The channel is sized
// for a full scan burst; if a pathological backlog fills it anyway we drop
// and log rather than block the engine lock.
func (c *Core) emit(cmd domain.DriverCommand) {
	select {
	case c.cmds <- cmd:
	default:
		log.Printf("sme: driver command backlog full, dropping %s", cmd.Type)
	}
}
