package engine

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/wlanstack/sme/internal/core/domain"
	"github.com/wlanstack/sme/internal/core/ports"
	"github.com/wlanstack/sme/internal/telemetry"
)

// session serves one client endpoint. All of its failure modes are local:
// they end the session, get logged, and never propagate to the engine.
type session struct {
	id  uuid.UUID
	eng *Engine
	ep  ports.ClientEndpoint
}

func newSession(e *Engine, ep ports.ClientEndpoint) *session {
	return &session{
		id:  uuid.New(),
		eng: e,
		ep:  ep,
	}
}

// run accepts commands until the client disconnects, a protocol error
// occurs, or the engine is torn down. Up to maxInflight commands are handled
// concurrently; beyond that, new commands queue behind in-flight ones.
func (s *session) run(ctx context.Context) {
	defer s.ep.Close()

	// A send failure cancels the whole session, not just one command.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reqs, err := s.ep.Requests()
	if err != nil {
		log.Printf("session %s: endpoint setup failed: %v", s.id, err)
		return
	}

	sem := make(chan struct{}, s.eng.maxInflight)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return

		case req, ok := <-reqs:
			if !ok {
				if err := s.ep.Err(); err != nil {
					log.Printf("session %s: request stream failed: %v", s.id, err)
				} else {
					log.Printf("session %s: client disconnected", s.id)
				}
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			wg.Add(1)
			go func(req domain.Request) {
				defer wg.Done()
				defer func() { <-sem }()
				s.handle(ctx, cancel, req)
			}(req)
		}
	}
}

// handle runs one command end to end: dispatch under the engine lock, wait
// for the completion, answer the client.
func (s *session) handle(ctx context.Context, cancel context.CancelFunc, req domain.Request) {
	telemetry.ClientCommandsTotal.WithLabelValues(string(req.Op)).Inc()

	comp, err := s.eng.dispatch(req)
	if err != nil {
		s.reply(cancel, domain.Response{ID: req.ID, Op: req.Op, Error: err.Error()})
		return
	}

	resp, err := comp.Wait(ctx)
	if err != nil {
		// Abandoned or cancelled mid-flight: the client still gets a
		// definite answer rather than silence.
		resp = domain.Response{ID: req.ID, Op: req.Op, Error: err.Error()}
	}
	s.reply(cancel, resp)
}

func (s *session) reply(cancel context.CancelFunc, resp domain.Response) {
	if err := s.ep.Send(resp); err != nil {
		log.Printf("session %s: send failed: %v", s.id, err)
		cancel()
	}
}
