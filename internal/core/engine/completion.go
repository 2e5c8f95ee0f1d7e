package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/wlanstack/sme/internal/core/domain"
	"github.com/wlanstack/sme/internal/telemetry"
)

// ErrAbandoned is returned to a waiter whose completion was dropped before
// it was resolved (the owning command or session was torn down).
var ErrAbandoned = errors.New("command abandoned before completion")

// Completion is a single-use result slot: one writer, one reader. The writer
// either resolves it with a response or abandons it; the reader observes
// exactly one of the two. Resolving with no reader left is a silent no-op,
// which is expected during shutdown races.
type Completion struct {
	ch   chan domain.Response
	once sync.Once
}

// NewCompletion returns an unresolved completion.
func NewCompletion() *Completion {
	return &Completion{ch: make(chan domain.Response, 1)}
}

// Resolved returns a completion already carrying resp, for commands that
// finish synchronously.
func Resolved(resp domain.Response) *Completion {
	c := NewCompletion()
	c.Resolve(resp)
	return c
}

// Resolve delivers resp to the waiter. Only the first of Resolve/Abandon has
// any effect; the buffered slot means delivery never blocks the resolver,
// and an unconsumed response is simply dropped.
func (c *Completion) Resolve(resp domain.Response) {
	c.once.Do(func() {
		c.ch <- resp
		close(c.ch)
	})
}

// Abandon marks the completion as never going to resolve. Waiters observe
// ErrAbandoned rather than blocking forever.
func (c *Completion) Abandon() {
	c.once.Do(func() {
		close(c.ch)
	})
}

// Wait blocks until the completion resolves, is abandoned, or ctx ends. A
// completion already settled wins over a cancelled context, so teardown
// (abandon, then cancel) yields ErrAbandoned, not ctx.Err().
func (c *Completion) Wait(ctx context.Context) (domain.Response, error) {
	select {
	case resp, ok := <-c.ch:
		return c.settled(resp, ok)
	case <-ctx.Done():
		select {
		case resp, ok := <-c.ch:
			return c.settled(resp, ok)
		default:
		}
		return domain.Response{}, ctx.Err()
	}
}

func (c *Completion) settled(resp domain.Response, ok bool) (domain.Response, error) {
	if !ok {
		telemetry.CompletionsAbandoned.Inc()
		return domain.Response{}, ErrAbandoned
	}
	return resp, nil
}
