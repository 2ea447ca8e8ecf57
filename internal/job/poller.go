// Package job tracks server-side asynchronous jobs (bulk loads, deploys) by
// polling their status at a fixed interval until a terminal state.
package job

import (
	"context"
	"time"
)

// Poller repeatedly invokes Check every Interval until IsTerminal reports the
// latest status as final, the context is cancelled, or Check fails.
//
// Polling is progress reporting, not a correctness path: when Check fails the
// loop stops without retrying and without surfacing an error to the caller.
// The abort is observable through OnAbort so callers (and tests) can see that
// it happened.
type Poller[S any] struct {
	// Interval between status checks. Must be positive.
	Interval time.Duration
	// Check fetches the current status.
	Check func(ctx context.Context) (S, error)
	// OnUpdate receives every observed status, in order. Optional.
	OnUpdate func(S)
	// IsTerminal decides when the latest status ends the loop.
	IsTerminal func(S) bool
	// OnAbort observes a Check failure that stopped the loop. Optional.
	OnAbort func(error)
}

// Run drives the polling loop until a terminal status, a Check failure, or
// ctx cancellation. The first check happens one Interval after Run starts.
// There is no wall-clock timeout at this layer; the caller bounds the loop
// through ctx if needed.
func (p *Poller[S]) Run(ctx context.Context) {
	timer := time.NewTimer(p.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		status, err := p.Check(ctx)
		if err != nil {
			if p.OnAbort != nil {
				p.OnAbort(err)
			}
			return
		}
		if p.OnUpdate != nil {
			p.OnUpdate(status)
		}
		if p.IsTerminal(status) {
			return
		}
		timer.Reset(p.Interval)
	}
}
