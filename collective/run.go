// SPDX-License-Identifier: MIT

package collective

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run launches size participants over a fresh World and waits for all of
// them. See (*World).Run.
func Run(ctx context.Context, size int, fn func(ctx context.Context, c Comm) error) error {
	w, err := NewWorld(size)
	if err != nil {
		return err
	}

	return w.Run(ctx, fn)
}

// Run drives every participant of w with fn, one goroutine per rank.
//
// Behavior highlights:
//   - The first participant to fail aborts the world before its error
//     reaches the group, so every blocked peer is released with a
//     TransportError naming that cause.
//   - The returned error is the abort cause (the failure that started the
//     teardown), not whichever peer happened to return first.
//   - There is no timeout: a participant that never returns stalls Run.
func (w *World) Run(ctx context.Context, fn func(ctx context.Context, c Comm) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, ep := range w.endpoints {
		ep := ep
		g.Go(func() error {
			err := fn(gctx, ep)
			if err != nil {
				w.Abort(err)
			}
			return err
		})
	}

	err := g.Wait()
	if cause := w.Cause(); cause != nil {
		return cause
	}

	return err
}
