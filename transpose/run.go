// SPDX-License-Identifier: MIT

package transpose

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/maverickz/ParallelComputing/collective"
	"github.com/maverickz/ParallelComputing/matrix"
)

// Report is what a cohort run leaves behind.
type Report struct {
	Config Config

	// Slabs holds the slab of each rank as left by its worker
	// (nil if the worker never initialized).
	Slabs []*matrix.Dense

	// States holds the final state of each rank.
	States []State

	// Traffic holds the byte counters of each rank.
	Traffic []collective.Traffic
}

// Run launches a cohort of workers over an in-process World and waits for
// all of them. The cohort size is Config.Workers unless WithParticipants
// says otherwise.
//
// Behavior highlights:
//   - The first failing worker aborts every other worker; the returned error
//     is that first failure (*ConfigurationError, *VerificationError or a
//     wrapped *collective.TransportError).
//   - The Report is returned even on failure, for diagnostics.
func Run(ctx context.Context, cfg Config, opts ...Option) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := gatherOptions(opts...)
	if o.err != nil {
		return nil, o.err
	}
	n := o.Participants
	if n == 0 {
		n = cfg.Workers
	}
	if o.Reporter >= n {
		return nil, fmt.Errorf("%w: reporter rank %d outside %d participants", ErrOptionViolation, o.Reporter, n)
	}

	world, err := collective.NewWorld(n)
	if err != nil {
		return nil, err
	}
	o.shared = newConsole(o.Console, o.Reporter)

	rep := &Report{
		Config: cfg,
		Slabs:  make([]*matrix.Dense, n),
		States: make([]State, n),
	}
	o.Logger.Debug("launching cohort", "participants", n, "workers", cfg.Workers, "dimension", cfg.Dimension)
	err = world.Run(ctx, func(ctx context.Context, c collective.Comm) error {
		w, err := newWorker(c, cfg, o)
		if err != nil {
			return err
		}
		err = w.Run(ctx)
		rep.Slabs[c.Rank()] = w.Slab()
		rep.States[c.Rank()] = w.State()
		return err
	})
	rep.Traffic = world.Traffic()

	return rep, err
}

// Gather assembles the distributed slabs into one Dimension×Dimension
// matrix: local cell (i,j) of rank r lands at (i, r*BlockSize+j).
func (r *Report) Gather() (*mat.Dense, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}
	d, bs := r.Config.Dimension, r.Config.BlockSize()
	if len(r.Slabs) != r.Config.Workers {
		return nil, fmt.Errorf("transpose: Gather: %d slabs for %d workers: %w", len(r.Slabs), r.Config.Workers, matrix.ErrDimensionMismatch)
	}

	out := mat.NewDense(d, d, nil)
	for rank, slab := range r.Slabs {
		if err := matrix.ValidateNotNil(slab); err != nil {
			return nil, fmt.Errorf("transpose: Gather: rank %d: %w", rank, err)
		}
		if rows, cols := slab.Shape(); rows != d || cols != bs {
			return nil, fmt.Errorf("transpose: Gather: rank %d is %dx%d: %w", rank, rows, cols, matrix.ErrDimensionMismatch)
		}
		slab.Do(func(i, j int, v float64) bool {
			out.Set(i, rank*bs+j, v)
			return true
		})
	}

	return out, nil
}

// Pattern returns the global matrix every run starts from:
// cell (i,c) = 1000*i + c. Like mat.NewDense it panics if cfg.Dimension <= 0.
func Pattern(cfg Config) *mat.Dense {
	d := cfg.Dimension
	out := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		for c := 0; c < d; c++ {
			out.Set(i, c, float64(valueScale*i+c))
		}
	}

	return out
}
