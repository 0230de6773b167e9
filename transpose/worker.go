// SPDX-License-Identifier: MIT
// Package transpose - per-participant protocol.
//
// Purpose:
//   - Own one slab of the matrix and drive it through
//     Initialize → Exchange → TransposeBlocks → Verify.
//   - Keep every buffer explicitly sized and owned by the worker; the only
//     cross-worker traffic is the single all-to-all of Exchange.
//
// Layout:
//   - A slab is a Dimension×BlockSize row-major Dense. Local cell (i,j) of
//     rank r is global cell (i, r*BlockSize+j), and the flat buffer is
//     exactly Workers contiguous BlockSize×BlockSize sub-blocks.

package transpose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maverickz/ParallelComputing/collective"
	"github.com/maverickz/ParallelComputing/matrix"
)

// Step tags used in wrapped errors and logs.
const (
	stepInitialize = "initialize"
	stepExchange   = "exchange"
	stepTranspose  = "transpose"
	stepVerify     = "verify"
	stepFinish     = "finish"
	stepHook       = "hook"
)

// valueScale separates the row and column components of a cell value.
const valueScale = 1000

// dumpLimit is the largest Dimension whose slab is logged on a failed Verify.
const dumpLimit = 16

// InitialValue is the value rank stores at local cell (i,j) before the run:
// 1000*globalRow + globalColumn.
func InitialValue(rank, blockSize, i, j int) float64 {
	return float64(valueScale*i + j + blockSize*rank)
}

// ExpectedValue is the value rank must hold at local cell (i,j) after the run,
// i.e. the initial value of the mirrored global cell.
func ExpectedValue(rank, blockSize, i, j int) float64 {
	return float64(valueScale*(j+blockSize*rank) + i)
}

// Worker runs the transpose protocol for one participant.
// Its methods must be called from a single goroutine.
type Worker struct {
	comm  collective.Comm
	cfg   Config
	opts  Options
	out   *console
	log   *slog.Logger
	state State
	slab  *matrix.Dense
}

// NewWorker validates cfg and opts and returns a worker in state Uninitialized.
// No buffer is allocated before Initialize.
func NewWorker(comm collective.Comm, cfg Config, opts ...Option) (*Worker, error) {
	return newWorker(comm, cfg, gatherOptions(opts...))
}

func newWorker(comm collective.Comm, cfg Config, o Options) (*Worker, error) {
	if comm == nil {
		return nil, fmt.Errorf("%w: nil communicator", ErrOptionViolation)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := o.shared
	if out == nil {
		out = newConsole(o.Console, o.Reporter)
	}

	return &Worker{
		comm: comm,
		cfg:  cfg,
		opts: o,
		out:  out,
		log:  o.Logger.With(slog.Int("rank", comm.Rank())),
	}, nil
}

// Rank returns the worker's rank.
func (w *Worker) Rank() int { return w.comm.Rank() }

// State returns the current protocol state.
func (w *Worker) State() State { return w.state }

// Slab returns the slab the worker currently owns (nil before Initialize).
func (w *Worker) Slab() *matrix.Dense { return w.slab }

// CheckParticipants fails with *ConfigurationError when the group size
// differs from Config.Workers. It performs no communication.
func (w *Worker) CheckParticipants() error {
	if n := w.comm.Size(); n != w.cfg.Workers {
		return &ConfigurationError{Expected: w.cfg.Workers, Actual: n}
	}

	return nil
}

// Initialize allocates the slab and fills it with InitialValue.
func (w *Worker) Initialize() error {
	if err := w.expect(stepInitialize, Uninitialized); err != nil {
		return err
	}

	bs, rank := w.cfg.BlockSize(), w.Rank()
	slab, err := matrix.NewDense(w.cfg.Dimension, bs)
	if err != nil {
		return workerErrorf(stepInitialize, rank, err)
	}
	if err = slab.Apply(func(i, j int, _ float64) float64 {
		return InitialValue(rank, bs, i, j)
	}); err != nil {
		return workerErrorf(stepInitialize, rank, err)
	}
	w.slab = slab

	return w.advance(Initialized)
}

// Exchange performs the single all-to-all of the run. Each peer receives
// BlockSize² items, not the whole slab. The received slab replaces the sent
// one, which is released.
func (w *Worker) Exchange(ctx context.Context) error {
	if err := w.expect(stepExchange, Initialized); err != nil {
		return err
	}

	bs := w.cfg.BlockSize()
	recv, err := matrix.NewDense(w.cfg.Dimension, bs)
	if err != nil {
		return workerErrorf(stepExchange, w.Rank(), err)
	}
	if err = w.comm.AllToAll(ctx, w.slab.Data(), recv.Data(), bs*bs); err != nil {
		return workerErrorf(stepExchange, w.Rank(), err)
	}
	w.slab = recv

	return w.advance(Exchanged)
}

// TransposeBlocks transposes each received BlockSize×BlockSize sub-block in
// place, one kernel call per peer.
func (w *Worker) TransposeBlocks() error {
	if err := w.expect(stepTranspose, Exchanged); err != nil {
		return err
	}

	bs := w.cfg.BlockSize()
	for p := 0; p < w.cfg.Workers; p++ {
		blk, err := w.block(p)
		if err != nil {
			return workerErrorf(stepTranspose, w.Rank(), err)
		}
		data, err := blk.Data()
		if err != nil {
			return workerErrorf(stepTranspose, w.Rank(), err)
		}
		if err = matrix.TransposeSquareInPlace(data, bs); err != nil {
			return workerErrorf(stepTranspose, w.Rank(), err)
		}
	}

	return w.advance(Transposed)
}

// Verify compares every cell with ExpectedValue, sub-block by sub-block, and
// stops at the first mismatch, returning a *VerificationError with slab
// coordinates. Small slabs are dumped to the Debug log on failure.
func (w *Worker) Verify() error {
	if err := w.expect(stepVerify, Transposed); err != nil {
		return err
	}

	bs, rank := w.cfg.BlockSize(), w.Rank()
	var verr *VerificationError
	for p := 0; p < w.cfg.Workers && verr == nil; p++ {
		blk, err := w.block(p)
		if err != nil {
			return workerErrorf(stepVerify, rank, err)
		}
		blk.Do(func(i, j int, v float64) bool {
			row := p*bs + i
			if want := ExpectedValue(rank, bs, row, j); v != want {
				verr = &VerificationError{Rank: rank, Row: row, Col: j, Actual: v, Expected: want}
				return false
			}
			return true
		})
	}
	if verr != nil {
		w.state = VerifiedFailed
		w.log.Error("verification failed",
			slog.Int("row", verr.Row), slog.Int("col", verr.Col),
			slog.Float64("actual", verr.Actual), slog.Float64("expected", verr.Expected))
		if w.cfg.Dimension <= dumpLimit {
			w.log.Debug("slab after transpose", slog.String("slab", w.slab.String()))
		}
		return verr
	}

	return w.advance(VerifiedOK)
}

// block returns the p-th BlockSize×BlockSize sub-block of the slab.
func (w *Worker) block(p int) (*matrix.MatrixView, error) {
	bs := w.cfg.BlockSize()

	return w.slab.View(p*bs, 0, bs, bs)
}

// Run executes the whole protocol. Any failure aborts the group through the
// communicator, so peers blocked in a collective are released.
//
// Console lines:
//   - reporter: "Transposing a DxD matrix, divided among P processors".
//   - reporter, on participant mismatch: "Error, number of processes must be P".
//     Every rank detects the mismatch and fails with *ConfigurationError, but
//     only the reporter prints, so the line appears once per run.
//   - failing rank, on verification failure: the *VerificationError text.
//   - reporter, after every rank verified: "Transpose seems ok".
func (w *Worker) Run(ctx context.Context) (err error) {
	rank := w.Rank()
	defer func() {
		if err != nil {
			w.comm.Abort(err)
		}
	}()

	w.out.Printf(rank, "Transposing a %dx%d matrix, divided among %d processors\n",
		w.cfg.Dimension, w.cfg.Dimension, w.cfg.Workers)

	if err = w.CheckParticipants(); err != nil {
		w.out.Printf(rank, "Error, number of processes must be %d\n", w.cfg.Workers)
		w.log.Error("participant count mismatch", slog.Int("expected", w.cfg.Workers), slog.Int("actual", w.comm.Size()))
		return err
	}
	if err = w.Initialize(); err != nil {
		return err
	}
	if err = w.Exchange(ctx); err != nil {
		return err
	}
	if err = w.TransposeBlocks(); err != nil {
		return err
	}
	if err = w.Verify(); err != nil {
		var verr *VerificationError
		if errors.As(err, &verr) {
			w.out.AllPrintf("process %d found b[%d][%d] = %f, but %f was expected\n",
				verr.Rank, verr.Row, verr.Col, verr.Actual, verr.Expected)
		}
		return err
	}

	// Success is reported only once every rank has verified its slab.
	if err = w.comm.Barrier(ctx); err != nil {
		return workerErrorf(stepFinish, rank, err)
	}
	w.out.Printf(rank, "Transpose seems ok\n")
	w.log.Info("transpose verified", slog.Int64("bytes_sent", w.comm.Traffic().TotalSent()))

	return nil
}

// expect guards the state machine.
func (w *Worker) expect(step string, want State) error {
	if w.state != want {
		return workerErrorf(step, w.Rank(), fmt.Errorf("%w: in %s, want %s", ErrInvalidState, w.state, want))
	}

	return nil
}

// advance records a transition and runs the stage hook.
func (w *Worker) advance(next State) error {
	w.state = next
	w.log.Debug("stage complete", slog.String("state", next.String()))
	if w.opts.OnStage == nil {
		return nil
	}
	if err := w.opts.OnStage(next, w.Rank(), w.slab); err != nil {
		return workerErrorf(stepHook, w.Rank(), err)
	}

	return nil
}
