// SPDX-License-Identifier: MIT

package transpose

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/maverickz/ParallelComputing/collective"
	"github.com/maverickz/ParallelComputing/matrix"
)

// Option configures a Worker or a Run via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation.
type Option func(*Options)

// StageHook is called after every state transition of a worker with the
// slab the worker holds at that point. Returning an error aborts the run.
type StageHook func(state State, rank int, slab *matrix.Dense) error

// Options holds parameters and callbacks of a run.
type Options struct {
	// Logger receives structured diagnostics; each worker adds a "rank" attribute.
	Logger *slog.Logger

	// Console receives the user-facing lines (start, failure, success).
	Console io.Writer

	// Reporter is the rank that prints the start and success lines.
	Reporter int

	// Participants is how many workers Run launches; 0 means Config.Workers.
	Participants int

	// OnStage is called after each transition.
	OnStage StageHook

	shared *console // set by Run so that all workers write through one lock
	err    error
}

// DefaultOptions returns Options with a discarding logger, stdout console,
// rank 0 as reporter and no hook.
func DefaultOptions() Options {
	return Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Console:  os.Stdout,
		Reporter: collective.Root,
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithConsole redirects the user-facing lines.
func WithConsole(w io.Writer) Option {
	return func(o *Options) {
		if w != nil {
			o.Console = w
		}
	}
}

// WithReporter selects the reporting rank; negative ranks are invalid.
func WithReporter(rank int) Option {
	return func(o *Options) {
		if rank < 0 {
			o.err = fmt.Errorf("%w: reporter rank cannot be negative (%d)", ErrOptionViolation, rank)
			return
		}
		o.Reporter = rank
	}
}

// WithParticipants launches n workers instead of Config.Workers.
// A count different from Config.Workers makes every worker fail with a
// *ConfigurationError before any exchange.
func WithParticipants(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: participants cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.Participants = n
	}
}

// WithOnStage registers a hook run after each state transition.
func WithOnStage(fn StageHook) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnStage = fn
		}
	}
}

// gatherOptions applies opts over DefaultOptions.
func gatherOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
