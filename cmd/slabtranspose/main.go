// SPDX-License-Identifier: MIT

// Command slabtranspose transposes a square matrix distributed over a cohort
// of in-process workers and verifies the result.
//
// Usage:
//
//	slabtranspose [--workers P] [--dimension D] [--np N] [--config file] [-v|--vv|-q]
//
// The exit status is 0 when every worker verified its slab and 1 otherwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maverickz/ParallelComputing/transpose"
)

// flags collects the command-line surface.
type flags struct {
	workers   int
	dimension int
	np        int
	config    string

	verbose     bool
	veryVerbose bool
	quiet       bool
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&f.workers, "workers", "w", transpose.DefaultWorkers, "number of workers the matrix is divided among")
	fs.IntVarP(&f.dimension, "dimension", "d", transpose.DefaultDimension, "order of the square matrix")
	fs.IntVarP(&f.np, "np", "n", 0, "number of participants to launch (0 means --workers)")
	fs.StringVarP(&f.config, "config", "c", "", "TOML or YAML file with workers and dimension")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log info messages")
	fs.BoolVar(&f.veryVerbose, "vv", false, "log debug messages")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "log only errors")
}

// resolve builds the run configuration: file values first, then any flag
// given explicitly on the command line.
func (f *flags) resolve(fs *pflag.FlagSet) (transpose.Config, error) {
	cfg := transpose.DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = transpose.LoadConfig(f.config); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("workers") || f.config == "" {
		cfg.Workers = f.workers
	}
	if fs.Changed("dimension") || f.config == "" {
		cfg.Dimension = f.dimension
	}

	return cfg, cfg.Validate()
}

// reportConfig prints the operator diagnostic for a topology rejected
// before any worker starts, in the same form workers use at run time.
func reportConfig(w io.Writer, cfg transpose.Config) {
	switch {
	case cfg.Workers <= 0:
		fmt.Fprintf(w, "Error, number of processes must be > 0, got %d\n", cfg.Workers)
	case cfg.Dimension <= 0:
		fmt.Fprintf(w, "Error, matrix dimension must be > 0, got %d\n", cfg.Dimension)
	default:
		fmt.Fprintf(w, "Error, number of processes must divide %d, got %d\n", cfg.Dimension, cfg.Workers)
	}
}

// LevelFromFlags maps the verbosity flags to a log level; the most verbose wins.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "slabtranspose",
		Short:         "Transpose a distributed square matrix and verify it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
				Level: LevelFromFlags(f.veryVerbose, f.verbose, f.quiet),
			}))
			cfg, err := f.resolve(cmd.Flags())
			if err != nil {
				if cfg.Validate() != nil {
					reportConfig(stdout, cfg)
				}
				return err
			}
			_, err = transpose.Run(cmd.Context(), cfg,
				transpose.WithLogger(logger),
				transpose.WithConsole(stdout),
				transpose.WithParticipants(f.np))
			if err != nil {
				logger.Debug("run failed", "err", err)
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	f.register(cmd.Flags())

	return cmd
}

// execute runs the command with args and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)

	var (
		cerr *transpose.ConfigurationError
		verr *transpose.VerificationError
	)
	// Those two were already reported on the console.
	if err != nil && !errors.As(err, &cerr) && !errors.As(err, &verr) {
		fmt.Fprintln(stderr, "slabtranspose:", err)
	}

	return transpose.ExitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
