package cli

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/acegraph/internal/engine"
	"github.com/roach88/acegraph/internal/harness"
	"github.com/roach88/acegraph/internal/ir"
	"github.com/roach88/acegraph/internal/metrics"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose      bool
	Format       string // "json" | "text"
	MaxPasses    int    // rebuild pass limit for scenarios that set none
	MaxEquations int    // equation limit for scenarios that set none
	Parallel     int    // scenarios run concurrently; 0 means one per CPU
	Metrics      bool   // print rebuild metrics after the run
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the acegraph CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "acegraph",
		Short:   "acegraph - AC e-graph scenario runner",
		Version: ir.EngineVersion,
		Long: `Run equality scenarios against an e-graph with congruence closure
and AC completion.

A scenario builds terms from uninterpreted functions and an associative
commutative operator, asserts equalities, and checks what the graph can
prove.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.MaxPasses < 0 || opts.MaxEquations < 0 || opts.Parallel < 0 {
				return fmt.Errorf("--max-passes, --max-equations and --parallel must be >= 0")
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().IntVar(&opts.MaxPasses, "max-passes", 0, "rebuild pass limit (0 = engine default)")
	cmd.PersistentFlags().IntVar(&opts.MaxEquations, "max-equations", 0, "AC equation limit (0 = engine default)")
	cmd.PersistentFlags().IntVar(&opts.Parallel, "parallel", 0, "scenarios run concurrently (0 = one per CPU)")
	cmd.PersistentFlags().BoolVar(&opts.Metrics, "metrics", false, "print rebuild metrics to stderr after the run")

	// Add subcommands
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// budget returns the engine budget selected by the global flags.
func (o *RootOptions) budget() engine.Budget {
	return engine.Budget{MaxPasses: o.MaxPasses, MaxEquations: o.MaxEquations}
}

// parallelism returns the scenario concurrency limit.
func (o *RootOptions) parallelism() int {
	if o.Parallel > 0 {
		return o.Parallel
	}
	return runtime.GOMAXPROCS(0)
}

// logger returns the engine logger: warnings on w, debug with --verbose.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// runOptions builds harness options for one command invocation, logging
// to logw. The returned registry is nil unless --metrics is set.
func (o *RootOptions) runOptions(logw io.Writer) (harness.Options, *prometheus.Registry) {
	opts := harness.Options{
		Logger: o.logger(logw),
		Budget: o.budget(),
	}
	if !o.Metrics {
		return opts, nil
	}
	reg := prometheus.NewRegistry()
	opts.Metrics = metrics.New(reg)
	return opts, reg
}
