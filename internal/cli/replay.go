package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/acegraph/internal/harness"
	"github.com/roach88/acegraph/internal/ir"
)

// ReplayScenarioResult holds the replay result for a single scenario.
type ReplayScenarioResult struct {
	Name          string `json:"name"`
	File          string `json:"file"`
	TraceDigest   string `json:"trace_digest"`
	StateDigest   string `json:"state_digest"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Scenarios        []ReplayScenarioResult `json:"scenarios"`
	Total            int                    `json:"total"`
	AllDeterministic bool                   `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file|dir>...",
		Short: "Run scenarios twice and verify determinism",
		Long: `Run every scenario twice on fresh graphs and compare the trace and
state digests of both runs.

Identifiers come from a per-graph logical clock and every table keeps
insertion order, so the same operations must always produce the same
identifiers, the same equations and the same digests.

Exit codes:
  0 - All scenarios are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (missing paths, invalid scenarios, etc.)

Examples:
  acegraph replay ./scenarios
  acegraph replay squares.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runReplay(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := findAndLoad(paths, "")
	if err != nil {
		return commandError(formatter, err)
	}

	var (
		scenarios []*ir.Scenario
		files     []string
	)
	for _, f := range loaded {
		if f.Err != nil {
			return commandError(formatter, &LoadError{Code: loadErrorCode(f.Err), Message: f.Err.Error()})
		}
		for _, s := range f.Scenarios {
			scenarios = append(scenarios, s)
			files = append(files, f.Path)
		}
	}

	runOpts, _ := opts.runOptions(formatter.GetErrWriter())
	first, err := harness.RunAll(cmd.Context(), scenarios, runOpts, opts.parallelism())
	if err != nil {
		return commandError(formatter, err)
	}
	second, err := harness.RunAll(cmd.Context(), scenarios, runOpts, opts.parallelism())
	if err != nil {
		return commandError(formatter, err)
	}

	result := ReplayResult{
		Scenarios:        make([]ReplayScenarioResult, 0, len(scenarios)),
		Total:            len(scenarios),
		AllDeterministic: true,
	}
	for i, s := range scenarios {
		sr, err := compareRuns(s, first[i], second[i])
		if err != nil {
			return commandError(formatter, err)
		}
		sr.File = files[i]
		if !sr.Deterministic {
			result.AllDeterministic = false
		}
		result.Scenarios = append(result.Scenarios, sr)
	}

	if formatter.JSON() {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.AllDeterministic {
			response.Status = "error"
			response.Error = &CLIError{Code: "E_NONDETERMINISTIC", Message: "replay produced different digests"}
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}
	} else {
		for _, sr := range result.Scenarios {
			mark := "✓"
			if !sr.Deterministic {
				mark = "✗"
			}
			formatter.Printf("%s %s  trace=%s state=%s\n", mark, sr.Name, shortDigest(sr.TraceDigest), shortDigest(sr.StateDigest))
		}
		formatter.Printf("\nReplay Summary: %d scenario(s), deterministic: %t\n", result.Total, result.AllDeterministic)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay produced different digests")
	}
	return nil
}

// compareRuns compares the digests of two runs of one scenario.
func compareRuns(s *ir.Scenario, a, b *harness.Result) (ReplayScenarioResult, error) {
	ta, err := harness.TraceDigest(s, a)
	if err != nil {
		return ReplayScenarioResult{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	tb, err := harness.TraceDigest(s, b)
	if err != nil {
		return ReplayScenarioResult{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return ReplayScenarioResult{
		Name:          s.Name,
		TraceDigest:   ta,
		StateDigest:   a.Digest,
		Deterministic: ta == tb && a.Digest == b.Digest,
	}, nil
}

// shortDigest truncates a digest for display.
func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
