package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/acegraph/internal/engine"
	"github.com/roach88/acegraph/internal/harness"
	"github.com/roach88/acegraph/internal/ir"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Scenario string // scenario name, for files holding several
}

// DumpResult is the JSON payload of the dump command.
type DumpResult struct {
	Scenario string          `json:"scenario"`
	Version  string          `json:"version"`
	Pass     bool            `json:"pass"`
	Digest   string          `json:"digest"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Run one scenario and print the graph tables",
		Long: `Run one scenario and print the final graph state: every hashcons
entry, every identifier with its representative, and every AC equation.

The dump is a debugging aid. Its layout is not a stable interface; the
digest identifies the state for comparisons.

Examples:
  acegraph dump squares.yaml
  acegraph dump basics.cue --scenario congruence
  acegraph dump squares.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "scenario to run (default: the first in the file)")

	return cmd
}

func runDump(opts *DumpOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := loadOne(path, opts.Scenario)
	if err != nil {
		return commandError(formatter, err)
	}

	runOpts, _ := opts.runOptions(formatter.GetErrWriter())
	result, err := harness.RunContext(cmd.Context(), s, runOpts)
	if err != nil {
		return commandError(formatter, err)
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{
			Status: "ok",
			Data: DumpResult{
				Scenario: s.Name,
				Version:  ir.SnapshotVersion,
				Pass:     result.Pass,
				Digest:   result.Digest,
				Snapshot: result.Snapshot,
			},
			Session: result.Snapshot.Session,
		})
	}

	formatter.Printf("# scenario %s (session %s)\n", s.Name, result.Snapshot.Session)
	if err := result.Snapshot.WriteText(formatter.Writer); err != nil {
		return err
	}
	formatter.Printf("# digest %s\n", result.Digest)
	return nil
}

// loadOne loads the named scenario from path, or its first scenario when
// name is empty.
func loadOne(path, name string) (*ir.Scenario, error) {
	scenarios, err := harness.LoadScenarios(path)
	if err != nil {
		return nil, &LoadError{Code: loadErrorCode(err), Message: err.Error()}
	}
	if name == "" {
		return scenarios[0], nil
	}
	for _, s := range scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("scenario %q not found in %s", name, path)}
}
