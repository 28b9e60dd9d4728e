package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/acegraph/internal/harness"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Scenario string // scenario name, for files holding several
}

// TraceResult is the JSON payload of the trace command.
type TraceResult struct {
	Scenario string               `json:"scenario"`
	Pass     bool                 `json:"pass"`
	Digest   string               `json:"digest"`
	Trace    []harness.TraceEvent `json:"trace"`
	Errors   []string             `json:"errors,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Run one scenario and print its step trace",
		Long: `Run one scenario and print every step with the identifiers it used
and produced, followed by the trace digest.

Examples:
  acegraph trace squares.yaml
  acegraph trace basics.cue --scenario commutativity --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "scenario to run (default: the first in the file)")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
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

	digest, err := harness.TraceDigest(s, result)
	if err != nil {
		return commandError(formatter, err)
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{
			Status: "ok",
			Data: TraceResult{
				Scenario: s.Name,
				Pass:     result.Pass,
				Digest:   digest,
				Trace:    result.Trace,
				Errors:   result.Errors,
			},
			Session: result.Snapshot.Session,
		})
	}

	formatter.Printf("Scenario: %s\n", s.Name)
	formatter.Printf("Session:  %s\n\n", result.Snapshot.Session)
	for _, event := range result.Trace {
		formatter.Printf("  [%d] %s\n", event.Seq, event.String())
	}
	formatter.Printf("\nDigest: %s\n", digest)
	for _, e := range result.Errors {
		formatter.VerboseLog("%s", e)
	}
	return nil
}
