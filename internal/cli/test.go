package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/acegraph/internal/harness"
	"github.com/roach88/acegraph/internal/ir"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern on scenario names)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenarios against golden traces",
		Long: `Run scenarios and compare each trace against its golden file.

The golden file for scenario <name> found in <dir> is
<dir>/golden/<name>.golden and holds the canonical JSON trace. Scenarios
without a golden file are judged on their assertions only.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  acegraph test ./scenarios
  acegraph test ./scenarios --filter "squares*"
  acegraph test ./scenarios --update
  acegraph test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	info, err := os.Stat(scenariosDir)
	if err != nil || !info.IsDir() {
		return commandError(formatter, &LoadError{
			Code:    ErrCodeNotFound,
			Message: fmt.Sprintf("scenarios directory not found: %s", scenariosDir),
		})
	}

	loaded, err := findAndLoad([]string{scenariosDir}, opts.Filter)
	if err != nil {
		if lerr, ok := err.(*LoadError); ok && lerr.Code == ErrCodeNoFiles {
			return noScenarios(formatter)
		}
		return commandError(formatter, err)
	}
	if len(loaded) == 0 {
		return noScenarios(formatter)
	}

	result, err := runScenarioFiles(cmd.Context(), opts.RootOptions, formatter, loaded, opts.judgeGolden)
	if err != nil {
		return commandError(formatter, err)
	}
	return outputTestResult(formatter, result)
}

func noScenarios(formatter *OutputFormatter) error {
	if formatter.JSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: TestResult{Scenarios: []ScenarioResult{}}})
	}
	formatter.Printf("No scenarios found.\n")
	return nil
}

// judgeGolden compares a scenario's trace against its golden file, or
// rewrites the file with --update.
func (opts *TestOptions) judgeGolden(file string, s *ir.Scenario, r *harness.Result) ([]string, string) {
	traceJSON, err := harness.TraceJSON(s, r)
	if err != nil {
		return []string{fmt.Sprintf("failed to marshal trace: %v", err)}, ""
	}

	goldenPath := harness.GoldenPath(filepath.Dir(file), s.Name)

	if opts.Update {
		if err := harness.WriteGolden(goldenPath, traceJSON); err != nil {
			return []string{fmt.Sprintf("[%s] %v", ErrCodeWriteFailed, err)}, ""
		}
		return nil, "golden updated"
	}

	if _, err := os.Stat(goldenPath); os.IsNotExist(err) {
		// No golden file - use assertion-based validation only
		return nil, ""
	}

	if err := harness.CompareGolden(goldenPath, traceJSON); err != nil {
		return []string{fmt.Sprintf("%v (run with --update to regenerate)", err)}, ""
	}
	return nil, "golden match"
}
