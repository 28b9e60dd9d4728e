package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/acegraph/internal/harness"
	"github.com/roach88/acegraph/internal/ir"
	"github.com/roach88/acegraph/internal/metrics"
)

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Digest string   `json:"digest,omitempty"`
	Note   string   `json:"note,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall result of a check or test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(sr ScenarioResult) {
	r.Scenarios = append(r.Scenarios, sr)
	r.Total++
	if sr.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// judgeFunc adds command-specific checks to a finished scenario. It returns
// extra errors and an optional note for the report.
type judgeFunc func(file string, s *ir.Scenario, r *harness.Result) (errs []string, note string)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Run scenarios and evaluate their assertions",
		Long: `Run scenario files and report which ones pass.

A scenario passes when every equal step matches its expect clause and
every assertion holds. Directories are searched for *.yaml, *.yml and
*.cue files. Scenarios run concurrently on independent graphs.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing paths, unreadable files, etc.)

Examples:
  acegraph check ./scenarios
  acegraph check squares.yaml --max-passes 10
  acegraph check ./scenarios --parallel 4 --metrics
  acegraph check ./scenarios --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := findAndLoad(paths, "")
	if err != nil {
		return commandError(formatter, err)
	}

	result, err := runScenarioFiles(cmd.Context(), opts, formatter, loaded, nil)
	if err != nil {
		return commandError(formatter, err)
	}
	return outputTestResult(formatter, result)
}

// findAndLoad locates and loads scenario files.
func findAndLoad(paths []string, filter string) ([]ScenarioFile, error) {
	files, err := FindScenarioFiles(paths)
	if err != nil {
		return nil, err
	}
	return LoadScenarioFiles(files, filter)
}

// commandError reports err in the configured format and maps it to exit
// code 2.
func commandError(formatter *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	if lerr, ok := err.(*LoadError); ok {
		code = lerr.Code
		_ = formatter.Error(code, lerr.Message, nil)
	} else {
		_ = formatter.Error(code, err.Error(), nil)
	}
	return WrapExitError(ExitCommandError, "command failed", err)
}

// runScenarioFiles runs every loaded scenario and collects a report. Files
// that failed to load count as failed scenarios. judge, when set, adds
// checks after each run.
func runScenarioFiles(ctx context.Context, opts *RootOptions, formatter *OutputFormatter, loaded []ScenarioFile, judge judgeFunc) (TestResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result := TestResult{Scenarios: []ScenarioResult{}}

	var (
		scenarios []*ir.Scenario
		files     []string
	)
	for _, f := range loaded {
		for _, s := range f.Scenarios {
			scenarios = append(scenarios, s)
			files = append(files, f.Path)
		}
	}

	runOpts, reg := opts.runOptions(formatter.GetErrWriter())
	formatter.VerboseLog("Running %d scenario(s) from %d file(s)", len(scenarios), len(loaded))
	results, err := harness.RunAll(ctx, scenarios, runOpts, opts.parallelism())
	if err != nil {
		return result, err
	}

	for _, f := range loaded {
		if f.Err == nil {
			continue
		}
		sr := ScenarioResult{
			Name:   filepath.Base(f.Path),
			File:   f.Path,
			Errors: []string{fmt.Sprintf("[%s] failed to load scenario: %v", loadErrorCode(f.Err), f.Err)},
		}
		formatter.Printf("✗ %s\n  Load error: %v\n", sr.Name, f.Err)
		result.add(sr)
	}

	for i, s := range scenarios {
		r := results[i]
		sr := ScenarioResult{
			Name:   s.Name,
			File:   files[i],
			Digest: r.Digest,
			Errors: r.Errors,
		}
		if judge != nil {
			extra, note := judge(files[i], s, r)
			sr.Errors = append(sr.Errors, extra...)
			sr.Note = note
		}
		sr.Pass = len(sr.Errors) == 0

		if sr.Pass {
			if sr.Note != "" {
				formatter.Printf("✓ %s (%s)\n", sr.Name, sr.Note)
			} else {
				formatter.Printf("✓ %s\n", sr.Name)
			}
		} else {
			formatter.Printf("✗ %s\n", sr.Name)
			for _, e := range sr.Errors {
				formatter.Printf("  %s\n", e)
			}
		}
		result.add(sr)
	}

	if reg != nil {
		if err := metrics.WriteText(formatter.GetErrWriter(), reg); err != nil {
			return result, err
		}
	}
	return result, nil
}

// outputTestResult writes the summary and maps failures to exit code 1.
func outputTestResult(formatter *OutputFormatter, result TestResult) error {
	if formatter.JSON() {
		response := CLIResponse{Status: "ok", Data: result}
		if result.Failed > 0 {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeTestFailed,
				Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
			}
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}
	} else {
		formatter.Printf("\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		// Scenario failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	formatter.Printf("✓ All scenarios passed\n")
	return nil
}
