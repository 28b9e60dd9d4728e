package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/acegraph/internal/compiler"
)

// FileValidation holds the validation result of one scenario file.
type FileValidation struct {
	File      string                     `json:"file"`
	Scenarios []string                   `json:"scenarios,omitempty"`
	Errors    []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Validate scenario files without running them",
		Long: `Parse and validate scenario files without building any graph.

Checks syntax, unknown fields, step shapes (ops, arity, symbols) and name
bindings (every argument refers to an earlier let, no name is bound
twice). Faster than check for authoring feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := findAndLoad(paths, "")
	if err != nil {
		return commandError(formatter, err)
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(loaded))}
	total := 0
	for _, f := range loaded {
		formatter.VerboseLog("Validating %s", f.Path)
		fv := FileValidation{File: f.Path}
		for _, s := range f.Scenarios {
			fv.Scenarios = append(fv.Scenarios, s.Name)
		}
		if f.Err != nil {
			fv.Errors = fileErrors(f.Err)
			total += len(fv.Errors)
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result, total)
}

// fileErrors converts a load error into validation errors: the joined
// validator errors when there are any, otherwise one load-level error.
func fileErrors(err error) []compiler.ValidationError {
	if verrs := validationErrors(err); len(verrs) > 0 {
		return verrs
	}

	var cerr *compiler.CompileError
	if errors.As(err, &cerr) {
		line := 0
		if cerr.Pos.IsValid() {
			line = cerr.Pos.Line()
		}
		return []compiler.ValidationError{{
			Field:   cerr.Field,
			Message: cerr.Message,
			Code:    ErrCodeLoadFailed,
			Line:    line,
		}}
	}

	return []compiler.ValidationError{{
		Field:   "load",
		Message: err.Error(),
		Code:    ErrCodeLoadFailed,
	}}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	count := 0
	for _, f := range result.Files {
		count += len(f.Scenarios)
	}
	formatter.Printf("✓ All scenarios valid (%d scenario(s) in %d file(s))\n", count, len(result.Files))
	return nil
}

// outputValidationErrors outputs validation errors grouped by file.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult, total int) error {
	if formatter.JSON() {
		first := firstError(result)
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    first.Code,
				Message: first.Message,
			},
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", total))
	}

	formatter.Printf("✗ Validation failed\n\n")
	for _, f := range result.Files {
		if len(f.Errors) == 0 {
			continue
		}
		formatter.Printf("%s\n", f.File)
		for _, err := range f.Errors {
			if err.Line > 0 {
				formatter.Printf("  line %d\n", err.Line)
			}
			formatter.Printf("  %s: %s: %s\n", err.Code, err.Field, err.Message)
		}
		formatter.Printf("\n")
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", total))
}

func firstError(result ValidationResult) compiler.ValidationError {
	for _, f := range result.Files {
		if len(f.Errors) > 0 {
			return f.Errors[0]
		}
	}
	return compiler.ValidationError{Code: ErrCodeGeneric, Message: "validation failed"}
}
