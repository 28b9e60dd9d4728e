package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/roach88/acegraph/internal/compiler"
	"github.com/roach88/acegraph/internal/harness"
	"github.com/roach88/acegraph/internal/ir"
)

// ScenarioFile is one scenario file and what loading it produced.
type ScenarioFile struct {
	Path      string
	Scenarios []*ir.Scenario
	Err       error // load or validation error; Scenarios is empty when set
}

// LoadError represents an error that occurred while locating or loading
// scenario files.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No scenario files found
	ErrCodeLoadFailed  = "E004" // Scenario file could not be read or parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeInvalid     = "E006" // Scenario failed validation
	ErrCodeWriteFailed = "E007" // File write error

	ErrCodeTestFailed = "E_TEST_FAILED" // One or more scenarios failed
)

// FindScenarioFiles expands paths into scenario files. Files are taken as
// given; directories are walked for *.yaml, *.yml and *.cue files, skipping
// golden directories.
func FindScenarioFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "golden" {
					return filepath.SkipDir
				}
				return nil
			}
			if harness.IsScenarioFile(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning %s: %v", path, err)}
		}
	}

	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no scenario files found in %v", paths)}
	}
	return files, nil
}

// LoadScenarioFiles loads every file, keeping per-file errors so that one
// broken file does not hide the others. Scenarios whose name does not match
// the filter glob are dropped.
func LoadScenarioFiles(files []string, filter string) ([]ScenarioFile, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("invalid filter pattern: %v", err)}
		}
	}

	out := make([]ScenarioFile, 0, len(files))
	for _, path := range files {
		scenarios, err := harness.LoadScenarios(path)
		if err != nil {
			out = append(out, ScenarioFile{Path: path, Err: err})
			continue
		}
		if filter != "" {
			kept := scenarios[:0]
			for _, s := range scenarios {
				if matched, _ := filepath.Match(filter, s.Name); matched {
					kept = append(kept, s)
				}
			}
			if len(kept) == 0 {
				continue
			}
			scenarios = kept
		}
		out = append(out, ScenarioFile{Path: path, Scenarios: scenarios})
	}
	return out, nil
}

// loadErrorCode classifies a per-file load error.
func loadErrorCode(err error) string {
	var verr compiler.ValidationError
	if errors.As(err, &verr) {
		return ErrCodeInvalid
	}
	return ErrCodeLoadFailed
}

// validationErrors extracts the validation errors joined into err.
func validationErrors(err error) []compiler.ValidationError {
	var out []compiler.ValidationError
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if verr, ok := err.(compiler.ValidationError); ok {
			out = append(out, verr)
			return
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				walk(e)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
