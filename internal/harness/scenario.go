package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/acegraph/internal/compiler"
	"github.com/roach88/acegraph/internal/ir"
)

// IsScenarioFile reports whether path has a scenario file extension.
func IsScenarioFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".cue":
		return true
	default:
		return false
	}
}

// LoadScenarios reads every scenario in a file. YAML files hold exactly one
// scenario; CUE files hold any number under the top-level "scenario" field.
// Every scenario is validated before it is returned.
func LoadScenarios(path string) ([]*ir.Scenario, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		return []*ir.Scenario{s}, nil
	case ".cue":
		return loadCUEScenarios(path)
	default:
		return nil, fmt.Errorf("unsupported scenario file: %s", path)
	}
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*ir.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario ir.Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func loadCUEScenarios(path string) ([]*ir.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	scenarios, err := compiler.CompileScenarios(v)
	if err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", path)
	}

	for _, s := range scenarios {
		if err := validateScenario(s); err != nil {
			return nil, fmt.Errorf("invalid scenario %s: %w", s.Name, err)
		}
	}
	return scenarios, nil
}

// validateScenario joins every validation error into one.
func validateScenario(s *ir.Scenario) error {
	verrs := compiler.Validate(s)
	if len(verrs) == 0 {
		return nil
	}
	errs := make([]error, len(verrs))
	for i, e := range verrs {
		errs[i] = e
	}
	return errors.Join(errs...)
}
