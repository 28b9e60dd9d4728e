package compiler

import (
	"fmt"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/acegraph/internal/ir"
)

var (
	scenarioFields  = []string{"description", "max_passes", "max_equations", "session", "steps", "assertions"}
	stepFields      = []string{"op", "let", "symbol", "args", "expect"}
	assertionFields = []string{"type", "args"}
)

// CompileScenarios compiles every scenario under the top-level "scenario"
// field of a CUE file, in declaration order:
//
//	scenario: squares: {
//		steps: [
//			{op: "uf", let: "a", symbol: "a"},
//			...
//		]
//	}
//
// A value without a "scenario" field compiles to no scenarios.
func CompileScenarios(root cue.Value) ([]*ir.Scenario, error) {
	if err := root.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := root.LookupPath(cue.ParsePath("scenario"))
	if !v.Exists() {
		return nil, nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []*ir.Scenario
	for iter.Next() {
		s, err := CompileScenario(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", iter.Label(), err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileScenario parses a CUE value into a Scenario.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the scenario struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`scenario: squares: { ... }`)
//	s, err := CompileScenario(v.LookupPath(cue.ParsePath("scenario.squares")))
//
// The scenario name is the struct label. CompileScenario checks shape only;
// use Validate for semantic checks.
func CompileScenario(v cue.Value) (*ir.Scenario, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := checkFields(v, "scenario", scenarioFields); err != nil {
		return nil, err
	}

	s := &ir.Scenario{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		s.Name = labels[len(labels)-1].String()
	}

	var err error
	if s.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}
	if s.Session, err = optionalString(v, "session"); err != nil {
		return nil, err
	}
	if s.MaxPasses, err = optionalInt(v, "max_passes"); err != nil {
		return nil, err
	}
	if s.MaxEquations, err = optionalInt(v, "max_equations"); err != nil {
		return nil, err
	}

	stepsVal := v.LookupPath(cue.ParsePath("steps"))
	if !stepsVal.Exists() {
		return nil, &CompileError{
			Field:   "steps",
			Message: "steps is required",
			Pos:     v.Pos(),
		}
	}
	stepIter, err := stepsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for i := 0; stepIter.Next(); i++ {
		step, err := parseStep(stepIter.Value(), fmt.Sprintf("steps[%d]", i))
		if err != nil {
			return nil, err
		}
		s.Steps = append(s.Steps, step)
	}

	assertVal := v.LookupPath(cue.ParsePath("assertions"))
	if assertVal.Exists() {
		assertIter, err := assertVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; assertIter.Next(); i++ {
			a, err := parseAssertion(assertIter.Value(), fmt.Sprintf("assertions[%d]", i))
			if err != nil {
				return nil, err
			}
			s.Assertions = append(s.Assertions, a)
		}
	}

	return s, nil
}

func parseStep(v cue.Value, field string) (ir.Step, error) {
	var step ir.Step
	if err := checkFields(v, field, stepFields); err != nil {
		return step, err
	}

	opVal := v.LookupPath(cue.ParsePath("op"))
	if !opVal.Exists() {
		return step, &CompileError{
			Field:   field + ".op",
			Message: "op is required",
			Pos:     v.Pos(),
		}
	}
	op, err := opVal.String()
	if err != nil {
		return step, formatCUEError(err)
	}
	step.Op = op

	if step.Let, err = optionalString(v, "let"); err != nil {
		return step, err
	}
	if step.Symbol, err = optionalString(v, "symbol"); err != nil {
		return step, err
	}
	if step.Args, err = optionalStrings(v, "args"); err != nil {
		return step, err
	}

	expectVal := v.LookupPath(cue.ParsePath("expect"))
	if expectVal.Exists() {
		b, err := expectVal.Bool()
		if err != nil {
			return step, formatCUEError(err)
		}
		step.Expect = ir.Bool(b)
	}

	return step, nil
}

func parseAssertion(v cue.Value, field string) (ir.Assertion, error) {
	var a ir.Assertion
	if err := checkFields(v, field, assertionFields); err != nil {
		return a, err
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return a, &CompileError{
			Field:   field + ".type",
			Message: "type is required",
			Pos:     v.Pos(),
		}
	}
	typ, err := typeVal.String()
	if err != nil {
		return a, formatCUEError(err)
	}
	a.Type = typ

	if a.Args, err = optionalStrings(v, "args"); err != nil {
		return a, err
	}
	return a, nil
}

// checkFields rejects labels outside allowed, mirroring strict YAML
// decoding.
func checkFields(v cue.Value, field string, allowed []string) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Label()
		if !slices.Contains(allowed, label) {
			return &CompileError{
				Field:   field,
				Message: fmt.Sprintf("unknown field %q", label),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

func optionalString(v cue.Value, path string) (string, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalInt(v cue.Value, path string) (int, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return 0, nil
	}
	n, err := f.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func optionalStrings(v cue.Value, path string) ([]string, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return nil, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError is a shape error in a CUE scenario, with its source position
// when known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
