package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/acegraph/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Scenario errors (E101-E109)
	ErrScenarioNameEmpty = "E101" // name is required
	ErrScenarioNoSteps   = "E102" // at least one step required
	ErrInvalidBudget     = "E103" // negative max_passes or max_equations

	// Step errors (E110-E119)
	ErrInvalidOp        = "E110" // op is not uf, ac, union or equal
	ErrMissingLet       = "E111" // uf/ac step without a name to bind
	ErrDuplicateName    = "E112" // name bound twice
	ErrUndefinedName    = "E113" // argument refers to an unbound name
	ErrMissingSymbol    = "E114" // uf step without a symbol
	ErrInvalidArity     = "E115" // wrong number of arguments for the op
	ErrUnexpectedField  = "E116" // field not allowed for the op
	ErrInvalidAssertion = "E117" // unknown assertion type or wrong args
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled scenario.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch s := v.(type) {
	case *ir.Scenario:
		return validateScenario(s)
	case ir.Scenario:
		return validateScenario(&s)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateScenario(s *ir.Scenario) []ValidationError {
	var errs []ValidationError

	// E101: name is required
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrScenarioNameEmpty,
		})
	}

	// E102: at least one step required
	if len(s.Steps) == 0 {
		errs = append(errs, ValidationError{
			Field:   "steps",
			Message: "at least one step is required",
			Code:    ErrScenarioNoSteps,
		})
	}

	// E103: budgets are non-negative (zero means default)
	if s.MaxPasses < 0 {
		errs = append(errs, ValidationError{
			Field:   "max_passes",
			Message: fmt.Sprintf("max_passes must be >= 0, got %d", s.MaxPasses),
			Code:    ErrInvalidBudget,
		})
	}
	if s.MaxEquations < 0 {
		errs = append(errs, ValidationError{
			Field:   "max_equations",
			Message: fmt.Sprintf("max_equations must be >= 0, got %d", s.MaxEquations),
			Code:    ErrInvalidBudget,
		})
	}

	bound := make(map[string]bool)
	for i, step := range s.Steps {
		errs = append(errs, validateStep(step, fmt.Sprintf("steps[%d]", i), bound)...)
	}

	for i, a := range s.Assertions {
		errs = append(errs, validateAssertion(a, fmt.Sprintf("assertions[%d]", i), bound)...)
	}

	return errs
}

// validateStep checks one step against the names bound by earlier steps and
// then binds its own name.
func validateStep(step ir.Step, field string, bound map[string]bool) []ValidationError {
	var errs []ValidationError

	switch step.Op {
	case ir.OpUF, ir.OpAC:
		// E111: constructors bind a name
		if strings.TrimSpace(step.Let) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".let",
				Message: fmt.Sprintf("%s step must bind a name with let", step.Op),
				Code:    ErrMissingLet,
			})
		}
	case ir.OpUnion, ir.OpEqual:
		// E115: binary operations
		if len(step.Args) != 2 {
			errs = append(errs, ValidationError{
				Field:   field + ".args",
				Message: fmt.Sprintf("%s step takes exactly 2 args, got %d", step.Op, len(step.Args)),
				Code:    ErrInvalidArity,
			})
		}
		// E116: nothing to bind
		if step.Let != "" {
			errs = append(errs, ValidationError{
				Field:   field + ".let",
				Message: fmt.Sprintf("%s step cannot bind a name", step.Op),
				Code:    ErrUnexpectedField,
			})
		}
	default:
		// E110: unknown op
		return append(errs, ValidationError{
			Field:   field + ".op",
			Message: fmt.Sprintf("invalid op %q, must be %q, %q, %q or %q", step.Op, ir.OpUF, ir.OpAC, ir.OpUnion, ir.OpEqual),
			Code:    ErrInvalidOp,
		})
	}

	// E114: uf needs a symbol; only uf has one
	if step.Op == ir.OpUF && strings.TrimSpace(step.Symbol) == "" {
		errs = append(errs, ValidationError{
			Field:   field + ".symbol",
			Message: "uf step requires a symbol",
			Code:    ErrMissingSymbol,
		})
	}
	if step.Op != ir.OpUF && step.Symbol != "" {
		errs = append(errs, ValidationError{
			Field:   field + ".symbol",
			Message: fmt.Sprintf("%s step cannot have a symbol", step.Op),
			Code:    ErrUnexpectedField,
		})
	}

	// E115: the AC operator needs two or more operands
	if step.Op == ir.OpAC && len(step.Args) < 2 {
		errs = append(errs, ValidationError{
			Field:   field + ".args",
			Message: fmt.Sprintf("ac step takes at least 2 args, got %d", len(step.Args)),
			Code:    ErrInvalidArity,
		})
	}

	// E116: expect is only meaningful on queries
	if step.Expect != nil && step.Op != ir.OpEqual {
		errs = append(errs, ValidationError{
			Field:   field + ".expect",
			Message: fmt.Sprintf("%s step cannot have expect", step.Op),
			Code:    ErrUnexpectedField,
		})
	}

	// E113: arguments refer to earlier bindings
	for j, arg := range step.Args {
		if !bound[arg] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.args[%d]", field, j),
				Message: fmt.Sprintf("undefined name %q", arg),
				Code:    ErrUndefinedName,
			})
		}
	}

	// E112: each name is bound once
	if step.Let != "" && (step.Op == ir.OpUF || step.Op == ir.OpAC) {
		if bound[step.Let] {
			errs = append(errs, ValidationError{
				Field:   field + ".let",
				Message: fmt.Sprintf("duplicate name %q", step.Let),
				Code:    ErrDuplicateName,
			})
		}
		bound[step.Let] = true
	}

	return errs
}

func validateAssertion(a ir.Assertion, field string, bound map[string]bool) []ValidationError {
	var errs []ValidationError

	var want int
	switch a.Type {
	case ir.AssertEqual, ir.AssertDistinct, ir.AssertIdentical:
		want = 2
	case ir.AssertConverges:
		want = 0
	default:
		return []ValidationError{{
			Field:   field + ".type",
			Message: fmt.Sprintf("invalid assertion type %q", a.Type),
			Code:    ErrInvalidAssertion,
		}}
	}

	if len(a.Args) != want {
		errs = append(errs, ValidationError{
			Field:   field + ".args",
			Message: fmt.Sprintf("%s assertion takes %d args, got %d", a.Type, want, len(a.Args)),
			Code:    ErrInvalidAssertion,
		})
	}
	for j, arg := range a.Args {
		if !bound[arg] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.args[%d]", field, j),
				Message: fmt.Sprintf("undefined name %q", arg),
				Code:    ErrUndefinedName,
			})
		}
	}
	return errs
}
