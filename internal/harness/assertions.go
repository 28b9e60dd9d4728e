package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/acegraph/internal/engine"
	"github.com/roach88/acegraph/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, event.String())
	}

	return buf.String()
}

// String renders an event the way it would be written by hand.
func (e TraceEvent) String() string {
	switch e.Op {
	case ir.OpUF:
		if len(e.Args) == 0 {
			return fmt.Sprintf("%s = %s -> %s", e.Let, e.Symbol, e.ID)
		}
		return fmt.Sprintf("%s = %s(%s) -> %s", e.Let, e.Symbol, strings.Join(e.Args, ", "), e.ID)
	case ir.OpAC:
		return fmt.Sprintf("%s = %s -> %s", e.Let, strings.Join(e.Args, " + "), e.ID)
	case ir.OpEqual:
		switch {
		case e.Error != "":
			return fmt.Sprintf("equal(%s) -> error: %s", strings.Join(e.Args, ", "), e.Error)
		case e.Result != nil:
			return fmt.Sprintf("equal(%s) -> %t", strings.Join(e.Args, ", "), *e.Result)
		}
	}
	return fmt.Sprintf("%s(%s)", e.Op, strings.Join(e.Args, ", "))
}

// AssertionContext provides the final graph state for evaluating assertions.
type AssertionContext struct {
	Graph *engine.Graph
	Names map[string]ir.ID
	Ctx   context.Context
}

func (a *AssertionContext) lookup(assertion ir.Assertion) (ir.ID, ir.ID, error) {
	if len(assertion.Args) != 2 {
		return ir.NoID, ir.NoID, fmt.Errorf("%s assertion needs 2 args, got %d", assertion.Type, len(assertion.Args))
	}
	x, ok := a.Names[assertion.Args[0]]
	if !ok {
		return ir.NoID, ir.NoID, fmt.Errorf("%s assertion: undefined name %q", assertion.Type, assertion.Args[0])
	}
	y, ok := a.Names[assertion.Args[1]]
	if !ok {
		return ir.NoID, ir.NoID, fmt.Errorf("%s assertion: undefined name %q", assertion.Type, assertion.Args[1])
	}
	return x, y, nil
}

// assertEqual checks that two terms are provably equal.
func assertEqual(trace []TraceEvent, actx *AssertionContext, assertion ir.Assertion) error {
	x, y, err := actx.lookup(assertion)
	if err != nil {
		return err
	}
	equal, err := actx.Graph.IsEqual(actx.Ctx, x, y)
	if err != nil {
		return &AssertionError{
			Type:     ir.AssertEqual,
			Expected: fmt.Sprintf("%s == %s", assertion.Args[0], assertion.Args[1]),
			Actual:   err.Error(),
			Trace:    trace,
		}
	}
	if !equal {
		return &AssertionError{
			Type:     ir.AssertEqual,
			Expected: fmt.Sprintf("%s == %s", assertion.Args[0], assertion.Args[1]),
			Actual:   fmt.Sprintf("%s (class %s) != %s (class %s)", assertion.Args[0], actx.Graph.Find(x), assertion.Args[1], actx.Graph.Find(y)),
			Trace:    trace,
		}
	}
	return nil
}

// assertDistinct checks that two terms are not provably equal. A rebuild
// that does not converge proves nothing, so it fails the assertion.
func assertDistinct(trace []TraceEvent, actx *AssertionContext, assertion ir.Assertion) error {
	x, y, err := actx.lookup(assertion)
	if err != nil {
		return err
	}
	equal, err := actx.Graph.IsEqual(actx.Ctx, x, y)
	if err != nil {
		return &AssertionError{
			Type:     ir.AssertDistinct,
			Expected: fmt.Sprintf("%s != %s", assertion.Args[0], assertion.Args[1]),
			Actual:   err.Error(),
			Trace:    trace,
		}
	}
	if equal {
		return &AssertionError{
			Type:     ir.AssertDistinct,
			Expected: fmt.Sprintf("%s != %s", assertion.Args[0], assertion.Args[1]),
			Actual:   fmt.Sprintf("both in class %s", actx.Graph.Find(x)),
			Trace:    trace,
		}
	}
	return nil
}

// assertIdentical checks that two names were bound to the same identifier
// when they were built.
func assertIdentical(trace []TraceEvent, actx *AssertionContext, assertion ir.Assertion) error {
	x, y, err := actx.lookup(assertion)
	if err != nil {
		return err
	}
	if x != y {
		return &AssertionError{
			Type:     ir.AssertIdentical,
			Expected: fmt.Sprintf("%s and %s share an identifier", assertion.Args[0], assertion.Args[1]),
			Actual:   fmt.Sprintf("%s -> %s, %s -> %s", assertion.Args[0], x, assertion.Args[1], y),
			Trace:    trace,
		}
	}
	return nil
}

// assertConverges checks that a final rebuild reaches its fixpoint.
func assertConverges(trace []TraceEvent, actx *AssertionContext) error {
	if _, err := actx.Graph.Rebuild(actx.Ctx, actx.Graph.Budget()); err != nil {
		return &AssertionError{
			Type:     ir.AssertConverges,
			Expected: "rebuild reaches a fixpoint",
			Actual:   err.Error(),
			Trace:    trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the final graph state.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []ir.Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		if actx == nil || actx.Graph == nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %s requires a graph", i, assertion.Type))
			continue
		}

		switch assertion.Type {
		case ir.AssertEqual:
			err = assertEqual(result.Trace, actx, assertion)
		case ir.AssertDistinct:
			err = assertDistinct(result.Trace, actx, assertion)
		case ir.AssertIdentical:
			err = assertIdentical(result.Trace, actx, assertion)
		case ir.AssertConverges:
			err = assertConverges(result.Trace, actx)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
