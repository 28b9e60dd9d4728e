package engine

import (
	"errors"
	"fmt"
)

// Default rebuild limits.
const (
	// DefaultMaxPasses bounds the number of rebuild passes per rebuild.
	DefaultMaxPasses = 1000

	// DefaultMaxEquations bounds the size of the AC equation set.
	DefaultMaxEquations = 10000
)

// Budget bounds a single rebuild.
//
// AC completion is not guaranteed to terminate for arbitrary inputs, so
// every rebuild runs under a budget. A zero field means "use the default".
type Budget struct {
	// MaxPasses is the maximum number of rebuild passes. One pass is one
	// UF congruence step, plus one AC completion step if the UF step
	// changed nothing.
	MaxPasses int

	// MaxEquations caps the AC equation set. Completion stops as soon as
	// a derived equation would grow the set past this size.
	MaxEquations int
}

// DefaultBudget returns the budget used when none is configured.
func DefaultBudget() Budget {
	return Budget{MaxPasses: DefaultMaxPasses, MaxEquations: DefaultMaxEquations}
}

// withDefaults fills zero fields from the defaults.
func (b Budget) withDefaults() Budget {
	if b.MaxPasses <= 0 {
		b.MaxPasses = DefaultMaxPasses
	}
	if b.MaxEquations <= 0 {
		b.MaxEquations = DefaultMaxEquations
	}
	return b
}

// Exhaustion reasons.
const (
	ReasonPasses    = "passes"
	ReasonEquations = "equations"
)

// budgetEnforcer tracks the passes used by one rebuild.
//
// Each rebuild gets its own enforcer; the pass count is checked at the start
// of every pass and the equation count whenever completion derives a rule.
type budgetEnforcer struct {
	budget  Budget
	session string
	passes  int
}

func newBudgetEnforcer(session string, budget Budget) *budgetEnforcer {
	return &budgetEnforcer{budget: budget.withDefaults(), session: session}
}

// checkPass increments the pass counter and validates against the limit.
func (q *budgetEnforcer) checkPass(equations int) error {
	q.passes++
	if q.passes > q.budget.MaxPasses {
		return &BudgetExhaustedError{
			Session:   q.session,
			Reason:    ReasonPasses,
			Passes:    q.passes - 1,
			Limit:     q.budget.MaxPasses,
			Equations: equations,
		}
	}
	return nil
}

// checkEquations validates the equation set size against the limit.
func (q *budgetEnforcer) checkEquations(equations int) error {
	if equations > q.budget.MaxEquations {
		return &BudgetExhaustedError{
			Session:   q.session,
			Reason:    ReasonEquations,
			Passes:    q.passes,
			Limit:     q.budget.MaxEquations,
			Equations: equations,
		}
	}
	return nil
}

// BudgetExhaustedError is returned when a rebuild stops before reaching its
// fixpoint.
//
// This outcome is not fatal. Every union performed so far is a valid
// consequence of the asserted equalities, so the graph stays usable: a
// positive equality answer is still definitive, and a later rebuild with a
// larger budget resumes where this one stopped.
type BudgetExhaustedError struct {
	Session   string // Session that ran the rebuild
	Reason    string // ReasonPasses or ReasonEquations
	Passes    int    // Passes completed
	Limit     int    // The limit that was hit
	Equations int    // Equation set size when the rebuild stopped
}

// Error implements the error interface.
func (e *BudgetExhaustedError) Error() string {
	return fmt.Sprintf("session %s: rebuild did not converge: %s budget exhausted (limit %d, passes %d, equations %d)",
		e.Session, e.Reason, e.Limit, e.Passes, e.Equations)
}

// IsBudgetExhausted returns true if the error is a BudgetExhaustedError.
// Uses errors.As to handle wrapped errors.
func IsBudgetExhausted(err error) bool {
	var be *BudgetExhaustedError
	return errors.As(err, &be)
}
