package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudget_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultBudget(), Budget{}.withDefaults())
	assert.Equal(t, Budget{MaxPasses: 5, MaxEquations: DefaultMaxEquations}, Budget{MaxPasses: 5}.withDefaults())
	assert.Equal(t, Budget{MaxPasses: DefaultMaxPasses, MaxEquations: 7}, Budget{MaxPasses: -1, MaxEquations: 7}.withDefaults())
}

func TestBudgetEnforcer_WithinLimit(t *testing.T) {
	q := newBudgetEnforcer("session-1", Budget{MaxPasses: 10})

	for i := 0; i < 10; i++ {
		assert.NoError(t, q.checkPass(0), "pass %d should be allowed", i+1)
	}
	assert.Equal(t, 10, q.passes)
}

func TestBudgetEnforcer_ExceedsPasses(t *testing.T) {
	q := newBudgetEnforcer("session-1", Budget{MaxPasses: 5})

	for i := 0; i < 5; i++ {
		require.NoError(t, q.checkPass(3))
	}

	err := q.checkPass(3)
	require.Error(t, err)

	var be *BudgetExhaustedError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "session-1", be.Session)
	assert.Equal(t, ReasonPasses, be.Reason)
	assert.Equal(t, 5, be.Passes)
	assert.Equal(t, 5, be.Limit)
	assert.Equal(t, 3, be.Equations)
}

func TestBudgetEnforcer_ExceedsEquations(t *testing.T) {
	q := newBudgetEnforcer("session-1", Budget{MaxEquations: 4})
	require.NoError(t, q.checkPass(0))

	assert.NoError(t, q.checkEquations(4))

	err := q.checkEquations(5)
	var be *BudgetExhaustedError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ReasonEquations, be.Reason)
	assert.Equal(t, 4, be.Limit)
	assert.Equal(t, 5, be.Equations)
	assert.Equal(t, 1, be.Passes)
}

func TestBudgetExhaustedError_Error(t *testing.T) {
	err := &BudgetExhaustedError{
		Session:   "session-abc",
		Reason:    ReasonPasses,
		Passes:    1000,
		Limit:     1000,
		Equations: 42,
	}

	msg := err.Error()
	assert.Contains(t, msg, "session-abc")
	assert.Contains(t, msg, "passes budget exhausted")
	assert.Contains(t, msg, "1000")
	assert.Contains(t, msg, "42")
}

func TestIsBudgetExhausted(t *testing.T) {
	be := &BudgetExhaustedError{Session: "session-1", Reason: ReasonPasses, Passes: 10, Limit: 10}

	assert.True(t, IsBudgetExhausted(be))
	assert.True(t, IsBudgetExhausted(fmt.Errorf("wrapped: %w", be)))
	assert.False(t, IsBudgetExhausted(nil))
	assert.False(t, IsBudgetExhausted(assert.AnError))
}

func TestGraph_WithMaxPasses(t *testing.T) {
	g1 := New()
	assert.Equal(t, DefaultBudget(), g1.Budget())

	g2 := New(WithMaxPasses(50), WithMaxEquations(60))
	assert.Equal(t, Budget{MaxPasses: 50, MaxEquations: 60}, g2.Budget())

	g3 := New(WithBudget(Budget{MaxPasses: 7}))
	assert.Equal(t, Budget{MaxPasses: 7, MaxEquations: DefaultMaxEquations}, g3.Budget())
}

// TestRebuild_PassBudgetExhausted checks that a rebuild with too few passes
// stops with a typed error and that a later rebuild resumes.
func TestRebuild_PassBudgetExhausted(t *testing.T) {
	g := New(WithSessionGenerator(NewFixedGenerator("session-1")))
	x, y := buildSquares(t, g)

	_, err := g.Rebuild(context.Background(), Budget{MaxPasses: 1})
	require.Error(t, err)

	var be *BudgetExhaustedError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ReasonPasses, be.Reason)
	assert.Equal(t, 1, be.Passes)
	assert.Equal(t, 1, be.Limit)
	assert.Equal(t, "session-1", be.Session)

	// Still dirty: the next rebuild does real work and converges.
	stats, err := g.Rebuild(context.Background(), Budget{})
	require.NoError(t, err)
	assert.False(t, stats.Clean)
	assert.Equal(t, g.Find(x), g.Find(y))
}

func TestRebuild_EquationBudgetExhausted(t *testing.T) {
	g := New(WithSessionGenerator(NewFixedGenerator("session-1")))
	x, y := buildSquares(t, g)

	_, err := g.Rebuild(context.Background(), Budget{MaxEquations: 8})
	var be *BudgetExhaustedError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ReasonEquations, be.Reason)
	assert.Equal(t, 8, be.Limit)
	assert.LessOrEqual(t, len(g.Equations()), 8)
	assert.NotEqual(t, g.Find(x), g.Find(y))

	ok, err := g.IsEqual(context.Background(), x, y)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestIsEqualWithin_PositiveAnswerSurvivesExhaustion checks that a merge
// found before the budget ran out is still reported.
func TestIsEqualWithin_PositiveAnswerSurvivesExhaustion(t *testing.T) {
	g := New()
	a := mustUF(t, g, "a")
	b := mustUF(t, g, "b")
	fa := mustUF(t, g, "f", a)
	fb := mustUF(t, g, "f", b)
	require.NoError(t, g.Union(a, b))

	// Pass 1 merges f(a) and f(b); pass 2 is over budget.
	ok, err := g.IsEqualWithin(context.Background(), fa, fb, Budget{MaxPasses: 1})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsEqualWithin_NegativeAnswerNeedsConvergence(t *testing.T) {
	g := New()
	a := mustUF(t, g, "a")
	b := mustUF(t, g, "b")
	c := mustUF(t, g, "c")
	mustUF(t, g, "f", a)
	mustUF(t, g, "f", b)
	require.NoError(t, g.Union(a, b))

	ok, err := g.IsEqualWithin(context.Background(), a, c, Budget{MaxPasses: 1})
	require.Error(t, err)
	assert.True(t, IsBudgetExhausted(err))
	assert.False(t, ok)

	// With room to finish the answer is a definite no.
	ok, err = g.IsEqual(context.Background(), a, c)
	require.NoError(t, err)
	assert.False(t, ok)
}
