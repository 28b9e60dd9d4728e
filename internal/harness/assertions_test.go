package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/acegraph/internal/ir"
)

func pairScenario(assertions ...ir.Assertion) *ir.Scenario {
	return &ir.Scenario{
		Name: "pair",
		Steps: []ir.Step{
			{Op: ir.OpUF, Let: "a", Symbol: "a"},
			{Op: ir.OpUF, Let: "b", Symbol: "b"},
			{Op: ir.OpAC, Let: "ab", Args: []string{"a", "b"}},
			{Op: ir.OpAC, Let: "ba", Args: []string{"b", "a"}},
		},
		Assertions: assertions,
	}
}

func TestAssertions_Pass(t *testing.T) {
	s := pairScenario(
		ir.Assertion{Type: ir.AssertEqual, Args: []string{"ab", "ba"}},
		ir.Assertion{Type: ir.AssertDistinct, Args: []string{"a", "b"}},
		ir.Assertion{Type: ir.AssertIdentical, Args: []string{"ab", "ba"}},
		ir.Assertion{Type: ir.AssertConverges},
	)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestAssertEqual_Fails(t *testing.T) {
	result, err := Run(pairScenario(ir.Assertion{Type: ir.AssertEqual, Args: []string{"a", "b"}}))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: equal")
	assert.Contains(t, result.Errors[0], "Expected: a == b")
	assert.Contains(t, result.Errors[0], "Actual: a (class id1) != b (class id2)")
	assert.Contains(t, result.Errors[0], "[3] ab = a + b -> id3")
}

func TestAssertDistinct_Fails(t *testing.T) {
	result, err := Run(pairScenario(ir.Assertion{Type: ir.AssertDistinct, Args: []string{"ab", "ba"}}))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Actual: both in class id3")
}

func TestAssertIdentical_FailsForMergedClasses(t *testing.T) {
	s := pairScenario(ir.Assertion{Type: ir.AssertIdentical, Args: []string{"a", "b"}})
	s.Steps = append(s.Steps, ir.Step{Op: ir.OpUnion, Args: []string{"a", "b"}})

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass, "union does not make identifiers identical")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "a -> id1, b -> id2")
}

func TestAssertConverges_FailsOnSmallBudget(t *testing.T) {
	s := loadTestScenarios(t, "exhausted.yaml")[0]
	s.Assertions = []ir.Assertion{{Type: ir.AssertConverges}}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2, "the equal step and the assertion both fail")
	assert.Contains(t, result.Errors[1], "Assertion failed: converges")
	assert.Contains(t, result.Errors[1], "budget exhausted")
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	result, err := Run(pairScenario(ir.Assertion{Type: "bogus"}))
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, `assertion[0]: unknown assertion type "bogus"`, result.Errors[0])
}

func TestEvaluateAssertions_UndefinedName(t *testing.T) {
	result, err := Run(pairScenario(ir.Assertion{Type: ir.AssertEqual, Args: []string{"a", "zz"}}))
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, `equal assertion: undefined name "zz"`, result.Errors[0])
}

func TestEvaluateAssertions_NoGraph(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []ir.Assertion{{Type: ir.AssertConverges}}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "requires a graph")
}
