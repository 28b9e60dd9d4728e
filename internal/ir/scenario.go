package ir

// Scenario is a compiled engine scenario: an ordered list of engine
// operations over named terms, followed by assertions on the final state.
//
// Scenarios are written in YAML (see harness.LoadScenario) or CUE (see
// compiler.CompileScenario); both produce this type.
type Scenario struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	// MaxPasses and MaxEquations bound every rebuild run by the scenario.
	// Zero means the engine default.
	MaxPasses    int `json:"max_passes,omitempty" yaml:"max_passes,omitempty"`
	MaxEquations int `json:"max_equations,omitempty" yaml:"max_equations,omitempty"`

	// Session is an optional fixed session token for deterministic traces.
	Session string `json:"session,omitempty" yaml:"session,omitempty"`

	Steps      []Step      `json:"steps" yaml:"steps"`
	Assertions []Assertion `json:"assertions,omitempty" yaml:"assertions,omitempty"`
}

// Step is one engine operation.
//
//   - uf:    let <name> = Symbol(args...)
//   - ac:    let <name> = args[0] + args[1] + ...
//   - union: union(args[0], args[1])
//   - equal: query is_equal(args[0], args[1]); Expect, when set, is checked
type Step struct {
	Op     string   `json:"op" yaml:"op"`
	Let    string   `json:"let,omitempty" yaml:"let,omitempty"`
	Symbol string   `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty"`
	Expect *bool    `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Step operations.
const (
	OpUF    = "uf"
	OpAC    = "ac"
	OpUnion = "union"
	OpEqual = "equal"
)

// Assertion validates the state after all steps ran.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `json:"type" yaml:"type"`

	// Args names the terms the assertion is about. Unused by converges.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Assertion types.
const (
	// AssertEqual: the two terms are provably equal after a rebuild.
	AssertEqual = "equal"
	// AssertDistinct: the two terms are not provably equal after a rebuild.
	AssertDistinct = "distinct"
	// AssertIdentical: the two names were bound to the same raw ID at
	// construction time, with no rebuild involved.
	AssertIdentical = "identical"
	// AssertConverges: a final rebuild reaches its fixpoint within budget.
	AssertConverges = "converges"
)

// Bool returns a pointer to b, for building Step.Expect literals.
func Bool(b bool) *bool {
	return &b
}
