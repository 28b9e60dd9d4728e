package testutil

// FixedSessionGenerator generates the same session token every time.
//
// This enables deterministic test execution and golden snapshot comparison:
// every graph built from the same scenario carries the same token, so logs
// and errors are byte-identical across runs.
//
// Unlike engine.FixedGenerator which returns tokens in sequence, this
// generator never runs out.
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	token string
}

// NewFixedSessionGenerator creates a new fixed session token generator.
//
// The token is typically set in the scenario file:
//
//	session: "test-session-00000000-0000-0000-0000-000000000001"
//
// If token is empty, Generate() returns "test-session-default".
func NewFixedSessionGenerator(token string) *FixedSessionGenerator {
	if token == "" {
		token = "test-session-default"
	}
	return &FixedSessionGenerator{token: token}
}

// Generate returns the fixed session token.
//
// Implements engine.SessionGenerator interface.
func (g *FixedSessionGenerator) Generate() string {
	return g.token
}
