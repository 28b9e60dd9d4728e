package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/acegraph/internal/ir"
)

func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "squares.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "squares", s.Name)
	assert.Equal(t, "test-session-squares", s.Session)
	assert.Len(t, s.Steps, 12)
	assert.Equal(t, ir.Step{Op: ir.OpAC, Let: "bb", Args: []string{"b", "b"}}, s.Steps[2])
	assert.Equal(t, ir.Bool(true), s.Steps[11].Expect)
	require.Len(t, s.Assertions, 4)
	assert.Equal(t, ir.AssertConverges, s.Assertions[3].Type)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenario(t, "typo.yaml", `
name: typo
steps:
  - {op: uf, let: a, symbol: a}
assertion:
  - {type: converges}
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenario_InvalidScenario(t *testing.T) {
	path := writeScenario(t, "invalid.yaml", `
name: invalid
steps:
  - {op: uf, let: a, symbol: a}
  - {op: ac, let: s, args: [a, b]}
  - {op: merge, args: [a, s]}
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
	assert.Contains(t, err.Error(), `undefined name "b"`)
	assert.Contains(t, err.Error(), `invalid op "merge"`)
}

func TestLoadScenarios_CUE(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios", "basics.cue"))
	require.NoError(t, err)

	require.Len(t, scenarios, 2)
	assert.Equal(t, "congruence", scenarios[0].Name)
	assert.Equal(t, "commutativity", scenarios[1].Name)
	assert.Equal(t, ir.Step{Op: ir.OpUF, Let: "fab", Symbol: "f", Args: []string{"ab"}}, scenarios[0].Steps[4])
}

func TestLoadScenarios_CUEWithoutScenarios(t *testing.T) {
	path := writeScenario(t, "empty.cue", `other: 1`)

	_, err := LoadScenarios(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenarios found")
}

func TestLoadScenarios_CUEInvalid(t *testing.T) {
	path := writeScenario(t, "bad.cue", `
scenario: bad: steps: [{op: "union", args: ["a"]}]
`)

	_, err := LoadScenarios(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario bad")
}

func TestLoadScenarios_UnsupportedExtension(t *testing.T) {
	_, err := LoadScenarios("scenario.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scenario file")
}

func TestIsScenarioFile(t *testing.T) {
	assert.True(t, IsScenarioFile("a.yaml"))
	assert.True(t, IsScenarioFile("a.yml"))
	assert.True(t, IsScenarioFile("dir/a.cue"))
	assert.False(t, IsScenarioFile("a.golden"))
	assert.False(t, IsScenarioFile("a.json"))
}
