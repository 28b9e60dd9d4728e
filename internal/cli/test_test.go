package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := executeCommand(t, NewTestCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, _, err := executeCommand(t, NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommand_UpdateThenMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "commutativity.yaml", commutativityYAML)
	golden := filepath.Join(dir, "golden", "commutativity.golden")

	out, _, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ commutativity (golden updated)")

	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"commutativity"`)

	out, _, err = execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ commutativity (golden match)")
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "commutativity.yaml", commutativityYAML)
	writeFile(t, dir, "golden/commutativity.golden", `{"scenario_name":"commutativity","trace":[]}`)

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ commutativity")
	assert.Contains(t, out, "run with --update to regenerate")
}

func TestTestCommand_NoGoldenUsesAssertions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "commutativity.yaml", commutativityYAML)

	out, _, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ commutativity\n")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "commutativity.yaml", commutativityYAML)
	writeFile(t, dir, "failing.yaml", failingYAML)
	writeFile(t, dir, "basics.cue", basicsCUE)

	out, _, err := execute(t, "test", dir, "--filter", "l*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ left")
	assert.NotContains(t, out, "right")
	assert.NotContains(t, out, "failing")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_InvalidFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "commutativity.yaml", commutativityYAML)

	_, _, err := execute(t, "test", dir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
