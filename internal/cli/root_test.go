package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/acegraph/internal/ir"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "acegraph", cmd.Use)
	assert.Contains(t, cmd.Long, "congruence closure")
}

func TestRootCommand_Version(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "acegraph version "+ir.EngineVersion)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"check", "test", "validate", "dump", "trace", "replay"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"max-passes", "max-equations", "parallel"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "0", flag.DefValue, name)
	}

	metricsFlag := cmd.PersistentFlags().Lookup("metrics")
	require.NotNil(t, metricsFlag)
	assert.Equal(t, "false", metricsFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	assert.NotNil(t, testCmd.Flags().Lookup("update"))
	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestInvalidFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", commutativityYAML)

	_, _, err := execute(t, "check", path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestNegativeLimitsRejected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", commutativityYAML)

	_, _, err := execute(t, "check", path, "--max-passes", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be >= 0")
}

func TestRootOptions_Parallelism(t *testing.T) {
	assert.Equal(t, 3, (&RootOptions{Parallel: 3}).parallelism())
	assert.Positive(t, (&RootOptions{}).parallelism())
}

func TestRootOptions_Budget(t *testing.T) {
	opts := &RootOptions{MaxPasses: 5, MaxEquations: 50}
	b := opts.budget()
	assert.Equal(t, 5, b.MaxPasses)
	assert.Equal(t, 50, b.MaxEquations)
}
