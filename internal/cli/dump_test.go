package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/acegraph/internal/ir"
)

func TestDump_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "commutativity.yaml", commutativityYAML)

	out, _, err := execute(t, "dump", path)
	require.NoError(t, err)

	assert.Contains(t, out, "# scenario commutativity (session test-session-default)\n")
	assert.Contains(t, out, "hashcons: a -> id1\n")
	assert.Contains(t, out, "hashcons: b -> id2\n")
	assert.Contains(t, out, "unionfind: id3 -> id3\n")
	assert.Contains(t, out, "ac_eqs: {id1 + id2} -> {id3}\n")
	assert.Regexp(t, `# digest [0-9a-f]{64}\n$`, out)
}

func TestDump_NamedScenario(t *testing.T) {
	path := writeFile(t, t.TempDir(), "basics.cue", basicsCUE)

	out, _, err := execute(t, "dump", path, "--scenario", "left")
	require.NoError(t, err)
	assert.Contains(t, out, "hashcons: f(id1) -> id2\n")

	_, _, err = execute(t, "dump", path, "--scenario", "middle")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDump_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "commutativity.yaml", commutativityYAML)

	out, _, err := execute(t, "dump", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status  string     `json:"status"`
		Data    DumpResult `json:"data"`
		Session string     `json:"session"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test-session-default", resp.Session)
	assert.Equal(t, "commutativity", resp.Data.Scenario)
	assert.Equal(t, ir.SnapshotVersion, resp.Data.Version)
	assert.True(t, resp.Data.Pass)
	assert.Len(t, resp.Data.Snapshot.Classes, 3)
	assert.Len(t, resp.Data.Snapshot.Equations, 1)
}

func TestTrace_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "commutativity.yaml", commutativityYAML)

	out, _, err := execute(t, "trace", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Scenario: commutativity\n")
	assert.Contains(t, out, "  [1] a = a -> id1\n")
	assert.Contains(t, out, "  [3] ab = a + b -> id3\n")
	assert.Contains(t, out, "  [4] ba = b + a -> id3\n")
	assert.Contains(t, out, "  [5] equal(ab, ba) -> true\n")
	assert.Regexp(t, `Digest: [0-9a-f]{64}\n$`, out)
}

func TestTrace_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "commutativity.yaml", commutativityYAML)

	out, _, err := execute(t, "trace", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Trace, 5)
	assert.Equal(t, int64(4), resp.Data.Trace[3].Seq)
	assert.Equal(t, "ba", resp.Data.Trace[3].Let)
	assert.True(t, resp.Data.Pass)
}

func TestReplay_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "squares.yaml", squaresYAML)
	writeFile(t, dir, "basics.cue", basicsCUE)

	out, _, err := execute(t, "replay", dir, "--parallel", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ squares")
	assert.Contains(t, out, "✓ left")
	assert.Contains(t, out, "Replay Summary: 3 scenario(s), deterministic: true")
}

func TestReplay_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "squares.yaml", squaresYAML)

	out, _, err := execute(t, "replay", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.AllDeterministic)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Len(t, resp.Data.Scenarios[0].TraceDigest, 64)
	assert.Len(t, resp.Data.Scenarios[0].StateDigest, 64)
}

func TestReplay_InvalidScenarioIsCommandError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "invalid.yaml", invalidYAML)

	_, _, err := execute(t, "replay", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
