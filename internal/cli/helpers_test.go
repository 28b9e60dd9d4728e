package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const commutativityYAML = `name: commutativity
steps:
  - {op: uf, let: a, symbol: a}
  - {op: uf, let: b, symbol: b}
  - {op: ac, let: ab, args: [a, b]}
  - {op: ac, let: ba, args: [b, a]}
  - {op: equal, args: [ab, ba], expect: true}
assertions:
  - {type: identical, args: [ab, ba]}
`

const squaresYAML = `name: squares
steps:
  - {op: uf, let: a, symbol: a}
  - {op: uf, let: b, symbol: b}
  - {op: ac, let: bb, args: [b, b]}
  - {op: ac, let: aa, args: [a, a]}
  - {op: union, args: [bb, aa]}
  - {op: ac, let: ab, args: [a, b]}
  - {op: ac, let: aba, args: [ab, a]}
  - {op: ac, let: x, args: [aba, b]}
  - {op: ac, let: aa2, args: [a, a]}
  - {op: ac, let: aaa, args: [aa2, a]}
  - {op: ac, let: y, args: [aaa, a]}
  - {op: equal, args: [x, y], expect: true}
`

const failingYAML = `name: failing
steps:
  - {op: uf, let: a, symbol: a}
  - {op: uf, let: b, symbol: b}
  - {op: equal, args: [a, b], expect: true}
`

const invalidYAML = `name: invalid
steps:
  - {op: uf, let: a, symbol: a}
  - {op: union, args: [a, nope]}
`

const basicsCUE = `scenario: left: steps: [
	{op: "uf", let: "a", symbol: "a"},
	{op: "uf", let: "fa", symbol: "f", args: ["a"]},
]
scenario: right: steps: [
	{op: "uf", let: "b", symbol: "b"},
]
`

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeCommand(t, NewRootCommand(), args...)
}

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
