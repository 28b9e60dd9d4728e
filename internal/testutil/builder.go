package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/acegraph/internal/engine"
	"github.com/roach88/acegraph/internal/ir"
)

// Builder builds terms in a graph and fails the test on any error.
//
//	b := testutil.NewBuilder(t, engine.New())
//	a, x := b.Const("a"), b.Const("x")
//	b.Union(b.Sum(a, a), x)
//	assert.True(t, b.Equal(b.App("f", b.Sum(a, a)), b.App("f", x)))
type Builder struct {
	t testing.TB
	g *engine.Graph
}

// NewBuilder wraps g. If g is nil a fresh graph with a fixed session token
// is created.
func NewBuilder(t testing.TB, g *engine.Graph) *Builder {
	if g == nil {
		g = engine.New(engine.WithSessionGenerator(NewFixedSessionGenerator("")))
	}
	return &Builder{t: t, g: g}
}

// Graph returns the underlying graph.
func (b *Builder) Graph() *engine.Graph {
	return b.g
}

// Const adds a nullary application.
func (b *Builder) Const(name string) ir.ID {
	b.t.Helper()
	return b.App(name)
}

// App adds symbol(args...).
func (b *Builder) App(symbol string, args ...ir.ID) ir.ID {
	b.t.Helper()
	id, err := b.g.AddUFNode(symbol, args...)
	require.NoError(b.t, err)
	return id
}

// Sum adds args[0] + args[1] + ... with the AC operator.
func (b *Builder) Sum(args ...ir.ID) ir.ID {
	b.t.Helper()
	id, err := b.g.AddACNode(args...)
	require.NoError(b.t, err)
	return id
}

// Union asserts x = y.
func (b *Builder) Union(x, y ir.ID) {
	b.t.Helper()
	require.NoError(b.t, b.g.Union(x, y))
}

// Equal rebuilds and reports whether x and y are equal.
func (b *Builder) Equal(x, y ir.ID) bool {
	b.t.Helper()
	ok, err := b.g.IsEqual(context.Background(), x, y)
	require.NoError(b.t, err)
	return ok
}
