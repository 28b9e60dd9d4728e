package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/acegraph/internal/ir"
)

func TestEquationSet_AddDeduplicates(t *testing.T) {
	s := newEquationSet()
	e := Equation{Pattern: ir.NewACNode(1, 2), Replacement: ir.Singleton(3)}

	assert.True(t, s.add(e))
	assert.False(t, s.add(Equation{Pattern: ir.NewACNode(2, 1), Replacement: ir.Singleton(3)}))
	assert.True(t, s.contains(e))
	assert.Equal(t, 1, s.len())
}

func TestEquationSet_ResetKeepsFirstOccurrence(t *testing.T) {
	s := newEquationSet()
	e1 := Equation{Pattern: ir.NewACNode(1, 2), Replacement: ir.Singleton(3)}
	e2 := Equation{Pattern: ir.NewACNode(1, 1), Replacement: ir.Singleton(4)}
	s.add(e1)

	s.reset([]Equation{e2, e1, e2})

	require.Equal(t, 2, s.len())
	assert.Equal(t, []Equation{e2, e1}, s.all())
}

func TestEquationSet_AllIsACopy(t *testing.T) {
	s := newEquationSet()
	s.add(Equation{Pattern: ir.NewACNode(1, 2), Replacement: ir.Singleton(3)})

	all := s.all()
	s.add(Equation{Pattern: ir.NewACNode(1, 1), Replacement: ir.Singleton(4)})

	assert.Len(t, all, 1)
	assert.Equal(t, 2, s.len())
}

func TestEquation_String(t *testing.T) {
	e := Equation{Pattern: ir.NewACNode(2, 1), Replacement: ir.Singleton(3)}

	assert.Equal(t, "{id1 + id2} -> {id3}", e.String())
}

func TestHashcons_InsertAndLookup(t *testing.T) {
	h := newHashcons()
	fa := ir.NewUFNode("f", 1)

	assert.True(t, h.insert(fa, 2))
	assert.False(t, h.insert(ir.NewUFNode("f", 1), 9))

	id, ok := h.lookup(ir.NewUFNode("f", 1))
	assert.True(t, ok)
	assert.Equal(t, ir.ID(2), id)

	_, ok = h.lookup(ir.NewUFNode("f", 2))
	assert.False(t, ok)
	assert.Equal(t, 1, h.len())
}
