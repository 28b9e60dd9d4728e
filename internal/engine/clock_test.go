package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/acegraph/internal/ir"
)

func TestClock_NewClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, ir.NoID, c.Current(), "new clock has allocated nothing")
}

func TestClock_Next_Incrementing(t *testing.T) {
	c := NewClock()

	assert.Equal(t, ir.ID(1), c.Next())
	assert.Equal(t, ir.ID(2), c.Next())
	assert.Equal(t, ir.ID(3), c.Next())

	assert.Equal(t, ir.ID(3), c.Current())
}

func TestClock_Next_Unique(t *testing.T) {
	c := NewClock()
	const iterations = 1000

	seen := make(map[ir.ID]bool)
	prev := ir.NoID
	for i := 0; i < iterations; i++ {
		id := c.Next()
		assert.False(t, seen[id], "id %s allocated twice", id)
		assert.Greater(t, id, prev, "ids must increase")
		seen[id] = true
		prev = id
	}

	assert.Len(t, seen, iterations)
}
