package engine

import "github.com/roach88/acegraph/internal/ir"

// Clock allocates identifiers for one graph.
//
// Identifiers are stamped from a strictly increasing counter, so allocation
// order is the identifier order. This is what makes union direction and
// monomial tie-breaking deterministic: the same sequence of operations
// always produces the same identifiers.
//
// Clock is owned by a single Graph and is not safe for concurrent use.
type Clock struct {
	seq int64
}

// NewClock creates a clock whose first identifier is 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns a fresh identifier.
func (c *Clock) Next() ir.ID {
	c.seq++
	return ir.ID(c.seq)
}

// Current returns the most recently allocated identifier, or ir.NoID.
func (c *Clock) Current() ir.ID {
	return ir.ID(c.seq)
}
