package engine

import (
	"slices"

	"github.com/roach88/acegraph/internal/ir"
)

// Equation is a directed AC rewrite rule: Pattern -> Replacement.
//
// Every stored equation satisfies Pattern > Replacement under the monomial
// ordering (ir.Compare), so each rewrite strictly decreases the node it is
// applied to.
type Equation struct {
	Pattern     ir.ACNode
	Replacement ir.ACNode
}

func (e Equation) key() string {
	return e.Pattern.Key() + "=>" + e.Replacement.Key()
}

func (e Equation) String() string {
	return e.Pattern.String() + " -> " + e.Replacement.String()
}

// equationSet is the ordered, duplicate-free list of AC equations.
type equationSet struct {
	list  []Equation
	index map[string]struct{}
}

func newEquationSet() *equationSet {
	return &equationSet{index: map[string]struct{}{}}
}

// add appends e unless an identical equation is already present.
func (s *equationSet) add(e Equation) bool {
	k := e.key()
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = struct{}{}
	s.list = append(s.list, e)
	return true
}

func (s *equationSet) contains(e Equation) bool {
	_, ok := s.index[e.key()]
	return ok
}

// reset replaces the contents with eqs, dropping exact duplicates while
// keeping first occurrences in order.
func (s *equationSet) reset(eqs []Equation) {
	s.list = nil
	s.index = make(map[string]struct{}, len(eqs))
	for _, e := range eqs {
		s.add(e)
	}
}

// all returns a copy of the equations, safe to range over while the set
// grows.
func (s *equationSet) all() []Equation {
	return slices.Clone(s.list)
}

func (s *equationSet) len() int {
	return len(s.list)
}
