package engine

import "github.com/roach88/acegraph/internal/ir"

// unionFind is the base equivalence relation over identifiers.
//
// Merges always point the larger representative at the smaller one, so the
// representative of a class is its oldest member and the final partition
// does not depend on merge order. Paths are not compressed: find must stay
// valid when called on stale data in the middle of a rebuild, and keeping
// the parent table untouched by reads also keeps snapshots reproducible.
type unionFind struct {
	parents map[ir.ID]ir.ID
}

func newUnionFind() *unionFind {
	return &unionFind{
		parents: map[ir.ID]ir.ID{},
	}
}

// makeSet registers id as its own representative.
func (uf *unionFind) makeSet(id ir.ID) {
	if _, ok := uf.parents[id]; ok {
		return
	}
	uf.parents[id] = id
}

func (uf *unionFind) contains(id ir.ID) bool {
	_, ok := uf.parents[id]
	return ok
}

// find returns the current representative of id, or ir.NoID if id is unknown.
func (uf *unionFind) find(id ir.ID) ir.ID {
	parent, ok := uf.parents[id]
	if !ok {
		return ir.NoID
	}
	for parent != id {
		id = parent
		parent = uf.parents[id]
	}
	return id
}

// merge joins the classes of a and b. It returns the surviving
// representative and whether two distinct classes were joined.
func (uf *unionFind) merge(a, b ir.ID) (ir.ID, bool) {
	r1 := uf.find(a)
	r2 := uf.find(b)
	if r1 == r2 {
		return r1, false
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	uf.parents[r2] = r1
	return r1, true
}

func (uf *unionFind) len() int {
	return len(uf.parents)
}
