package engine

import "github.com/roach88/acegraph/internal/ir"

// hashcons maps canonical nodes to identifiers.
//
// Entries are kept in insertion order; the UF congruence step walks them in
// that order, which keeps merge sequences (and therefore representatives
// and snapshots) reproducible across runs.
type hashcons struct {
	entries []hashconsEntry
	index   map[string]int
}

type hashconsEntry struct {
	node ir.Node
	id   ir.ID
}

func newHashcons() *hashcons {
	return &hashcons{index: map[string]int{}}
}

func (h *hashcons) lookup(n ir.Node) (ir.ID, bool) {
	i, ok := h.index[n.Key()]
	if !ok {
		return ir.NoID, false
	}
	return h.entries[i].id, true
}

// insert stores n -> id. An existing entry for n is left untouched.
func (h *hashcons) insert(n ir.Node, id ir.ID) bool {
	key := n.Key()
	if _, ok := h.index[key]; ok {
		return false
	}
	h.index[key] = len(h.entries)
	h.entries = append(h.entries, hashconsEntry{node: n, id: id})
	return true
}

func (h *hashcons) len() int {
	return len(h.entries)
}
