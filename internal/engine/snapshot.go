package engine

import (
	"fmt"
	"io"
	"slices"

	"github.com/roach88/acegraph/internal/ir"
)

// Snapshot is a diagnostic dump of a graph's tables.
//
// It is not part of the engine contract. It exists so tests and the CLI can
// inspect and compare graph state; Digest gives a stable fingerprint that is
// equal for two sessions that performed the same operations.
type Snapshot struct {
	Session   string          `json:"session"`
	Classes   []ClassEntry    `json:"classes"`
	Hashcons  []HashconsEntry `json:"hashcons"`
	Equations []EquationEntry `json:"equations"`
}

// ClassEntry maps one identifier to its current representative.
type ClassEntry struct {
	ID   ir.ID `json:"id"`
	Root ir.ID `json:"root"`
}

// HashconsEntry is one stored node in its stored (possibly stale) form.
type HashconsEntry struct {
	Node string `json:"node"`
	ID   ir.ID  `json:"id"`
}

// EquationEntry is one AC equation as sorted identifier lists.
type EquationEntry struct {
	Pattern     []ir.ID `json:"pattern"`
	Replacement []ir.ID `json:"replacement"`
}

// Snapshot captures the current tables without rebuilding.
//
// Classes are listed in identifier order, hashcons entries and equations in
// table order. Representatives are reported rather than raw parent links so
// the dump describes the partition, not how it was built.
func (g *Graph) Snapshot() Snapshot {
	ids := make([]ir.ID, 0, g.uf.len())
	for id := range g.uf.parents {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	s := Snapshot{
		Session:   g.session,
		Classes:   make([]ClassEntry, len(ids)),
		Hashcons:  make([]HashconsEntry, 0, g.table.len()),
		Equations: make([]EquationEntry, 0, g.eqs.len()),
	}
	for i, id := range ids {
		s.Classes[i] = ClassEntry{ID: id, Root: g.uf.find(id)}
	}
	for _, e := range g.table.entries {
		s.Hashcons = append(s.Hashcons, HashconsEntry{Node: e.node.String(), ID: e.id})
	}
	for _, e := range g.eqs.list {
		s.Equations = append(s.Equations, EquationEntry{
			Pattern:     e.Pattern.IDs(),
			Replacement: e.Replacement.IDs(),
		})
	}
	return s
}

// CanonicalMap returns the snapshot in the map form accepted by
// ir.MarshalCanonical. The session token is left out so that two sessions
// with the same history map to the same value.
func (s Snapshot) CanonicalMap() map[string]any {
	classes := make([]any, len(s.Classes))
	for i, c := range s.Classes {
		classes[i] = map[string]any{"id": c.ID, "root": c.Root}
	}
	hashcons := make([]any, len(s.Hashcons))
	for i, h := range s.Hashcons {
		hashcons[i] = map[string]any{"node": h.Node, "id": h.ID}
	}
	equations := make([]any, len(s.Equations))
	for i, e := range s.Equations {
		equations[i] = map[string]any{"pattern": e.Pattern, "replacement": e.Replacement}
	}
	return map[string]any{
		"classes":   classes,
		"hashcons":  hashcons,
		"equations": equations,
	}
}

// Digest returns the content digest of the snapshot.
func (s Snapshot) Digest() (string, error) {
	return ir.SnapshotDigest(s.CanonicalMap())
}

// WriteText writes a line-oriented dump:
//
//	hashcons: f(id1, id2) -> id3
//	unionfind: id3 -> id1
//	ac_eqs: {id1 + id2} -> {id4}
func (s Snapshot) WriteText(w io.Writer) error {
	for _, h := range s.Hashcons {
		if _, err := fmt.Fprintf(w, "hashcons: %s -> %s\n", h.Node, h.ID); err != nil {
			return err
		}
	}
	for _, c := range s.Classes {
		if _, err := fmt.Fprintf(w, "unionfind: %s -> %s\n", c.ID, c.Root); err != nil {
			return err
		}
	}
	for _, e := range s.Equations {
		lhs := ir.NewACNode(e.Pattern...)
		rhs := ir.NewACNode(e.Replacement...)
		if _, err := fmt.Fprintf(w, "ac_eqs: %s -> %s\n", lhs, rhs); err != nil {
			return err
		}
	}
	return nil
}
