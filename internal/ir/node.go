package ir

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Node is one of the two term shapes the engine knows about.
//
// The set of implementations is closed (UFNode and ACNode); the unexported
// marker keeps it that way so every type switch over Node can be exhaustive.
type Node interface {
	// Key returns a string that is equal for two nodes iff they are
	// structurally equal. Used as a map key by the hashcons.
	Key() string

	String() string

	node()
}

// UFNode is one application of an uninterpreted function symbol.
//
// Structural equality is position-sensitive: equal symbol and equal argument
// sequence. A UFNode becomes stale whenever one of its arguments stops being
// a union-find representative.
type UFNode struct {
	Symbol string `json:"symbol"`
	Args   []ID   `json:"args"`
}

// NewUFNode creates a UFNode. The symbol is NFC-normalized so canonically
// equivalent spellings share one hashcons entry; args are copied.
func NewUFNode(symbol string, args ...ID) UFNode {
	return UFNode{
		Symbol: norm.NFC.String(symbol),
		Args:   slices.Clone(args),
	}
}

func (UFNode) node() {}

// Key implements Node.
func (n UFNode) Key() string {
	var b strings.Builder
	b.WriteString("u:")
	b.WriteString(strconv.Quote(n.Symbol))
	for _, a := range n.Args {
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(int64(a), 10))
	}
	return b.String()
}

// Equal reports structural equality.
func (n UFNode) Equal(other UFNode) bool {
	return n.Symbol == other.Symbol && slices.Equal(n.Args, other.Args)
}

func (n UFNode) String() string {
	if len(n.Args) == 0 {
		return n.Symbol
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Symbol + "(" + strings.Join(parts, ", ") + ")"
}

// ACNode is a term built from the AC operator, stored as a multiset of IDs
// sorted by allocation order.
//
// The argument slice is unexported so the sorted invariant cannot be broken
// from outside; every operation producing an ACNode re-sorts or merges.
type ACNode struct {
	args []ID
}

// NewACNode builds the sorted multiset of ids. The input is not modified.
func NewACNode(ids ...ID) ACNode {
	args := slices.Clone(ids)
	slices.Sort(args)
	return ACNode{args: args}
}

// Singleton wraps a single identifier.
func Singleton(id ID) ACNode {
	return ACNode{args: []ID{id}}
}

func (ACNode) node() {}

// Len returns the multiset size.
func (n ACNode) Len() int {
	return len(n.args)
}

// At returns the i-th smallest element.
func (n ACNode) At(i int) ID {
	return n.args[i]
}

// IDs returns a copy of the sorted elements.
func (n ACNode) IDs() []ID {
	return slices.Clone(n.args)
}

// IsEmpty reports whether the multiset has no elements.
func (n ACNode) IsEmpty() bool {
	return len(n.args) == 0
}

// Single returns the only element when the multiset has exactly one.
func (n ACNode) Single() (ID, bool) {
	if len(n.args) != 1 {
		return NoID, false
	}
	return n.args[0], true
}

// Add is the AC operator: multiset union of n and other.
func (n ACNode) Add(other ACNode) ACNode {
	return ACNode{args: mergeSorted(n.args, other.args)}
}

// Map applies f to every element and re-sorts the result.
func (n ACNode) Map(f func(ID) ID) ACNode {
	args := make([]ID, len(n.args))
	for i, a := range n.args {
		args[i] = f(a)
	}
	slices.Sort(args)
	return ACNode{args: args}
}

// Equal reports multiset equality.
func (n ACNode) Equal(other ACNode) bool {
	return slices.Equal(n.args, other.args)
}

// Key implements Node.
func (n ACNode) Key() string {
	var b strings.Builder
	b.WriteString("a:")
	for i, a := range n.args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(a), 10))
	}
	return b.String()
}

func (n ACNode) String() string {
	parts := make([]string, len(n.args))
	for i, a := range n.args {
		parts[i] = a.String()
	}
	return "{" + strings.Join(parts, " + ") + "}"
}

// mergeSorted merges two sorted slices into a fresh sorted slice, keeping
// duplicates.
func mergeSorted(lhs, rhs []ID) []ID {
	out := make([]ID, 0, len(lhs)+len(rhs))
	i, j := 0, 0
	for i < len(lhs) && j < len(rhs) {
		if lhs[i] <= rhs[j] {
			out = append(out, lhs[i])
			i++
		} else {
			out = append(out, rhs[j])
			j++
		}
	}
	out = append(out, lhs[i:]...)
	return append(out, rhs[j:]...)
}
