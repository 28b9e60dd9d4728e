package ir

import "cmp"

// Compare is the monomial ordering over AC nodes.
//
// Larger multisets are greater; equal-size multisets compare
// lexicographically over their sorted elements. The result is 0 only for
// structurally equal nodes, so the ordering is total and strict.
//
// The ordering is compatible with Add: if a > b then a+c > b+c. Rewriting
// a sub-multiset by a smaller one therefore always produces a smaller node,
// which is what makes canonicalization terminate.
func Compare(a, b ACNode) int {
	if c := cmp.Compare(len(a.args), len(b.args)); c != 0 {
		return c
	}
	for i := range a.args {
		if c := cmp.Compare(a.args[i], b.args[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Greater reports whether a is strictly greater than b.
func Greater(a, b ACNode) bool {
	return Compare(a, b) > 0
}

// Orient returns (larger, smaller) under the monomial ordering.
func Orient(a, b ACNode) (ACNode, ACNode) {
	if Compare(a, b) < 0 {
		return b, a
	}
	return a, b
}
