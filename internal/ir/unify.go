package ir

// Unify computes the minimal residuals r1, r2 such that r1+a equals r2+b.
//
// Both sequences are walked with one cursor each. Shared elements are
// consumed from both sides. An element only present on a's side must be
// supplied to b, and vice versa. Once one side runs out, the remainder of the
// other goes to the opposite residual.
//
// For two rewrite patterns a and b, r1+a (= r2+b) is their least common
// superterm, i.e. the overlap that produces a critical pair.
func Unify(a, b ACNode) (ACNode, ACNode) {
	var forA, forB []ID
	i, j := 0, 0
	for i < len(a.args) && j < len(b.args) {
		va, vb := a.args[i], b.args[j]
		switch {
		case va == vb:
			i++
			j++
		case va < vb:
			forB = append(forB, va)
			i++
		default:
			forA = append(forA, vb)
			j++
		}
	}
	forA = append(forA, b.args[j:]...)
	forB = append(forB, a.args[i:]...)

	// Both accumulators are filled in ascending order.
	return ACNode{args: forA}, ACNode{args: forB}
}

// Match reports whether pattern is a sub-multiset of target and, if so,
// returns target minus pattern.
func Match(pattern, target ACNode) (ACNode, bool) {
	rest, missing := Unify(pattern, target)
	if !missing.IsEmpty() {
		return ACNode{}, false
	}
	return rest, true
}
