// Package engine implements the AC e-graph: ground congruence closure over
// uninterpreted function symbols combined with completion modulo one
// associative-commutative operator.
//
// ARCHITECTURE:
//
// A Graph owns three tables:
//   - union-find: identifier -> representative (larger ids point at smaller)
//   - hashcons: canonical UF node -> identifier, in insertion order
//   - equations: oriented AC rewrite rules, pattern > replacement
//
// Construction (AddUFNode, AddACNode) and Union only touch the tables
// locally. Everything that follows from a merge is deferred to Rebuild,
// which IsEqual runs before answering.
//
// Rebuild alternates two steps until a full pass changes nothing:
//  1. UF congruence: re-canonicalize every hashcons entry and merge
//     entries that collide.
//  2. AC completion: re-orient and normalize the equations, then resolve
//     the critical pair of every ordered pair of rules, merging or adding
//     a new rule when the two sides differ.
//
// AC completion does not terminate for every input, so each rebuild runs
// under a Budget and reports *BudgetExhaustedError when it stops early.
//
// DETERMINISM:
//
// Identifiers come from a per-graph logical clock (Clock), never from
// wall time or randomness. Tables are walked in insertion order. The same
// sequence of operations therefore yields the same identifiers, the same
// representatives and the same Snapshot digest in every session.
package engine
