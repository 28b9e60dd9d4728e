package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/acegraph/internal/ir"
	"github.com/roach88/acegraph/internal/metrics"
)

// RebuildStats summarizes one rebuild.
type RebuildStats struct {
	// Passes is the number of passes run, including the final pass that
	// found nothing to do.
	Passes int

	// Unions counts merges that joined two distinct classes.
	Unions int

	// EquationsDerived counts equations added by AC completion.
	EquationsDerived int

	// Clean is true when the graph had not changed since the last
	// converged rebuild and no work was done.
	Clean bool
}

// Rebuild runs congruence closure and AC completion to a joint fixpoint.
//
// Each pass first runs the UF congruence step; only when that changes
// nothing does it run the AC completion step. The rebuild stops after a
// pass in which neither step changed anything.
//
// The budget bounds the work (zero fields use the defaults). When it runs
// out, Rebuild returns a *BudgetExhaustedError and leaves the graph in a
// sound, partially rebuilt state; calling Rebuild again continues from
// there. The context is checked between passes.
func (g *Graph) Rebuild(ctx context.Context, budget Budget) (RebuildStats, error) {
	var stats RebuildStats
	if !g.dirty {
		stats.Clean = true
		return stats, nil
	}

	start := time.Now()
	defer func() {
		g.metrics.ObserveRebuild(time.Since(start))
	}()

	enforcer := newBudgetEnforcer(g.session, budget)
	for {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("session %s: rebuild: %w", g.session, err)
		}
		if err := enforcer.checkPass(g.eqs.len()); err != nil {
			g.exhausted(err)
			return stats, err
		}
		stats.Passes++
		g.metrics.ObservePass()

		if g.rebuildUF(&stats) {
			g.logPass("uf", stats)
			continue
		}

		changed, err := g.rebuildAC(enforcer, &stats)
		if err != nil {
			g.exhausted(err)
			return stats, err
		}
		if changed {
			g.logPass("ac", stats)
			continue
		}
		break
	}

	g.dirty = false
	g.logger.Debug("rebuild converged",
		"session", g.session,
		"passes", stats.Passes,
		"unions", stats.Unions,
		"equations", g.eqs.len())
	return stats, nil
}

func (g *Graph) logPass(step string, stats RebuildStats) {
	g.logger.Debug("rebuild pass",
		"session", g.session,
		"pass", stats.Passes,
		"step", step,
		"unions", stats.Unions,
		"equations", g.eqs.len())
}

func (g *Graph) exhausted(err error) {
	var be *BudgetExhaustedError
	if !errors.As(err, &be) {
		return
	}
	g.metrics.ObserveExhausted(be.Reason)
	g.logger.Warn("rebuild budget exhausted",
		"session", g.session,
		"reason", be.Reason,
		"limit", be.Limit,
		"passes", be.Passes,
		"equations", be.Equations)
}

// rebuildUF is the congruence step: every hashcons entry is
// re-canonicalized into a fresh table, and entries that now collide are
// merged. Reports whether any merge happened.
func (g *Graph) rebuildUF(stats *RebuildStats) bool {
	changed := false
	next := newHashcons()
	for _, e := range g.table.entries {
		n := g.canonNode(e.node)
		id := g.uf.find(e.id)

		// An AC node that canonicalizes to its own id carries no information.
		if ac, ok := n.(ir.ACNode); ok {
			if single, ok := ac.Single(); ok && single == id {
				continue
			}
		}

		if other, ok := next.lookup(n); ok {
			if g.merge(other, id, metrics.SourceCongruence, stats) {
				changed = true
			}
			continue
		}
		next.insert(n, id)
	}
	g.table = next
	return changed
}

// rebuildAC is the completion step. Reports whether any merge happened or
// any equation was derived.
func (g *Graph) rebuildAC(enforcer *budgetEnforcer, stats *RebuildStats) (bool, error) {
	changed := false

	// Weakly canonicalize both sides and re-orient. An equation whose sides
	// became equal is dropped; one between two identifiers becomes a merge.
	oriented := make([]Equation, 0, g.eqs.len())
	for _, e := range g.eqs.list {
		lhs := g.weakCanon(e.Pattern)
		rhs := g.weakCanon(e.Replacement)
		if lhs.Equal(rhs) {
			continue
		}
		lhs, rhs = ir.Orient(lhs, rhs)
		if x, ok := lhs.Single(); ok {
			y, _ := rhs.Single()
			if g.merge(x, y, metrics.SourceCompletion, stats) {
				changed = true
			}
			continue
		}
		oriented = append(oriented, Equation{Pattern: lhs, Replacement: rhs})
	}
	g.eqs.reset(oriented)

	// Replacements are kept in normal form.
	for i := range g.eqs.list {
		g.eqs.list[i].Replacement = g.canonAC(g.eqs.list[i].Replacement)
	}
	g.eqs.reset(g.eqs.list)

	// Critical pairs over every ordered pair of rules, including each rule
	// with itself. (s1, s2) = Unify(lhsA, lhsB) gives the superterm
	// s1+lhsA = s2+lhsB, which A rewrites to s1+rhsA and B to s2+rhsB.
	rules := g.eqs.all()
	for _, a := range rules {
		for _, b := range rules {
			s1, s2 := ir.Unify(a.Pattern, b.Pattern)
			left := g.canonAC(s1.Add(a.Replacement))
			right := g.canonAC(s2.Add(b.Replacement))
			if left.Equal(right) {
				continue
			}

			left, right = ir.Orient(left, right)
			if x, ok := left.Single(); ok {
				y, _ := right.Single()
				if g.merge(x, y, metrics.SourceCompletion, stats) {
					changed = true
				}
				continue
			}

			eq := Equation{Pattern: left, Replacement: right}
			if g.eqs.contains(eq) {
				continue
			}
			if err := enforcer.checkEquations(g.eqs.len() + 1); err != nil {
				return changed, err
			}
			g.eqs.add(eq)
			g.dirty = true
			g.metrics.ObserveEquation()
			stats.EquationsDerived++
			changed = true
		}
	}
	return changed, nil
}
