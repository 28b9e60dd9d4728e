package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/acegraph/internal/ir"
	"github.com/roach88/acegraph/internal/metrics"
)

// Graph is a congruence-closed term graph modulo one AC operator.
//
// A Graph owns its union-find, its UF hashcons and its AC equation set.
// Nothing is shared between graphs: each one is an independent reasoning
// session, stamped with its own session token.
//
// Thread-safety: a Graph is not safe for concurrent use. Callers that need
// parallelism give each goroutine its own Graph.
//
// Contract operations:
//   - AddUFNode: hashcons one uninterpreted application
//   - AddACNode: build (or find) an AC term of two or more arguments
//   - Union: assert that two terms are equal
//   - IsEqual: rebuild to a fixpoint and compare representatives
type Graph struct {
	session string
	clock   *Clock
	uf      *unionFind
	table   *hashcons
	eqs     *equationSet

	budget  Budget
	logger  *slog.Logger
	metrics *metrics.Collector

	// dirty is set by every mutation that could give the next rebuild
	// something to do, and cleared when a rebuild converges.
	dirty bool
}

// Option configures a Graph.
type Option func(*config)

type config struct {
	budget  Budget
	logger  *slog.Logger
	metrics *metrics.Collector
	gen     SessionGenerator
}

// WithMaxPasses sets the pass limit used by IsEqual.
//
// Default: 1000 passes (DefaultMaxPasses).
func WithMaxPasses(n int) Option {
	return func(c *config) {
		c.budget.MaxPasses = n
	}
}

// WithMaxEquations sets the equation limit used by IsEqual.
//
// Default: 10000 equations (DefaultMaxEquations).
func WithMaxEquations(n int) Option {
	return func(c *config) {
		c.budget.MaxEquations = n
	}
}

// WithBudget sets both limits used by IsEqual.
func WithBudget(b Budget) Option {
	return func(c *config) {
		c.budget = b
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMetrics attaches a metrics collector. Default: none.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithSessionGenerator sets the source of the session token.
// Default: UUIDv7Generator.
func WithSessionGenerator(gen SessionGenerator) Option {
	return func(c *config) {
		c.gen = gen
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	cfg := config{
		budget: DefaultBudget(),
		gen:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Graph{
		session: cfg.gen.Generate(),
		clock:   NewClock(),
		uf:      newUnionFind(),
		table:   newHashcons(),
		eqs:     newEquationSet(),
		budget:  cfg.budget.withDefaults(),
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}
}

// Session returns the graph's session token.
func (g *Graph) Session() string {
	return g.session
}

// Budget returns the budget IsEqual runs rebuilds under.
func (g *Graph) Budget() Budget {
	return g.budget
}

// AddUFNode returns the identifier of symbol(args...).
//
// Arguments are canonicalized through the union-find before lookup, so an
// application whose arguments are already known to be equal to an existing
// node's shares that node's identifier. Congruences that only appear after
// a later Union are found by the next rebuild.
func (g *Graph) AddUFNode(symbol string, args ...ir.ID) (ir.ID, error) {
	if err := g.checkIDs(args...); err != nil {
		return ir.NoID, err
	}

	n := ir.NewUFNode(symbol, args...)
	for i, a := range n.Args {
		n.Args[i] = g.uf.find(a)
	}
	if id, ok := g.table.lookup(n); ok {
		return id, nil
	}

	id := g.clock.Next()
	g.uf.makeSet(id)
	g.table.insert(n, id)
	g.dirty = true
	return id, nil
}

// AddACNode returns the identifier of args[0] + args[1] + ...
//
// The multiset is fully canonicalized against the current equations first.
// If that collapses it to a single identifier, that identifier is returned
// and nothing is allocated. Otherwise a fresh identifier is allocated and
// the definitional equation canon(args) -> {id} is recorded.
func (g *Graph) AddACNode(args ...ir.ID) (ir.ID, error) {
	if len(args) < 2 {
		return ir.NoID, newArityError(g.session, len(args))
	}
	if err := g.checkIDs(args...); err != nil {
		return ir.NoID, err
	}

	n := g.canonAC(ir.NewACNode(args...))
	if id, ok := n.Single(); ok {
		return id, nil
	}

	id := g.clock.Next()
	g.uf.makeSet(id)
	g.eqs.add(Equation{Pattern: n, Replacement: ir.Singleton(id)})
	g.dirty = true
	return id, nil
}

// Union asserts that x and y are equal.
//
// Only the union-find is touched. Hashcons entries and equations that
// mention the merged class are re-canonicalized by the next rebuild.
func (g *Graph) Union(x, y ir.ID) error {
	if err := g.checkIDs(x, y); err != nil {
		return err
	}
	g.merge(x, y, metrics.SourceExplicit, nil)
	return nil
}

// Find returns the current representative of x, or ir.NoID if x was not
// allocated by this graph. Find does not rebuild: the answer reflects the
// unions performed so far.
func (g *Graph) Find(x ir.ID) ir.ID {
	return g.uf.find(x)
}

// IsEqual rebuilds the graph under its configured budget and reports
// whether x and y are in the same class.
//
// IsEqual mutates the graph. See IsEqualWithin for budget semantics.
func (g *Graph) IsEqual(ctx context.Context, x, y ir.ID) (bool, error) {
	return g.IsEqualWithin(ctx, x, y, g.budget)
}

// IsEqualWithin is IsEqual with an explicit budget.
//
// If the rebuild stops early, a positive answer is still returned when x and
// y were already merged: every merge is a valid consequence of the asserted
// equalities. A negative answer is never given without convergence; the
// caller gets the *BudgetExhaustedError (or context error) instead.
func (g *Graph) IsEqualWithin(ctx context.Context, x, y ir.ID, budget Budget) (bool, error) {
	if err := g.checkIDs(x, y); err != nil {
		return false, err
	}

	if _, err := g.Rebuild(ctx, budget); err != nil {
		if g.uf.find(x) == g.uf.find(y) {
			return true, nil
		}
		return false, err
	}
	return g.uf.find(x) == g.uf.find(y), nil
}

// CanonACNode returns the normal form of n under the current union-find
// and equations, without rebuilding.
func (g *Graph) CanonACNode(n ir.ACNode) (ir.ACNode, error) {
	if err := g.checkIDs(n.IDs()...); err != nil {
		return ir.ACNode{}, err
	}
	return g.canonAC(n), nil
}

// Equations returns a copy of the current AC equations.
func (g *Graph) Equations() []Equation {
	return g.eqs.all()
}

// merge unions a and b and records the merge if it joined two classes.
func (g *Graph) merge(a, b ir.ID, source string, stats *RebuildStats) bool {
	_, merged := g.uf.merge(a, b)
	if !merged {
		return false
	}
	g.dirty = true
	g.metrics.ObserveUnion(source)
	if stats != nil {
		stats.Unions++
	}
	return true
}

// checkIDs returns an UNKNOWN_ID error listing every id not allocated by
// this graph.
func (g *Graph) checkIDs(ids ...ir.ID) error {
	var unknown []ir.ID
	for _, id := range ids {
		if !g.uf.contains(id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return newUnknownIDError(g.session, unknown)
	}
	return nil
}

// weakCanon maps every element to its representative. It respects the
// union-find but not the equations.
func (g *Graph) weakCanon(n ir.ACNode) ir.ACNode {
	return n.Map(g.uf.find)
}

// canonAC rewrites n to its normal form: weak canonicalization, then
// repeated application of the first matching equation until none matches.
//
// Terminates because every stored equation decreases the node under the
// monomial ordering, weak canonicalization never increases it, and the
// ordering is well-founded over identifiers allocated so far.
func (g *Graph) canonAC(n ir.ACNode) ir.ACNode {
	n = g.weakCanon(n)
	for {
		rewritten := false
		for _, e := range g.eqs.list {
			rest, ok := ir.Match(e.Pattern, n)
			if !ok {
				continue
			}
			n = g.weakCanon(rest.Add(e.Replacement))
			rewritten = true
			break
		}
		if !rewritten {
			return n
		}
	}
}

// canonNode canonicalizes any node shape.
func (g *Graph) canonNode(n ir.Node) ir.Node {
	switch n := n.(type) {
	case ir.UFNode:
		args := make([]ir.ID, len(n.Args))
		for i, a := range n.Args {
			args[i] = g.uf.find(a)
		}
		return ir.UFNode{Symbol: n.Symbol, Args: args}
	case ir.ACNode:
		return g.canonAC(n)
	default:
		panic(fmt.Sprintf("engine: unknown node type %T", n))
	}
}
