package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/acegraph/internal/engine"
	"github.com/roach88/acegraph/internal/ir"
	"github.com/roach88/acegraph/internal/metrics"
	"github.com/roach88/acegraph/internal/testutil"
)

// Options configures scenario execution.
type Options struct {
	// Logger receives engine logs. Nil discards them.
	Logger *slog.Logger

	// Metrics receives engine metrics. Nil disables collection.
	Metrics *metrics.Collector

	// Budget overrides the limits of scenarios that leave them unset.
	Budget engine.Budget
}

// Harness is the test execution engine.
// It runs one scenario against a fresh graph with a fixed session token.
type Harness struct {
	graph  *engine.Graph
	names  map[string]ir.ID
	logger *slog.Logger
}

// Run executes a test scenario with default options and returns the result.
func Run(scenario *ir.Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, Options{})
}

// RunContext executes a test scenario and returns the result.
//
// Execution flow:
// 1. Create a fresh graph with the scenario's session token and budget
// 2. Execute steps in order, recording a trace event for each
// 3. Check expect clauses on equal steps
// 4. Evaluate assertions on the final state
// 5. Capture the final snapshot and its digest
//
// An error is returned only when the scenario cannot be executed at all
// (for example a step referring to an unbound name). Failed expectations
// and assertions are reported in Result.Errors.
func RunContext(ctx context.Context, scenario *ir.Scenario, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	}

	budget := opts.Budget
	if scenario.MaxPasses > 0 {
		budget.MaxPasses = scenario.MaxPasses
	}
	if scenario.MaxEquations > 0 {
		budget.MaxEquations = scenario.MaxEquations
	}

	h := &Harness{
		graph: engine.New(
			engine.WithSessionGenerator(testutil.NewFixedSessionGenerator(scenario.Session)),
			engine.WithBudget(budget),
			engine.WithLogger(logger),
			engine.WithMetrics(opts.Metrics),
		),
		names:  make(map[string]ir.ID),
		logger: logger,
	}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	actx := &AssertionContext{
		Graph: h.graph,
		Names: h.names,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	result.Snapshot = h.graph.Snapshot()
	digest, err := result.Snapshot.Digest()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: failed to digest snapshot: %w", scenario.Name, err)
	}
	result.Digest = digest

	return result, nil
}

// RunAll executes scenarios concurrently, at most parallel at a time
// (parallel <= 0 means no limit). Results are returned in input order.
// Each scenario runs on its own graph, so they share no state.
func RunAll(ctx context.Context, scenarios []*ir.Scenario, opts Options, parallel int) ([]*Result, error) {
	results := make([]*Result, len(scenarios))

	eg, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		eg.SetLimit(parallel)
	}
	for i, s := range scenarios {
		eg.Go(func() error {
			r, err := RunContext(ctx, s, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// executeSteps runs all steps in order.
func (h *Harness) executeSteps(ctx context.Context, steps []ir.Step, result *Result) error {
	for i, step := range steps {
		seq := int64(i + 1)

		ids, err := h.resolve(step.Args)
		if err != nil {
			return fmt.Errorf("step %d: %w", seq, err)
		}

		event := TraceEvent{
			Seq:    seq,
			Op:     step.Op,
			Let:    step.Let,
			Symbol: step.Symbol,
			Args:   step.Args,
			IDs:    ids,
		}

		switch step.Op {
		case ir.OpUF:
			id, err := h.graph.AddUFNode(step.Symbol, ids...)
			if err != nil {
				return fmt.Errorf("step %d: %w", seq, err)
			}
			h.names[step.Let] = id
			event.ID = id

		case ir.OpAC:
			id, err := h.graph.AddACNode(ids...)
			if err != nil {
				return fmt.Errorf("step %d: %w", seq, err)
			}
			h.names[step.Let] = id
			event.ID = id

		case ir.OpUnion:
			if err := h.graph.Union(ids[0], ids[1]); err != nil {
				return fmt.Errorf("step %d: %w", seq, err)
			}

		case ir.OpEqual:
			equal, err := h.graph.IsEqual(ctx, ids[0], ids[1])
			switch {
			case engine.IsBudgetExhausted(err):
				event.Error = err.Error()
				result.AddError(fmt.Sprintf("step %d: equal(%s, %s): %v", seq, step.Args[0], step.Args[1], err))
			case err != nil:
				return fmt.Errorf("step %d: %w", seq, err)
			default:
				event.Result = ir.Bool(equal)
				if step.Expect != nil && *step.Expect != equal {
					result.AddError(fmt.Sprintf("step %d: equal(%s, %s) = %t, expected %t",
						seq, step.Args[0], step.Args[1], equal, *step.Expect))
				}
			}

		default:
			return fmt.Errorf("step %d: unknown op %q", seq, step.Op)
		}

		result.AddTrace(event)
		h.logger.Debug("step completed",
			"seq", seq,
			"op", step.Op,
			"let", step.Let,
			"id", event.ID,
		)
	}
	return nil
}

// resolve maps argument names to the identifiers bound to them.
func (h *Harness) resolve(names []string) ([]ir.ID, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ids := make([]ir.ID, len(names))
	for i, name := range names {
		id, ok := h.names[name]
		if !ok {
			return nil, fmt.Errorf("undefined name %q", name)
		}
		ids[i] = id
	}
	return ids, nil
}
