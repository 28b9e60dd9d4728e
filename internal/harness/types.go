package harness

import (
	"github.com/roach88/acegraph/internal/engine"
	"github.com/roach88/acegraph/internal/ir"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq    int64    `json:"seq"`              // 1-based step number
	Op     string   `json:"op"`               // uf, ac, union or equal
	Let    string   `json:"let,omitempty"`    // name bound by uf/ac
	Symbol string   `json:"symbol,omitempty"` // uf symbol
	Args   []string `json:"args,omitempty"`   // argument names
	IDs    []ir.ID  `json:"ids,omitempty"`    // argument identifiers
	ID     ir.ID    `json:"id,omitempty"`     // identifier returned by uf/ac
	Result *bool    `json:"result,omitempty"` // equal answer
	Error  string   `json:"error,omitempty"`  // equal that did not converge
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Snapshot is the graph state after the assertions ran.
	Snapshot engine.Snapshot `json:"snapshot"`

	// Digest is the content digest of Snapshot.
	Digest string `json:"digest"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
