package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/acegraph/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Session      string       `json:"session,omitempty"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles IR types and primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq": event.Seq,
			"op":  event.Op,
		}
		if event.Let != "" {
			eventMap["let"] = event.Let
		}
		if event.Symbol != "" {
			eventMap["symbol"] = event.Symbol
		}
		if len(event.Args) > 0 {
			eventMap["args"] = event.Args
			eventMap["ids"] = event.IDs
		}
		if event.ID != ir.NoID {
			eventMap["id"] = event.ID
		}
		if event.Result != nil {
			eventMap["result"] = *event.Result
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		}
		traceList[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
	if s.Session != "" {
		result["session"] = s.Session
	}
	return result
}

// TraceJSON returns the canonical JSON of a scenario's trace. This is the
// exact content of its golden file.
func TraceJSON(scenario *ir.Scenario, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Session:      scenario.Session,
		Trace:        result.Trace,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// TraceDigest returns the content digest of a scenario's trace.
func TraceDigest(scenario *ir.Scenario, result *Result) (string, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Session:      scenario.Session,
		Trace:        result.Trace,
	}
	return ir.TraceDigest(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *ir.Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenario *ir.Scenario, result *Result) error {
	t.Helper()

	traceJSON, err := TraceJSON(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}

// GoldenPath returns the golden file path for a scenario found in dir:
// dir/golden/<name>.golden.
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, "golden", name+".golden")
}

// CompareGolden compares a trace against the golden file at path.
// A missing golden file is an error; use WriteGolden to create it.
func CompareGolden(path string, traceJSON []byte) error {
	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("golden file not found: %s (run with --update to create)", path)
		}
		return fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(bytes.TrimSpace(expected), bytes.TrimSpace(traceJSON)) {
		return fmt.Errorf("trace does not match golden file %s", path)
	}
	return nil
}

// WriteGolden writes a trace to the golden file at path, creating the
// golden directory if needed.
func WriteGolden(path string, traceJSON []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, traceJSON, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}
