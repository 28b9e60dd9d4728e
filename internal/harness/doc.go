// Package harness runs engine scenarios and compares their traces against
// golden files.
//
// A scenario is a list of engine operations over named terms (uf, ac,
// union, equal) followed by assertions on the final state. Scenarios are
// written in YAML or CUE and compiled to ir.Scenario.
//
// # Deterministic Testing
//
// Every scenario runs on a fresh engine.Graph with a fixed session token
// (testutil.FixedSessionGenerator) and logs discarded. Identifiers come
// from the graph's logical clock, so the same scenario always produces the
// same trace, byte for byte, in canonical JSON. Independent scenarios share
// nothing and RunAll executes them concurrently.
//
// # Usage
//
// Load and run a scenario:
//
//	scenarios, err := harness.LoadScenarios("testdata/scenarios/squares.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenarios[0])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
//
// In tests, RunWithGolden additionally compares the trace against
// testdata/golden/<name>.golden (regenerate with go test -update).
package harness
