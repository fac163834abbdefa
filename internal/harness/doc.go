// Package harness provides conformance testing for the lowering
// stage.
//
// The harness lowers registered front-end fixtures under configurable
// options, evaluates declarative expectations, and compares canonical
// dumps against golden files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	fixture: pipeline-basics
//	options:
//	  typed_arrays: false
//	golden: scenario_name
//	expect:
//	  decls: [choose, pair]
//	  warnings: []
//	  stable: true
//
// A failure scenario asserts the diagnostic code instead:
//
//	expect:
//	  fail: A300
//
// # Deterministic Lowering
//
// Every run lowers a fresh fixture tree under a fresh shared cache
// and an in-memory file map, so results depend only on the fixture
// and the options. Canonical dumps exclude source ranges, making the
// golden files stable across fixture edits that only move code.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/option_fallback.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
//
// In tests, compare against the golden file as well:
//
//	err := harness.RunWithGolden(t, scenario)
package harness
