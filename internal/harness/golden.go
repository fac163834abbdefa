package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its canonical dump
// against the golden file testdata/scenarios/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for the lowered shape of each
// fixture; a diff means the lowering of that construct changed.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed:\n  %s",
			scenario.Name, strings.Join(result.Errors, "\n  "))
	}
	if result.Canonical == "" {
		return fmt.Errorf("scenario %s produced no canonical output", scenario.Name)
	}

	AssertGolden(t, scenario.GoldenName(), result)
	return nil
}

// AssertGolden compares an already-obtained result against a golden
// file, for callers that ran the scenario themselves.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/scenarios/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(result.Canonical))
}
