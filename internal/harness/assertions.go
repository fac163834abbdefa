package harness

import (
	"strings"

	"github.com/johngalambos/Fable/internal/diag"
)

// checkFailure evaluates a scenario against a fatal lowering
// diagnostic. Passing requires the scenario to have asked for exactly
// that diagnostic code.
func checkFailure(result *Result, scenario *Scenario, err error) {
	code := diag.CodeOf(err)
	switch {
	case scenario.Expect.Fail == "":
		result.AddError("lowering failed: %v", err)
	case string(code) != scenario.Expect.Fail:
		result.AddError("expected diagnostic %s, got %s (%v)", scenario.Expect.Fail, code, err)
	}
}

// checkExpectations evaluates the success-shaped assertions.
func checkExpectations(result *Result, scenario *Scenario) {
	if scenario.Expect.Fail != "" {
		result.AddError("expected diagnostic %s, lowering succeeded", scenario.Expect.Fail)
		return
	}

	if scenario.Expect.Decls != nil && !equalStrings(result.Decls, scenario.Expect.Decls) {
		result.AddError("declarations [%s] do not match expected [%s]",
			strings.Join(result.Decls, " "), strings.Join(scenario.Expect.Decls, " "))
	}

	if !equalStrings(result.Warnings, scenario.Expect.Warnings) {
		result.AddError("warnings [%s] do not match expected [%s]",
			strings.Join(result.Warnings, " "), strings.Join(scenario.Expect.Warnings, " "))
	}
}

func equalStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
