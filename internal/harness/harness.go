package harness

import (
	"fmt"

	"github.com/johngalambos/Fable/internal/config"
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/lower"
	"github.com/johngalambos/Fable/internal/precomp"
)

// Run executes one scenario and returns the result.
//
// Each run lowers the fixture under a fresh shared state and a fresh
// in-memory file map, so scenarios are isolated and order-free. A
// fatal lowering diagnostic is part of the result, not an execution
// error; Run itself fails only when the scenario cannot be executed
// at all.
func Run(scenario *Scenario) (*Result, error) {
	fix, ok := Lookup(scenario.Fixture)
	if !ok {
		return nil, fmt.Errorf("unknown fixture %q", scenario.Fixture)
	}

	opts := config.Default()
	scenario.Options.Apply(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("scenario options: %w", err)
	}

	result := NewResult(scenario.Fixture)

	file, warnings, err := lowerFixture(fix, opts)
	if err != nil {
		result.Diagnostic = err.Error()
		checkFailure(result, scenario, err)
		return result, nil
	}

	result.Canonical = ir.CanonicalFile(file)
	result.Fingerprint = ir.FileFingerprint(file)
	result.Decls = DeclNames(file.Decls)
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, string(w.Code))
	}

	// Structural invariants hold for every successfully lowered file,
	// whatever the scenario asserts.
	for _, verr := range ir.ValidateFile(file) {
		result.AddError("invalid output: %s", verr)
	}

	checkExpectations(result, scenario)

	if scenario.Expect.Stable {
		again, _, err := lowerFixture(fix, opts)
		if err != nil {
			result.AddError("re-lowering failed: %v", err)
		} else if fp := ir.FileFingerprint(again); fp != result.Fingerprint {
			result.AddError("fingerprint drifted across runs: %s then %s", result.Fingerprint, fp)
		}
	}

	return result, nil
}

// lowerFixture lowers a fresh build of the fixture under fresh
// caches, recording the file into an in-memory map the way a build
// driver would.
func lowerFixture(fix Fixture, opts config.Options) (*ir.File, []diag.Warning, error) {
	state := lower.NewState()
	state.SetFileMap(precomp.NewMap())

	c := lower.NewCompiler(state, opts)
	file, err := c.CompileFile(fix.Build(), false)
	if err != nil {
		return nil, nil, err
	}
	return file, c.Warnings(), nil
}

// DeclNames flattens declarations to their output names in order.
func DeclNames(decls []ir.Decl) []string {
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		switch v := d.(type) {
		case ir.MemberDecl:
			names = append(names, v.Name)
		case ir.EntityDecl:
			names = append(names, v.Entity.Name)
		case ir.ActionDecl:
			names = append(names, "(init)")
		default:
			names = append(names, fmt.Sprintf("%T", d))
		}
	}
	return names
}

// MustFile builds and lowers a registered fixture under default
// options, for callers that want the IR without scenario plumbing.
func MustFile(name string) (*ir.File, error) {
	fix, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown fixture %q", name)
	}
	file, _, err := lowerFixture(fix, config.Default())
	return file, err
}

// BuildFixture returns a fresh front-end tree for a registered
// fixture.
func BuildFixture(name string) (*fsast.File, error) {
	fix, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown fixture %q", name)
	}
	return fix.Build(), nil
}
