package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ShippedScenarios(t *testing.T) {
	scenarios, err := LoadScenarioDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		scenario := scenario
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_SuccessShape(t *testing.T) {
	scenario := &Scenario{
		Name:        "success_shape",
		Description: "Successful runs carry the canonical dump and fingerprint",
		Fixture:     "pipeline-basics",
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Equal(t, "pipeline-basics", result.Fixture)
	assert.NotEmpty(t, result.Canonical)
	assert.NotEmpty(t, result.Fingerprint)
	assert.Equal(t, []string{"choose", "pair"}, result.Decls)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Diagnostic)
}

func TestRun_DeclMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_decls",
		Description: "A declaration mismatch demotes the result",
		Fixture:     "pipeline-basics",
		Expect:      Expectation{Decls: []string{"choose"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "do not match")
}

func TestRun_ExpectedFailurePasses(t *testing.T) {
	scenario := &Scenario{
		Name:        "expected_failure",
		Description: "The duplicate claim aborts with the asked-for code",
		Fixture:     "duplicate-name",
		Expect:      Expectation{Fail: "A300"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Contains(t, result.Diagnostic, "declared twice")
	assert.Empty(t, result.Canonical)
	assert.Empty(t, result.Fingerprint)
}

func TestRun_UnexpectedFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected_failure",
		Description: "A fatal diagnostic fails scenarios that expected success",
		Fixture:     "duplicate-name",
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "lowering failed")
}

func TestRun_WrongFailureCode(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_code",
		Description: "The diagnostic code must match exactly",
		Fixture:     "duplicate-name",
		Expect:      Expectation{Fail: "L100"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "expected diagnostic L100")
	assert.Contains(t, result.Errors[0], "A300")
}

func TestRun_SuccessWhenFailureExpected(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_failure",
		Description: "Lowering that succeeds fails an expect.fail scenario",
		Fixture:     "pipeline-basics",
		Expect:      Expectation{Fail: "A300"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "lowering succeeded")
}

func TestRun_UnknownFixture(t *testing.T) {
	scenario := &Scenario{
		Name:        "missing",
		Description: "Unknown fixtures are execution errors, not results",
		Fixture:     "no-such-fixture",
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fixture")
}

func TestRun_InvalidOptions(t *testing.T) {
	ext := "js"
	scenario := &Scenario{
		Name:        "bad_options",
		Description: "Tweaks still pass option validation",
		Fixture:     "pipeline-basics",
		Options:     &OptionTweaks{FileExtension: &ext},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario options")
}

func TestRun_FingerprintStableAcrossRuns(t *testing.T) {
	scenario := &Scenario{
		Name:        "stable",
		Description: "Fresh state and caches reproduce the fingerprint",
		Fixture:     "option-fallback",
		Expect:      Expectation{Stable: true},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, first.Pass, "errors: %v", first.Errors)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Canonical, second.Canonical)
}

func TestMustFile_LowersUnderDefaults(t *testing.T) {
	file, err := MustFile("pipeline-basics")
	require.NoError(t, err)

	assert.Equal(t, "Pipeline", file.Root)
	assert.Equal(t, "src/Pipeline.js", file.OutputPath)
	assert.Len(t, file.Decls, 2)
}

func TestMustFile_Unknown(t *testing.T) {
	_, err := MustFile("no-such-fixture")
	require.Error(t, err)
}

func TestBuildFixture_ReturnsFreshTree(t *testing.T) {
	first, err := BuildFixture("shape-records")
	require.NoError(t, err)
	second, err := BuildFixture("shape-records")
	require.NoError(t, err)

	assert.Equal(t, "Shapes", first.RootFullName)
	assert.NotSame(t, first, second)
}

func TestBuildFixture_Unknown(t *testing.T) {
	_, err := BuildFixture("no-such-fixture")
	require.Error(t, err)
}

func TestResult_AddError(t *testing.T) {
	result := NewResult("pipeline-basics")
	assert.True(t, result.Pass)

	result.AddError("declarations [%s] missing", "choose")
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "declarations [choose] missing", result.Errors[0])
}
