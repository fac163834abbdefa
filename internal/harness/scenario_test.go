package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johngalambos/Fable/internal/config"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test_scenario
description: "Conditional select under default options"
fixture: pipeline-basics
golden: conditional
expect:
  decls:
    - choose
    - pair
  stable: true
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "pipeline-basics", scenario.Fixture)
	assert.Equal(t, "conditional", scenario.GoldenName())
	assert.Equal(t, []string{"choose", "pair"}, scenario.Expect.Decls)
	assert.True(t, scenario.Expect.Stable)
}

func TestLoadScenario_OptionTweaksParse(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: tweaked
description: "Debug lowering of the same fixture"
fixture: pipeline-basics
options:
  debug_mode: true
  file_extension: ".mjs"
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	require.NotNil(t, scenario.Options)

	opts := config.Default()
	scenario.Options.Apply(&opts)
	assert.True(t, opts.DebugMode)
	assert.Equal(t, ".mjs", opts.FileExtension)
	assert.True(t, opts.TypedArrays, "unset tweaks keep their defaults")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
description: "Missing name"
fixture: pipeline-basics
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenario_MissingDescription(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test
fixture: pipeline-basics
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description is required")
}

func TestLoadScenario_MissingFixture(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test
description: "Test"
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixture is required")
}

func TestLoadScenario_UnknownFixture(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test
description: "Test"
fixture: no-such-fixture
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fixture")
	assert.Contains(t, err.Error(), "pipeline-basics")
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test
description: "Test"
fixture: pipeline-basics
fixtrue: typo
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test
description: "Test"
fixture: [unclosed
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_FailExcludesSuccessAssertions(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test
description: "Test"
fixture: duplicate-name
golden: test
expect:
  fail: A300
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect.fail excludes golden and success assertions")
}

func TestLoadScenarioDir_SortedByFileName(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", `
name: second
description: "Loads second"
fixture: pipeline-basics
`)
	writeScenario(t, dir, "a.yml", `
name: first
description: "Loads first"
fixture: option-fallback
`)
	writeScenario(t, dir, "notes.txt", "not a scenario")

	scenarios, err := LoadScenarioDir(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestLoadScenarioDir_Empty(t *testing.T) {
	_, err := LoadScenarioDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files")
}

func TestLoadScenarioDir_PropagatesBadScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "bad.yaml", `
description: "No name"
fixture: pipeline-basics
`)

	_, err := LoadScenarioDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestGoldenName_DefaultsToName(t *testing.T) {
	s := &Scenario{Name: "plain"}
	assert.Equal(t, "plain", s.GoldenName())

	s.Golden = "shared"
	assert.Equal(t, "shared", s.GoldenName())
}

func TestOptionTweaks_NilApply(t *testing.T) {
	opts := config.Default()
	var tweaks *OptionTweaks
	tweaks.Apply(&opts)
	assert.Equal(t, config.Default(), opts)
}

func TestOptionTweaks_Overrides(t *testing.T) {
	off := false
	ext := ".mjs"
	tweaks := &OptionTweaks{
		TypedArrays:   &off,
		FileExtension: &ext,
		Defines:       []string{"DEBUG"},
	}

	opts := config.Default()
	tweaks.Apply(&opts)

	assert.False(t, opts.TypedArrays)
	assert.Equal(t, ".mjs", opts.FileExtension)
	assert.Equal(t, []string{"DEBUG"}, opts.Defines)
	assert.Equal(t, 64, opts.MaxInlineDepth)
}
