package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/johngalambos/Fable/internal/config"
)

// Scenario is one declarative lowering test: a fixture to lower, the
// options to lower it under, and what the result must look like.
type Scenario struct {
	// Name identifies the scenario and, unless Golden overrides it,
	// names the golden file.
	Name string `yaml:"name"`

	// Description states what the scenario validates.
	Description string `yaml:"description"`

	// Fixture names a registered fixture.
	Fixture string `yaml:"fixture"`

	// Options adjusts the default compiler options for this run.
	Options *OptionTweaks `yaml:"options,omitempty"`

	// Golden names the golden file holding the expected canonical
	// dump. Empty means the scenario asserts expectations only.
	Golden string `yaml:"golden,omitempty"`

	// Expect holds the assertions evaluated against the result.
	Expect Expectation `yaml:"expect"`
}

// OptionTweaks overrides individual compiler options. Unset fields
// keep their defaults, which a plain config.Options decode could not
// express for booleans that default on.
type OptionTweaks struct {
	TypedArrays     *bool    `yaml:"typed_arrays,omitempty"`
	ClampByteArrays *bool    `yaml:"clamp_byte_arrays,omitempty"`
	DebugMode       *bool    `yaml:"debug_mode,omitempty"`
	FileExtension   *string  `yaml:"file_extension,omitempty"`
	Defines         []string `yaml:"defines,omitempty"`
}

// Apply lays the tweaks over opts.
func (t *OptionTweaks) Apply(opts *config.Options) {
	if t == nil {
		return
	}
	if t.TypedArrays != nil {
		opts.TypedArrays = *t.TypedArrays
	}
	if t.ClampByteArrays != nil {
		opts.ClampByteArrays = *t.ClampByteArrays
	}
	if t.DebugMode != nil {
		opts.DebugMode = *t.DebugMode
	}
	if t.FileExtension != nil {
		opts.FileExtension = *t.FileExtension
	}
	if len(t.Defines) > 0 {
		opts.Defines = append(opts.Defines, t.Defines...)
	}
}

// Expectation is the assertion set for one scenario. A scenario
// either expects lowering to fail with a diagnostic code, or expects
// it to succeed and constrains the output.
type Expectation struct {
	// Decls lists the expected top-level declaration names in order.
	Decls []string `yaml:"decls,omitempty"`

	// Warnings lists the expected warning codes in order.
	Warnings []string `yaml:"warnings,omitempty"`

	// Fail is the diagnostic code lowering must abort with. Mutually
	// exclusive with every success-shaped assertion.
	Fail string `yaml:"fail,omitempty"`

	// Stable asserts that lowering the fixture again under a fresh
	// cache produces the same fingerprint.
	Stable bool `yaml:"stable,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos surface instead of silently passing.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// LoadScenarioDir loads every .yaml scenario under dir, sorted by
// file name so runs are ordered the same everywhere.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", dir)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks required fields and assertion consistency.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Fixture == "" {
		return fmt.Errorf("fixture is required")
	}
	if _, ok := Lookup(s.Fixture); !ok {
		return fmt.Errorf("unknown fixture %q (registered: %v)", s.Fixture, Names())
	}
	if s.Expect.Fail != "" {
		if s.Golden != "" || len(s.Expect.Decls) > 0 || len(s.Expect.Warnings) > 0 || s.Expect.Stable {
			return fmt.Errorf("expect.fail excludes golden and success assertions")
		}
	}
	return nil
}

// GoldenName is the golden file stem for this scenario.
func (s *Scenario) GoldenName() string {
	if s.Golden != "" {
		return s.Golden
	}
	return s.Name
}
