// Package config holds the compiler options the lowering stage
// consumes and their YAML file form.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options controls lowering behavior. The zero value is not useful;
// start from Default.
type Options struct {
	// TypedArrays lowers numeric array literals to the target's typed
	// array containers instead of plain arrays.
	TypedArrays bool `yaml:"typed_arrays"`

	// ClampByteArrays selects the clamped byte container when
	// TypedArrays is on.
	ClampByteArrays bool `yaml:"clamp_byte_arrays"`

	// DebugMode keeps source ranges on every lowered node. Release
	// builds keep them only on declarations.
	DebugMode bool `yaml:"debug_mode"`

	// Defines lists conditional compilation symbols, recorded in the
	// build stamp.
	Defines []string `yaml:"defines,omitempty"`

	// FileExtension replaces the source extension in rewritten
	// relative import paths.
	FileExtension string `yaml:"file_extension"`

	// MaxInlineDepth bounds nested inline expansion.
	MaxInlineDepth int `yaml:"max_inline_depth"`

	// FileMapPath is the SQLite path for the cross-project file map.
	// Empty disables the artifact.
	FileMapPath string `yaml:"file_map_path,omitempty"`
}

// Default returns the options used when no file overrides them.
func Default() Options {
	return Options{
		TypedArrays:    true,
		FileExtension:  ".js",
		MaxInlineDepth: 64,
	}
}

// Load reads a YAML options file over the defaults. Unknown fields
// are rejected so typos surface instead of silently reverting to a
// default.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file: %w", err)
	}

	opts := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

// Validate checks option consistency.
func (o Options) Validate() error {
	if o.FileExtension == "" || !strings.HasPrefix(o.FileExtension, ".") {
		return fmt.Errorf("file_extension must start with %q, got %q", ".", o.FileExtension)
	}
	if o.MaxInlineDepth <= 0 {
		return fmt.Errorf("max_inline_depth must be positive, got %d", o.MaxInlineDepth)
	}
	if o.ClampByteArrays && !o.TypedArrays {
		return fmt.Errorf("clamp_byte_arrays requires typed_arrays")
	}
	return nil
}

// HasDefine reports whether a conditional symbol is set.
func (o Options) HasDefine(symbol string) bool {
	for _, d := range o.Defines {
		if d == symbol {
			return true
		}
	}
	return false
}
