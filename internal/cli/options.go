package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johngalambos/Fable/internal/config"
)

// OptionsResult holds the resolved lowering options for output.
type OptionsResult struct {
	Valid   bool           `json:"valid"`
	Source  string         `json:"source"` // options file path, or "defaults"
	Options OptionsPayload `json:"options"`
}

// OptionsPayload mirrors config.Options with JSON field names.
type OptionsPayload struct {
	TypedArrays     bool     `json:"typed_arrays"`
	ClampByteArrays bool     `json:"clamp_byte_arrays"`
	DebugMode       bool     `json:"debug_mode"`
	Defines         []string `json:"defines,omitempty"`
	FileExtension   string   `json:"file_extension"`
	MaxInlineDepth  int      `json:"max_inline_depth"`
	FileMapPath     string   `json:"file_map_path,omitempty"`
}

// NewOptionsCommand creates the options command.
func NewOptionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options [options.yaml]",
		Short: "Validate and print lowering options",
		Long: `Validate a lowering options file and print the resolved options.

An options file lays its fields over the defaults; unknown fields are
rejected. Without an argument, prints the defaults.

Exit codes:
  0 - Options are valid
  1 - Options failed to parse or validate
  2 - Command error (file not found)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runOptions(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runOptions(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	source := "defaults"
	resolved := config.Default()
	if path != "" {
		source = path
		if _, err := os.Stat(path); os.IsNotExist(err) {
			msg := fmt.Sprintf("options file not found: %s", path)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		loaded, err := config.Load(path)
		if err != nil {
			_ = formatter.Error(ErrCodeBadOptions, err.Error(), nil)
			return NewExitError(ExitFailure, err.Error())
		}
		resolved = loaded
	}

	formatter.VerboseLog("Resolved options from %s", source)

	result := OptionsResult{
		Valid:   true,
		Source:  source,
		Options: payloadFromOptions(resolved),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Options valid (%s)\n", source)
	fmt.Fprintf(w, "  typed_arrays:      %t\n", resolved.TypedArrays)
	fmt.Fprintf(w, "  clamp_byte_arrays: %t\n", resolved.ClampByteArrays)
	fmt.Fprintf(w, "  debug_mode:        %t\n", resolved.DebugMode)
	fmt.Fprintf(w, "  file_extension:    %s\n", resolved.FileExtension)
	fmt.Fprintf(w, "  max_inline_depth:  %d\n", resolved.MaxInlineDepth)
	if len(resolved.Defines) > 0 {
		fmt.Fprintf(w, "  defines:           %v\n", resolved.Defines)
	}
	if resolved.FileMapPath != "" {
		fmt.Fprintf(w, "  file_map_path:     %s\n", resolved.FileMapPath)
	}
	return nil
}

func payloadFromOptions(o config.Options) OptionsPayload {
	return OptionsPayload{
		TypedArrays:     o.TypedArrays,
		ClampByteArrays: o.ClampByteArrays,
		DebugMode:       o.DebugMode,
		Defines:         o.Defines,
		FileExtension:   o.FileExtension,
		MaxInlineDepth:  o.MaxInlineDepth,
		FileMapPath:     o.FileMapPath,
	}
}
