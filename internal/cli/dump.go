package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/harness"
	"github.com/johngalambos/Fable/internal/ir"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	List        bool // list registered fixtures instead of dumping
	Fingerprint bool // print only the fingerprint
}

// FixtureDump is the payload for one lowered fixture.
type FixtureDump struct {
	Fixture     string   `json:"fixture"`
	Root        string   `json:"root"`
	OutputPath  string   `json:"output_path"`
	Fingerprint string   `json:"fingerprint"`
	Decls       []string `json:"decls,omitempty"`
	Canonical   string   `json:"canonical"`
}

// FixtureInfo describes one registered fixture.
type FixtureInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <fixture>",
		Short: "Lower a fixture and print its canonical form",
		Long: `Lower a registered fixture under default options and print the
canonical text form of the result, with its content fingerprint.

The canonical form is the deterministic rendering golden tests
compare against; the fingerprint is its hash.

Exit codes:
  0 - Fixture lowered
  1 - Lowering reported a diagnostic
  2 - Command error (unknown fixture)

Examples:
  fable dump pipeline-basics
  fable dump option-fallback --fingerprint
  fable dump --list
  fable dump shape-records --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.List {
				return runDumpList(opts, cmd)
			}
			if len(args) != 1 {
				return NewExitError(ExitCommandError, "fixture name required (or --list)")
			}
			return runDump(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.List, "list", false, "list registered fixtures")
	cmd.Flags().BoolVar(&opts.Fingerprint, "fingerprint", false, "print only the fingerprint")

	return cmd
}

func runDumpList(opts *DumpOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	infos := make([]FixtureInfo, 0, len(harness.Names()))
	for _, name := range harness.Names() {
		fix, _ := harness.Lookup(name)
		infos = append(infos, FixtureInfo{Name: name, Description: fix.Description})
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%-18s %s\n", info.Name, info.Description)
	}
	return nil
}

func runDump(opts *DumpOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, ok := harness.Lookup(name); !ok {
		msg := fmt.Sprintf("unknown fixture %q (try --list)", name)
		_ = formatter.Error(ErrCodeNotFound, msg, harness.Names())
		return NewExitError(ExitCommandError, msg)
	}

	file, err := harness.MustFile(name)
	if err != nil {
		code := ErrCodeGeneric
		var de *diag.Error
		if errors.As(err, &de) {
			code = MapDiagToErrorCode(de.Code)
		}
		_ = formatter.Error(code, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	formatter.VerboseLog("Lowered %s: %d declaration(s)", name, len(file.Decls))

	dump := FixtureDump{
		Fixture:     name,
		Root:        file.Root,
		OutputPath:  file.OutputPath,
		Fingerprint: ir.FileFingerprint(file),
		Decls:       harness.DeclNames(file.Decls),
		Canonical:   ir.CanonicalFile(file),
	}

	if opts.Fingerprint {
		if formatter.Format == "json" {
			return formatter.Success(map[string]string{"fixture": name, "fingerprint": dump.Fingerprint})
		}
		fmt.Fprintln(formatter.Writer, dump.Fingerprint)
		return nil
	}

	if formatter.Format == "json" {
		return formatter.Success(dump)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "fingerprint %s\n", dump.Fingerprint)
	fmt.Fprint(w, dump.Canonical)
	return nil
}
