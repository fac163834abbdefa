package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/johngalambos/Fable/internal/precomp"
)

// FilemapOptions holds flags for the filemap command.
type FilemapOptions struct {
	*RootOptions
	Output string // path of the merged artifact to write
}

// ArtifactSummary is the payload describing one artifact.
type ArtifactSummary struct {
	Path      string         `json:"path"`
	BuildID   string         `json:"build_id,omitempty"`
	IRVersion string         `json:"ir_version,omitempty"`
	Stage     string         `json:"stage,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	Files     int            `json:"files"`
	Entries   []EntrySummary `json:"entries,omitempty"`
}

// EntrySummary is one file-map row.
type EntrySummary struct {
	Source string `json:"source"`
	Output string `json:"output"`
	Root   string `json:"root"`
}

// MergeSummary is the payload for a completed merge.
type MergeSummary struct {
	Output    string `json:"output"`
	Artifacts int    `json:"artifacts"`
	Files     int    `json:"files"`
}

// NewFilemapCommand creates the filemap command.
func NewFilemapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilemapOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filemap <artifact> [artifact...]",
		Short: "Inspect or merge file-map artifacts",
		Long: `Inspect the file-map artifacts referenced projects publish, or merge
several of them into one artifact for a downstream build.

Without --output, prints each artifact's build stamp and entries.
With --output, absorbs every input map into a fresh artifact; two
inputs resolving one source path differently is a conflict.

Exit codes:
  0 - Inspection or merge succeeded
  1 - Conflicting entries between artifacts
  2 - Command error (artifact missing or unreadable)

Examples:
  fable filemap ./out/lib.fablemap
  fable filemap ./out/lib.fablemap ./out/app.fablemap -o ./out/merged.fablemap
  fable filemap ./out/lib.fablemap --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilemap(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write a merged artifact to this path")

	return cmd
}

func runFilemap(opts *FilemapOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadArtifacts(cmd.Context(), paths, LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
			return NewExitError(ExitCommandError, loadErr.Error())
		}
		_ = formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	for _, a := range loadResult.Artifacts {
		formatter.VerboseLog("Loaded %s: %d file(s)", a.Path, a.Map.Len())
	}

	if opts.Output != "" {
		return mergeArtifacts(cmd.Context(), opts, formatter, loadResult)
	}
	return inspectArtifacts(formatter, loadResult)
}

// inspectArtifacts prints each artifact's stamp and entries.
func inspectArtifacts(formatter *OutputFormatter, loadResult *LoadResult) error {
	summaries := make([]ArtifactSummary, 0, len(loadResult.Artifacts))
	for _, a := range loadResult.Artifacts {
		summaries = append(summaries, summarizeArtifact(a))
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	w := formatter.Writer
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", s.Path)
		if s.BuildID != "" {
			fmt.Fprintf(w, "  build %s  ir %s  stage %s  at %s\n", s.BuildID, s.IRVersion, s.Stage, s.CreatedAt)
		} else {
			fmt.Fprintln(w, "  unstamped")
		}
		fmt.Fprintf(w, "  %d file(s)\n", s.Files)
		for _, e := range s.Entries {
			fmt.Fprintf(w, "  %s -> %s (%s)\n", e.Source, e.Output, e.Root)
		}
	}
	return nil
}

// mergeArtifacts absorbs every input map into one artifact stamped
// for this run.
func mergeArtifacts(ctx context.Context, opts *FilemapOptions, formatter *OutputFormatter, loadResult *LoadResult) error {
	merged := precomp.NewMap()
	for _, a := range loadResult.Artifacts {
		if err := merged.Absorb(a.Map); err != nil {
			loadErr := convertDiagError(err, a.Path)
			_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
			// A conflict is a data-level failure, not a command error.
			return NewExitError(ExitFailure, loadErr.Error())
		}
	}

	art, err := precomp.Open(opts.Output)
	if err != nil {
		loadErr := convertDiagError(err, opts.Output)
		_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
		return NewExitError(ExitCommandError, loadErr.Error())
	}
	defer art.Close()

	if err := art.Save(ctx, merged, precomp.NewStamp()); err != nil {
		loadErr := convertDiagError(err, opts.Output)
		_ = formatter.Error(ErrCodeWriteFailed, loadErr.Error(), nil)
		return NewExitError(ExitCommandError, loadErr.Error())
	}

	summary := MergeSummary{
		Output:    opts.Output,
		Artifacts: len(loadResult.Artifacts),
		Files:     merged.Len(),
	}
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ Merged %d artifact(s) into %s (%d files)\n",
		summary.Artifacts, summary.Output, summary.Files)
	return nil
}

// summarizeArtifact flattens one loaded artifact for output.
func summarizeArtifact(a LoadedArtifact) ArtifactSummary {
	s := ArtifactSummary{
		Path:  a.Path,
		Files: a.Map.Len(),
	}
	if a.Stamped {
		s.BuildID = a.Stamp.BuildID
		s.IRVersion = a.Stamp.IRVersion
		s.Stage = a.Stamp.Stage
		s.CreatedAt = a.Stamp.CreatedAt.Format(time.RFC3339)
	}
	for _, e := range a.Map.Entries() {
		s.Entries = append(s.Entries, EntrySummary{
			Source: e.SourcePath,
			Output: e.OutputPath,
			Root:   e.RootName,
		})
	}
	return s
}
