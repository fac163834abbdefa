package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johngalambos/Fable/internal/lower"
)

func TestFilemap_Inspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.fablemap")
	writeArtifact(t, path, map[string]lower.FileInfo{
		"src/Lib.fs":  {OutputPath: "src/Lib.js", RootName: "Lib"},
		"src/Util.fs": {OutputPath: "src/Util.js", RootName: "Util"},
	})

	stdout, _, err := executeCommand(t, "filemap", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, path)
	assert.Contains(t, stdout, "2 file(s)")
	assert.Contains(t, stdout, "src/Lib.fs -> src/Lib.js (Lib)")
	assert.Contains(t, stdout, "src/Util.fs -> src/Util.js (Util)")
	assert.Contains(t, stdout, "build ")
}

func TestFilemap_InspectJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.fablemap")
	writeArtifact(t, path, map[string]lower.FileInfo{
		"src/Lib.fs": {OutputPath: "src/Lib.js", RootName: "Lib"},
	})

	stdout, _, err := executeCommand(t, "filemap", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   []ArtifactSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, path, resp.Data[0].Path)
	assert.Equal(t, 1, resp.Data[0].Files)
	assert.NotEmpty(t, resp.Data[0].BuildID)
	require.Len(t, resp.Data[0].Entries, 1)
	assert.Equal(t, "src/Lib.fs", resp.Data[0].Entries[0].Source)
}

func TestFilemap_Merge(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "lib.fablemap")
	appPath := filepath.Join(dir, "app.fablemap")
	writeArtifact(t, libPath, map[string]lower.FileInfo{
		"src/Lib.fs": {OutputPath: "src/Lib.js", RootName: "Lib"},
	})
	writeArtifact(t, appPath, map[string]lower.FileInfo{
		"src/App.fs": {OutputPath: "src/App.js", RootName: "App"},
	})

	mergedPath := filepath.Join(dir, "merged.fablemap")
	stdout, _, err := executeCommand(t, "filemap", libPath, appPath, "-o", mergedPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Merged 2 artifact(s)")
	assert.Contains(t, stdout, "2 files")

	// The merged artifact resolves both projects' paths.
	result, errs := LoadArtifacts(context.Background(), []string{mergedPath}, LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, result.Artifacts, 1)
	assert.Equal(t, 2, result.Artifacts[0].Map.Len())
	assert.True(t, result.Artifacts[0].Stamped)
}

func TestFilemap_MergeAgreeingDuplicate(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.fablemap")
	bPath := filepath.Join(dir, "b.fablemap")
	shared := map[string]lower.FileInfo{
		"src/Shared.fs": {OutputPath: "src/Shared.js", RootName: "Shared"},
	}
	writeArtifact(t, aPath, shared)
	writeArtifact(t, bPath, shared)

	mergedPath := filepath.Join(dir, "merged.fablemap")
	stdout, _, err := executeCommand(t, "filemap", aPath, bPath, "-o", mergedPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 files")
}

func TestFilemap_MergeConflict(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.fablemap")
	bPath := filepath.Join(dir, "b.fablemap")
	writeArtifact(t, aPath, map[string]lower.FileInfo{
		"src/Lib.fs": {OutputPath: "src/Lib.js", RootName: "Lib"},
	})
	writeArtifact(t, bPath, map[string]lower.FileInfo{
		"src/Lib.fs": {OutputPath: "out/Lib.js", RootName: "Lib"},
	})

	mergedPath := filepath.Join(dir, "merged.fablemap")
	stdout, _, err := executeCommand(t, "filemap", aPath, bPath, "-o", mergedPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "E105")
}

func TestFilemap_MissingArtifact(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.fablemap")

	stdout, _, err := executeCommand(t, "filemap", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "E005")
}
