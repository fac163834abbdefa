package precomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/lower"
)

func TestMapRecordAndLookup(t *testing.T) {
	m := NewMap()
	require.NoError(t, m.Record("src/Lib.fs", lower.FileInfo{OutputPath: "out/Lib.js", RootName: "Lib"}))

	info, ok := m.Lookup("src/Lib.fs")
	require.True(t, ok)
	assert.Equal(t, "out/Lib.js", info.OutputPath)
	assert.Equal(t, "Lib", info.RootName)

	_, ok = m.Lookup("src/Missing.fs")
	assert.False(t, ok)
}

func TestMapRecordIdempotent(t *testing.T) {
	m := NewMap()
	info := lower.FileInfo{OutputPath: "out/Lib.js", RootName: "Lib"}
	require.NoError(t, m.Record("src/Lib.fs", info))
	require.NoError(t, m.Record("src/Lib.fs", info))
	assert.Equal(t, 1, m.Len())
}

func TestMapRecordConflict(t *testing.T) {
	m := NewMap()
	require.NoError(t, m.Record("src/Lib.fs", lower.FileInfo{OutputPath: "out/Lib.js", RootName: "Lib"}))

	err := m.Record("src/Lib.fs", lower.FileInfo{OutputPath: "out/Other.js", RootName: "Lib"})
	require.Error(t, err)
	assert.Equal(t, diag.CodeArtifactEntry, diag.CodeOf(err))
}

func TestMapRejectsEmptyEntry(t *testing.T) {
	m := NewMap()
	err := m.Record("", lower.FileInfo{OutputPath: "out/x.js"})
	assert.Equal(t, diag.CodeArtifactEntry, diag.CodeOf(err))

	err = m.Record("src/x.fs", lower.FileInfo{})
	assert.Equal(t, diag.CodeArtifactEntry, diag.CodeOf(err))
}

func TestMapEntriesSorted(t *testing.T) {
	m := NewMap()
	require.NoError(t, m.Record("src/b.fs", lower.FileInfo{OutputPath: "out/b.js", RootName: "B"}))
	require.NoError(t, m.Record("src/a.fs", lower.FileInfo{OutputPath: "out/a.js", RootName: "A"}))
	require.NoError(t, m.Record("src/c.fs", lower.FileInfo{OutputPath: "out/c.js", RootName: "C"}))

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "src/a.fs", entries[0].SourcePath)
	assert.Equal(t, "src/b.fs", entries[1].SourcePath)
	assert.Equal(t, "src/c.fs", entries[2].SourcePath)
}

func TestMapAbsorb(t *testing.T) {
	dst := NewMap()
	require.NoError(t, dst.Record("src/a.fs", lower.FileInfo{OutputPath: "out/a.js", RootName: "A"}))

	src := NewMap()
	require.NoError(t, src.Record("src/a.fs", lower.FileInfo{OutputPath: "out/a.js", RootName: "A"}))
	require.NoError(t, src.Record("src/b.fs", lower.FileInfo{OutputPath: "out/b.js", RootName: "B"}))

	require.NoError(t, dst.Absorb(src))
	assert.Equal(t, 2, dst.Len())
}

func TestMapAbsorbConflict(t *testing.T) {
	dst := NewMap()
	require.NoError(t, dst.Record("src/a.fs", lower.FileInfo{OutputPath: "out/a.js", RootName: "A"}))

	src := NewMap()
	require.NoError(t, src.Record("src/a.fs", lower.FileInfo{OutputPath: "out/conflict.js", RootName: "A"}))

	err := dst.Absorb(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src/a.fs")
}

// The lowering stage records into the map through its own interface;
// the compiled file's entry must be visible to a later lookup.
func TestMapServesAsCompilerFileMap(t *testing.T) {
	var fm lower.FileMap = NewMap()
	require.NoError(t, fm.Record("src/Dep.fs", lower.FileInfo{OutputPath: "out/Dep.js", RootName: "Dep"}))

	info, ok := fm.Lookup("src/Dep.fs")
	require.True(t, ok)
	assert.Equal(t, "out/Dep.js", info.OutputPath)
}
