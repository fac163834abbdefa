package precomp

import (
	"sort"
	"sync"

	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/lower"
)

// Entry is one file-map row: a source path and where its compiled
// form lives.
type Entry struct {
	SourcePath string
	OutputPath string
	RootName   string
}

// Map is the in-memory file map for the current build. Files append
// as they finish; the first record for a path wins and an agreeing
// duplicate is a no-op, so concurrent compilers may race on a key
// without coordination beyond the lock.
type Map struct {
	mu      sync.Mutex
	entries map[string]lower.FileInfo
}

var _ lower.FileMap = (*Map)(nil)

// NewMap returns an empty file map.
func NewMap() *Map {
	return &Map{entries: make(map[string]lower.FileInfo)}
}

// Lookup resolves a source path recorded earlier.
func (m *Map) Lookup(sourcePath string) (lower.FileInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.entries[sourcePath]
	return info, ok
}

// Record stores a source path's resolution. Re-recording the same
// resolution is idempotent; a conflicting one is a build defect.
func (m *Map) Record(sourcePath string, info lower.FileInfo) error {
	if sourcePath == "" || info.OutputPath == "" {
		return diag.New(diag.CodeArtifactEntry,
			"file-map entry needs a source and an output path")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.entries[sourcePath]; ok {
		if prev != info {
			return diag.New(diag.CodeArtifactEntry,
				"%s resolved twice with different results (%s vs %s)",
				sourcePath, prev.OutputPath, info.OutputPath)
		}
		return nil
	}
	m.entries[sourcePath] = info
	return nil
}

// Len reports the number of recorded files.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Entries returns every row sorted by source path.
func (m *Map) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, 0, len(m.entries))
	for path, info := range m.entries {
		out = append(out, Entry{
			SourcePath: path,
			OutputPath: info.OutputPath,
			RootName:   info.RootName,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourcePath < out[j].SourcePath })
	return out
}

// Absorb copies another map's entries into this one. Existing paths
// keep their resolution; a conflicting duplicate is an error naming
// the path.
func (m *Map) Absorb(other *Map) error {
	for _, e := range other.Entries() {
		err := m.Record(e.SourcePath, lower.FileInfo{
			OutputPath: e.OutputPath,
			RootName:   e.RootName,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
