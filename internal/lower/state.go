package lower

import (
	"sync"

	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// FileInfo is one cross-project file-map entry.
type FileInfo struct {
	OutputPath string
	RootName   string
}

// FileMap resolves source paths of files compiled earlier in this
// build or by a referenced project's build. Implementations must be
// safe for concurrent use.
type FileMap interface {
	Lookup(sourcePath string) (FileInfo, bool)
	Record(sourcePath string, info FileInfo) error
}

// inlineEntry caches an inline-marked member for call-site expansion.
// The body stays unlowered; refCounts drive argument binding at each
// expansion site.
type inlineEntry struct {
	member    *fsast.Member
	thisVal   *fsast.Val
	params    []*fsast.Val
	refCounts map[*fsast.Val]int
	body      fsast.Expr
}

// State holds the caches shared by every Compiler in one build:
// converted entities, inline bodies and the cross-project file map.
// All values for one key are equal, so a racing double computation
// wastes work but never corrupts (first insert wins, later writers
// adopt the stored value).
type State struct {
	mu       sync.Mutex
	entities map[string]*ir.Entity
	inlines  map[string]*inlineEntry
	fileMap  FileMap
}

// NewState returns an empty shared state.
func NewState() *State {
	return &State{
		entities: make(map[string]*ir.Entity),
		inlines:  make(map[string]*inlineEntry),
	}
}

// SetFileMap installs the cross-project file map. Nil disables
// cross-file path resolution.
func (s *State) SetFileMap(m FileMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileMap = m
}

// FileMap returns the installed file map, which may be nil.
func (s *State) FileMap() FileMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileMap
}

func (s *State) entity(fullName string) (*ir.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[fullName]
	return e, ok
}

// storeEntity inserts e unless another conversion won the race, and
// returns the stored descriptor either way. Callers must use the
// return value, not their argument.
func (s *State) storeEntity(e *ir.Entity) *ir.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.entities[e.FullName]; ok {
		return prev
	}
	s.entities[e.FullName] = e
	return e
}

func (s *State) inline(fullName string) (*inlineEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.inlines[fullName]
	return e, ok
}

func (s *State) storeInline(fullName string, e *inlineEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inlines[fullName]; !ok {
		s.inlines[fullName] = e
	}
}
