package ir

import "github.com/johngalambos/Fable/internal/source"

// Decl is the sealed interface over file-level declarations.
type Decl interface {
	irDecl() // sealed
	// DeclRange returns the declaration's source range.
	DeclRange() source.Range
}

// ActionDecl is a side-effecting expression run at load time.
type ActionDecl struct {
	Body Expr
	Loc  source.Range
}

// MemberDecl is a function, accessor, constructor or value binding.
// Entity is nil for module-level bindings that attach to no type.
type MemberDecl struct {
	Name     string
	FullName string
	Kind     MemberKind
	Entity   *Entity // nil for free-standing members
	Args     []Ident
	Body     Expr
	Typ      Type

	IsPublic  bool
	IsMutable bool
	IsEntry   bool
	Loc       source.Range
}

// EntityDecl declares a type together with its attached members.
type EntityDecl struct {
	Entity  *Entity
	Members []Decl
	Loc     source.Range
}

func (ActionDecl) irDecl() {}
func (MemberDecl) irDecl() {}
func (EntityDecl) irDecl() {}

func (d ActionDecl) DeclRange() source.Range { return d.Loc }
func (d MemberDecl) DeclRange() source.Range { return d.Loc }
func (d EntityDecl) DeclRange() source.Range { return d.Loc }

// File is one lowered compilation unit, the full payload handed to
// the emitter.
type File struct {
	SourcePath string
	OutputPath string
	Root       string // root namespace or module full name
	Decls      []Decl
	UsedNames  map[string]struct{}

	// IsEntry marks the batch's entry file.
	IsEntry bool
}
