package fsast

import "github.com/johngalambos/Fable/internal/source"

// File is one front-end compilation unit: the source path plus the
// rooted declaration list.
type File struct {
	SourcePath string

	// RootFullName is the full name of the file's root module.
	RootFullName string

	Decls []Decl
}

// Decl is the sealed interface over front-end declarations.
type Decl interface {
	declNode() // sealed
	DeclRange() source.Range
}

// EntityDecl introduces an entity and its lexically nested
// declarations. Members may still arrive outside this subtree with
// their DeclaringEntityFullName pointing back in.
type EntityDecl struct {
	Entity *Entity
	Decls  []Decl
	Range  source.Range
}

func (EntityDecl) declNode()                 {}
func (d EntityDecl) DeclRange() source.Range { return d.Range }

// MemberDecl is a member body: a method, accessor, constructor or
// module-level binding. Args are the flattened parameter values; for
// instance members the this value is separate in ThisVal.
type MemberDecl struct {
	Member  *Member
	ThisVal *Val // nil for static members
	Args    []*Val
	Body    Expr
	Range   source.Range
}

func (MemberDecl) declNode()                 {}
func (d MemberDecl) DeclRange() source.Range { return d.Range }

// InitDecl is a top-level effectful action run at module load.
type InitDecl struct {
	Body  Expr
	Range source.Range
}

func (InitDecl) declNode()                 {}
func (d InitDecl) DeclRange() source.Range { return d.Range }
