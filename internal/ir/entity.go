package ir

import (
	"strings"
	"sync"

	"github.com/johngalambos/Fable/internal/source"
)

// EntityKind classifies lowered entities.
type EntityKind uint8

const (
	EntityModule EntityKind = iota
	EntityUnion
	EntityRecord
	EntityClass
	EntityException
	EntityInterface
)

func (k EntityKind) String() string {
	switch k {
	case EntityModule:
		return "module"
	case EntityUnion:
		return "union"
	case EntityRecord:
		return "record"
	case EntityClass:
		return "class"
	case EntityException:
		return "exception"
	case EntityInterface:
		return "interface"
	}
	return "unknown"
}

// UnionStyle selects the runtime representation of a union type.
type UnionStyle uint8

const (
	// StyleTagged is the general representation: a tag plus a
	// positional fields array.
	StyleTagged UnionStyle = iota
	// StyleOption wraps values that could themselves be null in a
	// single-field object; plain values pass through and the absent
	// case is null.
	StyleOption
	// StyleErased drops the constructor entirely: the single field
	// stands for the whole value.
	StyleErased
	// StyleKeyValue represents each case as a name/value pair; a
	// static literal list of pairs collapses to an object literal.
	StyleKeyValue
	// StyleStringTag represents each nullary case as its lower-cased
	// name.
	StyleStringTag
	// StyleList is the cons-cell representation of the builtin list.
	StyleList
)

func (s UnionStyle) String() string {
	switch s {
	case StyleTagged:
		return "tagged"
	case StyleOption:
		return "option"
	case StyleErased:
		return "erased"
	case StyleKeyValue:
		return "key-value"
	case StyleStringTag:
		return "string-tag"
	case StyleList:
		return "list"
	}
	return "unknown"
}

// UnionCase is the lowered shape of one union case: its names and
// field count. Field types stay on the front-end side; the emitter
// needs only the shape.
type UnionCase struct {
	Name         string
	CompiledName string
	Arity        int
}

// OutputName is the name the emitted code uses for the case.
func (c UnionCase) OutputName() string {
	if c.CompiledName != "" {
		return c.CompiledName
	}
	return c.Name
}

// TagName is the case identity under the string-tag style.
func (c UnionCase) TagName() string {
	n := c.OutputName()
	if n == "" {
		return n
	}
	return strings.ToLower(n[:1]) + n[1:]
}

// EntityMember is a member signature hung off an entity, used by
// trait resolution and derivation. Bodies live in declarations.
type EntityMember struct {
	Name       string
	FullName   string
	IsInstance bool
	IsGetter   bool
	IsSetter   bool
	ParamCount int
}

// Entity is the lowered view of a declared type. Instances are
// interned per full name; pointer equality is identity.
type Entity struct {
	FullName  string
	Name      string
	Namespace string
	Kind      EntityKind
	Style     UnionStyle // unions only

	GenericNames []string
	Cases        []UnionCase // unions only
	FieldNames   []string    // records and exceptions
	Interfaces   []string    // declared interface full names
	Range        source.Range

	membersOnce sync.Once
	membersFn   func() []EntityMember
	members     []EntityMember
}

// SetMemberLoader installs the lazy member source. The loader runs at
// most once, on first Members call.
func (e *Entity) SetMemberLoader(fn func() []EntityMember) {
	e.membersFn = fn
}

// Members returns the entity's member signatures, loading them on
// first use.
func (e *Entity) Members() []EntityMember {
	e.membersOnce.Do(func() {
		if e.membersFn != nil {
			e.members = e.membersFn()
			e.membersFn = nil
		}
	})
	return e.members
}

// CaseIndex finds a case by name. Returns -1 when absent.
func (e *Entity) CaseIndex(name string) int {
	for i, c := range e.Cases {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// IsValueType reports whether the entity lowers to structural data
// with no identity (records, erased and option unions).
func (e *Entity) IsValueType() bool {
	if e.Kind == EntityRecord {
		return true
	}
	return e.Kind == EntityUnion && (e.Style == StyleErased || e.Style == StyleOption)
}
