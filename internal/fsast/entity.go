package fsast

import "github.com/johngalambos/Fable/internal/source"

// Attribute full names with structural meaning during lowering.
// The front end reports attributes by constructor full name.
const (
	AttrErase            = "Fable.Core.EraseAttribute"
	AttrStringEnum       = "Fable.Core.StringEnumAttribute"
	AttrKeyValueList     = "Fable.Core.KeyValueListAttribute"
	AttrImport           = "Fable.Core.ImportAttribute"
	AttrGlobal           = "Fable.Core.GlobalAttribute"
	AttrCompiledName     = "Microsoft.FSharp.Core.CompiledNameAttribute"
	AttrCustomEquality   = "Microsoft.FSharp.Core.CustomEqualityAttribute"
	AttrCustomComparison = "Microsoft.FSharp.Core.CustomComparisonAttribute"
	AttrEntryPoint       = "Microsoft.FSharp.Core.EntryPointAttribute"
)

// Attribute is one attribute instance on an entity or member.
type Attribute struct {
	FullName string
	// Args holds the constructor arguments as plain constants
	// (string, float64, bool). Import carries (selector, path).
	Args []any
}

// Entity describes a named type or module-like declaration as the
// front end sees it. Exactly one descriptor exists per full name
// within a front-end session.
type Entity struct {
	FullName  string
	Name      string // compiled (output) name
	Namespace string

	IsModule      bool
	IsUnion       bool
	IsRecord      bool
	IsClass       bool
	IsInterface   bool
	IsException   bool
	IsEnum        bool
	IsAbbrev      bool
	IsMeasure     bool
	IsPublic      bool
	HasImplicitCtor bool

	GenericParams []string
	Attributes    []Attribute

	// Interfaces and BaseType are declared by full name; the
	// descriptors may be absent for externally defined types.
	Interfaces []Type
	BaseType   *Type

	UnionCases []*UnionCase
	Fields     []*Field // record and exception payload fields

	// Members lists the visible members, used by trait resolution.
	Members []*Member

	Range source.Range
}

// HasAttribute reports whether the entity carries the attribute.
func (e *Entity) HasAttribute(fullName string) bool {
	return hasAttribute(e.Attributes, fullName)
}

// TryAttribute returns the first attribute with the given full name.
func (e *Entity) TryAttribute(fullName string) (Attribute, bool) {
	return tryAttribute(e.Attributes, fullName)
}

// UnionCase is one case of a union entity.
type UnionCase struct {
	Name         string
	CompiledName string // Name unless overridden by CompiledName attribute
	Fields       []*Field
	Range        source.Range
}

// OutputName is the name the case compiles to.
func (c *UnionCase) OutputName() string {
	if c.CompiledName != "" {
		return c.CompiledName
	}
	return c.Name
}

// Field is a record field, exception field or union-case payload slot.
type Field struct {
	Name      string
	Type      Type
	IsMutable bool
}

// Member describes a callable or value member of an entity: a method,
// property accessor, constructor or module-level binding.
type Member struct {
	Name         string // compiled name; accessors keep their get_/set_/add_/remove_ prefix
	FullName     string
	DeclaringEntityFullName string

	IsInstance   bool
	IsMutable    bool
	IsGetter     bool
	IsSetter     bool
	IsImplicitCtor bool
	IsCompilerGenerated bool
	IsPublic     bool

	// Inline marks the member for call-site expansion: the member is
	// never emitted standalone and every call re-lowers its body.
	Inline bool

	GenericParams []string
	Attributes    []Attribute

	// ParamTypes are the flattened declared parameter types, without
	// the implicit this argument.
	ParamTypes []Type
	ReturnType Type
}

// HasAttribute reports whether the member carries the attribute.
func (m *Member) HasAttribute(fullName string) bool {
	return hasAttribute(m.Attributes, fullName)
}

// TryAttribute returns the first attribute with the given full name.
func (m *Member) TryAttribute(fullName string) (Attribute, bool) {
	return tryAttribute(m.Attributes, fullName)
}

// Val is a local value: a parameter, a let binding or a pattern
// binding. Identity is pointer identity.
type Val struct {
	Name      string
	Type      Type
	IsMutable bool
	IsCompilerGenerated bool

	// Inline marks a local function binding for call-site expansion,
	// mirroring Member.Inline for let-bound lambdas.
	Inline bool

	Range source.Range
}

func hasAttribute(attrs []Attribute, fullName string) bool {
	for _, a := range attrs {
		if a.FullName == fullName {
			return true
		}
	}
	return false
}

func tryAttribute(attrs []Attribute, fullName string) (Attribute, bool) {
	for _, a := range attrs {
		if a.FullName == fullName {
			return a, true
		}
	}
	return Attribute{}, false
}

// StringArg returns the i-th constructor argument as a string.
// Missing or non-string arguments yield "".
func (a Attribute) StringArg(i int) string {
	if i < 0 || i >= len(a.Args) {
		return ""
	}
	s, _ := a.Args[i].(string)
	return s
}
