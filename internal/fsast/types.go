package fsast

// TypeKind discriminates the shapes a front-end type can take.
type TypeKind uint8

const (
	// TypeEntity is a named type application: an entity (possibly
	// primitive, identified by full name) with generic arguments.
	TypeEntity TypeKind = iota

	// TypeGeneric is a reference to a generic parameter by name.
	TypeGeneric

	// TypeTuple is a tuple of element types.
	TypeTuple

	// TypeFunc is a single-argument function type: Args[0] -> Args[1].
	// Curried functions nest on the right.
	TypeFunc
)

// Type is a resolved front-end type. The zero value is the unit type
// application with an empty full name; the front end always fills
// FullName for entity applications.
type Type struct {
	Kind TypeKind

	// FullName identifies the entity for TypeEntity kinds. Primitive
	// types carry their library full name (see the Sys* constants)
	// and may leave Entity nil.
	FullName string

	// Entity is the richer descriptor when the front end has one.
	// Optional: primitives and externally referenced types may omit it.
	Entity *Entity

	// Name is the generic parameter name for TypeGeneric kinds.
	Name string

	// Args holds generic arguments (TypeEntity), tuple elements
	// (TypeTuple) or domain and range (TypeFunc).
	Args []Type
}

// Well-known full names the lowering stage recognizes structurally.
const (
	SysUnit     = "Microsoft.FSharp.Core.Unit"
	SysOption   = "Microsoft.FSharp.Core.FSharpOption`1"
	SysList     = "Microsoft.FSharp.Collections.FSharpList`1"
	SysArray    = "System.Array`1"
	SysBool     = "System.Boolean"
	SysChar     = "System.Char"
	SysString   = "System.String"
	SysGuid     = "System.Guid"
	SysObject   = "System.Object"
	SysTimeSpan = "System.TimeSpan"
	SysDateTime = "System.DateTime"
	SysRegex    = "System.Text.RegularExpressions.Regex"
	SysInt8     = "System.SByte"
	SysUInt8    = "System.Byte"
	SysInt16    = "System.Int16"
	SysUInt16   = "System.UInt16"
	SysInt32    = "System.Int32"
	SysUInt32   = "System.UInt32"
	SysInt64    = "System.Int64"
	SysUInt64   = "System.UInt64"
	SysFloat32  = "System.Single"
	SysFloat64  = "System.Double"
	SysDecimal  = "System.Decimal"
)

// EntityType builds a TypeEntity application.
func EntityType(fullName string, ent *Entity, args ...Type) Type {
	return Type{Kind: TypeEntity, FullName: fullName, Entity: ent, Args: args}
}

// GenericType builds a generic-parameter reference.
func GenericType(name string) Type {
	return Type{Kind: TypeGeneric, Name: name}
}

// TupleType builds a tuple type.
func TupleType(elems ...Type) Type {
	return Type{Kind: TypeTuple, Args: elems}
}

// FuncType builds the function type domain -> rng.
func FuncType(domain, rng Type) Type {
	return Type{Kind: TypeFunc, Args: []Type{domain, rng}}
}

// UnitType is the canonical unit type application.
func UnitType() Type {
	return Type{Kind: TypeEntity, FullName: SysUnit}
}

// IsUnit reports whether t is the unit type.
func (t Type) IsUnit() bool {
	return t.Kind == TypeEntity && t.FullName == SysUnit
}

// IsOption reports whether t is the core option type.
func (t Type) IsOption() bool {
	return t.Kind == TypeEntity && t.FullName == SysOption
}

// IsList reports whether t is the core immutable list type.
func (t Type) IsList() bool {
	return t.Kind == TypeEntity && t.FullName == SysList
}

// IsArray reports whether t is the native array type.
func (t Type) IsArray() bool {
	return t.Kind == TypeEntity && t.FullName == SysArray
}

// IsString reports whether t is the string type.
func (t Type) IsString() bool {
	return t.Kind == TypeEntity && t.FullName == SysString
}

// HasGenericParam reports whether t mentions any generic parameter.
// Used to decide whether a local function needs per-call-site
// re-specialization instead of a single lowered copy.
func (t Type) HasGenericParam() bool {
	if t.Kind == TypeGeneric {
		return true
	}
	for _, a := range t.Args {
		if a.HasGenericParam() {
			return true
		}
	}
	return false
}
