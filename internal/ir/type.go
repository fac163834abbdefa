package ir

import "strings"

// TypeKind discriminates resolved IR types.
type TypeKind uint8

const (
	TypeAny TypeKind = iota
	TypeUnit
	TypeBool
	TypeChar
	TypeString
	TypeRegex
	TypeNumber
	TypeArray
	TypeList
	TypeOption
	TypeTuple
	TypeFunc
	TypeGenericParam
	TypeDeclared
	TypeMeta // a type used as a value
)

// NumberKind is the numeric width and signedness of a TypeNumber.
type NumberKind uint8

const (
	Int8 NumberKind = iota
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float32
	Float64
	Decimal
)

// numberNames is indexed by NumberKind.
var numberNames = [...]string{
	"int8", "uint8", "int16", "uint16", "int32", "uint32",
	"int64", "uint64", "float32", "float64", "decimal",
}

// String returns the lowercase name of the number kind.
func (k NumberKind) String() string {
	if int(k) < len(numberNames) {
		return numberNames[k]
	}
	return "number"
}

// IsInteger reports whether the kind is an integral width.
func (k NumberKind) IsInteger() bool {
	return k <= UInt64
}

// Type is a resolved IR type. Types are values; equality is
// structural via Equal.
type Type struct {
	Kind   TypeKind
	Number NumberKind // TypeNumber only

	// Name is the generic parameter name for TypeGenericParam.
	Name string

	// Entity identifies a TypeDeclared application.
	Entity *Entity

	// Args holds the element type (array, list, option), tuple
	// elements, function domain then range, declared-type generic
	// arguments, or the subject type of a TypeMeta.
	Args []Type
}

// Convenience constructors for the common shapes.

func Any() Type                   { return Type{Kind: TypeAny} }
func Unit() Type                  { return Type{Kind: TypeUnit} }
func Bool() Type                  { return Type{Kind: TypeBool} }
func Char() Type                  { return Type{Kind: TypeChar} }
func String() Type                { return Type{Kind: TypeString} }
func Regex() Type                 { return Type{Kind: TypeRegex} }
func Number(k NumberKind) Type    { return Type{Kind: TypeNumber, Number: k} }
func Array(elem Type) Type        { return Type{Kind: TypeArray, Args: []Type{elem}} }
func List(elem Type) Type         { return Type{Kind: TypeList, Args: []Type{elem}} }
func Option(elem Type) Type       { return Type{Kind: TypeOption, Args: []Type{elem}} }
func Tuple(elems ...Type) Type    { return Type{Kind: TypeTuple, Args: elems} }
func Func(domain, rng Type) Type  { return Type{Kind: TypeFunc, Args: []Type{domain, rng}} }
func GenericParam(n string) Type  { return Type{Kind: TypeGenericParam, Name: n} }
func Meta(subject Type) Type      { return Type{Kind: TypeMeta, Args: []Type{subject}} }

// Declared builds a declared-type application.
func Declared(ent *Entity, args ...Type) Type {
	return Type{Kind: TypeDeclared, Entity: ent, Args: args}
}

// Elem returns the single element type of arrays, lists and options,
// or Any when absent.
func (t Type) Elem() Type {
	if len(t.Args) == 1 {
		return t.Args[0]
	}
	return Any()
}

// Equal reports structural type equality. Declared types compare by
// entity full name plus generic arguments.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case TypeNumber:
		if t.Number != other.Number {
			return false
		}
	case TypeGenericParam:
		if t.Name != other.Name {
			return false
		}
	case TypeDeclared:
		if t.entityFullName() != other.entityFullName() {
			return false
		}
	}
	if len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// CompatibleWith reports whether a value of type other can flow where
// t is declared. Any and generic parameters accept everything; the
// rest compares structurally. Used for trait-call disambiguation.
func (t Type) CompatibleWith(other Type) bool {
	if t.Kind == TypeAny || other.Kind == TypeAny {
		return true
	}
	if t.Kind == TypeGenericParam || other.Kind == TypeGenericParam {
		return true
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case TypeNumber:
		if t.Number != other.Number {
			return false
		}
	case TypeDeclared:
		if t.entityFullName() != other.entityFullName() {
			return false
		}
	}
	if len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].CompatibleWith(other.Args[i]) {
			return false
		}
	}
	return true
}

func (t Type) entityFullName() string {
	if t.Entity == nil {
		return ""
	}
	return t.Entity.FullName
}

// String renders the type compactly for diagnostics and the canonical
// form: "number:int32", "array<string>", "decl:Lib.Shape<'a>".
func (t Type) String() string {
	switch t.Kind {
	case TypeAny:
		return "any"
	case TypeUnit:
		return "unit"
	case TypeBool:
		return "bool"
	case TypeChar:
		return "char"
	case TypeString:
		return "string"
	case TypeRegex:
		return "regex"
	case TypeNumber:
		return "number:" + t.Number.String()
	case TypeArray:
		return "array<" + t.Elem().String() + ">"
	case TypeList:
		return "list<" + t.Elem().String() + ">"
	case TypeOption:
		return "option<" + t.Elem().String() + ">"
	case TypeTuple:
		return "tuple<" + joinTypes(t.Args) + ">"
	case TypeFunc:
		return "func<" + joinTypes(t.Args) + ">"
	case TypeGenericParam:
		return "'" + t.Name
	case TypeDeclared:
		s := "decl:" + t.entityFullName()
		if len(t.Args) > 0 {
			s += "<" + joinTypes(t.Args) + ">"
		}
		return s
	case TypeMeta:
		return "meta<" + joinTypes(t.Args) + ">"
	default:
		return "any"
	}
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}
