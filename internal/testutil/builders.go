// Package testutil builds front-end trees for tests. The builders
// cover the shapes the lowering tests exercise; anything unusual is
// spelled out as a struct literal at the call site.
package testutil

import (
	"fmt"

	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/source"
)

// At is a one-line source range for loc assertions.
func At(line int) source.Range {
	return source.NewRange(line, 1, line, 80)
}

// --- types ---

func TInt() fsast.Type    { return fsast.EntityType(fsast.SysInt32, nil) }
func TInt64() fsast.Type  { return fsast.EntityType(fsast.SysInt64, nil) }
func TFloat() fsast.Type  { return fsast.EntityType(fsast.SysFloat64, nil) }
func TString() fsast.Type { return fsast.EntityType(fsast.SysString, nil) }
func TBool() fsast.Type   { return fsast.EntityType(fsast.SysBool, nil) }
func TChar() fsast.Type   { return fsast.EntityType(fsast.SysChar, nil) }
func TUnit() fsast.Type   { return fsast.UnitType() }
func TAny() fsast.Type    { return fsast.EntityType(fsast.SysObject, nil) }

func TOption(elem fsast.Type) fsast.Type {
	return fsast.EntityType(fsast.SysOption, nil, elem)
}

func TList(elem fsast.Type) fsast.Type {
	return fsast.EntityType(fsast.SysList, nil, elem)
}

func TArray(elem fsast.Type) fsast.Type {
	return fsast.EntityType(fsast.SysArray, nil, elem)
}

func TFunc(domain, rng fsast.Type) fsast.Type {
	return fsast.FuncType(domain, rng)
}

func TGeneric(name string) fsast.Type {
	return fsast.GenericType(name)
}

// TOf types an expression with a declared entity.
func TOf(ent *fsast.Entity, args ...fsast.Type) fsast.Type {
	return fsast.EntityType(ent.FullName, ent, args...)
}

// --- constants and values ---

func Int(v int64) fsast.Const {
	return fsast.Const{Typ: TInt(), Value: v}
}

func Float(v float64) fsast.Const {
	return fsast.Const{Typ: TFloat(), Value: v}
}

func Str(s string) fsast.Const {
	return fsast.Const{Typ: TString(), Value: s}
}

func Bool(b bool) fsast.Const {
	return fsast.Const{Typ: TBool(), Value: b}
}

func Unit() fsast.Const {
	return fsast.Const{Typ: TUnit()}
}

func Null(t fsast.Type) fsast.Const {
	return fsast.Const{Typ: t}
}

// Val declares a local value.
func Val(name string, t fsast.Type) *fsast.Val {
	return &fsast.Val{Name: name, Type: t}
}

// MutableVal declares a mutable local value.
func MutableVal(name string, t fsast.Type) *fsast.Val {
	return &fsast.Val{Name: name, Type: t, IsMutable: true}
}

// Ref reads a declared value.
func Ref(v *fsast.Val) fsast.ValueRef {
	return fsast.ValueRef{Typ: v.Type, Val: v}
}

// --- expressions ---

func LambdaOf(param *fsast.Val, body fsast.Expr) fsast.Lambda {
	return fsast.Lambda{
		Typ:   fsast.FuncType(param.Type, body.NodeType()),
		Param: param,
		Body:  body,
	}
}

func ApplyOf(fn fsast.Expr, args ...fsast.Expr) fsast.Apply {
	typ := fn.NodeType()
	for range args {
		if len(typ.Args) == 2 {
			typ = typ.Args[1]
		}
	}
	return fsast.Apply{Typ: typ, Fn: fn, Args: args}
}

func LetOf(v *fsast.Val, value, body fsast.Expr) fsast.Let {
	return fsast.Let{Typ: body.NodeType(), Var: v, Value: value, Body: body}
}

func SeqOf(first, second fsast.Expr) fsast.Sequential {
	return fsast.Sequential{Typ: second.NodeType(), First: first, Second: second}
}

func IfOf(cond, then, els fsast.Expr) fsast.IfThenElse {
	return fsast.IfThenElse{Typ: then.NodeType(), Cond: cond, Then: then, Else: els}
}

// CallOf invokes a member on an optional receiver.
func CallOf(m *fsast.Member, obj fsast.Expr, args ...fsast.Expr) fsast.Call {
	return fsast.Call{Typ: m.ReturnType, Obj: obj, Member: m, Args: args}
}

// --- entities and members ---

// Case declares a union case with positional payload fields f0, f1...
func Case(name string, fieldTypes ...fsast.Type) *fsast.UnionCase {
	fields := make([]*fsast.Field, len(fieldTypes))
	for i, t := range fieldTypes {
		fields[i] = &fsast.Field{Name: fmt.Sprintf("f%d", i), Type: t}
	}
	return &fsast.UnionCase{Name: name, Fields: fields}
}

// UnionEntity declares a public union type.
func UnionEntity(fullName string, cases ...*fsast.UnionCase) *fsast.Entity {
	return &fsast.Entity{
		FullName:   fullName,
		Name:       shortName(fullName),
		IsUnion:    true,
		IsPublic:   true,
		UnionCases: cases,
	}
}

// RecordEntity declares a public record type.
func RecordEntity(fullName string, fields ...*fsast.Field) *fsast.Entity {
	return &fsast.Entity{
		FullName: fullName,
		Name:     shortName(fullName),
		IsRecord: true,
		IsPublic: true,
		Fields:   fields,
	}
}

// ModuleEntity declares a public grouping module.
func ModuleEntity(fullName string) *fsast.Entity {
	return &fsast.Entity{
		FullName: fullName,
		Name:     shortName(fullName),
		IsModule: true,
		IsPublic: true,
	}
}

// FieldOf declares a named record field.
func FieldOf(name string, t fsast.Type) *fsast.Field {
	return &fsast.Field{Name: name, Type: t}
}

// Method declares a public static method member.
func Method(declaring, name string, ret fsast.Type, params ...fsast.Type) *fsast.Member {
	return &fsast.Member{
		Name:                    name,
		FullName:                declaring + "." + name,
		DeclaringEntityFullName: declaring,
		IsPublic:                true,
		ParamTypes:              params,
		ReturnType:              ret,
	}
}

// InstanceMethod declares a public instance method member.
func InstanceMethod(declaring, name string, ret fsast.Type, params ...fsast.Type) *fsast.Member {
	m := Method(declaring, name, ret, params...)
	m.IsInstance = true
	return m
}

// Getter declares an instance property getter named get_<prop>.
func Getter(declaring, prop string, ret fsast.Type) *fsast.Member {
	m := Method(declaring, "get_"+prop, ret)
	m.IsInstance = true
	m.IsGetter = true
	return m
}

// Setter declares an instance property setter named set_<prop>.
func Setter(declaring, prop string, t fsast.Type) *fsast.Member {
	m := Method(declaring, "set_"+prop, TUnit(), t)
	m.IsInstance = true
	m.IsSetter = true
	return m
}

// --- declarations and files ---

// Binding declares a module-level value member with a body.
func Binding(declaring, name string, body fsast.Expr) fsast.MemberDecl {
	return fsast.MemberDecl{
		Member: Method(declaring, name, body.NodeType()),
		Body:   body,
	}
}

// FuncDecl declares a module-level function member with parameters.
func FuncDecl(declaring, name string, args []*fsast.Val, body fsast.Expr) fsast.MemberDecl {
	params := make([]fsast.Type, len(args))
	for i, a := range args {
		params[i] = a.Type
	}
	return fsast.MemberDecl{
		Member: Method(declaring, name, body.NodeType(), params...),
		Args:   args,
		Body:   body,
	}
}

// EntityDeclOf nests declarations under an entity.
func EntityDeclOf(ent *fsast.Entity, decls ...fsast.Decl) fsast.EntityDecl {
	return fsast.EntityDecl{Entity: ent, Decls: decls}
}

// FileOf assembles a compilation unit rooted at root.
func FileOf(sourcePath, root string, decls ...fsast.Decl) *fsast.File {
	return &fsast.File{SourcePath: sourcePath, RootFullName: root, Decls: decls}
}

func shortName(fullName string) string {
	for i := len(fullName) - 1; i >= 0; i-- {
		if fullName[i] == '.' {
			return fullName[i+1:]
		}
	}
	return fullName
}
