package lower

import (
	"strings"

	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// numberKinds maps primitive full names to IR number kinds.
var numberKinds = map[string]ir.NumberKind{
	fsast.SysInt8:    ir.Int8,
	fsast.SysUInt8:   ir.UInt8,
	fsast.SysInt16:   ir.Int16,
	fsast.SysUInt16:  ir.UInt16,
	fsast.SysInt32:   ir.Int32,
	fsast.SysUInt32:  ir.UInt32,
	fsast.SysInt64:   ir.Int64,
	fsast.SysUInt64:  ir.UInt64,
	fsast.SysFloat32: ir.Float32,
	fsast.SysFloat64: ir.Float64,
	fsast.SysDecimal: ir.Decimal,
}

// lowerType converts a front-end type under the active generic
// substitution. Unresolved generic parameters stay symbolic.
func (c *Compiler) lowerType(ctx Context, t fsast.Type) ir.Type {
	switch t.Kind {
	case fsast.TypeGeneric:
		if r, ok := ctx.ResolveGeneric(t.Name); ok {
			// A parameter mapped to itself stays symbolic; anything
			// else resolves recursively.
			if r.Kind == fsast.TypeGeneric && r.Name == t.Name {
				return ir.GenericParam(t.Name)
			}
			return c.lowerType(ctx, r)
		}
		return ir.GenericParam(t.Name)
	case fsast.TypeTuple:
		elems := make([]ir.Type, len(t.Args))
		for i, a := range t.Args {
			elems[i] = c.lowerType(ctx, a)
		}
		return ir.Tuple(elems...)
	case fsast.TypeFunc:
		return ir.Func(c.lowerType(ctx, t.Args[0]), c.lowerType(ctx, t.Args[1]))
	}

	if k, ok := numberKinds[t.FullName]; ok {
		return ir.Number(k)
	}
	switch t.FullName {
	case fsast.SysUnit:
		return ir.Unit()
	case fsast.SysBool:
		return ir.Bool()
	case fsast.SysChar:
		return ir.Char()
	case fsast.SysString, fsast.SysGuid:
		return ir.String()
	case fsast.SysRegex:
		return ir.Regex()
	case fsast.SysObject, "":
		return ir.Any()
	case fsast.SysTimeSpan:
		// Time spans compile to a millisecond count.
		return ir.Number(ir.Float64)
	case fsast.SysArray:
		return ir.Array(c.lowerArg(ctx, t))
	case fsast.SysList:
		return ir.List(c.lowerArg(ctx, t))
	case fsast.SysOption:
		return ir.Option(c.lowerArg(ctx, t))
	}

	args := make([]ir.Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = c.lowerType(ctx, a)
	}
	return ir.Declared(c.entityFor(t.Entity, t.FullName), args...)
}

func (c *Compiler) lowerArg(ctx Context, t fsast.Type) ir.Type {
	if len(t.Args) == 0 {
		return ir.Any()
	}
	return c.lowerType(ctx, t.Args[0])
}

// entityFor converts a front-end entity descriptor, interning the
// result in the shared state. Every caller for one full name gets the
// same pointer. A nil descriptor yields a stub class: externally
// defined types arrive by name only.
func (c *Compiler) entityFor(ent *fsast.Entity, fullName string) *ir.Entity {
	if ent != nil {
		fullName = ent.FullName
	}
	if cached, ok := c.state.entity(fullName); ok {
		return cached
	}
	built := convertEntity(ent, fullName)
	return c.state.storeEntity(built)
}

func convertEntity(ent *fsast.Entity, fullName string) *ir.Entity {
	if ent == nil {
		return &ir.Entity{
			FullName: fullName,
			Name:     shortName(fullName),
			Kind:     ir.EntityClass,
		}
	}

	out := &ir.Entity{
		FullName:     ent.FullName,
		Name:         ent.Name,
		Namespace:    ent.Namespace,
		Kind:         entityKind(ent),
		GenericNames: append([]string(nil), ent.GenericParams...),
		Range:        ent.Range,
	}
	for _, it := range ent.Interfaces {
		out.Interfaces = append(out.Interfaces, it.FullName)
	}
	if out.Kind == ir.EntityUnion {
		out.Style = classifyUnion(ent)
		out.Cases = make([]ir.UnionCase, len(ent.UnionCases))
		for i, uc := range ent.UnionCases {
			out.Cases[i] = ir.UnionCase{
				Name:         uc.Name,
				CompiledName: uc.CompiledName,
				Arity:        len(uc.Fields),
			}
		}
	}
	if out.Kind == ir.EntityRecord || out.Kind == ir.EntityException {
		out.FieldNames = make([]string, len(ent.Fields))
		for i, f := range ent.Fields {
			out.FieldNames[i] = f.Name
		}
	}

	members := ent.Members
	out.SetMemberLoader(func() []ir.EntityMember {
		sigs := make([]ir.EntityMember, len(members))
		for i, m := range members {
			sigs[i] = ir.EntityMember{
				Name:       m.Name,
				FullName:   m.FullName,
				IsInstance: m.IsInstance,
				IsGetter:   m.IsGetter,
				IsSetter:   m.IsSetter,
				ParamCount: len(m.ParamTypes),
			}
		}
		return sigs
	})
	return out
}

func entityKind(ent *fsast.Entity) ir.EntityKind {
	switch {
	case ent.IsUnion:
		return ir.EntityUnion
	case ent.IsRecord:
		return ir.EntityRecord
	case ent.IsException:
		return ir.EntityException
	case ent.IsInterface:
		return ir.EntityInterface
	case ent.IsModule:
		return ir.EntityModule
	default:
		return ir.EntityClass
	}
}

// classifyUnion assigns the representation style that every accessor,
// construction and test of the union must agree with.
func classifyUnion(ent *fsast.Entity) ir.UnionStyle {
	switch {
	case ent.FullName == fsast.SysOption:
		return ir.StyleOption
	case ent.FullName == fsast.SysList:
		return ir.StyleList
	case ent.HasAttribute(fsast.AttrErase):
		return ir.StyleErased
	case ent.HasAttribute(fsast.AttrKeyValueList):
		return ir.StyleKeyValue
	case ent.HasAttribute(fsast.AttrStringEnum):
		return ir.StyleStringTag
	default:
		return ir.StyleTagged
	}
}

func shortName(fullName string) string {
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}

// unionEntity resolves the classified entity behind a union-shaped
// type. Option and list types classify without a descriptor.
func (c *Compiler) unionEntity(t fsast.Type) *ir.Entity {
	switch t.FullName {
	case fsast.SysOption:
		return c.builtinUnion(fsast.SysOption, ir.StyleOption,
			ir.UnionCase{Name: "None"},
			ir.UnionCase{Name: "Some", Arity: 1})
	case fsast.SysList:
		return c.builtinUnion(fsast.SysList, ir.StyleList,
			ir.UnionCase{Name: "Empty"},
			ir.UnionCase{Name: "Cons", Arity: 2})
	}
	return c.entityFor(t.Entity, t.FullName)
}

func (c *Compiler) builtinUnion(fullName string, style ir.UnionStyle, cases ...ir.UnionCase) *ir.Entity {
	if cached, ok := c.state.entity(fullName); ok {
		return cached
	}
	built := &ir.Entity{
		FullName: fullName,
		Name:     shortName(fullName),
		Kind:     ir.EntityUnion,
		Style:    style,
		Cases:    cases,
	}
	return c.state.storeEntity(built)
}
