package lower

import (
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// deriveMembers synthesizes the members every live entity carries
// beyond its declared ones: construction, reflection helpers and
// structural equality. Styles without a runtime class derive
// nothing.
func (c *Compiler) deriveMembers(ent *ir.Entity, fs *fsast.Entity) []ir.Decl {
	if fs == nil {
		return nil
	}
	switch ent.Kind {
	case ir.EntityUnion:
		if ent.Style != ir.StyleTagged {
			return nil
		}
		return c.deriveUnion(ent, fs)
	case ir.EntityRecord:
		return c.deriveRecordLike(ent, fs, "FSharpRecord")
	case ir.EntityException:
		return c.deriveRecordLike(ent, fs, "FSharpException")
	case ir.EntityClass:
		return c.deriveClass(ent, fs)
	}
	return nil
}

func (c *Compiler) deriveUnion(ent *ir.Entity, fs *fsast.Entity) []ir.Decl {
	tag := ir.Ident{Name: "tag", Typ: ir.Number(ir.Int32)}
	fields := ir.Ident{Name: "fields", Typ: ir.Array(ir.Any())}
	ctor := ir.Seq(
		ir.Set{Callee: thisRef(), Prop: ir.Str("tag"), Value: ir.IdentOf(tag, nil)},
		ir.Set{Callee: thisRef(), Prop: ir.Str("fields"), Value: ir.IdentOf(fields, nil)},
	)

	caseNames := make([]ir.Expr, len(ent.Cases))
	for i, uc := range ent.Cases {
		caseNames[i] = ir.Str(uc.Name)
	}

	decls := []ir.Decl{
		c.derived(ent, fs, ".ctor", ir.MemberConstructor, []ir.Ident{tag, fields}, ctor),
		c.derived(ent, fs, "cases", ir.MemberMethod, nil,
			ir.ConstructArray(caseNames, ir.String())),
		c.derived(ent, fs, "fullName", ir.MemberGetter, nil, ir.Str(ent.FullName)),
		c.derived(ent, fs, "interfaces", ir.MemberMethod, nil,
			interfaceList(ent, "FSharpUnion")),
	}
	decls = append(decls, c.deriveEquality(ent, fs, "equalsUnions", "compareUnions")...)
	return decls
}

func (c *Compiler) deriveRecordLike(ent *ir.Entity, fs *fsast.Entity, marker string) []ir.Decl {
	params := make([]ir.Ident, len(fs.Fields))
	assigns := make([]ir.Expr, len(fs.Fields))
	for i, f := range fs.Fields {
		params[i] = ir.Ident{Name: sanitizeName(f.Name), Typ: c.lowerType(NewContext(), f.Type)}
		assigns[i] = ir.Set{
			Callee: thisRef(),
			Prop:   ir.Str(f.Name),
			Value:  ir.IdentOf(params[i], nil),
		}
	}

	fieldNames := make([]ir.Expr, len(ent.FieldNames))
	for i, n := range ent.FieldNames {
		fieldNames[i] = ir.Str(n)
	}

	decls := []ir.Decl{
		c.derived(ent, fs, ".ctor", ir.MemberConstructor, params, ir.Seq(assigns...)),
		c.derived(ent, fs, "properties", ir.MemberMethod, nil,
			ir.ConstructArray(fieldNames, ir.String())),
		c.derived(ent, fs, "fullName", ir.MemberGetter, nil, ir.Str(ent.FullName)),
		c.derived(ent, fs, "interfaces", ir.MemberMethod, nil,
			interfaceList(ent, marker)),
	}
	decls = append(decls, c.deriveEquality(ent, fs, "equalsRecords", "compareRecords")...)
	return decls
}

func (c *Compiler) deriveClass(ent *ir.Entity, fs *fsast.Entity) []ir.Decl {
	decls := []ir.Decl{
		c.derived(ent, fs, "fullName", ir.MemberGetter, nil, ir.Str(ent.FullName)),
	}
	if len(ent.Interfaces) > 0 || fs.BaseType != nil {
		decls = append(decls, c.derived(ent, fs, "interfaces", ir.MemberMethod, nil,
			interfaceList(ent, "")))
	}
	return decls
}

// deriveEquality emits the structural Equals and CompareTo pair,
// honoring the custom-implementation opt-outs.
func (c *Compiler) deriveEquality(ent *ir.Entity, fs *fsast.Entity, eqHelper, cmpHelper string) []ir.Decl {
	var decls []ir.Decl
	other := ir.Ident{Name: "other", Typ: ir.Any()}
	if !fs.HasAttribute(fsast.AttrCustomEquality) {
		body := ir.CallExpr(ir.Import(eqHelper, libUtil, ir.Any()), ir.Bool(),
			thisRef(), ir.IdentOf(other, nil))
		decls = append(decls, c.derived(ent, fs, "Equals", ir.MemberMethod,
			[]ir.Ident{other}, body))
	}
	if !fs.HasAttribute(fsast.AttrCustomComparison) {
		body := ir.CallExpr(ir.Import(cmpHelper, libUtil, ir.Any()), ir.Number(ir.Int32),
			thisRef(), ir.IdentOf(other, nil))
		decls = append(decls, c.derived(ent, fs, "CompareTo", ir.MemberMethod,
			[]ir.Ident{other}, body))
	}
	return decls
}

func (c *Compiler) derived(ent *ir.Entity, fs *fsast.Entity, name string, kind ir.MemberKind, args []ir.Ident, body ir.Expr) ir.Decl {
	return ir.MemberDecl{
		Name:     name,
		FullName: ent.FullName + "." + name,
		Kind:     kind,
		Entity:   ent,
		Args:     args,
		Body:     body,
		Typ:      body.ExprType(),
		IsPublic: true,
		Loc:      fs.Range,
	}
}

// interfaceList is the runtime interface-name array: the declared
// interfaces plus the kind marker when one applies.
func interfaceList(ent *ir.Entity, marker string) ir.Expr {
	names := make([]ir.Expr, 0, len(ent.Interfaces)+1)
	if marker != "" {
		names = append(names, ir.Str(marker))
	}
	for _, n := range ent.Interfaces {
		names = append(names, ir.Str(n))
	}
	return ir.ConstructArray(names, ir.String())
}

func thisRef() ir.Expr {
	return ir.This{Typ: ir.Any()}
}
