package lower

import (
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// lowerAccess handles field, tuple and union-case reads and writes.
// Union accesses are addressed per the representation style the
// entity classified to; a mismatch between access shape and style is
// a defect, not a user error.
func (c *Compiler) lowerAccess(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	switch v := e.(type) {
	case fsast.FieldGet:
		out, err := c.lowerFieldGet(ctx, v)
		return out, err == nil, err

	case fsast.FieldSet:
		out, err := c.lowerFieldSet(ctx, v)
		return out, err == nil, err

	case fsast.UnionGet:
		out, err := c.lowerUnionGet(ctx, v)
		return out, err == nil, err

	case fsast.TupleGet:
		tuple, err := c.Lower(ctx, v.Tuple)
		if err != nil {
			return nil, false, err
		}
		out := ir.GetIndex(tuple, v.Index, c.lowerType(ctx, v.Typ))
		out.Loc = locOf(v)
		return out, true, nil

	case fsast.VarSet:
		out, err := c.lowerVarSet(ctx, v)
		return out, err == nil, err
	}
	return nil, false, nil
}

func (c *Compiler) lowerFieldGet(ctx Context, v fsast.FieldGet) (ir.Expr, error) {
	if v.Obj == nil {
		return nil, diag.New(diag.CodeUnexpectedExpr,
			"field read of %s without a receiver", v.Field.Name).At(v.Loc)
	}
	obj, err := c.Lower(ctx, v.Obj)
	if err != nil {
		return nil, err
	}
	out := ir.GetField(obj, v.Field.Name, c.lowerType(ctx, v.Typ))
	out.Loc = locOf(v)
	return out, nil
}

func (c *Compiler) lowerFieldSet(ctx Context, v fsast.FieldSet) (ir.Expr, error) {
	objType := v.Obj.NodeType()
	if objType.Entity != nil && objType.Entity.IsUnion {
		return nil, diag.New(diag.CodeUnionMutation,
			"cannot write field %s of union %s", v.Field.Name, objType.FullName).At(v.Loc)
	}
	obj, err := c.Lower(ctx, v.Obj)
	if err != nil {
		return nil, err
	}
	value, err := c.Lower(ctx, v.Value)
	if err != nil {
		return nil, err
	}
	return ir.Set{Loc: locOf(v), Callee: obj, Prop: ir.Str(v.Field.Name), Value: value}, nil
}

func (c *Compiler) lowerUnionGet(ctx Context, v fsast.UnionGet) (ir.Expr, error) {
	ent := c.unionEntity(v.Operand.NodeType())
	operand, err := c.Lower(ctx, v.Operand)
	if err != nil {
		return nil, err
	}
	typ := c.lowerType(ctx, v.Typ)

	switch ent.Style {
	case ir.StyleOption:
		out := ir.CallExpr(ir.Import("value", libOption, ir.Any()), typ, operand)
		out.Loc = locOf(v)
		return out, nil

	case ir.StyleErased:
		// The case erased to its payload; the operand is the value.
		return ir.Wrapped{Typ: typ, Loc: locOf(v), Inner: operand}, nil

	case ir.StyleStringTag:
		return nil, diag.New(diag.CodeStyleMismatch,
			"string-tag case %s carries no payload to read", v.Case.Name).At(v.Loc)
	}

	idx := caseFieldIndex(v.Case, v.Field)
	if idx < 0 {
		return nil, diag.New(diag.CodeUnknownCase,
			"field %s is not on case %s", v.Field.Name, v.Case.Name).At(v.Loc)
	}

	switch ent.Style {
	case ir.StyleKeyValue:
		// Pairs lay out as [name, value].
		out := ir.GetIndex(operand, idx+1, typ)
		out.Loc = locOf(v)
		return out, nil

	case ir.StyleList:
		name := "head"
		if idx == 1 {
			name = "tail"
		}
		out := ir.GetField(operand, name, typ)
		out.Loc = locOf(v)
		return out, nil

	default:
		fields := ir.GetField(operand, "fields", ir.Array(ir.Any()))
		out := ir.GetIndex(fields, idx, typ)
		out.Loc = locOf(v)
		return out, nil
	}
}

func (c *Compiler) lowerVarSet(ctx Context, v fsast.VarSet) (ir.Expr, error) {
	bound, ok := ctx.Lookup(v.Val)
	if !ok {
		return nil, diag.New(diag.CodeUnboundValue,
			"assignment to unbound value %q", v.Val.Name).At(v.Loc)
	}
	value, err := c.Lower(ctx, v.Value)
	if err != nil {
		return nil, err
	}
	return ir.Set{Loc: locOf(v), Callee: bound, Value: value}, nil
}

func caseFieldIndex(uc *fsast.UnionCase, f *fsast.Field) int {
	for i, cf := range uc.Fields {
		if cf == f || cf.Name == f.Name {
			return i
		}
	}
	return -1
}
