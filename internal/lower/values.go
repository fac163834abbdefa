package lower

import (
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// lowerValues is the last recognizer group: literal constants with
// bulk numeric arrays, value references, this/base, default values,
// lambdas and quotes.
func (c *Compiler) lowerValues(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	switch v := e.(type) {
	case fsast.Const:
		out, err := c.lowerConst(ctx, v)
		return out, err == nil, err

	case fsast.ValueRef:
		out, err := c.lowerValueRef(ctx, v)
		return out, err == nil, err

	case fsast.ThisRef:
		out, err := c.lowerThis(ctx, v)
		return out, err == nil, err

	case fsast.BaseRef:
		if ctx.this == thisUnavailable {
			return nil, false, diag.New(diag.CodeThisUnavailable,
				"base reference outside an instance member").At(v.Loc)
		}
		return ir.Base{Typ: c.lowerType(ctx, v.Typ), Loc: locOf(v)}, true, nil

	case fsast.DefaultVal:
		return c.zeroValue(c.lowerType(ctx, v.Typ)), true, nil

	case fsast.Lambda:
		out, err := c.lowerLambda(ctx, v)
		return out, err == nil, err

	case fsast.Quote:
		inner, err := c.Lower(ctx, v.Body)
		if err != nil {
			return nil, false, err
		}
		return ir.Quote{Loc: locOf(v), Inner: inner}, true, nil
	}
	return nil, false, nil
}

func (c *Compiler) lowerConst(ctx Context, v fsast.Const) (ir.Expr, error) {
	typ := c.lowerType(ctx, v.Typ)
	loc := locOf(v)
	switch val := v.Value.(type) {
	case nil:
		if typ.Kind == ir.TypeUnit {
			return ir.MakeConst(ir.UnitVal{}, typ, loc), nil
		}
		return ir.MakeConst(ir.NullVal{}, typ, loc), nil
	case bool:
		return ir.MakeConst(ir.BoolVal{Val: val}, typ, loc), nil
	case string:
		return ir.MakeConst(ir.StringVal{Val: val}, typ, loc), nil
	case rune:
		// Characters compile to one-rune strings.
		return ir.MakeConst(ir.StringVal{Val: string(val)}, ir.Char(), loc), nil
	case float64:
		return ir.MakeConst(ir.NumberVal{Val: val, Kind: numberKindIn(typ, ir.Float64)}, typ, loc), nil
	case int64:
		return ir.MakeConst(ir.NumberVal{Val: float64(val), Kind: numberKindIn(typ, ir.Int32)}, typ, loc), nil
	case []int64:
		kind := numberKindIn(typ.Elem(), ir.Int32)
		elems := make([]ir.ConstValue, len(val))
		for i, n := range val {
			elems[i] = ir.NumberVal{Val: float64(n), Kind: kind}
		}
		bulk := ir.ArrayVal{Elems: elems, Elem: ir.Number(kind)}
		return ir.MakeConst(bulk, ir.Array(ir.Number(kind)), loc), nil
	}
	return nil, diag.New(diag.CodeUnsupportedConst, "unsupported constant %T", v.Value).At(v.Loc)
}

// numberKindIn extracts the number kind of a lowered type, with a
// fallback for untyped or generic positions.
func numberKindIn(t ir.Type, fallback ir.NumberKind) ir.NumberKind {
	if t.Kind == ir.TypeNumber {
		return t.Number
	}
	return fallback
}

func (c *Compiler) lowerValueRef(ctx Context, v fsast.ValueRef) (ir.Expr, error) {
	if local, ok := ctx.LookupInline(v.Val); ok {
		// A bare reference to an inline local gets its own lowered
		// copy, like a zero-argument specialization.
		return c.expandInlineLocal(ctx, local, nil, v)
	}
	bound, ok := ctx.Lookup(v.Val)
	if !ok {
		return nil, diag.New(diag.CodeUnboundValue, "value %q has no binding in scope", v.Val.Name).At(v.Loc)
	}
	if id, isIdent := bound.(ir.IdentExpr); isIdent {
		return ir.IdentOf(id.Ident, locOf(v)), nil
	}
	return bound, nil
}

func (c *Compiler) lowerThis(ctx Context, v fsast.ThisRef) (ir.Expr, error) {
	switch ctx.this {
	case thisAvailable:
		return ir.This{Typ: c.lowerType(ctx, v.Typ), Loc: locOf(v)}, nil
	case thisCaptured:
		return ctx.thisExpr, nil
	}
	return nil, diag.New(diag.CodeThisUnavailable,
		"this reference outside an instance member").At(v.Loc)
}

// zeroValue is the output-language zero of a lowered type.
func (c *Compiler) zeroValue(t ir.Type) ir.Expr {
	switch t.Kind {
	case ir.TypeUnit:
		return ir.UnitConst()
	case ir.TypeBool:
		return ir.BoolConst(false)
	case ir.TypeNumber:
		return ir.Num(0, t.Number)
	default:
		return ir.NullOf(t)
	}
}

func (c *Compiler) lowerLambda(ctx Context, v fsast.Lambda) (ir.Expr, error) {
	typ := c.lowerType(ctx, v.Typ)
	loc := locOf(v)
	inner := ctx

	var params []ir.Ident
	if v.Param.Type.IsUnit() {
		// Unit parameters vanish; references yield the unit constant.
		inner = inner.Bind(v.Param, ir.UnitConst())
	} else {
		var id ir.Ident
		inner, id = c.bindVal(inner, v.Param)
		params = []ir.Ident{id}
	}
	body, err := c.Lower(inner, v.Body)
	if err != nil {
		return nil, err
	}
	return ir.Lambda{Typ: typ, Loc: loc, Params: params, Body: body}, nil
}
