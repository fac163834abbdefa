package lower

import (
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/source"
)

// lowerTests handles runtime type tests and union case tests. Both
// compile to whatever check the representation allows; styles that
// erase the case distinction fail here rather than guess.
func (c *Compiler) lowerTests(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	switch v := e.(type) {
	case fsast.TypeTest:
		out, err := c.lowerTypeTest(ctx, v)
		return out, err == nil, err
	case fsast.UnionTest:
		out, err := c.lowerUnionTest(ctx, v)
		return out, err == nil, err
	}
	return nil, false, nil
}

func (c *Compiler) lowerTypeTest(ctx Context, v fsast.TypeTest) (ir.Expr, error) {
	operand, err := c.Lower(ctx, v.Operand)
	if err != nil {
		return nil, err
	}
	target := c.lowerType(ctx, v.TestType)
	loc := locOf(v)

	switch target.Kind {
	case ir.TypeString, ir.TypeChar:
		return typeofTest(operand, "string", loc), nil
	case ir.TypeNumber:
		return typeofTest(operand, "number", loc), nil
	case ir.TypeBool:
		return typeofTest(operand, "boolean", loc), nil
	case ir.TypeFunc:
		return typeofTest(operand, "function", loc), nil
	case ir.TypeArray:
		out := ir.CallExpr(ir.Import("isArray", libArray, ir.Any()), ir.Bool(), operand)
		out.Loc = loc
		return out, nil
	case ir.TypeDeclared:
		ref := ir.EntityRef{Typ: ir.Any(), FullName: v.TestType.FullName}
		out := ir.CallOp("instanceof", ir.BinaryOp, ir.Bool(), operand, ref)
		out.Loc = loc
		return out, nil
	}
	return nil, diag.New(diag.CodePolyTypeTest,
		"cannot test against type %s at runtime", target).At(v.Loc)
}

func typeofTest(operand ir.Expr, want string, loc *source.Range) ir.Apply {
	probe := ir.CallOp("typeof", ir.UnaryOp, ir.String(), operand)
	out := ir.CallOp("===", ir.BinaryOp, ir.Bool(), probe, ir.Str(want))
	out.Loc = loc
	return out
}

func (c *Compiler) lowerUnionTest(ctx Context, v fsast.UnionTest) (ir.Expr, error) {
	operand, err := c.Lower(ctx, v.Operand)
	if err != nil {
		return nil, err
	}
	ent := c.unionEntity(v.Operand.NodeType())
	loc := locOf(v)

	switch ent.Style {
	case ir.StyleOption:
		op := "=="
		if v.Case.Name == "Some" {
			op = "!="
		}
		out := ir.CallOp(op, ir.BinaryOp, ir.Bool(), operand, ir.NullOf(ir.Any()))
		out.Loc = loc
		return out, nil

	case ir.StyleErased:
		if len(ent.Cases) == 1 {
			// One case only; the test is vacuous.
			out := ir.BoolConst(true)
			out.Loc = loc
			return out, nil
		}
		if len(v.Case.Fields) == 1 {
			probe := fsast.TypeTest{
				Typ:      v.Typ,
				Loc:      v.Loc,
				Operand:  v.Operand,
				TestType: v.Case.Fields[0].Type,
			}
			return c.lowerTypeTest(ctx, probe)
		}
		return nil, diag.New(diag.CodeStyleMismatch,
			"cannot test erased case %s of %s at runtime",
			v.Case.Name, ent.FullName).At(v.Loc)

	case ir.StyleKeyValue:
		return nil, diag.New(diag.CodeStyleMismatch,
			"cannot test key-value case %s of %s at runtime",
			v.Case.Name, ent.FullName).At(v.Loc)

	case ir.StyleStringTag:
		out := ir.CallOp("===", ir.BinaryOp, ir.Bool(), operand, ir.Str(tagNameOf(v.Case)))
		out.Loc = loc
		return out, nil

	case ir.StyleList:
		op := "=="
		if v.Case.Name == "Cons" {
			op = "!="
		}
		tail := ir.GetField(operand, "tail", ir.Any())
		out := ir.CallOp(op, ir.BinaryOp, ir.Bool(), tail, ir.NullOf(ir.Any()))
		out.Loc = loc
		return out, nil

	default:
		tag := ent.CaseIndex(v.Case.Name)
		if tag < 0 {
			return nil, diag.New(diag.CodeUnknownCase,
				"case %s is not declared by %s", v.Case.Name, ent.FullName).At(v.Loc)
		}
		read := ir.GetField(operand, "tag", ir.Number(ir.Int32))
		out := ir.CallOp("===", ir.BinaryOp, ir.Bool(), read, ir.Num(float64(tag), ir.Int32))
		out.Loc = loc
		return out, nil
	}
}
