package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/testutil"
)

func leaf(typ fsast.Type, index int, bound ...fsast.Expr) fsast.Success {
	return fsast.Success{Typ: typ, Index: index, Bound: bound}
}

func TestMatchInlinesSingleUseTargets(t *testing.T) {
	c := testCompiler()
	b := testutil.Val("b", testutil.TBool())
	ctx, bid := c.bindVal(NewContext(), b)

	out, err := c.Lower(ctx, fsast.DecisionTree{
		Typ: testutil.TInt(),
		Decision: testutil.IfOf(testutil.Ref(b),
			leaf(testutil.TInt(), 0),
			leaf(testutil.TInt(), 1)),
		Targets: []fsast.DecisionTarget{
			{Body: testutil.Int(1)},
			{Body: testutil.Int(2)},
		},
	})
	require.NoError(t, err)

	cond := out.(ir.IfThenElse)
	assert.Equal(t, ir.IdentOf(bid, nil), cond.Cond)
	assert.Equal(t, ir.Num(1, ir.Int32), cond.Then)
	assert.Equal(t, ir.Num(2, ir.Int32), cond.Else)
}

func TestMatchLeafBindsCapturedValues(t *testing.T) {
	c := testCompiler()
	x := testutil.Val("x", testutil.TInt())

	out, err := c.Lower(NewContext(), fsast.DecisionTree{
		Typ:      testutil.TInt(),
		Decision: leaf(testutil.TInt(), 0, testutil.Int(5)),
		Targets: []fsast.DecisionTarget{
			{Bound: []*fsast.Val{x}, Body: testutil.Ref(x)},
		},
	})
	require.NoError(t, err)

	seq := out.(ir.Sequential)
	require.Len(t, seq.Exprs, 2)
	decl := seq.Exprs[0].(ir.VarDecl)
	assert.Equal(t, "x", decl.Var.Name)
	assert.Equal(t, ir.Num(5, ir.Int32), decl.Value)
	assert.Equal(t, ir.IdentOf(decl.Var, nil), seq.Exprs[1])
}

func TestMatchSharedTargetBecomesClosure(t *testing.T) {
	c := testCompiler()
	b := testutil.Val("b", testutil.TBool())
	ctx, _ := c.bindVal(NewContext(), b)

	out, err := c.Lower(ctx, fsast.DecisionTree{
		Typ: testutil.TInt(),
		Decision: testutil.IfOf(testutil.Ref(b),
			leaf(testutil.TInt(), 0),
			leaf(testutil.TInt(), 0)),
		Targets: []fsast.DecisionTarget{
			{Body: testutil.Int(7)},
		},
	})
	require.NoError(t, err)

	seq := out.(ir.Sequential)
	require.Len(t, seq.Exprs, 2)

	decl := seq.Exprs[0].(ir.VarDecl)
	assert.Equal(t, "matchTarget", decl.Var.Name)
	fn := decl.Value.(ir.Lambda)
	assert.Empty(t, fn.Params)
	assert.Equal(t, ir.Num(7, ir.Int32), fn.Body)

	cond := seq.Exprs[1].(ir.IfThenElse)
	call := cond.Then.(ir.Apply)
	assert.Equal(t, ir.ApplyCall, call.Kind)
	assert.Equal(t, ir.IdentOf(decl.Var, nil), call.Callee)
	assert.Empty(t, call.Args)
	assert.Equal(t, cond.Then, cond.Else)
}

func TestMatchLeafWithoutTargetFails(t *testing.T) {
	c := testCompiler()
	_, err := c.Lower(NewContext(), leaf(testutil.TInt(), 0))
	require.Error(t, err)
	assert.Equal(t, diag.CodeMissingTarget, diag.CodeOf(err))
}

func TestTagChainBecomesSwitch(t *testing.T) {
	c := testCompiler()
	shape := testutil.UnionEntity("MyApp.Shape",
		testutil.Case("Circle", testutil.TFloat()),
		testutil.Case("Rect", testutil.TFloat(), testutil.TFloat()),
		testutil.Case("Point"))
	s := testutil.Val("s", testutil.TOf(shape))
	ctx, sid := c.bindVal(NewContext(), s)

	test := func(i int) fsast.UnionTest {
		return fsast.UnionTest{Typ: testutil.TBool(), Operand: testutil.Ref(s), Case: shape.UnionCases[i]}
	}
	out, err := c.Lower(ctx, fsast.DecisionTree{
		Typ: testutil.TUnit(),
		Decision: testutil.IfOf(test(0),
			leaf(testutil.TUnit(), 0),
			testutil.IfOf(test(1),
				leaf(testutil.TUnit(), 1),
				leaf(testutil.TUnit(), 2))),
		Targets: []fsast.DecisionTarget{
			{Body: testutil.Unit()},
			{Body: testutil.Unit()},
			{Body: testutil.Unit()},
		},
	})
	require.NoError(t, err)

	sw := out.(ir.Switch)
	assert.Equal(t, ir.GetField(ir.IdentOf(sid, nil), "tag", ir.Number(ir.Int32)), sw.Subject)
	require.Len(t, sw.Cases, 2)
	assert.Equal(t, []ir.Expr{ir.Num(0, ir.Int32)}, sw.Cases[0].Tests)
	assert.Equal(t, []ir.Expr{ir.Num(1, ir.Int32)}, sw.Cases[1].Tests)
	assert.Equal(t, ir.Expr(ir.UnitConst()), sw.Cases[0].Body)
	assert.Equal(t, ir.Expr(ir.UnitConst()), sw.Default)
}

func TestValueSwitchRoutesThroughResultVariable(t *testing.T) {
	c := testCompiler()
	shape := testutil.UnionEntity("MyApp.Shape",
		testutil.Case("Circle", testutil.TFloat()),
		testutil.Case("Rect", testutil.TFloat(), testutil.TFloat()),
		testutil.Case("Point"))
	s := testutil.Val("s", testutil.TOf(shape))
	ctx, _ := c.bindVal(NewContext(), s)

	test := func(i int) fsast.UnionTest {
		return fsast.UnionTest{Typ: testutil.TBool(), Operand: testutil.Ref(s), Case: shape.UnionCases[i]}
	}
	out, err := c.Lower(ctx, fsast.DecisionTree{
		Typ: testutil.TInt(),
		Decision: testutil.IfOf(test(0),
			leaf(testutil.TInt(), 0),
			testutil.IfOf(test(1),
				leaf(testutil.TInt(), 1),
				leaf(testutil.TInt(), 2))),
		Targets: []fsast.DecisionTarget{
			{Body: testutil.Int(1)},
			{Body: testutil.Int(2)},
			{Body: testutil.Int(3)},
		},
	})
	require.NoError(t, err)

	seq := out.(ir.Sequential)
	require.Len(t, seq.Exprs, 3)

	decl := seq.Exprs[0].(ir.VarDecl)
	assert.Equal(t, "matchResult", decl.Var.Name)
	assert.True(t, decl.IsMutable)
	assert.Equal(t, ir.Expr(ir.Num(0, ir.Int32)), decl.Value)

	sw := seq.Exprs[1].(ir.Switch)
	require.Len(t, sw.Cases, 2)
	result := ir.IdentOf(decl.Var, nil)
	assert.Equal(t, ir.Assign(result, ir.Num(1, ir.Int32)), sw.Cases[0].Body)
	assert.Equal(t, ir.Assign(result, ir.Num(2, ir.Int32)), sw.Cases[1].Body)
	assert.Equal(t, ir.Expr(ir.Assign(result, ir.Num(3, ir.Int32))), sw.Default)

	assert.Equal(t, ir.Expr(result), seq.Exprs[2])
}

func TestStringTagSwitchUsesBareSubject(t *testing.T) {
	c := testCompiler()
	color := testutil.UnionEntity("MyApp.Color",
		testutil.Case("Red"), testutil.Case("Green"), testutil.Case("Blue"))
	color.Attributes = []fsast.Attribute{{FullName: fsast.AttrStringEnum}}
	s := testutil.Val("s", testutil.TOf(color))
	ctx, sid := c.bindVal(NewContext(), s)

	test := func(i int) fsast.UnionTest {
		return fsast.UnionTest{Typ: testutil.TBool(), Operand: testutil.Ref(s), Case: color.UnionCases[i]}
	}
	out, err := c.Lower(ctx, fsast.DecisionTree{
		Typ: testutil.TUnit(),
		Decision: testutil.IfOf(test(0),
			leaf(testutil.TUnit(), 0),
			testutil.IfOf(test(1),
				leaf(testutil.TUnit(), 1),
				leaf(testutil.TUnit(), 2))),
		Targets: []fsast.DecisionTarget{
			{Body: testutil.Unit()},
			{Body: testutil.Unit()},
			{Body: testutil.Unit()},
		},
	})
	require.NoError(t, err)

	sw := out.(ir.Switch)
	assert.Equal(t, ir.Expr(ir.IdentOf(sid, nil)), sw.Subject)
	assert.Equal(t, []ir.Expr{ir.Str("red")}, sw.Cases[0].Tests)
	assert.Equal(t, []ir.Expr{ir.Str("green")}, sw.Cases[1].Tests)
}

func TestConstantEqualityChainBecomesSwitch(t *testing.T) {
	c := testCompiler()
	eq := testutil.Method("Microsoft.FSharp.Core.Operators", "op_Equality",
		testutil.TBool(), testutil.TInt(), testutil.TInt())
	n := testutil.Val("n", testutil.TInt())
	ctx, nid := c.bindVal(NewContext(), n)

	out, err := c.Lower(ctx, fsast.DecisionTree{
		Typ: testutil.TUnit(),
		Decision: testutil.IfOf(testutil.CallOf(eq, nil, testutil.Ref(n), testutil.Int(1)),
			leaf(testutil.TUnit(), 0),
			testutil.IfOf(testutil.CallOf(eq, nil, testutil.Ref(n), testutil.Int(2)),
				leaf(testutil.TUnit(), 1),
				leaf(testutil.TUnit(), 2))),
		Targets: []fsast.DecisionTarget{
			{Body: testutil.Unit()},
			{Body: testutil.Unit()},
			{Body: testutil.Unit()},
		},
	})
	require.NoError(t, err)

	sw := out.(ir.Switch)
	assert.Equal(t, ir.Expr(ir.IdentOf(nid, nil)), sw.Subject)
	assert.Equal(t, []ir.Expr{ir.Num(1, ir.Int32)}, sw.Cases[0].Tests)
	assert.Equal(t, []ir.Expr{ir.Num(2, ir.Int32)}, sw.Cases[1].Tests)
}

func TestMixedSubjectsDeclineSwitch(t *testing.T) {
	c := testCompiler()
	eq := testutil.Method("Microsoft.FSharp.Core.Operators", "op_Equality",
		testutil.TBool(), testutil.TInt(), testutil.TInt())
	n := testutil.Val("n", testutil.TInt())
	m := testutil.Val("m", testutil.TInt())
	ctx, _ := c.bindVal(NewContext(), n)
	ctx, _ = c.bindVal(ctx, m)

	out, err := c.Lower(ctx, fsast.DecisionTree{
		Typ: testutil.TUnit(),
		Decision: testutil.IfOf(testutil.CallOf(eq, nil, testutil.Ref(n), testutil.Int(1)),
			leaf(testutil.TUnit(), 0),
			testutil.IfOf(testutil.CallOf(eq, nil, testutil.Ref(m), testutil.Int(2)),
				leaf(testutil.TUnit(), 1),
				leaf(testutil.TUnit(), 2))),
		Targets: []fsast.DecisionTarget{
			{Body: testutil.Unit()},
			{Body: testutil.Unit()},
			{Body: testutil.Unit()},
		},
	})
	require.NoError(t, err)
	assert.IsType(t, ir.IfThenElse{}, out)
}
