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

func TestLowerFieldGet(t *testing.T) {
	c := testCompiler()
	rec := testutil.RecordEntity("MyApp.Person", testutil.FieldOf("Name", testutil.TString()))
	p := testutil.Val("p", testutil.TOf(rec))
	ctx, pid := c.bindVal(NewContext(), p)

	out, err := c.Lower(ctx, fsast.FieldGet{
		Typ:   testutil.TString(),
		Obj:   testutil.Ref(p),
		Field: rec.Fields[0],
	})
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.ApplyGet, app.Kind)
	assert.Equal(t, ir.IdentOf(pid, nil), app.Callee)
	assert.Equal(t, []ir.Expr{ir.Str("Name")}, app.Args)
	assert.Equal(t, ir.String(), app.Typ)
}

func TestLowerFieldGetWithoutReceiver(t *testing.T) {
	c := testCompiler()
	_, err := c.Lower(NewContext(), fsast.FieldGet{
		Typ:   testutil.TString(),
		Field: testutil.FieldOf("Name", testutil.TString()),
	})
	require.Error(t, err)
	assert.Equal(t, diag.CodeUnexpectedExpr, diag.CodeOf(err))
}

func TestLowerFieldSet(t *testing.T) {
	c := testCompiler()
	rec := testutil.RecordEntity("MyApp.Person", testutil.FieldOf("Name", testutil.TString()))
	p := testutil.Val("p", testutil.TOf(rec))
	ctx, pid := c.bindVal(NewContext(), p)

	out, err := c.Lower(ctx, fsast.FieldSet{
		Typ:   testutil.TUnit(),
		Obj:   testutil.Ref(p),
		Field: rec.Fields[0],
		Value: testutil.Str("Ada"),
	})
	require.NoError(t, err)

	set := out.(ir.Set)
	assert.Equal(t, ir.IdentOf(pid, nil), set.Callee)
	assert.Equal(t, ir.Str("Name"), set.Prop)
	assert.Equal(t, ir.Str("Ada"), set.Value)
}

func TestWritingUnionFieldFails(t *testing.T) {
	c := testCompiler()
	shape := testutil.UnionEntity("MyApp.Shape", testutil.Case("Circle", testutil.TFloat()))
	s := testutil.Val("s", testutil.TOf(shape))
	ctx, _ := c.bindVal(NewContext(), s)

	_, err := c.Lower(ctx, fsast.FieldSet{
		Typ:   testutil.TUnit(),
		Obj:   testutil.Ref(s),
		Field: shape.UnionCases[0].Fields[0],
		Value: testutil.Float(1),
	})
	require.Error(t, err)
	assert.Equal(t, diag.CodeUnionMutation, diag.CodeOf(err))
}

func TestUnionGetTaggedReadsFieldsArray(t *testing.T) {
	c := testCompiler()
	shape := testutil.UnionEntity("MyApp.Shape",
		testutil.Case("Circle", testutil.TFloat()),
		testutil.Case("Rect", testutil.TFloat(), testutil.TFloat()))
	s := testutil.Val("s", testutil.TOf(shape))
	ctx, sid := c.bindVal(NewContext(), s)

	rect := shape.UnionCases[1]
	out, err := c.Lower(ctx, fsast.UnionGet{
		Typ:     testutil.TFloat(),
		Operand: testutil.Ref(s),
		Case:    rect,
		Field:   rect.Fields[1],
	})
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.ApplyGet, app.Kind)
	assert.Equal(t, []ir.Expr{ir.Num(1, ir.Int32)}, app.Args)

	fields := app.Callee.(ir.Apply)
	assert.Equal(t, ir.ApplyGet, fields.Kind)
	assert.Equal(t, ir.IdentOf(sid, nil), fields.Callee)
	assert.Equal(t, []ir.Expr{ir.Str("fields")}, fields.Args)
}

func TestUnionGetUnknownField(t *testing.T) {
	c := testCompiler()
	shape := testutil.UnionEntity("MyApp.Shape", testutil.Case("Circle", testutil.TFloat()))
	s := testutil.Val("s", testutil.TOf(shape))
	ctx, _ := c.bindVal(NewContext(), s)

	_, err := c.Lower(ctx, fsast.UnionGet{
		Typ:     testutil.TFloat(),
		Operand: testutil.Ref(s),
		Case:    shape.UnionCases[0],
		Field:   testutil.FieldOf("missing", testutil.TFloat()),
	})
	require.Error(t, err)
	assert.Equal(t, diag.CodeUnknownCase, diag.CodeOf(err))
}

func TestUnionGetOptionUnwrapsThroughHelper(t *testing.T) {
	c := testCompiler()
	o := testutil.Val("o", testutil.TOption(testutil.TInt()))
	ctx, oid := c.bindVal(NewContext(), o)

	some := testutil.Case("Some", testutil.TInt())
	out, err := c.Lower(ctx, fsast.UnionGet{
		Typ:     testutil.TInt(),
		Operand: testutil.Ref(o),
		Case:    some,
		Field:   some.Fields[0],
	})
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.Import("value", libOption, ir.Any()), app.Callee)
	assert.Equal(t, []ir.Expr{ir.IdentOf(oid, nil)}, app.Args)
}

func TestUnionGetErasedIsJustTheOperand(t *testing.T) {
	c := testCompiler()
	wrap := testutil.UnionEntity("MyApp.Css", testutil.Case("Css", testutil.TString()))
	wrap.Attributes = []fsast.Attribute{{FullName: fsast.AttrErase}}
	s := testutil.Val("s", testutil.TOf(wrap))
	ctx, sid := c.bindVal(NewContext(), s)

	css := wrap.UnionCases[0]
	out, err := c.Lower(ctx, fsast.UnionGet{
		Typ:     testutil.TString(),
		Operand: testutil.Ref(s),
		Case:    css,
		Field:   css.Fields[0],
	})
	require.NoError(t, err)

	w, ok := out.(ir.Wrapped)
	require.True(t, ok)
	assert.Equal(t, ir.IdentOf(sid, nil), w.Inner)
	assert.Equal(t, ir.String(), w.Typ)
}

func TestUnionGetStringTagHasNoPayload(t *testing.T) {
	c := testCompiler()
	color := testutil.UnionEntity("MyApp.Color", testutil.Case("Red"), testutil.Case("Green"))
	color.Attributes = []fsast.Attribute{{FullName: fsast.AttrStringEnum}}
	s := testutil.Val("s", testutil.TOf(color))
	ctx, _ := c.bindVal(NewContext(), s)

	_, err := c.Lower(ctx, fsast.UnionGet{
		Typ:     testutil.TString(),
		Operand: testutil.Ref(s),
		Case:    color.UnionCases[0],
		Field:   testutil.FieldOf("f0", testutil.TString()),
	})
	require.Error(t, err)
	assert.Equal(t, diag.CodeStyleMismatch, diag.CodeOf(err))
}

func TestUnionGetKeyValuePairSlots(t *testing.T) {
	c := testCompiler()
	prop := testutil.UnionEntity("MyApp.Prop", testutil.Case("Width", testutil.TInt()))
	prop.Attributes = []fsast.Attribute{{FullName: fsast.AttrKeyValueList}}
	s := testutil.Val("s", testutil.TOf(prop))
	ctx, sid := c.bindVal(NewContext(), s)

	width := prop.UnionCases[0]
	out, err := c.Lower(ctx, fsast.UnionGet{
		Typ:     testutil.TInt(),
		Operand: testutil.Ref(s),
		Case:    width,
		Field:   width.Fields[0],
	})
	require.NoError(t, err)

	// The value sits after the name in the pair layout.
	app := out.(ir.Apply)
	assert.Equal(t, ir.ApplyGet, app.Kind)
	assert.Equal(t, ir.IdentOf(sid, nil), app.Callee)
	assert.Equal(t, []ir.Expr{ir.Num(1, ir.Int32)}, app.Args)
}

func TestUnionGetListHeadAndTail(t *testing.T) {
	c := testCompiler()
	xs := testutil.Val("xs", testutil.TList(testutil.TInt()))
	ctx, id := c.bindVal(NewContext(), xs)
	cons := testutil.Case("Cons", testutil.TInt(), testutil.TList(testutil.TInt()))

	head, err := c.Lower(ctx, fsast.UnionGet{
		Typ:     testutil.TInt(),
		Operand: testutil.Ref(xs),
		Case:    cons,
		Field:   cons.Fields[0],
	})
	require.NoError(t, err)
	hp := head.(ir.Apply)
	assert.Equal(t, ir.IdentOf(id, nil), hp.Callee)
	assert.Equal(t, []ir.Expr{ir.Str("head")}, hp.Args)

	tail, err := c.Lower(ctx, fsast.UnionGet{
		Typ:     testutil.TList(testutil.TInt()),
		Operand: testutil.Ref(xs),
		Case:    cons,
		Field:   cons.Fields[1],
	})
	require.NoError(t, err)
	tp := tail.(ir.Apply)
	assert.Equal(t, []ir.Expr{ir.Str("tail")}, tp.Args)
}

func TestLowerTupleGet(t *testing.T) {
	c := testCompiler()
	pair := testutil.Val("pair", fsast.TupleType(testutil.TInt(), testutil.TString()))
	ctx, pid := c.bindVal(NewContext(), pair)

	out, err := c.Lower(ctx, fsast.TupleGet{
		Typ:   testutil.TString(),
		Tuple: testutil.Ref(pair),
		Index: 1,
	})
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.ApplyGet, app.Kind)
	assert.Equal(t, ir.IdentOf(pid, nil), app.Callee)
	assert.Equal(t, []ir.Expr{ir.Num(1, ir.Int32)}, app.Args)
	assert.Equal(t, ir.String(), app.Typ)
}

func TestLowerVarSet(t *testing.T) {
	c := testCompiler()
	v := testutil.MutableVal("counter", testutil.TInt())
	ctx, id := c.bindVal(NewContext(), v)

	out, err := c.Lower(ctx, fsast.VarSet{
		Typ:   testutil.TUnit(),
		Val:   v,
		Value: testutil.Int(1),
	})
	require.NoError(t, err)

	set := out.(ir.Set)
	assert.Equal(t, ir.IdentOf(id, nil), set.Callee)
	assert.Nil(t, set.Prop)
	assert.Equal(t, ir.Num(1, ir.Int32), set.Value)
}

func TestLowerVarSetUnbound(t *testing.T) {
	c := testCompiler()
	_, err := c.Lower(NewContext(), fsast.VarSet{
		Typ:   testutil.TUnit(),
		Val:   testutil.MutableVal("ghost", testutil.TInt()),
		Value: testutil.Int(1),
	})
	require.Error(t, err)
	assert.Equal(t, diag.CodeUnboundValue, diag.CodeOf(err))
}
