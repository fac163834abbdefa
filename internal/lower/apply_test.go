package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/testutil"
)

func TestLowerApply(t *testing.T) {
	c := testCompiler()
	f := testutil.Val("f", testutil.TFunc(testutil.TInt(), testutil.TInt()))
	ctx, fid := c.bindVal(NewContext(), f)

	out, err := c.Lower(ctx, testutil.ApplyOf(testutil.Ref(f), testutil.Int(4)))
	require.NoError(t, err)

	app, ok := out.(ir.Apply)
	require.True(t, ok)
	assert.Equal(t, ir.ApplyCall, app.Kind)
	assert.Equal(t, ir.IdentOf(fid, nil), app.Callee)
	assert.Equal(t, []ir.Expr{ir.Num(4, ir.Int32)}, app.Args)
	assert.Equal(t, ir.Number(ir.Int32), app.Typ)
}

func TestOperatorCallBecomesOperatorApplication(t *testing.T) {
	c := testCompiler()
	m := coreOp("op_Addition", testutil.TInt())

	out, err := c.Lower(NewContext(), testutil.CallOf(m, nil, testutil.Int(1), testutil.Int(2)))
	require.NoError(t, err)

	app, ok := out.(ir.Apply)
	require.True(t, ok)
	opRef, ok := app.Callee.(ir.OperatorRef)
	require.True(t, ok)
	assert.Equal(t, "+", opRef.Symbol)
	assert.Equal(t, ir.BinaryOp, opRef.Class)
	assert.Equal(t, []ir.Expr{ir.Num(1, ir.Int32), ir.Num(2, ir.Int32)}, app.Args)
}

func TestEqualityCallGoesThroughHelper(t *testing.T) {
	c := testCompiler()
	m := coreOp("op_Equality", testutil.TBool())

	out, err := c.Lower(NewContext(), testutil.CallOf(m, nil, testutil.Str("a"), testutil.Str("b")))
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.Import("equals", libUtil, ir.Any()), app.Callee)
	assert.Len(t, app.Args, 2)
}

func TestIgnoreEvaluatesForEffect(t *testing.T) {
	c := testCompiler()
	m := coreOp("ignore", testutil.TUnit())

	out, err := c.Lower(NewContext(), testutil.CallOf(m, nil, testutil.Int(1)))
	require.NoError(t, err)

	seq, ok := out.(ir.Sequential)
	require.True(t, ok)
	assert.Equal(t, []ir.Expr{ir.Num(1, ir.Int32), ir.UnitConst()}, seq.Exprs)
}

func TestIdentityMemberPassesArgumentThrough(t *testing.T) {
	c := testCompiler()
	m := coreOp("id", testutil.TInt())

	out, err := c.Lower(NewContext(), testutil.CallOf(m, nil, testutil.Int(5)))
	require.NoError(t, err)
	assert.Equal(t, ir.Num(5, ir.Int32), out)
}

func TestArrayIndexingIntrinsic(t *testing.T) {
	c := testCompiler()
	xs := testutil.Val("xs", testutil.TArray(testutil.TInt()))
	ctx, id := c.bindVal(NewContext(), xs)
	m := testutil.Method("Microsoft.FSharp.Core.LanguagePrimitives.IntrinsicFunctions",
		"GetArray", testutil.TInt(), xs.Type, testutil.TInt())

	out, err := c.Lower(ctx, testutil.CallOf(m, nil, testutil.Ref(xs), testutil.Int(2)))
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.ApplyGet, app.Kind)
	assert.Equal(t, ir.IdentOf(id, nil), app.Callee)
	assert.Equal(t, []ir.Expr{ir.Num(2, ir.Int32)}, app.Args)
}

func TestListModuleCallUsesLibraryImport(t *testing.T) {
	c := testCompiler()
	xs := testutil.Val("xs", testutil.TList(testutil.TInt()))
	f := testutil.Val("f", testutil.TFunc(testutil.TInt(), testutil.TInt()))
	ctx, _ := c.bindVal(NewContext(), xs)
	ctx, _ = c.bindVal(ctx, f)
	m := testutil.Method("Microsoft.FSharp.Collections.ListModule", "map",
		testutil.TList(testutil.TInt()), f.Type, xs.Type)

	out, err := c.Lower(ctx, testutil.CallOf(m, nil, testutil.Ref(f), testutil.Ref(xs)))
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.Import("map", libList, ir.Any()), app.Callee)
	assert.Len(t, app.Args, 2)
}

func TestInstanceCallReadsMemberProperty(t *testing.T) {
	c := testCompiler()
	p := testutil.Val("p", testutil.TAny())
	ctx, pid := c.bindVal(NewContext(), p)
	m := testutil.InstanceMethod("MyApp.Person", "Greet", testutil.TString(), testutil.TString())

	out, err := c.Lower(ctx, testutil.CallOf(m, testutil.Ref(p), testutil.Str("hi")))
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.ApplyCall, app.Kind)
	callee := app.Callee.(ir.Apply)
	assert.Equal(t, ir.ApplyGet, callee.Kind)
	assert.Equal(t, ir.IdentOf(pid, nil), callee.Callee)
	assert.Equal(t, []ir.Expr{ir.Str("Greet")}, callee.Args)
	assert.Equal(t, []ir.Expr{ir.Str("hi")}, app.Args)
}

func TestStaticCallTargetsEntity(t *testing.T) {
	c := testCompiler()
	m := testutil.Method("MyApp.Registry", "Size", testutil.TInt())

	out, err := c.Lower(NewContext(), testutil.CallOf(m, nil))
	require.NoError(t, err)

	app := out.(ir.Apply)
	callee := app.Callee.(ir.Apply)
	assert.Equal(t, ir.EntityRef{Typ: ir.Any(), FullName: "MyApp.Registry"}, callee.Callee)
	assert.Equal(t, []ir.Expr{ir.Str("Size")}, callee.Args)
}

func TestConstructorCallBecomesConstruction(t *testing.T) {
	c := testCompiler()
	m := &fsast.Member{
		Name:                    ".ctor",
		FullName:                "MyApp.Person..ctor",
		DeclaringEntityFullName: "MyApp.Person",
		IsImplicitCtor:          true,
		ReturnType:              testutil.TAny(),
	}

	out, err := c.Lower(NewContext(), testutil.CallOf(m, nil, testutil.Str("Ada")))
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.ApplyConstruct, app.Kind)
	assert.Equal(t, ir.EntityRef{Typ: ir.Any(), FullName: "MyApp.Person"}, app.Callee)
	assert.Equal(t, []ir.Expr{ir.Str("Ada")}, app.Args)
}

func TestCoreGetterFallsBackToPropertyRead(t *testing.T) {
	// A core accessor the resolver does not know still lowers as a
	// direct property read instead of a member call.
	c := testCompiler()
	k := testutil.Val("k", testutil.TAny())
	ctx, kid := c.bindVal(NewContext(), k)
	m := testutil.Getter("System.ConsoleKeyInfo", "Key", testutil.TInt())

	out, err := c.Lower(ctx, testutil.CallOf(m, testutil.Ref(k)))
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Equal(t, ir.ApplyGet, app.Kind)
	assert.Equal(t, ir.IdentOf(kid, nil), app.Callee)
	assert.Equal(t, []ir.Expr{ir.Str("Key")}, app.Args)
}

func TestUnitArgumentVanishesInCalls(t *testing.T) {
	c := testCompiler()
	m := testutil.Method("MyApp.Clock", "Now", testutil.TFloat(), testutil.TUnit())

	out, err := c.Lower(NewContext(), testutil.CallOf(m, nil, testutil.Unit()))
	require.NoError(t, err)

	app := out.(ir.Apply)
	assert.Empty(t, app.Args)
}
