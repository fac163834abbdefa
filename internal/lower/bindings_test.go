package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/testutil"
)

func TestLowerLet(t *testing.T) {
	c := testCompiler()
	v := testutil.Val("total", testutil.TInt())

	out, err := c.Lower(NewContext(), testutil.LetOf(v, testutil.Int(1), testutil.Ref(v)))
	require.NoError(t, err)

	seq, ok := out.(ir.Sequential)
	require.True(t, ok)
	require.Len(t, seq.Exprs, 2)

	decl, ok := seq.Exprs[0].(ir.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "total", decl.Var.Name)
	assert.Equal(t, ir.Num(1, ir.Int32), decl.Value)
	assert.False(t, decl.IsMutable)
	assert.Equal(t, ir.IdentOf(decl.Var, nil), seq.Exprs[1])
}

func TestLowerMutableLet(t *testing.T) {
	c := testCompiler()
	v := testutil.MutableVal("counter", testutil.TInt())

	out, err := c.Lower(NewContext(), testutil.LetOf(v, testutil.Int(0), testutil.Ref(v)))
	require.NoError(t, err)

	seq := out.(ir.Sequential)
	decl := seq.Exprs[0].(ir.VarDecl)
	assert.True(t, decl.IsMutable)
	assert.True(t, decl.Var.IsMutable)
}

func TestShadowedLetRenames(t *testing.T) {
	c := testCompiler()
	outer := testutil.Val("x", testutil.TInt())
	inner := testutil.Val("x", testutil.TInt())

	out, err := c.Lower(NewContext(), testutil.LetOf(outer, testutil.Int(1),
		testutil.LetOf(inner, testutil.Int(2), testutil.Ref(inner))))
	require.NoError(t, err)

	seq := out.(ir.Sequential)
	require.Len(t, seq.Exprs, 3)
	first := seq.Exprs[0].(ir.VarDecl)
	second := seq.Exprs[1].(ir.VarDecl)
	assert.Equal(t, "x", first.Var.Name)
	assert.Equal(t, "x_1", second.Var.Name)
	assert.Equal(t, ir.IdentOf(second.Var, nil), seq.Exprs[2])
}

func TestLowerLetRecMutualVisibility(t *testing.T) {
	c := testCompiler()
	intToInt := testutil.TFunc(testutil.TInt(), testutil.TInt())
	f := testutil.Val("even", intToInt)
	g := testutil.Val("odd", intToInt)
	a := testutil.Val("a", testutil.TInt())
	b := testutil.Val("b", testutil.TInt())

	tree := fsast.LetRec{
		Typ: testutil.TInt(),
		Bindings: []fsast.Binding{
			{Var: f, Value: testutil.LambdaOf(a, testutil.ApplyOf(testutil.Ref(g), testutil.Int(0)))},
			{Var: g, Value: testutil.LambdaOf(b, testutil.Ref(b))},
		},
		Body: testutil.ApplyOf(testutil.Ref(f), testutil.Int(1)),
	}
	out, err := c.Lower(NewContext(), tree)
	require.NoError(t, err)

	seq, ok := out.(ir.Sequential)
	require.True(t, ok)
	require.Len(t, seq.Exprs, 3)

	fd := seq.Exprs[0].(ir.VarDecl)
	gd := seq.Exprs[1].(ir.VarDecl)
	assert.Equal(t, "even", fd.Var.Name)
	assert.Equal(t, "odd", gd.Var.Name)

	// The first binding's body already sees the second binding.
	fBody := fd.Value.(ir.Lambda).Body.(ir.Apply)
	assert.Equal(t, ir.IdentOf(gd.Var, nil), fBody.Callee)

	call := seq.Exprs[2].(ir.Apply)
	assert.Equal(t, ir.IdentOf(fd.Var, nil), call.Callee)
}

func TestInlineLocalLeavesNoBinding(t *testing.T) {
	c := testCompiler()
	x := testutil.Val("x", testutil.TInt())
	id := testutil.Val("id", testutil.TFunc(testutil.TInt(), testutil.TInt()))
	id.Inline = true

	out, err := c.Lower(NewContext(), testutil.LetOf(id,
		testutil.LambdaOf(x, testutil.Ref(x)),
		testutil.ApplyOf(testutil.Ref(id), testutil.Int(2))))
	require.NoError(t, err)
	assert.Equal(t, ir.Num(2, ir.Int32), out)
}

func TestGenericLocalFunctionInlinesWithoutMarker(t *testing.T) {
	c := testCompiler()
	a := testutil.TGeneric("a")
	x := testutil.Val("x", a)
	pick := testutil.Val("pick", testutil.TFunc(a, a))

	out, err := c.Lower(NewContext(), testutil.LetOf(pick,
		testutil.LambdaOf(x, testutil.Ref(x)),
		testutil.ApplyOf(testutil.Ref(pick), testutil.Int(3))))
	require.NoError(t, err)
	assert.Equal(t, ir.Num(3, ir.Int32), out)
}
