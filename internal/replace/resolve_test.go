package replace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johngalambos/Fable/internal/ir"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(MustBuiltins())
}

func TestResolveOperator(t *testing.T) {
	r := newTestResolver(t)

	e, ok, err := r.Resolve(Call{
		Module: "Microsoft.FSharp.Core.Operators",
		Member: "op_Addition",
		Args:   []ir.Expr{ir.Num(1, ir.Int32), ir.Num(2, ir.Int32)},
		Ret:    ir.Number(ir.Int32),
	})
	require.NoError(t, err)
	require.True(t, ok)

	apply, isApply := e.(ir.Apply)
	require.True(t, isApply)
	assert.Equal(t, ir.ApplyCall, apply.Kind)
	op, isOp := apply.Callee.(ir.OperatorRef)
	require.True(t, isOp)
	assert.Equal(t, "+", op.Symbol)
	assert.Equal(t, ir.BinaryOp, op.Class)
	assert.Len(t, apply.Args, 2)
	assert.Equal(t, ir.Number(ir.Int32), e.ExprType())
}

func TestResolveHelper(t *testing.T) {
	r := newTestResolver(t)

	list := ir.Ident{Name: "xs", Typ: ir.List(ir.Number(ir.Int32))}
	e, ok, err := r.Resolve(Call{
		Module: "Microsoft.FSharp.Collections.ListModule",
		Member: "head",
		Args:   []ir.Expr{ir.IdentOf(list, nil)},
		Ret:    ir.Number(ir.Int32),
	})
	require.NoError(t, err)
	require.True(t, ok)

	apply, isApply := e.(ir.Apply)
	require.True(t, isApply)
	imp, isImp := apply.Callee.(ir.ImportRef)
	require.True(t, isImp)
	assert.Equal(t, "head", imp.Selector)
	assert.Equal(t, "./fable-library/List.js", imp.Path)
}

func TestResolveIdentity(t *testing.T) {
	r := newTestResolver(t)

	arg := ir.Str("payload")
	e, ok, err := r.Resolve(Call{
		Module: "Microsoft.FSharp.Core.Operators",
		Member: "id",
		Args:   []ir.Expr{arg},
		Ret:    ir.String(),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ir.Expr(arg), e, "identity passes the argument through")
}

func TestResolveInstanceReceiverPrepended(t *testing.T) {
	r := newTestResolver(t)

	this := ir.IdentOf(ir.Ident{Name: "x", Typ: ir.Any()}, nil)
	e, ok, err := r.Resolve(Call{
		Module: "System.Object",
		Member: "ToString",
		This:   this,
		Ret:    ir.String(),
	})
	require.NoError(t, err)
	require.True(t, ok)

	apply := e.(ir.Apply)
	require.Len(t, apply.Args, 1)
	assert.Equal(t, ir.Expr(this), apply.Args[0], "receiver becomes the first argument")
}

func TestResolveIgnoreHandler(t *testing.T) {
	r := newTestResolver(t)

	e, ok, err := r.Resolve(Call{
		Module: "Microsoft.FSharp.Core.Operators",
		Member: "ignore",
		Args:   []ir.Expr{ir.Str("side effect")},
		Ret:    ir.Unit(),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ir.Unit(), e.ExprType(), "ignore yields unit")

	seq, isSeq := e.(ir.Sequential)
	require.True(t, isSeq, "argument still evaluates for effect")
	assert.Len(t, seq.Exprs, 2)
}

func TestResolvePipeHandler(t *testing.T) {
	r := newTestResolver(t)

	fn := ir.IdentOf(ir.Ident{Name: "f", Typ: ir.Func(ir.Number(ir.Int32), ir.Bool())}, nil)
	e, ok, err := r.Resolve(Call{
		Module: "Microsoft.FSharp.Core.Operators",
		Member: "op_PipeRight",
		Args:   []ir.Expr{ir.Num(3, ir.Int32), fn},
		Ret:    ir.Bool(),
	})
	require.NoError(t, err)
	require.True(t, ok)

	apply := e.(ir.Apply)
	assert.Equal(t, ir.Expr(fn), apply.Callee, "pipe becomes a direct application")
	require.Len(t, apply.Args, 1)
}

func TestResolveArrayIntrinsics(t *testing.T) {
	r := newTestResolver(t)
	arr := ir.IdentOf(ir.Ident{Name: "xs", Typ: ir.Array(ir.String())}, nil)
	idx := ir.Num(0, ir.Int32)

	get, ok, err := r.Resolve(Call{
		Module: "Microsoft.FSharp.Core.LanguagePrimitives.IntrinsicFunctions",
		Member: "GetArray",
		Args:   []ir.Expr{arr, idx},
		Ret:    ir.String(),
	})
	require.NoError(t, err)
	require.True(t, ok)
	apply := get.(ir.Apply)
	assert.Equal(t, ir.ApplyGet, apply.Kind)

	set, ok, err := r.Resolve(Call{
		Module: "Microsoft.FSharp.Core.LanguagePrimitives.IntrinsicFunctions",
		Member: "SetArray",
		Args:   []ir.Expr{arr, idx, ir.Str("v")},
		Ret:    ir.Unit(),
	})
	require.NoError(t, err)
	require.True(t, ok)
	_, isSet := set.(ir.Set)
	assert.True(t, isSet)
}

func TestResolveUnknownMember(t *testing.T) {
	r := newTestResolver(t)

	_, ok, err := r.Resolve(Call{
		Module: "My.Own.Module",
		Member: "helper",
	})
	require.NoError(t, err)
	assert.False(t, ok, "unknown members lower as ordinary calls")
}

func TestRegisterOverridesHandler(t *testing.T) {
	r := newTestResolver(t)
	r.Register("My.Numerics", func(c Call) (ir.Expr, bool, error) {
		if c.Member == "zero" {
			return ir.Num(0, ir.Int32), true, nil
		}
		return nil, false, nil
	})

	e, ok, err := r.Resolve(Call{Module: "My.Numerics", Member: "zero", Ret: ir.Number(ir.Int32)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ir.Expr(ir.Num(0, ir.Int32)), e)

	_, ok, err = r.Resolve(Call{Module: "My.Numerics", Member: "one"})
	require.NoError(t, err)
	assert.False(t, ok, "handler misses fall back to the table")
}
