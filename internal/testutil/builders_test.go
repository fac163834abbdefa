package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johngalambos/Fable/internal/fsast"
)

func TestApplyOfUnwindsFunctionType(t *testing.T) {
	x := Val("x", TInt())
	fn := LambdaOf(x, Ref(x))
	require.Equal(t, fsast.TypeFunc, fn.Typ.Kind)

	applied := ApplyOf(fn, Int(1))
	assert.True(t, applied.Typ.FullName == fsast.SysInt32)
}

func TestUnionEntityShape(t *testing.T) {
	shape := UnionEntity("Lib.Shape", Case("Circle", TFloat()), Case("Point"))
	require.Len(t, shape.UnionCases, 2)
	assert.Equal(t, "Shape", shape.Name)
	assert.True(t, shape.IsUnion)
	assert.Len(t, shape.UnionCases[0].Fields, 1)
	assert.Empty(t, shape.UnionCases[1].Fields)
}

func TestBindingTypesFromBody(t *testing.T) {
	d := Binding("Lib", "answer", Int(42))
	assert.Equal(t, "Lib.answer", d.Member.FullName)
	assert.Equal(t, fsast.SysInt32, d.Member.ReturnType.FullName)
}

func TestAtIsNonZero(t *testing.T) {
	assert.False(t, At(3).IsZero())
	assert.Equal(t, 3, At(3).Start.Line)
}
