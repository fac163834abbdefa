package replace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johngalambos/Fable/internal/ir"
)

func TestLoadBuiltins(t *testing.T) {
	table, err := LoadBuiltins()
	require.NoError(t, err, "embedded table must always parse")
	assert.Greater(t, table.Modules(), 5)
}

func TestBuiltinsOperatorEntries(t *testing.T) {
	table := MustBuiltins()

	add, ok := table.Lookup("Microsoft.FSharp.Core.Operators", "op_Addition")
	require.True(t, ok)
	assert.Equal(t, KindOperator, add.Kind)
	assert.Equal(t, "+", add.Symbol)
	assert.Equal(t, ir.BinaryOp, add.Class)

	neg, ok := table.Lookup("Microsoft.FSharp.Core.Operators", "op_UnaryNegation")
	require.True(t, ok)
	assert.Equal(t, ir.UnaryOp, neg.Class)

	and, ok := table.Lookup("Microsoft.FSharp.Core.Operators", "op_BooleanAnd")
	require.True(t, ok)
	assert.Equal(t, ir.LogicalOp, and.Class)
}

func TestBuiltinsHelperInheritsModulePath(t *testing.T) {
	table := MustBuiltins()

	head, ok := table.Lookup("Microsoft.FSharp.Collections.ListModule", "head")
	require.True(t, ok)
	assert.Equal(t, KindHelper, head.Kind)
	assert.Equal(t, "head", head.Selector)
	assert.Equal(t, "./fable-library/List.js", head.Path, "path defaults to the module's")

	defaultArg, ok := table.Lookup("Microsoft.FSharp.Core.Operators", "defaultArg")
	require.True(t, ok)
	assert.Equal(t, "./fable-library/Option.js", defaultArg.Path, "inline path wins")
}

func TestBuiltinsIdentityEntries(t *testing.T) {
	table := MustBuiltins()
	id, ok := table.Lookup("Microsoft.FSharp.Core.Operators", "id")
	require.True(t, ok)
	assert.Equal(t, KindIdentity, id.Kind)
}

func TestLookupMisses(t *testing.T) {
	table := MustBuiltins()

	_, ok := table.Lookup("Microsoft.FSharp.Core.Operators", "noSuchMember")
	assert.False(t, ok)
	_, ok = table.Lookup("No.Such.Module", "map")
	assert.False(t, ok)
}

func TestParseRejectsAmbiguousMember(t *testing.T) {
	_, err := Parse(`
replacements: "M": members: f: {
	identity: true
	operator: {symbol: "+", class: "binary"}
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestParseRejectsHelperWithoutPath(t *testing.T) {
	_, err := Parse(`
replacements: "M": members: f: {
	helper: {selector: "f"}
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path")
}

func TestParseRejectsUnknownOperatorClass(t *testing.T) {
	_, err := Parse(`
replacements: "M": members: f: {
	operator: {symbol: "+", class: "ternary"}
}
`)
	require.Error(t, err)
}

func TestExtendOverrides(t *testing.T) {
	base := MustBuiltins()
	custom, err := Parse(`
replacements: "Microsoft.FSharp.Core.Operators": members: {
	op_Addition: {helper: {selector: "add", path: "./custom/Math.js"}}
}
replacements: "My.Lib": members: {
	go: {identity: true}
}
`)
	require.NoError(t, err)

	base.Extend(custom)

	add, ok := base.Lookup("Microsoft.FSharp.Core.Operators", "op_Addition")
	require.True(t, ok)
	assert.Equal(t, KindHelper, add.Kind, "extension replaces the builtin entry")

	sub, ok := base.Lookup("Microsoft.FSharp.Core.Operators", "op_Subtraction")
	require.True(t, ok)
	assert.Equal(t, KindOperator, sub.Kind, "untouched entries survive")

	_, ok = base.Lookup("My.Lib", "go")
	assert.True(t, ok)
}
