package lower

import (
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/source"
)

const emptyGuid = "00000000-0000-0000-0000-000000000000"

// sentinels rewrites well-known standard-library constants to direct
// values or library calls, keyed by member full name.
var sentinels = map[string]func(typ ir.Type, loc *source.Range) ir.Expr{
	"System.String.get_Empty": func(_ ir.Type, loc *source.Range) ir.Expr {
		return ir.MakeConst(ir.StringVal{}, ir.String(), loc)
	},
	"System.Guid.get_Empty": func(_ ir.Type, loc *source.Range) ir.Expr {
		return ir.MakeConst(ir.StringVal{Val: emptyGuid}, ir.String(), loc)
	},
	"System.TimeSpan.get_Zero": func(_ ir.Type, loc *source.Range) ir.Expr {
		return ir.MakeConst(ir.NumberVal{Kind: ir.Float64}, ir.Number(ir.Float64), loc)
	},
	"System.DateTime.get_MinValue": func(typ ir.Type, loc *source.Range) ir.Expr {
		call := ir.CallExpr(ir.Import("minValue", libDate, ir.Any()), typ)
		call.Loc = loc
		return call
	},
	"System.DateTime.get_MaxValue": func(typ ir.Type, loc *source.Range) ir.Expr {
		call := ir.CallExpr(ir.Import("maxValue", libDate, ir.Any()), typ)
		call.Loc = loc
		return call
	},
}

// lowerSentinel is the first recognizer group: static sentinel
// accessors become constants or library calls before any general
// call lowering can claim them.
func (c *Compiler) lowerSentinel(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	call, ok := e.(fsast.Call)
	if !ok || call.Member == nil || call.Obj != nil || len(call.Args) != 0 {
		return nil, false, nil
	}
	build, ok := sentinels[call.Member.FullName]
	if !ok {
		return nil, false, nil
	}
	return build(c.lowerType(ctx, call.Typ), locOf(call)), true, nil
}
