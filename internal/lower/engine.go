package lower

import (
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/source"
)

// recognizer is one rule of the lowering table. ok=false means the
// rule does not claim the node and the next rule runs; an error stops
// lowering of the whole file.
type recognizer struct {
	name string
	fn   func(*Compiler, Context, fsast.Expr) (ir.Expr, bool, error)
}

// recognizers is the lowering table in priority order. Specific
// rewrites run before generic ones: sentinels before sugar, sugar
// before plain application, application before raw access, constants
// last. Reordering entries changes semantics.
//
// The table is filled in init rather than at declaration because the
// rules recurse through Lower, which walks the table.
var recognizers []recognizer

func init() {
	recognizers = []recognizer{
		{"sentinel", (*Compiler).lowerSentinel},
		{"sugar", (*Compiler).lowerSugar},
		{"controlflow", (*Compiler).lowerControlFlow},
		{"bindings", (*Compiler).lowerBindings},
		{"application", (*Compiler).lowerApplication},
		{"access", (*Compiler).lowerAccess},
		{"construction", (*Compiler).lowerConstruction},
		{"tests", (*Compiler).lowerTests},
		{"match", (*Compiler).lowerMatch},
		{"values", (*Compiler).lowerValues},
	}
}

// Lower translates one front-end expression. Total over well-typed
// input: a node no rule claims is a fatal diagnostic, never a silent
// drop.
func (c *Compiler) Lower(ctx Context, e fsast.Expr) (ir.Expr, error) {
	if e == nil {
		return nil, diag.New(diag.CodeUnexpectedExpr, "nil expression").In(c.filePath)
	}
	for _, r := range recognizers {
		out, ok, err := r.fn(c, ctx, e)
		if err != nil {
			return nil, c.attach(err)
		}
		if ok {
			return out, nil
		}
	}
	return nil, diag.New(diag.CodeUnexpectedExpr, "no lowering rule accepts %T", e).
		At(e.NodeRange()).In(c.filePath)
}

// lowerAll lowers a slice of expressions in order.
func (c *Compiler) lowerAll(ctx Context, exprs []fsast.Expr) ([]ir.Expr, error) {
	out := make([]ir.Expr, len(exprs))
	for i, e := range exprs {
		lowered, err := c.Lower(ctx, e)
		if err != nil {
			return nil, err
		}
		out[i] = lowered
	}
	return out, nil
}

// lowerArgs lowers call arguments, erasing a lone unit argument: the
// source language passes unit where the output passes nothing.
func (c *Compiler) lowerArgs(ctx Context, args []fsast.Expr) ([]ir.Expr, error) {
	if len(args) == 1 {
		if k, ok := args[0].(fsast.Const); ok && k.Value == nil && k.Typ.IsUnit() {
			return nil, nil
		}
	}
	return c.lowerAll(ctx, args)
}

// locOf lifts a node's range into the IR's optional form.
func locOf(e fsast.Expr) *source.Range {
	return rangePtr(e.NodeRange())
}

func rangePtr(r source.Range) *source.Range {
	if r.IsZero() {
		return nil
	}
	return &r
}
