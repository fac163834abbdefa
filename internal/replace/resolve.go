package replace

import (
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/source"
)

// Call describes one core-library call site after argument
// flattening.
type Call struct {
	Module string
	Member string
	This   ir.Expr // nil for static members
	Args   []ir.Expr
	Ret    ir.Type
	Loc    *source.Range
}

// allArgs prepends the receiver for instance calls.
func (c Call) allArgs() []ir.Expr {
	if c.This == nil {
		return c.Args
	}
	return append([]ir.Expr{c.This}, c.Args...)
}

// Handler resolves calls of one module in Go. Returning ok=false
// defers to the declarative table.
type Handler func(c Call) (ir.Expr, bool, error)

// Resolver rewrites core-library calls using Go handlers first, then
// the declarative table.
type Resolver struct {
	table    *Table
	handlers map[string]Handler
}

// NewResolver builds a resolver over a table with the default
// intrinsic handlers registered.
func NewResolver(table *Table) *Resolver {
	r := &Resolver{
		table:    table,
		handlers: make(map[string]Handler),
	}
	r.Register("Microsoft.FSharp.Core.Operators", coreOperators)
	r.Register("Microsoft.FSharp.Core.LanguagePrimitives.IntrinsicFunctions", intrinsics)
	return r
}

// Register installs a handler for a module, replacing any previous
// one.
func (r *Resolver) Register(module string, h Handler) {
	r.handlers[module] = h
}

// Resolve rewrites one call site. ok=false means the call is not a
// known core-library member and lowers as an ordinary call.
func (r *Resolver) Resolve(c Call) (ir.Expr, bool, error) {
	if h, ok := r.handlers[c.Module]; ok {
		if e, handled, err := h(c); err != nil || handled {
			return e, handled, err
		}
	}

	entry, ok := r.table.Lookup(c.Module, c.Member)
	if !ok {
		return nil, false, nil
	}

	args := c.allArgs()
	switch entry.Kind {
	case KindOperator:
		op := ir.CallOp(entry.Symbol, entry.Class, c.Ret, args...)
		op.Loc = c.Loc
		return op, true, nil
	case KindHelper:
		callee := ir.Import(entry.Selector, entry.Path, ir.Any())
		call := ir.CallExpr(callee, c.Ret, args...)
		call.Loc = c.Loc
		return call, true, nil
	case KindIdentity:
		if len(args) == 0 {
			return nil, false, nil
		}
		return args[0], true, nil
	}
	return nil, false, nil
}

// coreOperators covers the operators that need shapes the table
// cannot express.
func coreOperators(c Call) (ir.Expr, bool, error) {
	switch c.Member {
	case "ignore":
		// Evaluate for effect, yield unit.
		if len(c.Args) == 1 {
			return ir.Seq(c.Args[0], ir.UnitConst()), true, nil
		}
	case "op_PipeRight":
		// x |> f applies f to x.
		if len(c.Args) == 2 {
			return ir.CallExpr(c.Args[1], c.Ret, c.Args[0]), true, nil
		}
	case "op_PipeLeft":
		if len(c.Args) == 2 {
			return ir.CallExpr(c.Args[0], c.Ret, c.Args[1]), true, nil
		}
	}
	return nil, false, nil
}

// intrinsics covers raw element access the front end emits for array
// and string indexing.
func intrinsics(c Call) (ir.Expr, bool, error) {
	switch c.Member {
	case "GetArray", "GetString":
		if len(c.Args) == 2 {
			get := ir.GetExpr(c.Args[0], c.Args[1], c.Ret)
			get.Loc = c.Loc
			return get, true, nil
		}
	case "SetArray":
		if len(c.Args) == 3 {
			set := ir.Set{Callee: c.Args[0], Prop: c.Args[1], Value: c.Args[2], Loc: c.Loc}
			return set, true, nil
		}
	}
	return nil, false, nil
}
