package lower

import (
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// lowerControlFlow handles conditionals, loops, sequencing and the
// try forms. Separately represented try/with and try/finally merge
// into the single IR construct.
func (c *Compiler) lowerControlFlow(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	switch v := e.(type) {
	case fsast.IfThenElse:
		cond, err := c.Lower(ctx, v.Cond)
		if err != nil {
			return nil, false, err
		}
		then, err := c.Lower(ctx, v.Then)
		if err != nil {
			return nil, false, err
		}
		els, err := c.Lower(ctx, v.Else)
		if err != nil {
			return nil, false, err
		}
		return ir.IfThenElse{
			Typ:  c.lowerType(ctx, v.Typ),
			Loc:  locOf(v),
			Cond: cond,
			Then: then,
			Else: els,
		}, true, nil

	case fsast.Sequential:
		first, err := c.Lower(ctx, v.First)
		if err != nil {
			return nil, false, err
		}
		second, err := c.Lower(ctx, v.Second)
		if err != nil {
			return nil, false, err
		}
		return ir.Seq(first, second), true, nil

	case fsast.WhileLoop:
		guard, err := c.Lower(ctx, v.Guard)
		if err != nil {
			return nil, false, err
		}
		body, err := c.Lower(ctx, v.Body)
		if err != nil {
			return nil, false, err
		}
		return ir.WhileLoop{Loc: locOf(v), Guard: guard, Body: body}, true, nil

	case fsast.ForLoop:
		start, err := c.Lower(ctx, v.Start)
		if err != nil {
			return nil, false, err
		}
		limit, err := c.Lower(ctx, v.Finish)
		if err != nil {
			return nil, false, err
		}
		inner, id := c.bindVal(ctx, v.Var)
		body, err := c.Lower(inner, v.Body)
		if err != nil {
			return nil, false, err
		}
		return ir.ForLoop{
			Loc:   locOf(v),
			Var:   id,
			Start: start,
			Limit: limit,
			IsUp:  v.IsUp,
			Body:  body,
		}, true, nil

	case fsast.TryFinally:
		out, err := c.lowerTryFinally(ctx, v)
		return out, err == nil, err

	case fsast.TryWith:
		out, err := c.lowerTryWith(ctx, v, nil)
		return out, err == nil, err
	}
	return nil, false, nil
}

// lowerTryFinally merges a directly nested try/with into one
// try/catch/finally construct.
func (c *Compiler) lowerTryFinally(ctx Context, v fsast.TryFinally) (ir.Expr, error) {
	finalizer, err := c.Lower(ctx, v.Finalizer)
	if err != nil {
		return nil, err
	}
	if tw, ok := v.Body.(fsast.TryWith); ok {
		return c.lowerTryWith(ctx, tw, finalizer)
	}
	body, err := c.Lower(ctx, v.Body)
	if err != nil {
		return nil, err
	}
	return ir.TryCatch{
		Typ:       c.lowerType(ctx, v.Typ),
		Loc:       locOf(v),
		Body:      body,
		Finalizer: finalizer,
	}, nil
}

func (c *Compiler) lowerTryWith(ctx Context, v fsast.TryWith, finalizer ir.Expr) (ir.Expr, error) {
	body, err := c.Lower(ctx, v.Body)
	if err != nil {
		return nil, err
	}
	inner := ctx
	var catchVar *ir.Ident
	if v.CatchVar != nil {
		var id ir.Ident
		inner, id = c.bindVal(ctx, v.CatchVar)
		catchVar = &id
	}
	catch, err := c.Lower(inner, v.CatchBody)
	if err != nil {
		return nil, err
	}
	return ir.TryCatch{
		Typ:       c.lowerType(ctx, v.Typ),
		Loc:       locOf(v),
		Body:      body,
		CatchVar:  catchVar,
		Catch:     catch,
		Finalizer: finalizer,
	}, nil
}
