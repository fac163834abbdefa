package lower

import (
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// lowerBindings handles let and recursive let groups. Inline-marked
// local functions are captured for call-site expansion instead of
// binding an emitted value.
func (c *Compiler) lowerBindings(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	switch v := e.(type) {
	case fsast.Let:
		if isInlineLocal(v.Var, v.Value) {
			body, err := c.Lower(ctx.BindInline(v.Var, v.Value), v.Body)
			return body, err == nil, err
		}
		value, err := c.Lower(ctx, v.Value)
		if err != nil {
			return nil, false, err
		}
		inner, id := c.bindVal(ctx, v.Var)
		body, err := c.Lower(inner, v.Body)
		if err != nil {
			return nil, false, err
		}
		decl := ir.VarDecl{Loc: locOf(v), Var: id, Value: value, IsMutable: v.Var.IsMutable}
		return ir.Seq(decl, body), true, nil

	case fsast.LetRec:
		out, err := c.lowerLetRec(ctx, v)
		return out, err == nil, err
	}
	return nil, false, nil
}

// isInlineLocal reports whether a binding is a locally inlined
// function. Generic local functions re-specialize per call site, so
// they join the inline path even without the explicit marker.
func isInlineLocal(v *fsast.Val, value fsast.Expr) bool {
	if _, isLambda := value.(fsast.Lambda); !isLambda {
		return false
	}
	if v.Inline {
		return true
	}
	return v.Type.HasGenericParam()
}

// lowerLetRec binds the whole group before lowering any value, so
// mutually recursive references resolve.
func (c *Compiler) lowerLetRec(ctx Context, v fsast.LetRec) (ir.Expr, error) {
	inner := ctx
	ids := make([]ir.Ident, len(v.Bindings))
	for i, b := range v.Bindings {
		inner, ids[i] = c.bindVal(inner, b.Var)
	}
	parts := make([]ir.Expr, 0, len(v.Bindings)+1)
	for i, b := range v.Bindings {
		value, err := c.Lower(inner, b.Value)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ir.VarDecl{
			Var:       ids[i],
			Value:     value,
			IsMutable: b.Var.IsMutable,
		})
	}
	body, err := c.Lower(inner, v.Body)
	if err != nil {
		return nil, err
	}
	parts = append(parts, body)
	return ir.Seq(parts...), nil
}
