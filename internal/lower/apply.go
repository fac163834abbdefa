package lower

import (
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/replace"
)

// lowerApplication handles function application, member calls and
// trait calls. Member calls consult the replacement resolver before
// the default lowering; inline members expand against unlowered
// arguments.
func (c *Compiler) lowerApplication(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	switch v := e.(type) {
	case fsast.Apply:
		out, err := c.lowerApply(ctx, v)
		return out, err == nil, err

	case fsast.Call:
		if v.Member == nil {
			return nil, false, nil
		}
		out, err := c.lowerCall(ctx, v)
		return out, err == nil, err

	case fsast.TraitCall:
		out, err := c.resolveTrait(ctx, v)
		return out, err == nil, err
	}
	return nil, false, nil
}

func (c *Compiler) lowerApply(ctx Context, v fsast.Apply) (ir.Expr, error) {
	if ref, ok := v.Fn.(fsast.ValueRef); ok {
		if local, found := ctx.LookupInline(ref.Val); found {
			return c.expandInlineLocal(ctx, local, v.Args, v)
		}
	}
	fn, err := c.Lower(ctx, v.Fn)
	if err != nil {
		return nil, err
	}
	args, err := c.lowerArgs(ctx, v.Args)
	if err != nil {
		return nil, err
	}
	out := ir.CallExpr(fn, c.lowerType(ctx, v.Typ), args...)
	out.Loc = locOf(v)
	return out, nil
}

func (c *Compiler) lowerCall(ctx Context, v fsast.Call) (ir.Expr, error) {
	m := v.Member
	if m.Inline {
		return c.expandInlineMember(ctx, v)
	}

	var this ir.Expr
	if v.Obj != nil {
		lowered, err := c.Lower(ctx, v.Obj)
		if err != nil {
			return nil, err
		}
		this = lowered
	}
	args, err := c.lowerArgs(ctx, v.Args)
	if err != nil {
		return nil, err
	}
	ret := c.lowerType(ctx, v.Typ)
	loc := locOf(v)

	if out, handled, err := c.resolver.Resolve(replace.Call{
		Module: m.DeclaringEntityFullName,
		Member: m.Name,
		This:   this,
		Args:   args,
		Ret:    ret,
		Loc:    loc,
	}); err != nil || handled {
		return out, err
	}

	if m.IsImplicitCtor || m.Name == ".ctor" {
		out := ir.Apply{
			Typ:    ret,
			Loc:    loc,
			Kind:   ir.ApplyConstruct,
			Callee: ir.EntityRef{Typ: ir.Any(), FullName: m.DeclaringEntityFullName},
			Args:   args,
		}
		return out, nil
	}

	target := this
	if target == nil {
		target = ir.EntityRef{Typ: ir.Any(), FullName: m.DeclaringEntityFullName}
	}

	// Core accessors that the resolver declined still lower as
	// plain property access.
	if m.IsGetter {
		out := ir.GetField(target, propertyName(m.Name), ret)
		out.Loc = loc
		return out, nil
	}
	if m.IsSetter {
		if len(args) != 1 {
			return nil, diag.New(diag.CodeUnexpectedExpr,
				"setter %s takes one value, got %d", m.FullName, len(args)).At(v.Loc)
		}
		return ir.Set{Loc: loc, Callee: target, Prop: ir.Str(propertyName(m.Name)), Value: args[0]}, nil
	}

	callee := ir.GetField(target, outputMemberName(m), ir.Any())
	out := ir.CallExpr(callee, ret, args...)
	out.Loc = loc
	return out, nil
}

// outputMemberName is the name a member takes in emitted code.
func outputMemberName(m *fsast.Member) string {
	return propertyName(m.Name)
}
