package lower

import (
	"strings"

	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// lowerSugar is the desugaring group: pipes, composition, erasable
// lambdas, base-constructor calls, accessor and event patterns,
// length fast paths and format-print collapse. Each rewrite either
// produces IR directly or rebuilds a plainer front-end shape and
// re-enters the engine, so inline locals and replacements still
// apply to the rewritten form.
func (c *Compiler) lowerSugar(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	switch v := e.(type) {
	case fsast.Lambda:
		if target, ok := erasableLambda(v); ok {
			out, err := c.Lower(ctx, target)
			return out, err == nil, err
		}
		return nil, false, nil

	case fsast.Call:
		if v.Member == nil {
			return nil, false, nil
		}
		return c.lowerCallSugar(ctx, v)
	}
	return nil, false, nil
}

// erasableLambda detects `fun x -> f x` where f never mentions x and
// yields f. The wrapper adds nothing once application is direct.
func erasableLambda(v fsast.Lambda) (fsast.Expr, bool) {
	app, ok := v.Body.(fsast.Apply)
	if !ok || len(app.Args) != 1 {
		return nil, false
	}
	ref, ok := app.Args[0].(fsast.ValueRef)
	if !ok || ref.Val != v.Param {
		return nil, false
	}
	if fsast.UsesValue(app.Fn, v.Param) {
		return nil, false
	}
	return app.Fn, true
}

func (c *Compiler) lowerCallSugar(ctx Context, v fsast.Call) (ir.Expr, bool, error) {
	m := v.Member

	switch m.Name {
	case "op_PipeRight":
		if len(v.Args) == 2 {
			out, err := c.Lower(ctx, pipeApply(v, v.Args[1], v.Args[0]))
			return out, err == nil, err
		}
	case "op_PipeLeft":
		if len(v.Args) == 2 {
			out, err := c.Lower(ctx, pipeApply(v, v.Args[0], v.Args[1]))
			return out, err == nil, err
		}
	case "op_ComposeRight":
		if len(v.Args) == 2 {
			out, err := c.lowerCompose(ctx, v, v.Args[0], v.Args[1])
			return out, err == nil, err
		}
	case "op_ComposeLeft":
		if len(v.Args) == 2 {
			out, err := c.lowerCompose(ctx, v, v.Args[1], v.Args[0])
			return out, err == nil, err
		}
	}

	// printfn "%d" 1 and friends reduce to their single argument;
	// the format machinery lowers on its own.
	if strings.Contains(m.Name, "PrintFormat") && len(v.Args) == 1 {
		out, err := c.Lower(ctx, v.Args[0])
		return out, err == nil, err
	}

	if _, isBase := v.Obj.(fsast.BaseRef); isBase {
		out, err := c.lowerBaseCall(ctx, v)
		return out, err == nil, err
	}

	// Length on arrays and strings reads the native property.
	if m.Name == "get_Length" && v.Obj != nil {
		if t := v.Obj.NodeType(); t.IsArray() || t.IsString() {
			obj, err := c.Lower(ctx, v.Obj)
			if err != nil {
				return nil, false, err
			}
			return ir.GetField(obj, "length", ir.Number(ir.Int32)), true, nil
		}
	}

	// Option's value accessor unwraps through the runtime helper, so
	// wrapped somes stay transparent.
	if m.FullName == fsast.SysOption+".get_Value" && v.Obj != nil {
		obj, err := c.Lower(ctx, v.Obj)
		if err != nil {
			return nil, false, err
		}
		out := ir.CallExpr(ir.Import("value", libOption, ir.Any()), c.lowerType(ctx, v.Typ), obj)
		out.Loc = locOf(v)
		return out, true, nil
	}

	// Core-library accessors stay with the replacement resolver in
	// the application group; only user-defined properties desugar
	// here.
	if (m.IsGetter || m.IsSetter) && !isCoreModule(m.DeclaringEntityFullName) {
		out, err := c.lowerAccessor(ctx, v)
		return out, err == nil, err
	}

	if kind, rest, ok := eventPrefix(m.Name); ok && m.IsInstance && v.Obj != nil && !isCoreModule(m.DeclaringEntityFullName) {
		obj, err := c.Lower(ctx, v.Obj)
		if err != nil {
			return nil, false, err
		}
		args, err := c.lowerArgs(ctx, v.Args)
		if err != nil {
			return nil, false, err
		}
		callee := ir.GetField(obj, kind+rest, ir.Any())
		out := ir.CallExpr(callee, c.lowerType(ctx, v.Typ), args...)
		out.Loc = locOf(v)
		return out, true, nil
	}

	return nil, false, nil
}

// pipeApply rebuilds a pipe as a direct application of fn to arg.
func pipeApply(v fsast.Call, fn, arg fsast.Expr) fsast.Expr {
	return fsast.Apply{Typ: v.Typ, Loc: v.Loc, Fn: fn, Args: []fsast.Expr{arg}}
}

// lowerCompose turns f >> g (or g << f) into fun x -> g(f(x)).
func (c *Compiler) lowerCompose(ctx Context, v fsast.Call, first, second fsast.Expr) (ir.Expr, error) {
	lf, err := c.Lower(ctx, first)
	if err != nil {
		return nil, err
	}
	lg, err := c.Lower(ctx, second)
	if err != nil {
		return nil, err
	}
	typ := c.lowerType(ctx, v.Typ)
	param := ir.Ident{Name: c.freshName("x"), Typ: domainOf(typ)}
	inner := ir.CallExpr(lf, rangeOf(lf.ExprType()), ir.IdentOf(param, nil))
	outer := ir.CallExpr(lg, rangeOf(lg.ExprType()), inner)
	return ir.Lambda{Typ: typ, Loc: locOf(v), Params: []ir.Ident{param}, Body: outer}, nil
}

func domainOf(t ir.Type) ir.Type {
	if t.Kind == ir.TypeFunc && len(t.Args) == 2 {
		return t.Args[0]
	}
	return ir.Any()
}

func rangeOf(t ir.Type) ir.Type {
	if t.Kind == ir.TypeFunc && len(t.Args) == 2 {
		return t.Args[1]
	}
	return ir.Any()
}

// lowerBaseCall handles calls through the base reference: the
// primary constructor invokes base directly, other members go
// through a property of it. A non-primary constructor cannot be
// expressed in the output object model.
func (c *Compiler) lowerBaseCall(ctx Context, v fsast.Call) (ir.Expr, error) {
	base, err := c.Lower(ctx, v.Obj)
	if err != nil {
		return nil, err
	}
	args, err := c.lowerArgs(ctx, v.Args)
	if err != nil {
		return nil, err
	}
	m := v.Member
	if m.IsImplicitCtor || m.Name == ".ctor" {
		if !m.IsImplicitCtor {
			return nil, diag.New(diag.CodeNonPrimaryBase,
				"base constructor %s is not the primary constructor", m.FullName).At(v.Loc)
		}
		out := ir.CallExpr(base, ir.Unit(), args...)
		out.Loc = locOf(v)
		return out, nil
	}
	callee := ir.GetField(base, outputMemberName(m), ir.Any())
	out := ir.CallExpr(callee, c.lowerType(ctx, v.Typ), args...)
	out.Loc = locOf(v)
	return out, nil
}

// lowerAccessor rewrites property calls as direct gets and sets.
func (c *Compiler) lowerAccessor(ctx Context, v fsast.Call) (ir.Expr, error) {
	m := v.Member
	target, err := c.accessorTarget(ctx, v)
	if err != nil {
		return nil, err
	}
	name := propertyName(m.Name)
	if m.IsGetter {
		out := ir.GetField(target, name, c.lowerType(ctx, v.Typ))
		out.Loc = locOf(v)
		return out, nil
	}
	args, err := c.lowerArgs(ctx, v.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, diag.New(diag.CodeUnexpectedExpr,
			"setter %s takes one value, got %d", m.FullName, len(args)).At(v.Loc)
	}
	return ir.Set{Loc: locOf(v), Callee: target, Prop: ir.Str(name), Value: args[0]}, nil
}

func (c *Compiler) accessorTarget(ctx Context, v fsast.Call) (ir.Expr, error) {
	if v.Obj != nil {
		return c.Lower(ctx, v.Obj)
	}
	return ir.EntityRef{Typ: ir.Any(), FullName: v.Member.DeclaringEntityFullName}, nil
}

// propertyName strips the accessor prefix off a member name.
func propertyName(name string) string {
	for _, prefix := range []string{"get_", "set_"} {
		if strings.HasPrefix(name, prefix) {
			return name[len(prefix):]
		}
	}
	return name
}

// isCoreModule reports whether a full name belongs to the standard
// library surface the replacement resolver owns.
func isCoreModule(fullName string) bool {
	return strings.HasPrefix(fullName, "System.") ||
		strings.HasPrefix(fullName, "Microsoft.FSharp.") ||
		strings.HasPrefix(fullName, "Fable.Core.")
}

// eventPrefix splits add_Click style event accessor names.
func eventPrefix(name string) (kind, rest string, ok bool) {
	switch {
	case strings.HasPrefix(name, "add_"):
		return "add", name[len("add_"):], true
	case strings.HasPrefix(name, "remove_"):
		return "remove", name[len("remove_"):], true
	}
	return "", "", false
}
