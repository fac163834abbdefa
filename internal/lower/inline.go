package lower

import (
	"fmt"
	"strings"

	"github.com/johngalambos/Fable/internal/config"
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/source"
)

// registerInlines caches every inline-marked member body in the
// shared state before any body lowers, so in-file forward references
// and cross-file calls find their entries.
func (c *Compiler) registerInlines(decls []fsast.Decl) {
	for _, d := range decls {
		switch v := d.(type) {
		case fsast.EntityDecl:
			c.registerInlines(v.Decls)
		case fsast.MemberDecl:
			if v.Member == nil || !v.Member.Inline {
				continue
			}
			counts := make(map[*fsast.Val]int, len(v.Args)+1)
			for _, p := range v.Args {
				counts[p] = fsast.CountRefs(v.Body, p)
			}
			if v.ThisVal != nil {
				counts[v.ThisVal] = fsast.CountRefs(v.Body, v.ThisVal)
			}
			c.state.storeInline(v.Member.FullName, &inlineEntry{
				member:    v.Member,
				thisVal:   v.ThisVal,
				params:    v.Args,
				refCounts: counts,
				body:      v.Body,
			})
		}
	}
}

// pushInline guards one expansion frame. The same key twice on the
// stack is a cycle; the stack height is bounded by the configured
// depth.
func (c *Compiler) pushInline(key string, at source.Range) (func(), error) {
	for _, active := range c.inlineStack {
		if active == key {
			return nil, diag.New(diag.CodeInlineCycle,
				"inline expansion of %s reaches itself (chain: %s)",
				key, strings.Join(c.inlineStack, " > ")).At(at)
		}
	}
	limit := c.opts.MaxInlineDepth
	if limit <= 0 {
		limit = config.Default().MaxInlineDepth
	}
	if len(c.inlineStack) >= limit {
		return nil, diag.New(diag.CodeInlineDepth,
			"inline expansion exceeded %d nested levels at %s", limit, key).At(at)
	}
	c.inlineStack = append(c.inlineStack, key)
	return func() {
		c.inlineStack = c.inlineStack[:len(c.inlineStack)-1]
	}, nil
}

// expandInlineMember re-lowers a cached inline body under the call's
// arguments and type arguments. Every call site gets an independent
// specialization; arguments referenced more than once evaluate into
// a local first.
func (c *Compiler) expandInlineMember(ctx Context, v fsast.Call) (ir.Expr, error) {
	m := v.Member
	entry, ok := c.state.inline(m.FullName)
	if !ok {
		return nil, diag.New(diag.CodeInlineMissing,
			"inline member %s has no cached body", m.FullName).At(v.Loc)
	}
	if strings.HasPrefix(m.Name, "op_") && !isCoreModule(m.DeclaringEntityFullName) {
		c.warnAt(diag.CodeInlineOperator, v.Loc,
			"operator %s inlines against a non-standard type", propertyName(m.Name))
	}

	release, err := c.pushInline(m.FullName, v.Loc)
	if err != nil {
		return nil, err
	}
	defer release()

	ictx := ctx.WithSubst(m.GenericParams, v.TypeArgs).WithTargets(nil)
	var decls []ir.Expr

	bind := func(val *fsast.Val, arg fsast.Expr) error {
		lowered, err := c.Lower(ctx, arg)
		if err != nil {
			return err
		}
		if entry.refCounts[val] > 1 {
			id := ir.Ident{
				Name:      c.freshName(sanitizeName(val.Name)),
				Typ:       lowered.ExprType(),
				IsMutable: val.IsMutable,
			}
			decls = append(decls, ir.VarDecl{Var: id, Value: lowered, IsMutable: val.IsMutable})
			ictx = ictx.Bind(val, ir.IdentOf(id, nil))
			return nil
		}
		ictx = ictx.Bind(val, lowered)
		return nil
	}

	if entry.thisVal != nil {
		if v.Obj == nil {
			return nil, diag.New(diag.CodeUnexpectedExpr,
				"instance inline member %s called without a receiver", m.FullName).At(v.Loc)
		}
		if err := bind(entry.thisVal, v.Obj); err != nil {
			return nil, err
		}
	}
	if len(v.Args) < len(entry.params) {
		return nil, diag.New(diag.CodeUnexpectedExpr,
			"inline member %s partially applied: %d of %d arguments",
			m.FullName, len(v.Args), len(entry.params)).At(v.Loc)
	}
	for i, p := range entry.params {
		if err := bind(p, v.Args[i]); err != nil {
			return nil, err
		}
	}

	body, err := c.Lower(ictx, entry.body)
	if err != nil {
		return nil, err
	}
	return ir.Seq(append(decls, body)...), nil
}

// expandInlineLocal re-lowers a let-bound inline function at an
// application site, peeling one lambda layer per argument. The body
// lowers under the binding's captured context, the arguments under
// the call's.
func (c *Compiler) expandInlineLocal(ctx Context, local inlineLocal, args []fsast.Expr, at fsast.Expr) (ir.Expr, error) {
	key := fmt.Sprintf("%s@%p", local.val.Name, local.val)
	release, err := c.pushInline(key, at.NodeRange())
	if err != nil {
		return nil, err
	}
	defer release()

	ictx := local.ctx.WithTargets(nil)
	var decls []ir.Expr
	value := local.value
	consumed := 0
	for consumed < len(args) {
		lam, ok := value.(fsast.Lambda)
		if !ok {
			// More arguments than lambda layers: apply the rest as
			// an ordinary call below.
			break
		}
		lowered, err := c.Lower(ctx, args[consumed])
		if err != nil {
			return nil, err
		}
		if fsast.CountRefs(lam.Body, lam.Param) > 1 {
			id := ir.Ident{
				Name:      c.freshName(sanitizeName(lam.Param.Name)),
				Typ:       lowered.ExprType(),
				IsMutable: lam.Param.IsMutable,
			}
			decls = append(decls, ir.VarDecl{Var: id, Value: lowered, IsMutable: lam.Param.IsMutable})
			ictx = ictx.Bind(lam.Param, ir.IdentOf(id, nil))
		} else {
			ictx = ictx.Bind(lam.Param, lowered)
		}
		value = lam.Body
		consumed++
	}

	body, err := c.Lower(ictx, value)
	if err != nil {
		return nil, err
	}
	if rest := args[consumed:]; len(rest) > 0 {
		restArgs, err := c.lowerArgs(ctx, rest)
		if err != nil {
			return nil, err
		}
		body = ir.CallExpr(body, c.lowerType(ctx, at.NodeType()), restArgs...)
	}
	return ir.Seq(append(decls, body)...), nil
}
