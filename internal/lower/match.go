package lower

import (
	"fmt"
	"strings"

	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// lowerMatch compiles decision trees and their success leaves. Bodies
// referenced from more than one leaf are extracted to local closures
// once; single-reference bodies inline at the leaf. A chain of
// constant comparisons over one subject becomes a switch.
func (c *Compiler) lowerMatch(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	switch v := e.(type) {
	case fsast.DecisionTree:
		out, err := c.lowerDecisionTree(ctx, v)
		return out, err == nil, err
	case fsast.Success:
		out, err := c.lowerSuccess(ctx, v)
		return out, err == nil, err
	}
	return nil, false, nil
}

func (c *Compiler) lowerDecisionTree(ctx Context, v fsast.DecisionTree) (ir.Expr, error) {
	targets := make([]*matchTarget, len(v.Targets))
	for i, t := range v.Targets {
		targets[i] = &matchTarget{bound: t.Bound, body: t.Body}
	}
	countTargetRefs(v.Decision, targets)

	// Multi-reference bodies become closures ahead of the decision,
	// in target order so earlier bindings stay independent of later
	// ones.
	var decls []ir.Expr
	for _, mt := range targets {
		if mt.refs <= 1 {
			continue
		}
		cctx, params := c.bindVals(ctx, mt.bound)
		body, err := c.Lower(cctx.WithTargets(nil), mt.body)
		if err != nil {
			return nil, err
		}
		fn := ir.Lambda{
			Typ:    ir.Func(ir.Any(), body.ExprType()),
			Params: params,
			Body:   body,
		}
		mt.closure = ir.Ident{Name: c.freshName("matchTarget"), Typ: fn.Typ}
		decls = append(decls, ir.VarDecl{Var: mt.closure, Value: fn})
	}

	dctx := ctx.WithTargets(targets)
	if sw, ok, err := c.trySwitch(dctx, v, targets); err != nil {
		return nil, err
	} else if ok {
		return ir.Seq(append(decls, sw)...), nil
	}

	decision, err := c.Lower(dctx, v.Decision)
	if err != nil {
		return nil, err
	}
	return ir.Seq(append(decls, decision)...), nil
}

// countTargetRefs tallies Success references within one tree's
// decision expression. Nested trees carry their own target tables,
// so the walk does not descend into them.
func countTargetRefs(decision fsast.Expr, targets []*matchTarget) {
	fsast.Walk(decision, func(e fsast.Expr) bool {
		switch s := e.(type) {
		case fsast.DecisionTree:
			return false
		case fsast.Success:
			if s.Index >= 0 && s.Index < len(targets) {
				targets[s.Index].refs++
			}
		}
		return true
	})
}

func (c *Compiler) lowerSuccess(ctx Context, v fsast.Success) (ir.Expr, error) {
	mt, ok := ctx.Target(v.Index)
	if !ok || len(v.Bound) != len(mt.bound) {
		return nil, diag.New(diag.CodeMissingTarget,
			"decision leaf %d does not match any target", v.Index).At(v.Loc)
	}

	args, err := c.lowerAll(ctx, v.Bound)
	if err != nil {
		return nil, err
	}

	if mt.closure.Name != "" {
		out := ir.CallExpr(ir.IdentOf(mt.closure, nil), c.lowerType(ctx, v.Typ), args...)
		out.Loc = locOf(v)
		return out, nil
	}

	// Single reference: bind the captured values and inline the body
	// here.
	bodyCtx := ctx
	exprs := make([]ir.Expr, 0, len(args)+1)
	for i, bv := range mt.bound {
		var id ir.Ident
		bodyCtx, id = c.bindVal(bodyCtx, bv)
		exprs = append(exprs, ir.VarDecl{Loc: rangePtr(bv.Range), Var: id, Value: args[i]})
	}
	body, err := c.Lower(bodyCtx.WithTargets(nil), mt.body)
	if err != nil {
		return nil, err
	}
	return ir.Seq(append(exprs, body)...), nil
}

// switchArm is one recognized comparison of the chain: the constant
// tests and the success leaf the branch jumps to.
type switchArm struct {
	tests []ir.Expr
	leaf  fsast.Success
}

// trySwitch recognizes an if/else chain of constant comparisons over
// a single subject and compiles it to a switch. Claims nothing when
// the chain is shorter than two comparisons, mixes subjects, or has
// non-leaf branches.
func (c *Compiler) trySwitch(ctx Context, v fsast.DecisionTree, targets []*matchTarget) (ir.Expr, bool, error) {
	var (
		arms    []switchArm
		subject fsast.Expr
		subKey  string
	)

	cur := v.Decision
	for {
		branch, ok := cur.(fsast.IfThenElse)
		if !ok {
			break
		}
		sub, key, test, ok := c.switchCond(ctx, branch.Cond)
		if !ok {
			return nil, false, nil
		}
		if subject == nil {
			subject, subKey = sub, key
		} else if key != subKey {
			return nil, false, nil
		}
		leaf, ok := branch.Then.(fsast.Success)
		if !ok {
			return nil, false, nil
		}
		arms = append(arms, switchArm{tests: []ir.Expr{test}, leaf: leaf})
		cur = branch.Else
	}
	final, ok := cur.(fsast.Success)
	if !ok || len(arms) < 2 {
		return nil, false, nil
	}

	loweredSubject, err := c.switchSubject(ctx, subject, subKey)
	if err != nil {
		return nil, false, err
	}

	treeType := c.lowerType(ctx, v.Typ)
	if treeType.Kind == ir.TypeUnit {
		sw := ir.Switch{Loc: locOf(v), Subject: loweredSubject}
		for _, arm := range arms {
			body, err := c.lowerSuccess(ctx, arm.leaf)
			if err != nil {
				return nil, false, err
			}
			sw.Cases = append(sw.Cases, ir.SwitchCase{Tests: arm.tests, Body: body})
		}
		def, err := c.lowerSuccess(ctx, final)
		if err != nil {
			return nil, false, err
		}
		sw.Default = def
		return sw, true, nil
	}

	// Value-producing match: route every arm through one mutable
	// result variable.
	result := ir.Ident{Name: c.freshName("matchResult"), Typ: treeType, IsMutable: true}
	sw := ir.Switch{Loc: locOf(v), Subject: loweredSubject}
	for _, arm := range arms {
		body, err := c.lowerSuccess(ctx, arm.leaf)
		if err != nil {
			return nil, false, err
		}
		sw.Cases = append(sw.Cases, ir.SwitchCase{
			Tests: arm.tests,
			Body:  ir.Assign(ir.IdentOf(result, nil), body),
		})
	}
	def, err := c.lowerSuccess(ctx, final)
	if err != nil {
		return nil, false, err
	}
	sw.Default = ir.Assign(ir.IdentOf(result, nil), def)

	decl := ir.VarDecl{Var: result, Value: c.zeroValue(treeType), IsMutable: true}
	return ir.Seq(decl, sw, ir.IdentOf(result, nil)), true, nil
}

// switchCond recognizes one comparison the switch lowering accepts:
// a case test on a tagged or string-tag union, or equality against a
// constant. Returns the subject expression, a key identifying it
// across branches, and the constant test.
func (c *Compiler) switchCond(ctx Context, cond fsast.Expr) (fsast.Expr, string, ir.Expr, bool) {
	switch t := cond.(type) {
	case fsast.UnionTest:
		ref, ok := t.Operand.(fsast.ValueRef)
		if !ok {
			return nil, "", nil, false
		}
		ent := c.unionEntity(t.Operand.NodeType())
		switch ent.Style {
		case ir.StyleTagged:
			tag := ent.CaseIndex(t.Case.Name)
			if tag < 0 {
				return nil, "", nil, false
			}
			return t.Operand, subjectKey(ref, "tag"), ir.Num(float64(tag), ir.Int32), true
		case ir.StyleStringTag:
			return t.Operand, subjectKey(ref, "string"), ir.Str(tagNameOf(t.Case)), true
		}
		return nil, "", nil, false

	case fsast.Call:
		if t.Member == nil || t.Member.Name != "op_Equality" || len(t.Args) != 2 {
			return nil, "", nil, false
		}
		ref, ok := t.Args[0].(fsast.ValueRef)
		if !ok {
			return nil, "", nil, false
		}
		k, ok := t.Args[1].(fsast.Const)
		if !ok {
			return nil, "", nil, false
		}
		test, err := c.lowerConst(ctx, k)
		if err != nil {
			return nil, "", nil, false
		}
		return t.Args[0], subjectKey(ref, "value"), test, true
	}
	return nil, "", nil, false
}

// switchSubject lowers the recognized subject, reading the tag field
// when the comparisons are tag tests.
func (c *Compiler) switchSubject(ctx Context, subject fsast.Expr, key string) (ir.Expr, error) {
	operand, err := c.Lower(ctx, subject)
	if err != nil {
		return nil, err
	}
	if kindOfKey(key) == "tag" {
		return ir.GetField(operand, "tag", ir.Number(ir.Int32)), nil
	}
	return operand, nil
}

func subjectKey(ref fsast.ValueRef, kind string) string {
	return fmt.Sprintf("%p/%s", ref.Val, kind)
}

func kindOfKey(key string) string {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[i+1:]
	}
	return key
}
