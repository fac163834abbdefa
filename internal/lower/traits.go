package lower

import (
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// resolveTrait resolves a call known only through a generic
// parameter's structural capability. Active generic bindings
// substitute into the source types; the first concrete type exposing
// a matching member wins. Failure here is a front-end contract
// violation, never recoverable.
func (c *Compiler) resolveTrait(ctx Context, v fsast.TraitCall) (ir.Expr, error) {
	var candidates []traitCandidate
	for _, st := range v.SourceTypes {
		concrete := c.substitute(ctx, st)
		if concrete.Entity == nil {
			continue
		}
		for _, m := range concrete.Entity.Members {
			if traitMatch(concrete.Entity, m, v) {
				candidates = append(candidates, traitCandidate{typ: concrete, member: m})
			}
		}
	}

	switch len(candidates) {
	case 0:
		return nil, diag.New(diag.CodeTraitNoMatch,
			"no type in the constraint implements %s", v.MemberName).At(v.Loc)
	case 1:
		return c.lowerResolvedTrait(ctx, v, candidates[0])
	}

	want := make([]ir.Type, len(v.ArgTypes))
	for i, t := range v.ArgTypes {
		want[i] = c.lowerType(ctx, t)
	}
	for _, cand := range candidates {
		if c.traitCompatible(ctx, cand.member, want) {
			return c.lowerResolvedTrait(ctx, v, cand)
		}
	}
	return nil, diag.New(diag.CodeTraitAmbiguous,
		"%d types in the constraint implement %s and none matches the argument types",
		len(candidates), v.MemberName).At(v.Loc)
}

type traitCandidate struct {
	typ    fsast.Type
	member *fsast.Member
}

// substitute resolves generic parameters in a front-end type through
// the context's active bindings.
func (c *Compiler) substitute(ctx Context, t fsast.Type) fsast.Type {
	switch t.Kind {
	case fsast.TypeGeneric:
		if r, ok := ctx.ResolveGeneric(t.Name); ok && !(r.Kind == fsast.TypeGeneric && r.Name == t.Name) {
			return c.substitute(ctx, r)
		}
		return t
	default:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]fsast.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.substitute(ctx, a)
		}
		next := t
		next.Args = args
		return next
	}
}

// traitMatch accepts members by name and instance-ness. A bare name
// also finds the property getter. Accessors whose paired accessor is
// missing from the visible member list are half-implemented and
// never candidates.
func traitMatch(ent *fsast.Entity, m *fsast.Member, v fsast.TraitCall) bool {
	if m.IsInstance != v.IsInstance {
		return false
	}
	if m.Name != v.MemberName && m.Name != "get_"+v.MemberName {
		return false
	}
	switch {
	case m.IsGetter:
		return hasVisibleMember(ent, "set_"+propertyName(m.Name))
	case m.IsSetter:
		return hasVisibleMember(ent, "get_"+propertyName(m.Name))
	}
	return true
}

func hasVisibleMember(ent *fsast.Entity, name string) bool {
	for _, m := range ent.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// traitCompatible compares the call's static argument types against
// a candidate's declared parameters.
func (c *Compiler) traitCompatible(ctx Context, m *fsast.Member, want []ir.Type) bool {
	if len(m.ParamTypes) != len(want) {
		return false
	}
	for i, pt := range m.ParamTypes {
		if !c.lowerType(ctx, pt).CompatibleWith(want[i]) {
			return false
		}
	}
	return true
}

// lowerResolvedTrait rebuilds the trait call as an ordinary member
// call against the winning type and lowers that.
func (c *Compiler) lowerResolvedTrait(ctx Context, v fsast.TraitCall, cand traitCandidate) (ir.Expr, error) {
	call := fsast.Call{
		Typ:    v.Typ,
		Loc:    v.Loc,
		Member: cand.member,
		Args:   v.Args,
	}
	if v.IsInstance {
		if len(v.Args) == 0 {
			return nil, diag.New(diag.CodeTraitNoMatch,
				"instance trait call %s carries no receiver", v.MemberName).At(v.Loc)
		}
		call.Obj = v.Args[0]
		call.Args = v.Args[1:]
	}
	return c.Lower(ctx, call)
}
