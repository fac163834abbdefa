package lower

import (
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
)

// thisState tracks what a this reference resolves to at the current
// point of the tree.
type thisState uint8

const (
	// thisUnavailable means a this reference is a defect here.
	thisUnavailable thisState = iota

	// thisAvailable means this lowers to the output this keyword.
	thisAvailable

	// thisCaptured means an enclosing scope rebound this to a local
	// and references must substitute that local instead.
	thisCaptured
)

// matchTarget is one decision-tree leaf visible to Success nodes.
type matchTarget struct {
	bound []*fsast.Val
	body  fsast.Expr

	// refs is the number of Success nodes addressing this target.
	refs int

	// closure is the ident the extracted target body was bound to.
	// Zero Name means the single-reference body inlines in place.
	closure ir.Ident
}

// inlineLocal is a let-bound inline function captured for call-site
// expansion. The body stays unlowered; every application re-lowers it
// under the captured context extended with the argument bindings.
type inlineLocal struct {
	val   *fsast.Val
	value fsast.Expr
	ctx   Context
}

// Context carries the immutable lexical state of a lowering walk.
// Binding returns a copy; callers thread the copy through child
// expressions and keep the original for siblings, so concurrent
// branches never observe each other's bindings.
type Context struct {
	// vars maps front-end values to their lowered replacement,
	// usually an ident reference. Pointer identity keys the map.
	vars map[*fsast.Val]ir.Expr

	// inlines holds let-bound inline functions in scope.
	inlines map[*fsast.Val]inlineLocal

	// subst resolves generic parameter names during inline expansion
	// and trait dispatch. Front-end types, so trait resolution can
	// reach the substituted entity's member descriptors.
	subst map[string]fsast.Type

	// targets is the decision-tree target table for Success nodes.
	targets []*matchTarget

	this     thisState
	thisExpr ir.Expr // substitution when this is captured
}

// NewContext returns an empty context with this unavailable.
func NewContext() Context {
	return Context{}
}

// Bind returns a copy of the context with v resolving to repl.
func (c Context) Bind(v *fsast.Val, repl ir.Expr) Context {
	next := c
	next.vars = make(map[*fsast.Val]ir.Expr, len(c.vars)+1)
	for k, e := range c.vars {
		next.vars[k] = e
	}
	next.vars[v] = repl
	return next
}

// BindAll binds several values at once, as Bind does one.
func (c Context) BindAll(vals []*fsast.Val, repls []ir.Expr) Context {
	next := c
	next.vars = make(map[*fsast.Val]ir.Expr, len(c.vars)+len(vals))
	for k, e := range c.vars {
		next.vars[k] = e
	}
	for i, v := range vals {
		next.vars[v] = repls[i]
	}
	return next
}

// Lookup resolves a bound value.
func (c Context) Lookup(v *fsast.Val) (ir.Expr, bool) {
	e, ok := c.vars[v]
	return e, ok
}

// BindInline returns a copy with v captured as an inline local.
func (c Context) BindInline(v *fsast.Val, value fsast.Expr) Context {
	next := c
	next.inlines = make(map[*fsast.Val]inlineLocal, len(c.inlines)+1)
	for k, e := range c.inlines {
		next.inlines[k] = e
	}
	next.inlines[v] = inlineLocal{val: v, value: value, ctx: c}
	return next
}

// LookupInline resolves an inline local.
func (c Context) LookupInline(v *fsast.Val) (inlineLocal, bool) {
	l, ok := c.inlines[v]
	return l, ok
}

// WithSubst returns a copy with the generic parameter names bound to
// the given types. Later bindings shadow earlier ones.
func (c Context) WithSubst(names []string, args []fsast.Type) Context {
	if len(names) == 0 {
		return c
	}
	next := c
	next.subst = make(map[string]fsast.Type, len(c.subst)+len(names))
	for k, t := range c.subst {
		next.subst[k] = t
	}
	for i, n := range names {
		if i < len(args) {
			next.subst[n] = args[i]
		}
	}
	return next
}

// ResolveGeneric resolves a generic parameter name under the active
// substitution.
func (c Context) ResolveGeneric(name string) (fsast.Type, bool) {
	t, ok := c.subst[name]
	return t, ok
}

// WithTargets returns a copy with the decision-tree target table
// replaced. Nested trees replace rather than extend the table so an
// inner Success can never address an outer target.
func (c Context) WithTargets(targets []*matchTarget) Context {
	next := c
	next.targets = targets
	return next
}

// Target returns the target at index, if the table has one.
func (c Context) Target(index int) (*matchTarget, bool) {
	if index < 0 || index >= len(c.targets) {
		return nil, false
	}
	return c.targets[index], true
}

// WithThis returns a copy with this available.
func (c Context) WithThis() Context {
	next := c
	next.this = thisAvailable
	next.thisExpr = nil
	return next
}

// WithThisCaptured returns a copy where this references substitute
// the given expression. Capturing chains: the expression may itself
// have been produced under an outer captured context.
func (c Context) WithThisCaptured(repl ir.Expr) Context {
	next := c
	next.this = thisCaptured
	next.thisExpr = repl
	return next
}

// WithoutThis returns a copy with this unavailable.
func (c Context) WithoutThis() Context {
	next := c
	next.this = thisUnavailable
	next.thisExpr = nil
	return next
}
