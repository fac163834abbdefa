package lower

import (
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/source"
)

// Slot index sentinels for the aggregation registry.
const (
	slotTop     = -1 // members land in the top-level list
	slotIgnored = -2 // members are silently dropped
)

// aggEntry is one ordered output position: either a finished
// declaration or a reference to a nested entity slot.
type aggEntry struct {
	decl  ir.Decl
	child int // slot index when decl is nil
}

// nameClaim records which declarations already hold a public name at
// one level. A getter and a setter share their property name; any
// other overlap is a collision.
type nameClaim struct {
	plain  bool
	getter bool
	setter bool
	at     source.Range
}

// aggSlot collects one live entity's members. Slots form an arena;
// nesting goes through aggEntry.child indices, never pointers.
type aggSlot struct {
	entity  *ir.Entity
	fs      *fsast.Entity
	entries []aggEntry
	names   map[string]*nameClaim // public names seen at this level
	loc     source.Range
}

// aggregator reconciles the front end's flat member layout with the
// nested entity declarations of the output tree.
type aggregator struct {
	c        *Compiler
	slots    []*aggSlot
	index    map[string]int
	top      []aggEntry
	topNames map[string]*nameClaim
}

// aggregate turns a file's declaration sequence into the ordered
// top-level output declarations. Inline members are cached in a
// pre-pass and never emitted.
func (c *Compiler) aggregate(decls []fsast.Decl) ([]ir.Decl, error) {
	c.registerInlines(decls)
	a := &aggregator{
		c:        c,
		index:    map[string]int{c.rootName: slotTop},
		topNames: map[string]*nameClaim{},
	}
	if err := a.addAll(decls, slotTop); err != nil {
		return nil, err
	}
	return a.finish()
}

func (a *aggregator) addAll(decls []fsast.Decl, parent int) error {
	for _, d := range decls {
		var err error
		switch v := d.(type) {
		case fsast.EntityDecl:
			err = a.addEntity(v, parent)
		case fsast.MemberDecl:
			err = a.addMember(v)
		case fsast.InitDecl:
			err = a.addInit(v, parent)
		default:
			err = diag.New(diag.CodeUnexpectedExpr,
				"no aggregation rule accepts %T", d).At(d.DeclRange())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *aggregator) addEntity(d fsast.EntityDecl, parent int) error {
	ent := d.Entity

	// The file's root module is the output file itself; its children
	// surface at the parent's level.
	if ent.FullName == a.c.rootName {
		return a.addAll(d.Decls, parent)
	}

	if ignoredEntity(ent) {
		a.index[ent.FullName] = slotIgnored
		return nil
	}

	if attr, ok := ent.TryAttribute(fsast.AttrImport); ok {
		a.index[ent.FullName] = slotIgnored
		return a.addImportRebind(ent, attr, parent)
	}
	if ent.HasAttribute(fsast.AttrGlobal) {
		a.index[ent.FullName] = slotIgnored
		return a.addGlobalRebind(ent, parent)
	}

	if err := a.claimName(parent, ent.Name, nil, ent.IsPublic, ent.Range); err != nil {
		return err
	}
	a.c.usedNames[ent.Name] = struct{}{}

	si := len(a.slots)
	a.slots = append(a.slots, &aggSlot{
		entity: a.c.entityFor(ent, ent.FullName),
		fs:     ent,
		names:  map[string]*nameClaim{},
		loc:    d.Range,
	})
	a.index[ent.FullName] = si
	a.place(parent, aggEntry{child: si, decl: nil})

	return a.addAll(d.Decls, si)
}

// addImportRebind replaces an imported entity's subtree with a single
// binding to the external reference.
func (a *aggregator) addImportRebind(ent *fsast.Entity, attr fsast.Attribute, parent int) error {
	selector := attr.StringArg(0)
	path := attr.StringArg(1)
	if selector == "" || path == "" {
		return diag.New(diag.CodeBadImport,
			"import attribute on %s needs a selector and a path", ent.FullName).At(ent.Range)
	}
	return a.rebind(ent, ir.Import(selector, path, ir.Any()), parent)
}

// addGlobalRebind binds a global entity to its bare output name.
func (a *aggregator) addGlobalRebind(ent *fsast.Entity, parent int) error {
	return a.rebind(ent, ir.Import(ent.Name, "", ir.Any()), parent)
}

func (a *aggregator) rebind(ent *fsast.Entity, ref ir.ImportRef, parent int) error {
	if err := a.claimName(parent, ent.Name, nil, ent.IsPublic, ent.Range); err != nil {
		return err
	}
	a.c.usedNames[ent.Name] = struct{}{}
	a.place(parent, aggEntry{child: slotTop, decl: ir.MemberDecl{
		Name:     ent.Name,
		FullName: ent.FullName,
		Kind:     ir.MemberBinding,
		Body:     ref,
		Typ:      ir.Any(),
		IsPublic: ent.IsPublic,
		Loc:      ent.Range,
	}})
	return nil
}

func (a *aggregator) addMember(d fsast.MemberDecl) error {
	m := d.Member

	// Inline bodies live in the cache; call sites expand them.
	if m.Inline {
		return nil
	}

	at, known := a.index[m.DeclaringEntityFullName]
	if known && at == slotIgnored {
		return nil
	}
	if !known {
		at = slotTop
	}

	// Constructors surface under the entity's own name and claim
	// nothing themselves.
	if !m.IsImplicitCtor && m.Name != ".ctor" {
		if err := a.claimName(at, outputMemberName(m), m, m.IsPublic, d.Range); err != nil {
			return err
		}
	}

	decl, err := a.c.lowerMemberDecl(d, a.slotEntity(at))
	if err != nil {
		return err
	}
	a.place(at, aggEntry{child: slotTop, decl: decl})
	return nil
}

func (a *aggregator) addInit(d fsast.InitDecl, parent int) error {
	body, err := a.c.Lower(NewContext(), d.Body)
	if err != nil {
		return err
	}
	a.place(parent, aggEntry{child: slotTop, decl: ir.ActionDecl{Body: body, Loc: d.Range}})
	return nil
}

func (a *aggregator) place(parent int, e aggEntry) {
	if parent == slotTop {
		a.top = append(a.top, e)
		return
	}
	s := a.slots[parent]
	s.entries = append(s.entries, e)
}

func (a *aggregator) slotEntity(at int) *ir.Entity {
	if at < 0 {
		return nil
	}
	return a.slots[at].entity
}

// claimName reserves a public name at one level. A getter and setter
// of the same property coexist; everything else sharing a name is
// fatal.
func (a *aggregator) claimName(at int, name string, m *fsast.Member, public bool, r source.Range) error {
	if !public || name == "" {
		return nil
	}
	names := a.topNames
	if at >= 0 {
		names = a.slots[at].names
	}
	claim := names[name]
	if claim == nil {
		claim = &nameClaim{at: r}
		names[name] = claim
	}
	var clash bool
	switch {
	case m != nil && m.IsGetter:
		clash = claim.plain || claim.getter
		claim.getter = true
	case m != nil && m.IsSetter:
		clash = claim.plain || claim.setter
		claim.setter = true
	default:
		clash = claim.plain || claim.getter || claim.setter
		claim.plain = true
	}
	if clash {
		return diag.New(diag.CodeDuplicateName,
			"%s is declared twice at the same level (first at %s)", name, claim.at).At(r)
	}
	return nil
}

func ignoredEntity(ent *fsast.Entity) bool {
	if ent.IsEnum || ent.IsInterface || ent.IsAbbrev || ent.IsMeasure {
		return true
	}
	return ent.HasAttribute(fsast.AttrErase) ||
		ent.HasAttribute(fsast.AttrStringEnum) ||
		ent.HasAttribute(fsast.AttrKeyValueList)
}

// finish materializes the ordered output. Bare grouping modules that
// collected nothing are dropped; every other live entity gains its
// derived members.
func (a *aggregator) finish() ([]ir.Decl, error) {
	decls := make([]ir.Decl, 0, len(a.top))
	for _, e := range a.top {
		d, keep := a.materialize(e)
		if keep {
			decls = append(decls, d)
		}
	}
	return decls, nil
}

func (a *aggregator) materialize(e aggEntry) (ir.Decl, bool) {
	if e.decl != nil {
		return e.decl, true
	}
	s := a.slots[e.child]
	members := make([]ir.Decl, 0, len(s.entries))
	for _, m := range s.entries {
		d, keep := a.materialize(m)
		if keep {
			members = append(members, d)
		}
	}
	members = append(members, a.c.deriveMembers(s.entity, s.fs)...)
	if len(members) == 0 && s.entity.Kind == ir.EntityModule {
		return nil, false
	}
	return ir.EntityDecl{Entity: s.entity, Members: members, Loc: s.loc}, true
}

// lowerMemberDecl lowers one member body into a declaration. Instance
// members see this; a lone unit parameter vanishes the same way
// lambda unit parameters do.
func (c *Compiler) lowerMemberDecl(d fsast.MemberDecl, owner *ir.Entity) (ir.Decl, error) {
	m := d.Member
	ctx := NewContext()

	if attr, ok := m.TryAttribute(fsast.AttrImport); ok {
		selector := attr.StringArg(0)
		path := attr.StringArg(1)
		if selector == "" || path == "" {
			return nil, diag.New(diag.CodeBadImport,
				"import attribute on %s needs a selector and a path", m.FullName).At(d.Range)
		}
		return ir.MemberDecl{
			Name:     outputMemberName(m),
			FullName: m.FullName,
			Kind:     ir.MemberBinding,
			Entity:   owner,
			Body:     ir.Import(selector, path, ir.Any()),
			Typ:      ir.Any(),
			IsPublic: m.IsPublic,
			Loc:      d.Range,
		}, nil
	}

	if d.ThisVal != nil {
		ctx = ctx.WithThis().Bind(d.ThisVal, ir.This{Typ: ir.Any()})
	}

	args := d.Args
	var params []ir.Ident
	if len(args) == 1 && args[0].Type.IsUnit() {
		ctx = ctx.Bind(args[0], ir.UnitConst())
	} else {
		ctx, params = c.bindVals(ctx, args)
	}

	body, err := c.Lower(ctx, d.Body)
	if err != nil {
		return nil, err
	}

	kind := ir.MemberMethod
	switch {
	case m.IsImplicitCtor || m.Name == ".ctor":
		kind = ir.MemberConstructor
	case m.IsGetter:
		kind = ir.MemberGetter
	case m.IsSetter:
		kind = ir.MemberSetter
	case len(params) == 0 && d.ThisVal == nil && len(args) == 0:
		kind = ir.MemberBinding
	}

	name := outputMemberName(m)
	if kind != ir.MemberConstructor {
		c.usedNames[name] = struct{}{}
	}

	return ir.MemberDecl{
		Name:      name,
		FullName:  m.FullName,
		Kind:      kind,
		Entity:    owner,
		Args:      params,
		Body:      body,
		Typ:       c.memberType(ctx, m, kind),
		IsPublic:  m.IsPublic,
		IsMutable: m.IsMutable,
		IsEntry:   m.HasAttribute(fsast.AttrEntryPoint),
		Loc:       d.Range,
	}, nil
}

// memberType is the declared output type: the return type for
// bindings and accessors, a curried function type for methods.
func (c *Compiler) memberType(ctx Context, m *fsast.Member, kind ir.MemberKind) ir.Type {
	ret := c.lowerType(ctx, m.ReturnType)
	if kind == ir.MemberBinding || kind == ir.MemberGetter {
		return ret
	}
	t := ret
	for i := len(m.ParamTypes) - 1; i >= 0; i-- {
		t = ir.Func(c.lowerType(ctx, m.ParamTypes[i]), t)
	}
	return t
}
