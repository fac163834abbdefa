package lower

import (
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/replace"
)

// lowerConstruction handles arrays, tuples, records, union cases and
// object expressions. Union construction follows the representation
// style; list construction carries the key-value literal special
// case.
func (c *Compiler) lowerConstruction(ctx Context, e fsast.Expr) (ir.Expr, bool, error) {
	switch v := e.(type) {
	case fsast.NewArray:
		out, err := c.lowerNewArray(ctx, v)
		return out, err == nil, err

	case fsast.NewTuple:
		args, err := c.lowerAll(ctx, v.Args)
		if err != nil {
			return nil, false, err
		}
		out := ir.ConstructTuple(args, c.lowerType(ctx, v.Typ))
		out.Loc = locOf(v)
		return out, true, nil

	case fsast.NewRecord:
		out, err := c.lowerNewRecord(ctx, v)
		return out, err == nil, err

	case fsast.NewUnion:
		out, err := c.lowerNewUnion(ctx, v)
		return out, err == nil, err

	case fsast.ObjectExpr:
		out, err := c.lowerObjectExpr(ctx, v)
		return out, err == nil, err
	}
	return nil, false, nil
}

// typedArrayCtors maps integer kinds to native typed-array
// constructors. 64-bit and decimal kinds have none and stay plain.
var typedArrayCtors = map[ir.NumberKind]string{
	ir.Int8:    "Int8Array",
	ir.UInt8:   "Uint8Array",
	ir.Int16:   "Int16Array",
	ir.UInt16:  "Uint16Array",
	ir.Int32:   "Int32Array",
	ir.UInt32:  "Uint32Array",
	ir.Float32: "Float32Array",
	ir.Float64: "Float64Array",
}

func (c *Compiler) lowerNewArray(ctx Context, v fsast.NewArray) (ir.Expr, error) {
	elems, err := c.lowerAll(ctx, v.Elems)
	if err != nil {
		return nil, err
	}
	elem := c.lowerType(ctx, v.Typ).Elem()
	plain := ir.ConstructArray(elems, elem)
	plain.Loc = locOf(v)

	if !c.opts.TypedArrays || elem.Kind != ir.TypeNumber {
		return plain, nil
	}
	ctor, ok := typedArrayCtors[elem.Number]
	if !ok {
		return plain, nil
	}
	if elem.Number == ir.UInt8 && c.opts.ClampByteArrays {
		ctor = "Uint8ClampedArray"
	}
	out := ir.Apply{
		Typ:    ir.Array(elem),
		Loc:    locOf(v),
		Kind:   ir.ApplyConstruct,
		Callee: ir.Import(ctor, "", ir.Any()),
		Args:   []ir.Expr{plain},
	}
	return out, nil
}

func (c *Compiler) lowerNewRecord(ctx Context, v fsast.NewRecord) (ir.Expr, error) {
	args, err := c.lowerAll(ctx, v.Args)
	if err != nil {
		return nil, err
	}
	typ := c.lowerType(ctx, v.Typ)
	if out, handled, err := c.resolver.Resolve(replace.Call{
		Module: v.Typ.FullName,
		Member: ".ctor",
		Args:   args,
		Ret:    typ,
		Loc:    locOf(v),
	}); err != nil || handled {
		return out, err
	}
	out := ir.Apply{
		Typ:    typ,
		Loc:    locOf(v),
		Kind:   ir.ApplyConstruct,
		Callee: ir.EntityRef{Typ: ir.Any(), FullName: v.Typ.FullName},
		Args:   args,
	}
	return out, nil
}

func (c *Compiler) lowerNewUnion(ctx Context, v fsast.NewUnion) (ir.Expr, error) {
	ent := c.unionEntity(v.Typ)
	typ := c.lowerType(ctx, v.Typ)
	loc := locOf(v)

	if ent.Style == ir.StyleList {
		if out, ok, err := c.lowerKeyValueList(ctx, v); err != nil || ok {
			return out, err
		}
	}

	args, err := c.lowerAll(ctx, v.Args)
	if err != nil {
		return nil, err
	}
	if out, handled, err := c.resolver.Resolve(replace.Call{
		Module: v.Typ.FullName,
		Member: v.Case.Name,
		Args:   args,
		Ret:    typ,
		Loc:    loc,
	}); err != nil || handled {
		return out, err
	}

	switch ent.Style {
	case ir.StyleOption:
		return c.lowerSome(v, args, typ)

	case ir.StyleErased:
		if len(args) > 1 {
			return nil, diag.New(diag.CodeErasedArity,
				"erased case %s carries %d fields, at most one is representable",
				v.Case.Name, len(args)).At(v.Loc)
		}
		if len(args) == 0 {
			return ir.NullOf(typ), nil
		}
		return ir.Wrapped{Typ: typ, Loc: loc, Inner: args[0]}, nil

	case ir.StyleKeyValue:
		if len(args) > 1 {
			return nil, diag.New(diag.CodeErasedArity,
				"key-value case %s carries %d fields, at most one is representable",
				v.Case.Name, len(args)).At(v.Loc)
		}
		value := ir.Expr(ir.BoolConst(true))
		if len(args) == 1 {
			value = args[0]
		}
		pair := ir.ConstructArray([]ir.Expr{keyOf(v.Case), value}, ir.Any())
		pair.Loc = loc
		return pair, nil

	case ir.StyleStringTag:
		if len(args) > 0 {
			return nil, diag.New(diag.CodeStyleMismatch,
				"string-tag case %s cannot carry a payload", v.Case.Name).At(v.Loc)
		}
		out := ir.Str(tagNameOf(v.Case))
		out.Typ = typ
		out.Loc = loc
		return out, nil

	case ir.StyleList:
		if len(args) == 0 {
			out := ir.CallExpr(ir.Import("empty", libList, ir.Any()), typ)
			out.Loc = loc
			return out, nil
		}
		out := ir.Apply{
			Typ:    typ,
			Loc:    loc,
			Kind:   ir.ApplyConstruct,
			Callee: ir.Import("Cons", libList, ir.Any()),
			Args:   args,
		}
		return out, nil

	default:
		tag := ent.CaseIndex(v.Case.Name)
		if tag < 0 {
			return nil, diag.New(diag.CodeUnknownCase,
				"case %s is not declared by %s", v.Case.Name, ent.FullName).At(v.Loc)
		}
		out := ir.Apply{
			Typ:    typ,
			Loc:    loc,
			Kind:   ir.ApplyConstruct,
			Callee: ir.EntityRef{Typ: ir.Any(), FullName: ent.FullName},
			Args: []ir.Expr{
				ir.Num(float64(tag), ir.Int32),
				ir.ConstructArray(args, ir.Any()),
			},
		}
		return out, nil
	}
}

// lowerSome builds the option constructions. None is an explicit
// null; a some over unit is an empty object wrapper, kept distinct
// from null; a some whose payload could itself read as absent wraps
// through the runtime helper; anything else passes through bare.
func (c *Compiler) lowerSome(v fsast.NewUnion, args []ir.Expr, typ ir.Type) (ir.Expr, error) {
	loc := locOf(v)
	if len(args) == 0 {
		return ir.NullOf(typ), nil
	}
	payload := args[0]
	pt := payload.ExprType()
	switch {
	case pt.Kind == ir.TypeUnit:
		obj := ir.ObjectExpr{Typ: typ, Loc: loc}
		if _, isConst := payload.(ir.Const); isConst {
			return obj, nil
		}
		// A computed unit payload still runs for its effect.
		return ir.Seq(payload, obj), nil
	case pt.Kind == ir.TypeOption || pt.Kind == ir.TypeGenericParam || pt.Kind == ir.TypeAny:
		out := ir.CallExpr(ir.Import("some", libOption, ir.Any()), typ, payload)
		out.Loc = loc
		return out, nil
	default:
		return ir.Wrapped{Typ: typ, Loc: loc, Inner: payload}, nil
	}
}

// lowerKeyValueList collapses a literal list of key-value pairs into
// one object literal when every key is static, and falls back to a
// runtime fold when any key is computed. Claims nothing for ordinary
// lists.
func (c *Compiler) lowerKeyValueList(ctx Context, v fsast.NewUnion) (ir.Expr, bool, error) {
	if !isKeyValueElem(c, v.Typ) {
		return nil, false, nil
	}
	elems, tail, literal := listChain(v)
	if !literal {
		// The chain ends in a computed list; fold at runtime over
		// the whole construction.
		out, err := c.keyValueFold(ctx, v)
		return out, err == nil, err
	}
	_ = tail

	members := make([]ir.ObjectMember, 0, len(elems))
	for _, el := range elems {
		if t := el.NodeType(); t.IsList() && isKeyValueElem(c, t) {
			return nil, false, diag.New(diag.CodeKeyValueNesting,
				"cannot compose a key-value list with another key-value list; flatten the pairs into one list").At(el.NodeRange())
		}
		key, value, ok := staticPair(c, el)
		if !ok {
			out, err := c.keyValueFold(ctx, v)
			return out, err == nil, err
		}
		lowered, err := c.Lower(ctx, value)
		if err != nil {
			return nil, false, err
		}
		members = append(members, ir.ObjectMember{
			Name: key,
			Kind: ir.MemberBinding,
			Body: lowered,
		})
	}
	return ir.ObjectExpr{
		Typ:     c.lowerType(ctx, v.Typ),
		Loc:     locOf(v),
		Members: members,
	}, true, nil
}

// keyValueFold lowers the list normally and folds it into an object
// at runtime.
func (c *Compiler) keyValueFold(ctx Context, v fsast.NewUnion) (ir.Expr, error) {
	args, err := c.lowerAll(ctx, v.Args)
	if err != nil {
		return nil, err
	}
	typ := c.lowerType(ctx, v.Typ)
	var list ir.Expr
	if len(args) == 0 {
		empty := ir.CallExpr(ir.Import("empty", libList, ir.Any()), typ)
		list = empty
	} else {
		list = ir.Apply{
			Typ:    typ,
			Kind:   ir.ApplyConstruct,
			Callee: ir.Import("Cons", libList, ir.Any()),
			Args:   args,
		}
	}
	out := ir.CallExpr(ir.Import("createObj", libUtil, ir.Any()), ir.Any(), list)
	out.Loc = locOf(v)
	return out, nil
}

// isKeyValueElem reports whether a list type's element classifies as
// a key-value union or a string-keyed tuple.
func isKeyValueElem(c *Compiler, listType fsast.Type) bool {
	if len(listType.Args) == 0 {
		return false
	}
	elem := listType.Args[0]
	if elem.Kind == fsast.TypeTuple && len(elem.Args) == 2 && elem.Args[0].IsString() {
		return true
	}
	if elem.Entity == nil || !elem.Entity.IsUnion {
		return false
	}
	return classifyUnion(elem.Entity) == ir.StyleKeyValue
}

// listChain flattens Cons(a, Cons(b, Empty)) into its elements.
// literal=false when the chain's tail is anything but a nil-ary
// construction.
func listChain(v fsast.NewUnion) (elems []fsast.Expr, tail fsast.Expr, literal bool) {
	cur := v
	for {
		if len(cur.Args) == 0 {
			return elems, nil, true
		}
		if len(cur.Args) != 2 {
			return elems, cur, false
		}
		elems = append(elems, cur.Args[0])
		next, ok := cur.Args[1].(fsast.NewUnion)
		if !ok {
			return elems, cur.Args[1], false
		}
		cur = next
	}
}

// staticPair extracts the static key and value expression of one
// list element, either a key-value union case or a literal-keyed
// tuple.
func staticPair(c *Compiler, el fsast.Expr) (string, fsast.Expr, bool) {
	switch p := el.(type) {
	case fsast.NewUnion:
		if p.Typ.Entity == nil || classifyUnion(p.Typ.Entity) != ir.StyleKeyValue {
			return "", nil, false
		}
		if len(p.Args) == 0 {
			return tagNameOf(p.Case), fsast.Const{Typ: fsast.EntityType(fsast.SysBool, nil), Value: true}, true
		}
		if len(p.Args) == 1 {
			return tagNameOf(p.Case), p.Args[0], true
		}
		return "", nil, false
	case fsast.NewTuple:
		if len(p.Args) != 2 {
			return "", nil, false
		}
		k, ok := p.Args[0].(fsast.Const)
		if !ok {
			return "", nil, false
		}
		key, isStr := k.Value.(string)
		if !isStr {
			return "", nil, false
		}
		return key, p.Args[1], true
	}
	return "", nil, false
}

func keyOf(uc *fsast.UnionCase) ir.Expr {
	return ir.Str(tagNameOf(uc))
}

func tagNameOf(uc *fsast.UnionCase) string {
	c := ir.UnionCase{Name: uc.Name, CompiledName: uc.CompiledName}
	return c.TagName()
}

func (c *Compiler) lowerObjectExpr(ctx Context, v fsast.ObjectExpr) (ir.Expr, error) {
	var baseCall ir.Expr
	if v.BaseCall != nil {
		lowered, err := c.Lower(ctx, v.BaseCall)
		if err != nil {
			return nil, err
		}
		baseCall = lowered
	}

	// An available outer this must be captured before member bodies
	// rebind this to the object itself. Substitutions chain through
	// nested object expressions.
	memberCtx := ctx
	var capture ir.Expr
	if ctx.this == thisAvailable {
		id := ir.Ident{Name: c.freshName("self"), Typ: ir.Any()}
		capture = ir.VarDecl{Var: id, Value: ir.This{Typ: ir.Any()}}
		memberCtx = ctx.WithThisCaptured(ir.IdentOf(id, nil))
	}

	members := make([]ir.ObjectMember, 0, len(v.Overrides))
	for _, o := range v.Overrides {
		m, err := c.lowerObjectMember(memberCtx, o)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	obj := ir.ObjectExpr{
		Typ:      c.lowerType(ctx, v.Typ),
		Loc:      locOf(v),
		BaseCall: baseCall,
		Members:  members,
	}
	if capture != nil {
		return ir.Seq(capture, obj), nil
	}
	return obj, nil
}

func (c *Compiler) lowerObjectMember(ctx Context, o fsast.ObjectMember) (ir.ObjectMember, error) {
	m := o.Member
	inner := ctx
	args := o.Args

	// Instance overrides carry their self value first; it binds to
	// the object's own this.
	if m.IsInstance && len(args) > 0 {
		inner = inner.Bind(args[0], ir.This{Typ: ir.Any()})
		args = args[1:]
	}
	inner, ids := c.bindVals(inner, args)
	body, err := c.Lower(inner, o.Body)
	if err != nil {
		return ir.ObjectMember{}, err
	}

	kind := ir.MemberMethod
	switch {
	case m.IsGetter:
		kind = ir.MemberGetter
	case m.IsSetter:
		kind = ir.MemberSetter
	}
	return ir.ObjectMember{
		Name: outputMemberName(m),
		Kind: kind,
		Args: ids,
		Body: body,
	}, nil
}
