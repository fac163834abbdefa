package ir

import "github.com/johngalambos/Fable/internal/source"

// Expr is the sealed interface over IR expression variants. Only the
// types in this file implement it.
//
// Value-shaped variants carry their resolved type in Typ. Statement
// shaped variants (Set, VarDecl, the loops, Switch) are always unit
// and derive ExprType; Sequential and Quote derive theirs from their
// children. Loc is nil on synthesized expressions.
type Expr interface {
	irExpr() // sealed
	// ExprType returns the resolved type.
	ExprType() Type
	// ExprRange returns the source range, or nil for synthesized
	// expressions.
	ExprRange() *source.Range
}

// Ident is a resolved identifier. Names are unique within their
// enclosing scope; the lowering stage guarantees it.
type Ident struct {
	Name      string
	Typ       Type
	IsMutable bool
}

// --- value-class variants ---

// Const is a literal constant value.
type Const struct {
	Typ   Type
	Loc   *source.Range
	Value ConstValue
}

// ConstValue is the sealed constant payload of a Const.
type ConstValue interface {
	constValue() // sealed
}

// NumberVal is a numeric constant. Kind narrows the width.
type NumberVal struct {
	Val  float64
	Kind NumberKind
}

// StringVal is a string constant.
type StringVal struct{ Val string }

// BoolVal is a boolean constant.
type BoolVal struct{ Val bool }

// UnitVal is the unit constant.
type UnitVal struct{}

// NullVal is the explicit null constant.
type NullVal struct{}

// ArrayVal is a bulk numeric array constant: element lists of narrow
// numeric kinds lowered in one piece rather than element by element.
type ArrayVal struct {
	Elems []ConstValue
	Elem  Type
}

func (NumberVal) constValue() {}
func (StringVal) constValue() {}
func (BoolVal) constValue()   {}
func (UnitVal) constValue()   {}
func (NullVal) constValue()   {}
func (ArrayVal) constValue()  {}

// IdentExpr is a use of a resolved identifier.
type IdentExpr struct {
	Loc   *source.Range
	Ident Ident
}

// This references the current instance.
type This struct {
	Typ Type
	Loc *source.Range
}

// Base references the base-class value.
type Base struct {
	Typ Type
	Loc *source.Range
}

// Lambda is a function value with flattened parameters.
type Lambda struct {
	Typ    Type
	Loc    *source.Range
	Params []Ident
	Body   Expr
}

// EntityRef names a declared entity as a value, for static member
// access and construction. The emitter resolves the reference.
type EntityRef struct {
	Typ      Type
	Loc      *source.Range
	FullName string
}

// ImportRef names an external binding: Selector out of Path.
type ImportRef struct {
	Typ      Type
	Loc      *source.Range
	Selector string
	Path     string
}

// OpClass distinguishes operator arities and semantics.
type OpClass uint8

const (
	UnaryOp OpClass = iota
	BinaryOp
	LogicalOp
)

// OperatorRef is an operator used as an Apply callee, e.g. "+" or
// "===". Identifier-class: it resolves to the target language's
// operator at emission.
type OperatorRef struct {
	Loc    *source.Range
	Symbol string
	Class  OpClass
}

// --- application ---

// ApplyKind discriminates the three application flavors.
type ApplyKind uint8

const (
	// ApplyCall invokes the callee with arguments.
	ApplyCall ApplyKind = iota
	// ApplyConstruct instantiates the callee; a nil callee with an
	// array, tuple or list type is a structural literal of that shape.
	ApplyConstruct
	// ApplyGet indexes the callee with the single key argument.
	ApplyGet
)

// Apply is call, construction or keyed access.
type Apply struct {
	Typ    Type
	Loc    *source.Range
	Kind   ApplyKind
	Callee Expr // nil only for structural ApplyConstruct
	Args   []Expr
}

// --- statements-as-expressions ---

// Set assigns Value to Callee, or to Callee[Prop] when Prop is
// non-nil.
type Set struct {
	Loc    *source.Range
	Callee Expr
	Prop   Expr
	Value  Expr
}

// Sequential evaluates expressions in order, yielding the last.
type Sequential struct {
	Loc   *source.Range
	Exprs []Expr
}

// IfThenElse is the conditional. Else is never nil.
type IfThenElse struct {
	Typ  Type
	Loc  *source.Range
	Cond Expr
	Then Expr
	Else Expr
}

// WhileLoop is the unbounded loop.
type WhileLoop struct {
	Loc   *source.Range
	Guard Expr
	Body  Expr
}

// ForLoop is the bounded loop, inclusive of Limit.
type ForLoop struct {
	Loc   *source.Range
	Var   Ident
	Start Expr
	Limit Expr
	IsUp  bool
	Body  Expr
}

// ForOfLoop iterates a sequence.
type ForOfLoop struct {
	Loc      *source.Range
	Var      Ident
	Iterable Expr
	Body     Expr
}

// SwitchCase is one arm of a Switch. Tests are constant expressions;
// several tests can share one body.
type SwitchCase struct {
	Tests []Expr
	Body  Expr
}

// Switch is the multi-way dispatch construct. Statement-shaped: arms
// execute for effect; a match needing a value routes it through a
// synthetic mutable variable.
type Switch struct {
	Loc     *source.Range
	Subject Expr
	Cases   []SwitchCase
	Default Expr // optional
}

// TryCatch merges try/with and try/finally into one construct. Catch
// and Finalizer are each optional, never both absent.
type TryCatch struct {
	Typ       Type
	Loc       *source.Range
	Body      Expr
	CatchVar  *Ident
	Catch     Expr
	Finalizer Expr
}

// MemberKind discriminates member declarations and object-expression
// members.
type MemberKind uint8

const (
	MemberMethod MemberKind = iota
	MemberGetter
	MemberSetter
	MemberConstructor
	MemberBinding // module-level or object-literal value binding
)

// ObjectMember is one member of an object expression.
type ObjectMember struct {
	Name string
	Kind MemberKind
	Args []Ident
	Body Expr
}

// ObjectExpr is an object literal, possibly with a base-constructor
// call and member implementations.
type ObjectExpr struct {
	Typ      Type
	Loc      *source.Range
	BaseCall Expr // optional
	Members  []ObjectMember
}

// VarDecl declares a local.
type VarDecl struct {
	Loc       *source.Range
	Var       Ident
	Value     Expr
	IsMutable bool
}

// Wrapped marks a no-op type coercion: Inner unchanged at runtime,
// re-typed to Typ.
type Wrapped struct {
	Typ   Type
	Loc   *source.Range
	Inner Expr
}

// Quote carries an expression as data.
type Quote struct {
	Loc   *source.Range
	Inner Expr
}

func (Const) irExpr()       {}
func (IdentExpr) irExpr()   {}
func (This) irExpr()        {}
func (Base) irExpr()        {}
func (Lambda) irExpr()      {}
func (EntityRef) irExpr()   {}
func (ImportRef) irExpr()   {}
func (OperatorRef) irExpr() {}
func (Apply) irExpr()       {}
func (Set) irExpr()         {}
func (Sequential) irExpr()  {}
func (IfThenElse) irExpr()  {}
func (WhileLoop) irExpr()   {}
func (ForLoop) irExpr()     {}
func (ForOfLoop) irExpr()   {}
func (Switch) irExpr()      {}
func (TryCatch) irExpr()    {}
func (ObjectExpr) irExpr()  {}
func (VarDecl) irExpr()     {}
func (Wrapped) irExpr()     {}
func (Quote) irExpr()       {}

func (e Const) ExprType() Type       { return e.Typ }
func (e IdentExpr) ExprType() Type   { return e.Ident.Typ }
func (e This) ExprType() Type        { return e.Typ }
func (e Base) ExprType() Type        { return e.Typ }
func (e Lambda) ExprType() Type      { return e.Typ }
func (e EntityRef) ExprType() Type   { return e.Typ }
func (e ImportRef) ExprType() Type   { return e.Typ }
func (e OperatorRef) ExprType() Type { return Any() }
func (e Apply) ExprType() Type       { return e.Typ }
func (e Set) ExprType() Type         { return Unit() }
func (e IfThenElse) ExprType() Type  { return e.Typ }
func (e WhileLoop) ExprType() Type   { return Unit() }
func (e ForLoop) ExprType() Type     { return Unit() }
func (e ForOfLoop) ExprType() Type   { return Unit() }
func (e Switch) ExprType() Type      { return Unit() }
func (e TryCatch) ExprType() Type    { return e.Typ }
func (e ObjectExpr) ExprType() Type  { return e.Typ }
func (e VarDecl) ExprType() Type     { return Unit() }
func (e Wrapped) ExprType() Type     { return e.Typ }
func (e Quote) ExprType() Type       { return e.Inner.ExprType() }

func (e Sequential) ExprType() Type {
	if len(e.Exprs) == 0 {
		return Unit()
	}
	return e.Exprs[len(e.Exprs)-1].ExprType()
}

func (e Const) ExprRange() *source.Range       { return e.Loc }
func (e IdentExpr) ExprRange() *source.Range   { return e.Loc }
func (e This) ExprRange() *source.Range        { return e.Loc }
func (e Base) ExprRange() *source.Range        { return e.Loc }
func (e Lambda) ExprRange() *source.Range      { return e.Loc }
func (e EntityRef) ExprRange() *source.Range   { return e.Loc }
func (e ImportRef) ExprRange() *source.Range   { return e.Loc }
func (e OperatorRef) ExprRange() *source.Range { return e.Loc }
func (e Apply) ExprRange() *source.Range       { return e.Loc }
func (e Set) ExprRange() *source.Range         { return e.Loc }
func (e Sequential) ExprRange() *source.Range  { return e.Loc }
func (e IfThenElse) ExprRange() *source.Range  { return e.Loc }
func (e WhileLoop) ExprRange() *source.Range   { return e.Loc }
func (e ForLoop) ExprRange() *source.Range     { return e.Loc }
func (e ForOfLoop) ExprRange() *source.Range   { return e.Loc }
func (e Switch) ExprRange() *source.Range      { return e.Loc }
func (e TryCatch) ExprRange() *source.Range    { return e.Loc }
func (e ObjectExpr) ExprRange() *source.Range  { return e.Loc }
func (e VarDecl) ExprRange() *source.Range     { return e.Loc }
func (e Wrapped) ExprRange() *source.Range     { return e.Loc }
func (e Quote) ExprRange() *source.Range       { return e.Loc }

// --- constructors for the common shapes ---

// MakeConst builds a constant with the given payload and type.
func MakeConst(v ConstValue, typ Type, loc *source.Range) Const {
	return Const{Typ: typ, Loc: loc, Value: v}
}

// NullOf is the explicit null of a type.
func NullOf(typ Type) Const {
	return Const{Typ: typ, Value: NullVal{}}
}

// UnitConst is the unit constant.
func UnitConst() Const {
	return Const{Typ: Unit(), Value: UnitVal{}}
}

// Str builds a string constant.
func Str(s string) Const {
	return Const{Typ: String(), Value: StringVal{Val: s}}
}

// Num builds a numeric constant.
func Num(v float64, kind NumberKind) Const {
	return Const{Typ: Number(kind), Value: NumberVal{Val: v, Kind: kind}}
}

// BoolConst builds a boolean constant.
func BoolConst(v bool) Const {
	return Const{Typ: Bool(), Value: BoolVal{Val: v}}
}

// IdentOf wraps an Ident as an expression.
func IdentOf(id Ident, loc *source.Range) IdentExpr {
	return IdentExpr{Loc: loc, Ident: id}
}

// Seq chains expressions, flattening nested Sequentials and dropping
// interior unit constants. The last expression always stays, so the
// chain keeps its type; an empty chain is the unit constant.
func Seq(exprs ...Expr) Expr {
	var flat []Expr
	for _, e := range exprs {
		if s, ok := e.(Sequential); ok {
			flat = append(flat, s.Exprs...)
		} else if e != nil {
			flat = append(flat, e)
		}
	}
	kept := make([]Expr, 0, len(flat))
	for i, e := range flat {
		if i < len(flat)-1 {
			if c, ok := e.(Const); ok {
				if _, isUnit := c.Value.(UnitVal); isUnit {
					continue
				}
			}
		}
		kept = append(kept, e)
	}
	switch len(kept) {
	case 0:
		return UnitConst()
	case 1:
		return kept[0]
	}
	return Sequential{Exprs: kept}
}

// CallOp applies an operator to its operands.
func CallOp(symbol string, class OpClass, typ Type, operands ...Expr) Apply {
	return Apply{
		Typ:    typ,
		Kind:   ApplyCall,
		Callee: OperatorRef{Symbol: symbol, Class: class},
		Args:   operands,
	}
}

// GetField reads the named property of target.
func GetField(target Expr, name string, typ Type) Apply {
	return Apply{
		Typ:    typ,
		Kind:   ApplyGet,
		Callee: target,
		Args:   []Expr{Str(name)},
	}
}

// GetIndex reads the i-th element of target.
func GetIndex(target Expr, i int, typ Type) Apply {
	return Apply{
		Typ:    typ,
		Kind:   ApplyGet,
		Callee: target,
		Args:   []Expr{Num(float64(i), Int32)},
	}
}

// GetExpr reads target at a computed key.
func GetExpr(target, key Expr, typ Type) Apply {
	return Apply{
		Typ:    typ,
		Kind:   ApplyGet,
		Callee: target,
		Args:   []Expr{key},
	}
}

// CallExpr invokes callee with args.
func CallExpr(callee Expr, typ Type, args ...Expr) Apply {
	return Apply{Typ: typ, Kind: ApplyCall, Callee: callee, Args: args}
}

// ConstructArray is the structural array literal.
func ConstructArray(elems []Expr, elem Type) Apply {
	return Apply{Typ: Array(elem), Kind: ApplyConstruct, Args: elems}
}

// ConstructTuple is the structural tuple literal.
func ConstructTuple(elems []Expr, typ Type) Apply {
	return Apply{Typ: typ, Kind: ApplyConstruct, Args: elems}
}

// Import builds an external reference expression.
func Import(selector, path string, typ Type) ImportRef {
	return ImportRef{Typ: typ, Selector: selector, Path: path}
}

// Assign writes value into target.
func Assign(target, value Expr) Set {
	return Set{Callee: target, Value: value}
}
