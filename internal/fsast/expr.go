package fsast

import "github.com/johngalambos/Fable/internal/source"

// Expr is the sealed interface over front-end expression shapes.
// Only the node types in this file implement it. Every node carries
// its static type in Typ and its source range in Loc; nodes the
// front end synthesized have a zero Loc.
type Expr interface {
	exprNode() // sealed
	// NodeType returns the static type of the expression.
	NodeType() Type
	// NodeRange returns the source range, possibly zero for
	// compiler-generated nodes.
	NodeRange() source.Range
}

// Const is a literal constant. Value holds one of: nil (unit or null),
// bool, string, rune, float64, int64, or a []int64 for bulk numeric
// array literals the front end has already collapsed.
type Const struct {
	Typ   Type
	Loc   source.Range
	Value any
}

// ValueRef is a use of a local value.
type ValueRef struct {
	Typ Type
	Loc source.Range
	Val *Val
}

// ThisRef references the current instance.
type ThisRef struct {
	Typ Type
	Loc source.Range
}

// BaseRef references the base class value inside a member body.
type BaseRef struct {
	Typ Type
	Loc source.Range
}

// DefaultVal is the zero value of the node's type.
type DefaultVal struct {
	Typ Type
	Loc source.Range
}

// Lambda is a single-parameter function literal; curried lambdas nest.
type Lambda struct {
	Typ   Type
	Loc   source.Range
	Param *Val
	Body  Expr
}

// Apply applies a function value to arguments.
type Apply struct {
	Typ  Type
	Loc  source.Range
	Fn   Expr
	Args []Expr
}

// Call invokes a known member. Obj is nil for static calls.
type Call struct {
	Typ      Type
	Loc      source.Range
	Obj      Expr
	Member   *Member
	TypeArgs []Type
	Args     []Expr
}

// TraitCall names a member by signature against one or more generic
// source types; it resolves only once those types are substituted.
type TraitCall struct {
	Typ         Type
	Loc         source.Range
	SourceTypes []Type
	MemberName  string
	IsInstance  bool
	ArgTypes    []Type
	Args        []Expr
}

// Let binds one value in Body.
type Let struct {
	Typ   Type
	Loc   source.Range
	Var   *Val
	Value Expr
	Body  Expr
}

// Binding pairs a recursive-let variable with its value.
type Binding struct {
	Var   *Val
	Value Expr
}

// LetRec binds a mutually recursive group in Body.
type LetRec struct {
	Typ      Type
	Loc      source.Range
	Bindings []Binding
	Body     Expr
}

// Sequential evaluates First for effects, then Second.
type Sequential struct {
	Typ    Type
	Loc    source.Range
	First  Expr
	Second Expr
}

// IfThenElse is the conditional expression. Else is never nil; a
// missing else branch arrives as a unit constant.
type IfThenElse struct {
	Typ  Type
	Loc  source.Range
	Cond Expr
	Then Expr
	Else Expr
}

// WhileLoop is the unbounded loop.
type WhileLoop struct {
	Typ   Type
	Loc   source.Range
	Guard Expr
	Body  Expr
}

// ForLoop is the bounded integer loop, inclusive of Finish.
type ForLoop struct {
	Typ    Type
	Loc    source.Range
	Var    *Val
	Start  Expr
	Finish Expr
	IsUp   bool
	Body   Expr
}

// TryWith is a try with a catch clause.
type TryWith struct {
	Typ       Type
	Loc       source.Range
	Body      Expr
	CatchVar  *Val
	CatchBody Expr
}

// TryFinally is a try with a finalizer. The front end represents
// try/with/finally as a TryFinally wrapping a TryWith.
type TryFinally struct {
	Typ       Type
	Loc       source.Range
	Body      Expr
	Finalizer Expr
}

// DecisionTree is the lowered form of a pattern match: a test
// expression whose leaves are Success nodes naming targets by index.
type DecisionTree struct {
	Typ      Type
	Loc      source.Range
	Decision Expr
	Targets  []DecisionTarget
}

// DecisionTarget is a match target: variables bound by the reaching
// leaf plus the target body.
type DecisionTarget struct {
	Bound []*Val
	Body  Expr
}

// Success jumps to a decision-tree target with bound values.
type Success struct {
	Typ   Type
	Loc   source.Range
	Index int
	Bound []Expr
}

// NewUnion constructs a union case; the union type is the node type.
type NewUnion struct {
	Typ  Type
	Loc  source.Range
	Case *UnionCase
	Args []Expr
}

// UnionTest checks whether Operand is the given case of its union
// type.
type UnionTest struct {
	Typ     Type
	Loc     source.Range
	Operand Expr
	Case    *UnionCase
}

// UnionGet reads one payload field of a union case.
type UnionGet struct {
	Typ     Type
	Loc     source.Range
	Operand Expr
	Case    *UnionCase
	Field   *Field
}

// NewRecord constructs a record; the record type is the node type and
// Args align with the entity's field order.
type NewRecord struct {
	Typ  Type
	Loc  source.Range
	Args []Expr
}

// FieldGet reads a record, exception or class field. Obj is nil for
// static fields.
type FieldGet struct {
	Typ   Type
	Loc   source.Range
	Obj   Expr
	Field *Field
}

// FieldSet writes a mutable field.
type FieldSet struct {
	Typ   Type
	Loc   source.Range
	Obj   Expr
	Field *Field
	Value Expr
}

// NewTuple constructs a tuple.
type NewTuple struct {
	Typ  Type
	Loc  source.Range
	Args []Expr
}

// TupleGet reads one tuple element.
type TupleGet struct {
	Typ   Type
	Loc   source.Range
	Tuple Expr
	Index int
}

// NewArray constructs an array; the element type is the node type's
// single generic argument.
type NewArray struct {
	Typ   Type
	Loc   source.Range
	Elems []Expr
}

// ObjectExpr is an anonymous object implementing a base type and/or
// interfaces with member overrides.
type ObjectExpr struct {
	Typ       Type
	Loc       source.Range
	BaseCall  Expr // optional base-constructor call
	Overrides []ObjectMember
}

// ObjectMember is one override inside an object expression.
type ObjectMember struct {
	Member *Member
	Args   []*Val
	Body   Expr
}

// TypeTest checks whether Operand is of TestType at runtime.
type TypeTest struct {
	Typ      Type
	Loc      source.Range
	Operand  Expr
	TestType Type
}

// VarSet assigns to a mutable local.
type VarSet struct {
	Typ   Type
	Loc   source.Range
	Val   *Val
	Value Expr
}

// Quote wraps an expression as code-as-data.
type Quote struct {
	Typ  Type
	Loc  source.Range
	Body Expr
}

func (Const) exprNode()        {}
func (ValueRef) exprNode()     {}
func (ThisRef) exprNode()      {}
func (BaseRef) exprNode()      {}
func (DefaultVal) exprNode()   {}
func (Lambda) exprNode()       {}
func (Apply) exprNode()        {}
func (Call) exprNode()         {}
func (TraitCall) exprNode()    {}
func (Let) exprNode()          {}
func (LetRec) exprNode()       {}
func (Sequential) exprNode()   {}
func (IfThenElse) exprNode()   {}
func (WhileLoop) exprNode()    {}
func (ForLoop) exprNode()      {}
func (TryWith) exprNode()      {}
func (TryFinally) exprNode()   {}
func (DecisionTree) exprNode() {}
func (Success) exprNode()      {}
func (NewUnion) exprNode()     {}
func (UnionTest) exprNode()    {}
func (UnionGet) exprNode()     {}
func (NewRecord) exprNode()    {}
func (FieldGet) exprNode()     {}
func (FieldSet) exprNode()     {}
func (NewTuple) exprNode()     {}
func (TupleGet) exprNode()     {}
func (NewArray) exprNode()     {}
func (ObjectExpr) exprNode()   {}
func (TypeTest) exprNode()     {}
func (VarSet) exprNode()       {}
func (Quote) exprNode()        {}

func (e Const) NodeType() Type        { return e.Typ }
func (e ValueRef) NodeType() Type     { return e.Typ }
func (e ThisRef) NodeType() Type      { return e.Typ }
func (e BaseRef) NodeType() Type      { return e.Typ }
func (e DefaultVal) NodeType() Type   { return e.Typ }
func (e Lambda) NodeType() Type       { return e.Typ }
func (e Apply) NodeType() Type        { return e.Typ }
func (e Call) NodeType() Type         { return e.Typ }
func (e TraitCall) NodeType() Type    { return e.Typ }
func (e Let) NodeType() Type          { return e.Typ }
func (e LetRec) NodeType() Type       { return e.Typ }
func (e Sequential) NodeType() Type   { return e.Typ }
func (e IfThenElse) NodeType() Type   { return e.Typ }
func (e WhileLoop) NodeType() Type    { return e.Typ }
func (e ForLoop) NodeType() Type      { return e.Typ }
func (e TryWith) NodeType() Type      { return e.Typ }
func (e TryFinally) NodeType() Type   { return e.Typ }
func (e DecisionTree) NodeType() Type { return e.Typ }
func (e Success) NodeType() Type      { return e.Typ }
func (e NewUnion) NodeType() Type     { return e.Typ }
func (e UnionTest) NodeType() Type    { return e.Typ }
func (e UnionGet) NodeType() Type     { return e.Typ }
func (e NewRecord) NodeType() Type    { return e.Typ }
func (e FieldGet) NodeType() Type     { return e.Typ }
func (e FieldSet) NodeType() Type     { return e.Typ }
func (e NewTuple) NodeType() Type     { return e.Typ }
func (e TupleGet) NodeType() Type     { return e.Typ }
func (e NewArray) NodeType() Type     { return e.Typ }
func (e ObjectExpr) NodeType() Type   { return e.Typ }
func (e TypeTest) NodeType() Type     { return e.Typ }
func (e VarSet) NodeType() Type       { return e.Typ }
func (e Quote) NodeType() Type        { return e.Typ }

func (e Const) NodeRange() source.Range        { return e.Loc }
func (e ValueRef) NodeRange() source.Range     { return e.Loc }
func (e ThisRef) NodeRange() source.Range      { return e.Loc }
func (e BaseRef) NodeRange() source.Range      { return e.Loc }
func (e DefaultVal) NodeRange() source.Range   { return e.Loc }
func (e Lambda) NodeRange() source.Range       { return e.Loc }
func (e Apply) NodeRange() source.Range        { return e.Loc }
func (e Call) NodeRange() source.Range         { return e.Loc }
func (e TraitCall) NodeRange() source.Range    { return e.Loc }
func (e Let) NodeRange() source.Range          { return e.Loc }
func (e LetRec) NodeRange() source.Range       { return e.Loc }
func (e Sequential) NodeRange() source.Range   { return e.Loc }
func (e IfThenElse) NodeRange() source.Range   { return e.Loc }
func (e WhileLoop) NodeRange() source.Range    { return e.Loc }
func (e ForLoop) NodeRange() source.Range      { return e.Loc }
func (e TryWith) NodeRange() source.Range      { return e.Loc }
func (e TryFinally) NodeRange() source.Range   { return e.Loc }
func (e DecisionTree) NodeRange() source.Range { return e.Loc }
func (e Success) NodeRange() source.Range      { return e.Loc }
func (e NewUnion) NodeRange() source.Range     { return e.Loc }
func (e UnionTest) NodeRange() source.Range    { return e.Loc }
func (e UnionGet) NodeRange() source.Range     { return e.Loc }
func (e NewRecord) NodeRange() source.Range    { return e.Loc }
func (e FieldGet) NodeRange() source.Range     { return e.Loc }
func (e FieldSet) NodeRange() source.Range     { return e.Loc }
func (e NewTuple) NodeRange() source.Range     { return e.Loc }
func (e TupleGet) NodeRange() source.Range     { return e.Loc }
func (e NewArray) NodeRange() source.Range     { return e.Loc }
func (e ObjectExpr) NodeRange() source.Range   { return e.Loc }
func (e TypeTest) NodeRange() source.Range     { return e.Loc }
func (e VarSet) NodeRange() source.Range       { return e.Loc }
func (e Quote) NodeRange() source.Range        { return e.Loc }
