package fsast

// Walk visits e and its children in preorder. Returning false from
// visit skips the node's children. Nil sub-expressions are skipped.
func Walk(e Expr, visit func(Expr) bool) {
	if e == nil || !visit(e) {
		return
	}
	switch v := e.(type) {
	case Lambda:
		Walk(v.Body, visit)
	case Apply:
		Walk(v.Fn, visit)
		walkAll(v.Args, visit)
	case Call:
		Walk(v.Obj, visit)
		walkAll(v.Args, visit)
	case TraitCall:
		walkAll(v.Args, visit)
	case Let:
		Walk(v.Value, visit)
		Walk(v.Body, visit)
	case LetRec:
		for _, b := range v.Bindings {
			Walk(b.Value, visit)
		}
		Walk(v.Body, visit)
	case Sequential:
		Walk(v.First, visit)
		Walk(v.Second, visit)
	case IfThenElse:
		Walk(v.Cond, visit)
		Walk(v.Then, visit)
		Walk(v.Else, visit)
	case WhileLoop:
		Walk(v.Guard, visit)
		Walk(v.Body, visit)
	case ForLoop:
		Walk(v.Start, visit)
		Walk(v.Finish, visit)
		Walk(v.Body, visit)
	case TryWith:
		Walk(v.Body, visit)
		Walk(v.CatchBody, visit)
	case TryFinally:
		Walk(v.Body, visit)
		Walk(v.Finalizer, visit)
	case DecisionTree:
		Walk(v.Decision, visit)
		for _, t := range v.Targets {
			Walk(t.Body, visit)
		}
	case Success:
		walkAll(v.Bound, visit)
	case NewUnion:
		walkAll(v.Args, visit)
	case UnionTest:
		Walk(v.Operand, visit)
	case UnionGet:
		Walk(v.Operand, visit)
	case NewRecord:
		walkAll(v.Args, visit)
	case FieldGet:
		Walk(v.Obj, visit)
	case FieldSet:
		Walk(v.Obj, visit)
		Walk(v.Value, visit)
	case NewTuple:
		walkAll(v.Args, visit)
	case TupleGet:
		Walk(v.Tuple, visit)
	case NewArray:
		walkAll(v.Elems, visit)
	case ObjectExpr:
		Walk(v.BaseCall, visit)
		for _, m := range v.Overrides {
			Walk(m.Body, visit)
		}
	case TypeTest:
		Walk(v.Operand, visit)
	case VarSet:
		Walk(v.Value, visit)
	case Quote:
		Walk(v.Body, visit)
	}
}

func walkAll(exprs []Expr, visit func(Expr) bool) {
	for _, e := range exprs {
		Walk(e, visit)
	}
}

// CountRefs counts uses of v inside e.
func CountRefs(e Expr, v *Val) int {
	n := 0
	Walk(e, func(node Expr) bool {
		if ref, ok := node.(ValueRef); ok && ref.Val == v {
			n++
		}
		return true
	})
	return n
}

// UsesValue reports whether e references v.
func UsesValue(e Expr, v *Val) bool {
	return CountRefs(e, v) > 0
}
