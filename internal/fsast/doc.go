// Package fsast is the contract with the external front end: a fully
// type-checked expression tree plus entity, member and attribute
// metadata, delivered per source file.
//
// Everything in this package is read-only input to the lowering stage.
// Nodes are matched and recursed into, never mutated. Local values
// (Val) are compared by pointer identity: the front end guarantees one
// Val per binding, so pointer equality is binding equality.
//
// The shapes here mirror what a checker for a statically typed,
// functional-first language produces: curried lambdas, let and
// recursive-let groups, decision trees with indexed success leaves,
// union/record/tuple construction and access, object expressions, and
// trait calls resolvable only through generic substitution.
package fsast
