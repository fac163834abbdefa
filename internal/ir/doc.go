// Package ir defines the uniform intermediate representation the
// lowering stage produces: a tagged expression tree, declarations,
// resolved types and entities, independent of concrete output syntax.
//
// This package contains the data model only. All other internal
// packages import ir; ir imports nothing internal except source. This
// keeps IR the foundational layer with no circular dependencies.
//
// Expr is a sealed interface; only the variant structs in expr.go
// implement it. Every expression carries a resolved Type and an
// optional source range. The tree is built once by lowering and read
// by the downstream emitter; nothing here mutates after construction
// except the lazy member-list completion on Entity.
//
// The canonical text form (canonical.go) renders any IR tree as
// deterministic, NFC-normalized text. It backs golden tests, the dump
// tooling and structural fingerprints; it is not the emitter's output
// format.
package ir
