// Package lower translates type-checked front-end trees (fsast) into
// the uniform output IR (ir).
//
// The engine is an ordered recognizer table: each recognizer inspects
// a front-end expression, claims it or bails out, and the first claim
// wins. Ordering is semantic. Sentinel substitutions run before sugar
// collapses, sugar before general application, application before
// plain member access, and constant folding last, so that a node is
// always claimed by the most specific rewrite that applies.
//
// A Compiler instance lowers one file; process-wide caches (entity
// descriptors, inline bodies, the compiled file map) live in a shared
// State so concurrent compilers converge on the same artifacts.
package lower
