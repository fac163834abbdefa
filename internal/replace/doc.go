// Package replace recognizes calls into the source language's core
// library and rewrites them to target-native forms: operator
// applications, imports of runtime helper modules, or identity
// passthroughs.
//
// The bulk of the mapping is data, declared in builtins.cue and
// embedded at build time: one entry per (declaring module, member)
// pair. Mappings that need real logic, like intrinsic array indexing,
// register Go handlers keyed by module full name; handlers are
// consulted before the table.
package replace
