// Package precomp persists the cross-project file map: which output
// path and root module each already-compiled source file resolved to.
// The map lives in memory while a project compiles and in a SQLite
// side artifact next to that project's build output, so dependent
// projects can import against it without re-lowering anything.
package precomp
