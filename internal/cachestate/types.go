// Package cachestate implements the layered cache coherence machine of
// spec.md §3/§4: the Forward and Reverse Naming Tables, the per-entry AST
// and TAST caches, the per-symbol shallow/folded-decl and linearization
// caches, the Entry Table, the Invalidation Engine, and the
// Snapshot/Quarantine protocol.
//
// It is internal because, like the teacher's internal/buffer, none of its
// types are meant to be constructed directly by callers outside this
// module — the daemon package is the only caller, through the
// InitializedState it owns.
package cachestate

import "github.com/terrorizer1980/hh-ide-daemon/respath"

// SymbolName identifies a declaration by its fully-qualified name. The
// daemon never interprets its structure; it is an opaque key handed back
// and forth across the query collaborators' pure functions (spec.md §1).
type SymbolName string

// FileInfo is the set of symbols a file defines — enough to rebuild the
// Reverse Naming Table for that file (spec.md §3).
type FileInfo struct {
	Symbols []SymbolName
}

// AST is the opaque parsed syntax tree of a single file. Its shape is
// owned by the out-of-scope parser collaborator (spec.md §1); the cache
// layer only stores and invalidates values of this type.
type AST = interface{}

// TAST is the opaque typed AST: the AST annotated with inferred types.
type TAST = interface{}

// ShallowDecl is a declaration extracted from a file without resolving
// inheritance or imports.
type ShallowDecl = interface{}

// FoldedDecl is a declaration with all inherited members resolved.
type FoldedDecl = interface{}

// Linearization is the method-resolution order of a class: an ordered
// list of the ancestor symbols a lookup should consult, nearest first.
type Linearization = []SymbolName

// Path is re-exported for convenience so that callers of this package
// need not also import respath for the common case.
type Path = respath.Path
