package cachestate

import "os"

// Collaborators bundles the pure functions spec.md §1 places out of
// scope: parsing, shallow/folded-decl synthesis, linearization, and type
// inference. The core (Context, Engine) orchestrates calls through these
// fields the same way the teacher's commonOp orchestrates calls through a
// caller-supplied fuseutil.FileSystem — it never implements the algorithm
// itself, only the caching and invalidation discipline around it.
type Collaborators struct {
	// ParseFile parses contents into an AST and extracts the FileInfo
	// describing which symbols it defines.
	ParseFile func(path Path, contents string) (AST, FileInfo, error)

	// ShallowDecl synthesizes the shallow declaration for name given the
	// AST of whichever file currently defines it.
	ShallowDecl func(name SymbolName, fileAST AST) (ShallowDecl, error)

	// FoldedDecl resolves name's fully-inherited declaration against the
	// whole-program view visible through ctx.
	FoldedDecl func(ctx *Context, name SymbolName) (FoldedDecl, error)

	// Linearize computes the method-resolution order for class.
	Linearize func(ctx *Context, class SymbolName) (Linearization, error)

	// TypeCheck produces the typed AST for path given its (possibly
	// in-buffer) AST and the whole-program view visible through ctx.
	TypeCheck func(ctx *Context, path Path, fileAST AST) (TAST, error)
}

// readDiskContents reads the file at absPath (already resolved by the
// caller), returning ("", false) if it cannot be read. It is a small,
// concrete (not pluggable) helper rather than another Collaborators field
// because it has no interesting algorithm — Trigger B (spec.md §4.1) just
// needs bytes off disk, the same way the FNT/RNT "reflect disk" contract
// requires.
func readDiskContents(absPath string) (string, bool) {
	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", false
	}
	return string(b), true
}
