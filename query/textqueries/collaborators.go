package textqueries

import (
	"fmt"

	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
)

// ShallowDecl implements cachestate.Collaborators.ShallowDecl: it just
// looks up name's own declaration in the already-parsed AST of whichever
// file defines it, without following any reference to another symbol.
func ShallowDecl(name cachestate.SymbolName, fileAST cachestate.AST) (cachestate.ShallowDecl, error) {
	f, ok := fileAST.(*File)
	if !ok || f == nil {
		return nil, fmt.Errorf("textqueries: ShallowDecl given non-*File AST for %s", name)
	}
	for _, d := range f.Decls {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("textqueries: %s not found in its declaring file", name)
}

// Resolve locates whichever file currently defines name, consulting the
// entry table before the RNT per Invariant 2 (an open buffer's own
// declarations are never looked up through the RNT, and never through the
// shallow-decl cache either: an unsaved edit must always be seen fresh).
//
// Once a name is traced to a stable, on-disk-defining file through the
// RNT, the shallow declaration itself is synthesized through
// ctx.Collab.ShallowDecl and fronted by the Shallow-Decl cache
// (ctx.GetShallowDecl/PutShallowDecl), rather than scanned out of the AST
// directly on every call — the cache spec.md §2 places at 10% of the
// core's footprint, populated lazily the way this lookup does it.
func Resolve(ctx *cachestate.Context, name cachestate.SymbolName) (cachestate.Path, *File, Decl, bool) {
	for _, p := range ctx.Entries().Paths() {
		a, err := ctx.ASTForPath(p)
		if err != nil {
			continue
		}
		f, ok := a.(*File)
		if !ok {
			continue
		}
		if d, ok := findDecl(f, name); ok {
			return p, f, d, true
		}
	}

	path, ok := ctx.Backend.RNT().Lookup(name)
	if !ok {
		return cachestate.Path{}, nil, Decl{}, false
	}
	a, err := ctx.ASTForPath(path)
	if err != nil {
		return cachestate.Path{}, nil, Decl{}, false
	}
	f, ok := a.(*File)
	if !ok {
		return cachestate.Path{}, nil, Decl{}, false
	}

	if cached, ok := ctx.GetShallowDecl(name); ok {
		if d, ok := cached.(Decl); ok {
			return path, f, d, true
		}
	}
	sd, err := ctx.Collab.ShallowDecl(name, f)
	if err != nil {
		return cachestate.Path{}, nil, Decl{}, false
	}
	d, ok := sd.(Decl)
	if !ok {
		return cachestate.Path{}, nil, Decl{}, false
	}
	ctx.PutShallowDecl(name, d)
	return path, f, d, true
}

func findDecl(f *File, name cachestate.SymbolName) (Decl, bool) {
	for _, d := range f.Decls {
		if d.Name == name {
			return d, true
		}
	}
	return Decl{}, false
}

// FoldedDecl implements cachestate.Collaborators.FoldedDecl: the
// whole-program resolution of name, found by the same disk-or-entry
// lookup real folded-decl synthesis would need, cached by the caller
// keyed on the whole program per Invariant 4.
func FoldedDecl(ctx *cachestate.Context, name cachestate.SymbolName) (cachestate.FoldedDecl, error) {
	_, _, d, ok := Resolve(ctx, name)
	if !ok {
		return nil, fmt.Errorf("textqueries: %s not found anywhere in the program", name)
	}
	return d, nil
}

// Linearize implements cachestate.Collaborators.Linearize. This
// implementation has no notion of inheritance (there is no "extends" in
// the toy grammar), so a class's MRO is always just itself.
func Linearize(ctx *cachestate.Context, class cachestate.SymbolName) (cachestate.Linearization, error) {
	_, _, d, ok := Resolve(ctx, class)
	if !ok {
		return nil, fmt.Errorf("textqueries: class %s not found", class)
	}
	if d.Kind != "class" {
		return nil, fmt.Errorf("textqueries: %s is not a class", class)
	}
	return cachestate.Linearization{class}, nil
}

// classLinearization is the query-side counterpart to TypeCheck's
// folded-decl lookups: it fronts Collab.Linearize with the Linearization
// cache (ctx.GetLinearization/PutLinearization) the same way Resolve
// fronts Collab.ShallowDecl with the Shallow-Decl cache, so that
// describing a class's MRO in a query response populates the cache
// spec.md §2 reserves for it instead of leaving it invalidation-only.
func classLinearization(ctx *cachestate.Context, class cachestate.SymbolName) cachestate.Linearization {
	if l, ok := ctx.GetLinearization(class); ok {
		return l
	}
	l, err := ctx.Collab.Linearize(ctx, class)
	if err != nil {
		return cachestate.Linearization{class}
	}
	ctx.PutLinearization(class, l)
	return l
}

// TypeCheck implements cachestate.Collaborators.TypeCheck: it walks the
// parameter names of every declaration in fileAST; a name declared in the
// same file counts as resolved, and any other name is resolved against
// the whole-program view (first the folded-decl cache, falling back to
// FoldedDecl), counting how many resolved. This is the substance
// TypeCoverage reports.
func TypeCheck(ctx *cachestate.Context, path cachestate.Path, fileAST cachestate.AST) (cachestate.TAST, error) {
	f, ok := fileAST.(*File)
	if !ok || f == nil {
		return nil, fmt.Errorf("textqueries: TypeCheck given non-*File AST for %s", path)
	}

	declared := make(map[cachestate.SymbolName]struct{}, len(f.Decls))
	for _, d := range f.Decls {
		declared[d.Name] = struct{}{}
	}

	t := &Typed{File: f}
	for _, d := range f.Decls {
		for _, ref := range d.Params {
			name := cachestate.SymbolName(ref)
			if name == "" {
				continue
			}
			if _, ok := declared[name]; ok {
				t.Resolved++
				continue
			}
			if _, ok := ctx.GetFoldedDecl(name); ok {
				t.Resolved++
				continue
			}
			if _, err := FoldedDecl(ctx, name); err == nil {
				ctx.PutFoldedDecl(name, struct{}{})
				t.Resolved++
				continue
			}
			t.Unresolved++
		}
	}

	return t, nil
}

// Collaborators bundles this package's functions into the shape
// cachestate.Context expects.
var Collaborators = cachestate.Collaborators{
	ParseFile:   ParseFile,
	ShallowDecl: ShallowDecl,
	FoldedDecl:  FoldedDecl,
	Linearize:   Linearize,
	TypeCheck:   TypeCheck,
}
