package cachestate

// SymbolIndexUpdater is the out-of-scope autocomplete-ranking
// collaborator (spec.md §1/§4.1 Trigger B: "Update the symbol-index env
// with the name delta"). The Engine calls it once per processed disk
// change; it never sees entry-only mutations, since the symbol index
// tracks disk the same way the FNT/RNT do (Invariant 2).
type SymbolIndexUpdater interface {
	Update(added, removed []SymbolName) error
}

type noopSymbolIndexUpdater struct{}

func (noopSymbolIndexUpdater) Update([]SymbolName, []SymbolName) error { return nil }

// Engine applies the invalidation rules of spec.md §4.1 on every
// mutation. It is the only code in this package that updates the FNT and
// RNT or invalidates the shallow/folded/linearization caches; those caches
// are populated lazily through the Context's Put methods, which write to
// the shared Backend whenever no Quarantine overlay is active.
type Engine struct {
	ctx     *Context
	symbols SymbolIndexUpdater
}

// NewEngine builds an Engine operating against ctx's Backend. symbols may
// be nil, in which case symbol-index updates are silently dropped (used
// by tests that don't care about the autocomplete collaborator).
func NewEngine(ctx *Context, symbols SymbolIndexUpdater) *Engine {
	if symbols == nil {
		symbols = noopSymbolIndexUpdater{}
	}
	return &Engine{ctx: ctx, symbols: symbols}
}

// invalidateCrossFile clears every folded-decl, linearization, and TAST
// cache — the bulk invalidation both triggers require (Invariant 4).
// Per-entry TAST lives on the Entry itself, so it is cleared by walking
// the entry table; the shared folded/linearization caches are cleared in
// one shot.
func (e *Engine) invalidateCrossFile() {
	e.ctx.Backend.Folded().InvalidateAll()
	e.ctx.Backend.Linear().InvalidateAll()
	for _, p := range e.ctx.Entries().Paths() {
		entry, ok := e.ctx.Entries().Get(p)
		if ok {
			entry.tast, entry.tastOK = nil, false
		}
	}
}

// OpenOrEdit implements Trigger A for File_opened and for a content edit
// of an already-open entry (spec.md §4.1): it creates the entry if one
// does not exist, or overwrites its contents if it does, then invalidates
// the entry's AST, the shallow-decls it defines (per the FNT), and every
// cross-file cache.
//
// Per the "no-op re-open" edge case (spec.md §4.1, P5 of §8), if an entry
// for path already exists with contents identical to the supplied text,
// nothing is invalidated at all.
func (e *Engine) OpenOrEdit(path Path, contents string) {
	entries := e.ctx.Entries()

	_, noop := entries.put(path, contents)
	if noop {
		return
	}

	e.invalidateForEntryMutation(path)
}

// ReferenceWithContents implements the lifecycle rule (spec.md §3) that a
// query supplying inline contents for a path with no existing entry
// creates one. It behaves exactly like OpenOrEdit; it exists as a
// separate entry point only so call sites read according to which spec
// clause motivates them.
func (e *Engine) ReferenceWithContents(path Path, contents string) {
	e.OpenOrEdit(path, contents)
}

// ReferenceDiskOnly implements the edge case (spec.md §4.1) that a path
// supplied with only a path (no contents) is an instruction to read disk,
// not a content update: existing entries are left exactly as they are,
// and no invalidation occurs.
func (e *Engine) ReferenceDiskOnly(path Path) {
	// Intentionally a no-op: see doc comment.
	_ = path
}

// Close implements File_closed (spec.md §4.1/§4.3 discipline): the entry
// is removed, its AST/shallow-decls are invalidated immediately, and (per
// this daemon's Open Question decision in SPEC_FULL.md §E to invalidate
// eagerly rather than defer) folded/linearization/TAST caches are cleared
// synchronously rather than waiting for the next Quarantine call.
func (e *Engine) Close(path Path) (existed bool) {
	if !e.ctx.Entries().remove(path) {
		return false
	}
	e.invalidateForEntryMutation(path)
	return true
}

func (e *Engine) invalidateForEntryMutation(path Path) {
	// AST: handled implicitly — a fresh Entry has no cached AST, and
	// remove() drops the old Entry (and its cached AST) entirely.

	if fi, ok := e.ctx.Backend.FNT().Get(path); ok {
		e.ctx.Backend.Shallow().Invalidate(fi.Symbols)
	}

	e.invalidateCrossFile()
}

// ProcessChangedPath implements Trigger B (spec.md §4.1/§4.3): it is
// called once per backlog turn with the next path the editor reported
// changed. parse reads the file fresh from disk; a path that no longer
// exists, or is not a recognized source file, is treated as defining no
// symbols at all.
func (e *Engine) ProcessChangedPath(path Path) error {
	oldInfo, hadOldInfo := e.ctx.Backend.FNT().Get(path)

	newInfo := FileInfo{}
	if path.IsSourceFile() {
		abs := e.ctx.Resolver.Resolve(path)
		if contents, present := readDiskContents(abs); present {
			_, fi, err := e.ctx.Collab.ParseFile(path, contents)
			if err != nil {
				return err
			}
			newInfo = fi
		}
	}

	removed := diffSymbols(oldInfo.Symbols, newInfo.Symbols)
	added := diffSymbols(newInfo.Symbols, oldInfo.Symbols)

	for _, name := range removed {
		e.ctx.Backend.RNT().Undefine(name, path)
	}
	for _, name := range added {
		e.ctx.Backend.RNT().Define(name, path)
	}

	if hadOldInfo || len(newInfo.Symbols) > 0 {
		e.ctx.Backend.FNT().Set(path, newInfo)
	}

	all := append(append([]SymbolName{}, oldInfo.Symbols...), newInfo.Symbols...)
	e.ctx.Backend.Shallow().Invalidate(all)
	e.invalidateCrossFile()

	return e.symbols.Update(added, removed)
}

// diffSymbols returns the elements of a that are not in b.
func diffSymbols(a, b []SymbolName) []SymbolName {
	inB := make(map[SymbolName]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}
	var out []SymbolName
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
