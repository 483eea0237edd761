package cachestate

// Entry is an editor-held in-memory buffer (spec.md §3). It exists iff the
// editor currently considers the file open. Its AST and TAST are lazily
// computed and cached directly on the entry, since both depend solely on
// this entry's own contents (Invariant 1) and are invalidated together
// whenever the entry's contents change.
type Entry struct {
	Path     Path
	Contents string

	ast     AST
	astOK   bool
	tast    TAST
	tastOK  bool
}

// AST returns the cached AST and whether one is present.
func (e *Entry) AST() (AST, bool) { return e.ast, e.astOK }

// SetAST populates the cached AST.
func (e *Entry) SetAST(a AST) { e.ast, e.astOK = a, true }

// TAST returns the cached TAST and whether one is present.
func (e *Entry) TAST() (TAST, bool) { return e.tast, e.tastOK }

// SetTAST populates the cached TAST.
func (e *Entry) SetTAST(t TAST) { e.tast, e.tastOK = t, true }

// invalidateAST clears the cached AST and TAST — both depend solely on
// this entry's contents (Invariant 1), so both are cleared together
// whenever contents change.
func (e *Entry) invalidateAST() {
	e.ast, e.astOK = nil, false
	e.tast, e.tastOK = nil, false
}

// EntryTable is the set of editor-held buffers (spec.md §3, "Entry
// Table"). It is owned by a Context's backend and mutated only by the
// single executor (spec.md §5).
type EntryTable struct {
	entries map[Path]*Entry
}

// NewEntryTable returns an empty EntryTable.
func NewEntryTable() *EntryTable {
	return &EntryTable{entries: make(map[Path]*Entry)}
}

// Get returns the entry for p, if any.
func (t *EntryTable) Get(p Path) (*Entry, bool) {
	e, ok := t.entries[p]
	return e, ok
}

// Paths returns every path that currently has an entry. The order is
// unspecified.
func (t *EntryTable) Paths() []Path {
	out := make([]Path, 0, len(t.entries))
	for p := range t.entries {
		out = append(out, p)
	}
	return out
}

// Snapshot returns the set of paths currently present. Quarantine does
// not call it: it records no snapshot of the entry table.
func (t *EntryTable) Snapshot() map[Path]struct{} {
	out := make(map[Path]struct{}, len(t.entries))
	for p := range t.entries {
		out[p] = struct{}{}
	}
	return out
}

// put creates or overwrites the entry for p with the given contents,
// returning the entry and whether this was a no-op (the entry already
// existed with identical contents — spec.md §4.1's "re-opened file whose
// contents equal those of the existing entry" edge case).
func (t *EntryTable) put(p Path, contents string) (entry *Entry, noop bool) {
	if existing, ok := t.entries[p]; ok && existing.Contents == contents {
		return existing, true
	}

	e := &Entry{Path: p, Contents: contents}
	t.entries[p] = e
	return e, false
}

// remove deletes the entry for p, if any, reporting whether one existed.
func (t *EntryTable) remove(p Path) bool {
	_, ok := t.entries[p]
	delete(t.entries, p)
	return ok
}
