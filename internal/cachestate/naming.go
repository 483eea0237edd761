package cachestate

// ForwardNamingTable maps file path to the set of symbols that file
// defines (spec.md §2, "FNT"). It reflects disk only — Invariant 2 — and
// is mutated only by the Change-Backlog Processor (spec.md §3
// Lifecycle).
type ForwardNamingTable struct {
	files map[Path]FileInfo
}

// NewForwardNamingTable returns an empty FNT.
func NewForwardNamingTable() *ForwardNamingTable {
	return &ForwardNamingTable{files: make(map[Path]FileInfo)}
}

// Get returns the FileInfo most recently recorded for p.
func (t *ForwardNamingTable) Get(p Path) (FileInfo, bool) {
	fi, ok := t.files[p]
	return fi, ok
}

// Set records fi as the FileInfo for p, replacing whatever was recorded
// before. If fi has no symbols, the entry for p is deleted instead.
func (t *ForwardNamingTable) Set(p Path, fi FileInfo) {
	if len(fi.Symbols) == 0 {
		delete(t.files, p)
		return
	}
	t.files[p] = fi
}

// Delete removes any FileInfo recorded for p.
func (t *ForwardNamingTable) Delete(p Path) {
	delete(t.files, p)
}

// Len reports how many files the FNT currently tracks, for tests and
// status reporting.
func (t *ForwardNamingTable) Len() int { return len(t.files) }

// PersistentIndex is the saved-state-derived reverse index loaded at
// initialize time (spec.md §3: "Holds a delta layered over a persistent
// index loaded from saved state"). It is owned by the savedstate
// collaborator (out of scope per spec.md §1); the RNT only ever reads it.
type PersistentIndex interface {
	// Lookup returns the file that defined name as of when the saved
	// state was produced.
	Lookup(name SymbolName) (Path, bool)
}

// emptyPersistentIndex is used when no saved state was supplied (e.g. in
// unit tests that construct a Backend directly).
type emptyPersistentIndex struct{}

func (emptyPersistentIndex) Lookup(SymbolName) (Path, bool) { return Path{}, false }

// ReverseNamingTable maps symbol name to the file that defines it
// (spec.md §2, "RNT"). It reflects disk only (Invariant 2) and is a delta
// layered over a PersistentIndex loaded from saved state: definitions
// introduced or removed by backlog processing since startup live in the
// delta; everything else falls through to the persistent index.
type ReverseNamingTable struct {
	persistent PersistentIndex
	delta      map[SymbolName]Path
	tombstones map[SymbolName]struct{}
}

// NewReverseNamingTable returns an RNT layered over persistent (which may
// be nil, in which case lookups that miss the delta simply fail).
func NewReverseNamingTable(persistent PersistentIndex) *ReverseNamingTable {
	if persistent == nil {
		persistent = emptyPersistentIndex{}
	}
	return &ReverseNamingTable{
		persistent: persistent,
		delta:      make(map[SymbolName]Path),
		tombstones: make(map[SymbolName]struct{}),
	}
}

// Lookup returns the file that currently defines name, per the RNT's
// contract (spec.md Invariant 2): callers must not invoke this for a
// symbol defined in an open entry — the Invalidation Engine routes those
// to the entry's AST instead.
func (t *ReverseNamingTable) Lookup(name SymbolName) (Path, bool) {
	if p, ok := t.delta[name]; ok {
		return p, true
	}
	if _, tombstoned := t.tombstones[name]; tombstoned {
		return Path{}, false
	}
	return t.persistent.Lookup(name)
}

// Define records that path now defines name, overwriting whatever
// previously defined it — spec.md §9: "Conflicting symbol redefinitions
// across files... RNT reflects the last writer."
func (t *ReverseNamingTable) Define(name SymbolName, path Path) {
	delete(t.tombstones, name)
	t.delta[name] = path
}

// Undefine removes whatever currently defines name, if it was path —
// passing a path is necessary because another file may have since
// clobbered the record via Define, and Trigger B (spec.md §4.1) must not
// undo a redefinition it didn't cause.
func (t *ReverseNamingTable) Undefine(name SymbolName, path Path) {
	if cur, ok := t.delta[name]; ok {
		if cur != path {
			return
		}
		delete(t.delta, name)
	}
	t.tombstones[name] = struct{}{}
}
