package cachestate

import "github.com/jacobsa/syncutil"

// Backend is the pluggable cache backend a Context reads and writes
// through (spec.md §3: "the pluggable cache backend"). It is the single
// logical owner of every cache layer; the InitializedState and any
// Context derived from it share one Backend.
//
// mu is a syncutil.InvariantMutex in the same role it plays throughout
// the teacher's sample file systems (e.g. samples/memfs's inode and
// dirent tables): spec.md §5 guarantees a single executor ever touches
// this state, so mu is never contended, but taking it around every
// mutation means a future bug that calls into the backend from a second
// goroutine panics immediately via checkInvariants instead of quietly
// corrupting a map.
type Backend struct {
	mu syncutil.InvariantMutex

	fnt      *ForwardNamingTable // GUARDED_BY(mu)
	rnt      *ReverseNamingTable // GUARDED_BY(mu)
	entries  *EntryTable         // GUARDED_BY(mu)
	shallow  *ShallowDeclCache   // GUARDED_BY(mu)
	folded   *FoldedDeclCache    // GUARDED_BY(mu)
	linear   *LinearizationCache // GUARDED_BY(mu)
}

// NewBackend constructs an empty Backend layered over persistent (the
// saved-state-derived reverse index, which may be nil).
func NewBackend(persistent PersistentIndex) *Backend {
	b := &Backend{
		fnt:     NewForwardNamingTable(),
		rnt:     NewReverseNamingTable(persistent),
		entries: NewEntryTable(),
		shallow: NewShallowDeclCache(),
		folded:  NewFoldedDeclCache(),
		linear:  NewLinearizationCache(),
	}
	b.mu = syncutil.NewInvariantMutex(b.checkInvariants)
	return b
}

func (b *Backend) checkInvariants() {
	// Nothing beyond what the Go type system already guarantees: the
	// per-layer invariants of spec.md §3 are enforced by construction
	// (each cache only ever stores what the Invalidation Engine put
	// there). This hook exists, as in the teacher's samples, so that a
	// future invariant (e.g. "every symbol in the shallow cache has a
	// defining file in the FNT or an open entry") has somewhere to live.
}

// FNT, RNT, Entries, Shallow, Folded, Linear give the Invalidation Engine
// and Quarantine protocol access to the underlying layers. They are
// exported only within this package's friends (daemon, query) via the
// Context type; Backend itself is never handed to a query implementation
// directly.
func (b *Backend) FNT() *ForwardNamingTable   { return b.fnt }
func (b *Backend) RNT() *ReverseNamingTable   { return b.rnt }
func (b *Backend) Entries() *EntryTable       { return b.entries }
func (b *Backend) Shallow() *ShallowDeclCache { return b.shallow }
func (b *Backend) Folded() *FoldedDeclCache   { return b.folded }
func (b *Backend) Linear() *LinearizationCache { return b.linear }

// Lock/Unlock expose the invariant mutex to callers that bracket a whole
// turn's worth of mutation (the daemon loop, per spec.md §5's "no query
// observes a half-applied invalidation").
func (b *Backend) Lock()   { b.mu.Lock() }
func (b *Backend) Unlock() { b.mu.Unlock() }
