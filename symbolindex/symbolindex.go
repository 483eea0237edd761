// Package symbolindex models the out-of-scope symbol index / autocomplete
// ranking service of spec.md §1: "initialized once, updated on each
// processed file change." The daemon only depends on the Env interface;
// this package's InMemoryEnv is a trivial implementation sufficient to
// exercise the core's contract with it in tests and the sample binary.
package symbolindex

import "github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"

// Env is the opaque symbol-index environment referenced by
// InitializedState.symbol_index_env (spec.md §3). The daemon never reads
// from it directly — only the query collaborators (out of scope per
// spec.md §1) do — but the core owns its lifecycle: constructed once at
// initialize time (spec.md §4.5 step 3), updated once per processed
// backlog entry (spec.md §4.1 Trigger B) through the
// cachestate.SymbolIndexUpdater view of it.
type Env interface {
	cachestate.SymbolIndexUpdater

	// Names returns every symbol name currently indexed, for status
	// reporting and tests. Order is unspecified.
	Names() []string
}

// InMemoryEnv is a minimal Env backed by a plain set plus a slice that
// keeps names in the order they were first added (oldest first); it does
// no ranking — real ranking (frequency, proximity, recency-weighted
// scoring) is exactly the kind of algorithm spec.md §1 places out of scope.
type InMemoryEnv struct {
	order []string
	known map[string]struct{}
}

// NewInMemoryEnv returns an empty Env.
func NewInMemoryEnv() *InMemoryEnv {
	return &InMemoryEnv{known: make(map[string]struct{})}
}

func (e *InMemoryEnv) Update(added, removed []cachestate.SymbolName) error {
	for _, name := range removed {
		if _, ok := e.known[string(name)]; ok {
			delete(e.known, string(name))
			e.order = removeString(e.order, string(name))
		}
	}
	for _, name := range added {
		s := string(name)
		if _, ok := e.known[s]; !ok {
			e.known[s] = struct{}{}
			e.order = append(e.order, s)
		}
	}
	return nil
}

func (e *InMemoryEnv) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

func removeString(s []string, v string) []string {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
