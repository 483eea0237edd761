package daemon

import (
	"github.com/jacobsa/timeutil"

	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
	"github.com/terrorizer1980/hh-ide-daemon/query"
	"github.com/terrorizer1980/hh-ide-daemon/respath"
	"github.com/terrorizer1980/hh-ide-daemon/symbolindex"
)

// State is one of the three daemon states of spec.md §4.4's table.
type State int

const (
	StateInitializing State = iota
	StateFailedToInitialize
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "Initializing"
	case StateFailedToInitialize:
		return "FailedToInitialize"
	case StateInitialized:
		return "Initialized"
	default:
		return "Unknown"
	}
}

// changedFileSet is the backlog of spec.md §3/§4.3: the set of repo paths
// the editor has reported changed on disk, awaiting Change-Backlog
// Processor turns. denominator and processed implement the {processed,
// total} progress contract of §4.3 — denominator only ever grows within a
// "round" (it is reset to 0, alongside processed, exactly when the set
// next empties).
type changedFileSet struct {
	pending     map[respath.Path]struct{}
	processed   int
	denominator int
}

func newChangedFileSet() *changedFileSet {
	return &changedFileSet{pending: make(map[respath.Path]struct{})}
}

// add enqueues path, growing the denominator — the FileChanged handler's
// sole effect on the backlog (spec.md §4.4 table: "backlog += p").
func (s *changedFileSet) add(path respath.Path) {
	if _, already := s.pending[path]; already {
		return
	}
	s.pending[path] = struct{}{}
	s.denominator++
}

// len reports how many paths remain to be processed.
func (s *changedFileSet) len() int { return len(s.pending) }

// take removes and returns an arbitrary path from the set (spec.md §4.3:
// "in an unspecified order" — this daemon's Open Question decision is
// plain Go map iteration order). ok is false if the set was already
// empty; callers read progress() and len() afterwards for the
// notification to emit.
//
// Per §4.3, processed/denominator reset to 0 exactly when the set empties
// as a result of this call, so that the next round of FileChanged
// notifications starts its own progress count from zero.
func (s *changedFileSet) take() (path respath.Path, ok bool) {
	for p := range s.pending {
		path = p
		ok = true
		break
	}
	if !ok {
		return respath.Path{}, false
	}
	delete(s.pending, path)
	s.processed++
	if len(s.pending) == 0 {
		s.processed, s.denominator = 0, 0
	}
	return path, true
}

// progress returns the {processed, total} pair to report in a Processing
// notification (spec.md §4.3).
func (s *changedFileSet) progress() (processed, total int) {
	return s.processed, s.denominator
}

// InitializedState is the state spec.md §3 describes as owned exclusively
// by the daemon once past Initialize: the materialized stdlib root, the
// FNT (via Backend), the symbol-index env, the default Context, and the
// backlog awaiting processing.
type InitializedState struct {
	Resolver    respath.Resolver
	Backend     *cachestate.Backend
	Context     *cachestate.Context
	SymbolIndex symbolindex.Env
	Backlog     *changedFileSet
	Queries     query.Queries
}

// Daemon holds everything the Loop needs across its whole lifetime: the
// current state, the failure detail if FailedToInitialize, the
// InitializedState once past Initialize, and the collaborators supplied
// at construction (clock, logger, query implementation, loaders).
type Daemon struct {
	state       State
	initErr     error
	initialized *InitializedState

	clock   timeutil.Clock
	queries query.Queries

	verbose bool
}

// NewDaemon constructs a Daemon in the Initializing state, ready to
// accept exactly one InitializeRequest (spec.md §4.4 table).
func NewDaemon(clock timeutil.Clock, queries query.Queries) *Daemon {
	return &Daemon{
		state:   StateInitializing,
		clock:   clock,
		queries: queries,
	}
}

// State returns the daemon's current state.
func (d *Daemon) State() State { return d.state }
