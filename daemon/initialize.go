package daemon

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/terrorizer1980/hh-ide-daemon/errs"
	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
	"github.com/terrorizer1980/hh-ide-daemon/respath"
	"github.com/terrorizer1980/hh-ide-daemon/savedstate"
	"github.com/terrorizer1980/hh-ide-daemon/symbolindex"
)

// SavedStateLoader is supplied at construction and used as step 4 of
// Initialize (spec.md §4.5) whenever the request does not carry an
// explicit saved_state_path.
type SavedStateLoader interface {
	Load() (savedstate.Result, error)
}

// Deps bundles the collaborators Initialize needs that are themselves
// out of scope per spec.md §1: the stub materializer and the default
// saved-state loader.
type Deps struct {
	Materializer  respath.StubMaterializer
	DefaultLoader SavedStateLoader
	Collaborators cachestate.Collaborators
	Logger        *logrus.Logger
}

// initialize implements spec.md §4.5. On success it transitions d into
// StateInitialized and returns the number of changed files queued for
// backlog processing; on failure it transitions into
// StateFailedToInitialize and returns a structured error from the errs
// package.
func (d *Daemon) initialize(req InitializeRequest, deps Deps) (numChanged int, err error) {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	// Step 1: register the repo root, materialize stdlib stubs.
	resolver, err := respath.NewDefaultResolver(req.Root, deps.Materializer)
	if err != nil {
		return 0, d.fail(errs.NewInitUncaught(fmt.Errorf("materializing stdlib stubs: %w", err)))
	}

	// Step 4: load saved state (supplied path takes priority per §4.5).
	var result savedstate.Result
	switch {
	case req.SavedStatePath != nil:
		result, err = savedstate.LoadFromPath(*req.SavedStatePath)
	case deps.DefaultLoader != nil:
		loader := deps.DefaultLoader
		if fl, ok := loader.(*savedstate.FileLoader); ok && fl.RepoRoot == "" {
			withRoot := *fl
			withRoot.RepoRoot = req.Root
			loader = &withRoot
		}
		result, err = loader.Load()
	default:
		result = savedstate.Result{}
	}
	if err != nil {
		return 0, d.fail(errs.NewInitLoadFailure(err,
			"could not load saved state",
			"The saved-state blob could not be read or parsed. Try deleting it and restarting, or pass no saved_state_path to force a cold start."))
	}

	// Step 2: construct empty backend + default Context, shallow-class-
	// decl mode enabled.
	var persistent cachestate.PersistentIndex
	if result.Index != nil {
		persistent = result.Index
	}
	backend := cachestate.NewBackend(persistent)

	// Step 3: init symbol-index env.
	symIndex := symbolindex.NewInMemoryEnv()

	ctx := cachestate.NewContext(backend, deps.Collaborators, resolver, cachestate.Options{
		UseRankedAutocomplete: req.UseRankedAutocomplete,
		ShallowClassDecl:      true,
	})

	// Step 5: build FNT from saved state, seed the backlog with changed
	// files, set the denominator.
	if result.Index != nil {
		for path, symbols := range result.Index.ForwardIndex() {
			backend.FNT().Set(path, cachestate.FileInfo{Symbols: symbols})
		}
	}

	backlog := newChangedFileSet()
	for _, p := range result.ChangedPaths {
		backlog.add(p)
	}

	d.initialized = &InitializedState{
		Resolver:    resolver,
		Backend:     backend,
		Context:     ctx,
		SymbolIndex: symIndex,
		Backlog:     backlog,
		Queries:     d.queries,
	}

	// Step 6: transition to Initialized.
	d.state = StateInitialized
	logger.WithField("state", d.state.String()).
		WithField("changed_files", backlog.len()).
		Info("initialized")

	return backlog.len(), nil
}

// fail records err as the cause of a failed initialize and transitions d
// into StateFailedToInitialize, mirroring spec.md §4.5's "Failure at any
// step transitions into FailedToInitialize with a structured error."
func (d *Daemon) fail(err error) error {
	d.state = StateFailedToInitialize
	d.initErr = err
	return err
}

// shutdown implements spec.md §4.6: if the daemon was Initialized, the
// stub directory is removed; in every state the loop is told to exit
// after this call returns.
func (d *Daemon) shutdown() error {
	if d.state != StateInitialized || d.initialized == nil {
		return nil
	}
	return RemoveStubs(d.initialized.Resolver)
}
