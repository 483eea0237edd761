package daemon

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/terrorizer1980/hh-ide-daemon/errs"
	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
	"github.com/terrorizer1980/hh-ide-daemon/query"
	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

// Dispatch implements the full state table of spec.md §4.4: given the
// tag of an incoming message and its already-decoded body, it either
// returns a result (wrapped into a *Response by the caller), a
// *Notification (for the tags the table marks as notification-style), or
// a structured error. It is the single entry point the Loop calls for
// every message it reads, Initialize included.
func (d *Daemon) Dispatch(tag string, body interface{}, deps Deps) (result interface{}, notif *Notification, err error) {
	if tag == TagInitialize {
		return d.dispatchInitialize(body, deps)
	}

	// Shutdown is accepted in every state per spec.md §4.6 ("In any other
	// state, exit directly"): a daemon stuck in Initializing or that failed
	// to initialize must still be able to terminate its loop cleanly.
	if tag == TagShutdown {
		err := d.shutdown()
		return struct{}{}, nil, err
	}

	switch d.state {
	case StateFailedToInitialize:
		return nil, nil, d.initErr
	case StateInitializing:
		return nil, nil, errs.NewWrongState(d.state.String(), tag)
	}

	// d.state == StateInitialized from here on. Lock/Unlock bracket the
	// whole turn so a future bug that calls into Dispatch from a second
	// goroutine panics via checkInvariants instead of racing the Backend.
	d.initialized.Backend.Lock()
	defer d.initialized.Backend.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = errs.NewHandlerUncaught(tag, fmt.Errorf("panic: %v", r))
		}
	}()

	return d.dispatchInitialized(tag, body, deps)
}

func (d *Daemon) dispatchInitialize(body interface{}, deps Deps) (interface{}, *Notification, error) {
	req, ok := body.(*InitializeRequest)
	if !ok {
		return nil, nil, errs.NewInitUncaught(fmt.Errorf("malformed Initialize request"))
	}

	if d.state == StateInitialized {
		return nil, nil, errs.NewWrongState(d.state.String(), TagInitialize)
	}
	if d.state == StateFailedToInitialize {
		return nil, nil, d.initErr
	}

	n, err := d.initialize(*req, deps)
	if err != nil {
		return nil, nil, err
	}
	return n, nil, nil
}

func (d *Daemon) dispatchInitialized(tag string, body interface{}, deps Deps) (interface{}, *Notification, error) {
	st := d.initialized
	eng := cachestate.NewEngine(st.Context, st.SymbolIndex)

	switch tag {
	case TagVerbose:
		req := body.(*VerboseRequest)
		d.verbose = req.Enabled
		logger := deps.Logger
		if logger == nil {
			logger = logrus.StandardLogger()
		}
		if req.Enabled {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}
		return nil, &Notification{}, nil

	case TagFileChanged:
		req := body.(*FileChangedRequest)
		st.Backlog.add(respath.New(respath.RootRepo, req.Path))
		return nil, &Notification{}, nil

	case TagFileOpened:
		req := body.(*FileOpenedRequest)
		if err := ensureStubs(st.Resolver); err != nil {
			return nil, nil, errs.NewHandlerUncaught(tag, err)
		}
		eng.OpenOrEdit(respath.New(respath.RootRepo, req.Path), req.Contents)
		return struct{}{}, nil, nil

	case TagFileClosed:
		req := body.(*FileClosedRequest)
		eng.Close(respath.New(respath.RootRepo, req.Path))
		return struct{}{}, nil, nil

	case TagStatus:
		processed, total := st.Backlog.progress()
		return StatusResponse{
			State:        d.state.String(),
			BacklogTotal: total,
			BacklogDone:  processed,
			EntryCount:   len(st.Context.Entries().Paths()),
		}, nil, nil

	case TagHover:
		req := body.(*HoverRequest)
		return d.quarantinedQuery(tag, req.docLocation, func(ctx *cachestate.Context, path respath.Path, pos query.Position) (interface{}, error) {
			return st.Queries.Hover(ctx, path, pos)
		})

	case TagCompletion:
		req := body.(*CompletionRequest)
		return d.quarantinedQuery(tag, req.docLocation, func(ctx *cachestate.Context, path respath.Path, pos query.Position) (interface{}, error) {
			return st.Queries.Completion(ctx, path, pos, req.IsManuallyInvoked)
		})

	case TagCompletionResolve:
		req := body.(*CompletionResolveRequest)
		res, err := st.Queries.CompletionResolve(st.Context, req.Symbol, req.Kind)
		return res, nil, err

	case TagCompletionResolveLocation:
		req := body.(*CompletionResolveLocationRequest)
		return d.quarantinedQuery(tag, req.docLocation, func(ctx *cachestate.Context, path respath.Path, pos query.Position) (interface{}, error) {
			return st.Queries.CompletionResolveLocation(ctx, path, pos, req.Kind)
		})

	case TagDocumentHighlight:
		req := body.(*DocumentHighlightRequest)
		return d.quarantinedQuery(tag, req.docLocation, func(ctx *cachestate.Context, path respath.Path, pos query.Position) (interface{}, error) {
			return st.Queries.DocumentHighlight(ctx, path, pos)
		})

	case TagSignatureHelp:
		req := body.(*SignatureHelpRequest)
		return d.quarantinedQuery(tag, req.docLocation, func(ctx *cachestate.Context, path respath.Path, pos query.Position) (interface{}, error) {
			return st.Queries.SignatureHelp(ctx, path, pos)
		})

	case TagDefinition:
		req := body.(*DefinitionRequest)
		return d.quarantinedQuery(tag, req.docLocation, func(ctx *cachestate.Context, path respath.Path, pos query.Position) (interface{}, error) {
			return st.Queries.Definition(ctx, path, pos)
		})

	case TagTypeDefinition:
		req := body.(*TypeDefinitionRequest)
		return d.quarantinedQuery(tag, req.docLocation, func(ctx *cachestate.Context, path respath.Path, pos query.Position) (interface{}, error) {
			return st.Queries.TypeDefinition(ctx, path, pos)
		})

	case TagDocumentSymbol:
		// Not routed through Quarantine (spec.md §4.2): it reads only the
		// entry-local syntax tree, which is already isolated per entry.
		req := body.(*DocumentSymbolRequest)
		path := respath.New(respath.RootRepo, req.Path)
		if req.Contents != nil {
			if err := ensureStubs(st.Resolver); err != nil {
				return nil, nil, errs.NewHandlerUncaught(tag, err)
			}
			eng.ReferenceWithContents(path, *req.Contents)
		}
		res, err := st.Queries.DocumentSymbol(st.Context, path)
		return res, nil, err

	case TagTypeCoverage:
		req := body.(*TypeCoverageRequest)
		contents := req.Contents
		return d.quarantinedQuery(tag, docLocation{Path: req.Path, Contents: &contents}, func(ctx *cachestate.Context, path respath.Path, _ query.Position) (interface{}, error) {
			return st.Queries.TypeCoverage(ctx, path)
		})

	default:
		return nil, nil, errs.NewHandlerUncaught(tag, fmt.Errorf("unknown request tag %q", tag))
	}
}

// quarantinedQuery implements the snapshot/quarantine discipline of
// spec.md §4.2 for every request kind query.QuarantinedKinds names: if
// the request supplies inline contents, the call runs inside
// cachestate.Quarantine against them; contents omitted means "use
// whatever the real entry or disk holds," which still goes through
// Quarantine (with a nil override) so that any shallow/folded/linearization
// writes the query issues never pollute the shared caches, satisfying P2.
//
// Supplied contents are never persisted into the entry table by a query —
// that is exactly what distinguishes an unsaved-edit override from a real
// File_opened/edit (spec.md §3's lifecycle rule applies only to those).
// Stub-directory resilience (spec.md §4.7) is checked before quarantining,
// since this may be the first operation to touch a RootStdlib path.
func (d *Daemon) quarantinedQuery(tag string, loc docLocation, call func(ctx *cachestate.Context, path respath.Path, pos query.Position) (interface{}, error)) (interface{}, *Notification, error) {
	st := d.initialized
	path := respath.New(respath.RootRepo, loc.Path)
	pos := query.Position{Line: loc.Line, Col: loc.Col}

	if err := ensureStubs(st.Resolver); err != nil {
		return nil, nil, errs.NewHandlerUncaught(tag, err)
	}

	var res interface{}
	err := cachestate.Quarantine(st.Context, path, loc.Contents, func(qctx *cachestate.Context) error {
		r, callErr := call(qctx, path, pos)
		res = r
		return callErr
	})
	if err != nil {
		return nil, nil, errs.NewHandlerUncaught(tag, err)
	}
	return res, nil, nil
}
