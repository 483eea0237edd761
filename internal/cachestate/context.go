package cachestate

import "github.com/terrorizer1980/hh-ide-daemon/respath"

// Options are the program options a Context carries (spec.md §3:
// "program options, the pluggable cache backend, and the entry table").
type Options struct {
	// UseRankedAutocomplete mirrors Initialize.use_ranked_autocomplete
	// (spec.md §6). It lives on Context because it travels with every
	// query the same way the cache backend does; neither the core nor the
	// textqueries collaborators read it.
	UseRankedAutocomplete bool

	// ShallowClassDecl mirrors spec.md §4.5 step 2 ("enable shallow-class-
	// decl mode"). Initialize sets it; neither the core nor the
	// textqueries collaborators branch on it.
	ShallowClassDecl bool
}

// Context is the read view through which a query sees the world
// (spec.md §3). It is cheap to derive and is never mutated in place —
// producing a new Context (Derive) is how callers change which options
// or overlay apply, mirroring the teacher's convention of small,
// copyable value-ish types (fuseops.OpHeader) rather than mutable shared
// state passed by pointer.
type Context struct {
	Backend  *Backend
	Collab   Collaborators
	Resolver respath.Resolver
	Options  Options

	overlay *overlay // nil outside of a Quarantine call
}

// NewContext builds the default Context for an InitializedState.
func NewContext(backend *Backend, collab Collaborators, resolver respath.Resolver, opts Options) *Context {
	return &Context{Backend: backend, Collab: collab, Resolver: resolver, Options: opts}
}

// Derive returns a shallow copy of ctx with opts substituted. The
// original is untouched.
func (ctx *Context) Derive(opts Options) *Context {
	cp := *ctx
	cp.Options = opts
	return &cp
}

// Entries returns the entry table shared with the Backend (spec.md §3
// "Ownership": "Entries are owned by the Context's entry table", which in
// turn shares the Backend's single EntryTable — there is exactly one
// per process, as spec.md §3 "Ownership" requires).
func (ctx *Context) Entries() *EntryTable { return ctx.Backend.Entries() }

// entryOrDisk returns the contents to use for path: the open entry's
// in-memory contents if one exists, otherwise path's contents on disk
// (Invariant 3). The bool result is false if neither is available.
func (ctx *Context) entryOrDisk(path Path) (contents string, fromEntry bool, ok bool) {
	if e, present := ctx.Entries().Get(path); present {
		return e.Contents, true, true
	}
	abs := ctx.Resolver.Resolve(path)
	c, present := readDiskContents(abs)
	return c, false, present
}
