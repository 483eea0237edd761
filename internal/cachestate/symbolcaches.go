package cachestate

// ShallowDeclCache memoizes per-symbol shallow declarations (spec.md §2).
// Invariant 3: a cache entry for a symbol defined in file f depends on
// whether f has an entry, and on that entry's contents or f's disk
// contents — so the Invalidation Engine clears entries here keyed by
// symbol name whenever the defining file changes, in either direction.
type ShallowDeclCache struct {
	decls map[SymbolName]ShallowDecl
}

func NewShallowDeclCache() *ShallowDeclCache {
	return &ShallowDeclCache{decls: make(map[SymbolName]ShallowDecl)}
}

func (c *ShallowDeclCache) Get(name SymbolName) (ShallowDecl, bool) {
	d, ok := c.decls[name]
	return d, ok
}

func (c *ShallowDeclCache) Put(name SymbolName, d ShallowDecl) {
	c.decls[name] = d
}

func (c *ShallowDeclCache) Invalidate(names []SymbolName) {
	for _, n := range names {
		delete(c.decls, n)
	}
}

func (c *ShallowDeclCache) Len() int { return len(c.decls) }

// crossFileCache is the shared shape of FoldedDeclCache and
// LinearizationCache: both are invalidated in bulk (Invariant 4) because
// both depend on the shallow-decls of the whole program, not just one
// file's.
type crossFileCache[V any] struct {
	values map[SymbolName]V
}

func newCrossFileCache[V any]() crossFileCache[V] {
	return crossFileCache[V]{values: make(map[SymbolName]V)}
}

func (c *crossFileCache[V]) get(name SymbolName) (V, bool) {
	v, ok := c.values[name]
	return v, ok
}

func (c *crossFileCache[V]) put(name SymbolName, v V) {
	c.values[name] = v
}

func (c *crossFileCache[V]) invalidateAll() {
	c.values = make(map[SymbolName]V)
}

func (c *crossFileCache[V]) len() int { return len(c.values) }

// FoldedDeclCache memoizes per-symbol fully-resolved declarations
// (spec.md §2). Per Invariant 4 it depends on the set of entries, all
// their contents, and all disk contents, so it is invalidated in full by
// both Invalidation Engine triggers.
type FoldedDeclCache struct{ crossFileCache[FoldedDecl] }

func NewFoldedDeclCache() *FoldedDeclCache {
	return &FoldedDeclCache{newCrossFileCache[FoldedDecl]()}
}
func (c *FoldedDeclCache) Get(name SymbolName) (FoldedDecl, bool) { return c.get(name) }
func (c *FoldedDeclCache) Put(name SymbolName, d FoldedDecl)      { c.put(name, d) }
func (c *FoldedDeclCache) InvalidateAll()                         { c.invalidateAll() }
func (c *FoldedDeclCache) Len() int                               { return c.len() }

// LinearizationCache memoizes per-class method-resolution order
// (spec.md §2). Same invalidation contract as FoldedDeclCache.
type LinearizationCache struct{ crossFileCache[Linearization] }

func NewLinearizationCache() *LinearizationCache {
	return &LinearizationCache{newCrossFileCache[Linearization]()}
}
func (c *LinearizationCache) Get(name SymbolName) (Linearization, bool) { return c.get(name) }
func (c *LinearizationCache) Put(name SymbolName, l Linearization)      { c.put(name, l) }
func (c *LinearizationCache) InvalidateAll()                            { c.invalidateAll() }
func (c *LinearizationCache) Len() int                                  { return c.len() }
